package ops

import (
	"context"
	"strings"

	"github.com/caplaunch/caplaunch/internal/command"
	"github.com/caplaunch/caplaunch/internal/feedback"
)

// notePreviewChars caps the preview text shown before confirmation.
const notePreviewChars = 100

// PrepareNote renders the preview entry for appending to the daily note.
func PrepareNote(deps Deps, args []string) *feedback.Feedback {
	f := feedback.New()

	if len(args) == 0 {
		f.Add("Add to Daily Note", "Format: capn <text> - Press Enter to save")
		return f
	}

	text := strings.Join(args, " ")

	token, err := command.EncodeNote(text)
	if err != nil {
		f.Add("Empty Note", "Please enter some text for the note")
		return f
	}

	preview := feedback.TruncateSnippet(text, notePreviewChars)
	f.AddAction("Add to Daily Note", "Text: "+preview+" - Press Enter to save", token, true)
	return f
}

// ExecuteNote performs the confirmed append. With no default space
// configured, the first listed space is used.
func ExecuteNote(ctx context.Context, deps Deps, text string) *feedback.Feedback {
	f := feedback.New()

	spaceID := executionSpaceID(ctx, deps, f)
	if spaceID == "" {
		return f
	}

	if err := deps.Client.SaveToDailyNote(ctx, spaceID, text); err != nil {
		f.AddError(err)
		return f
	}

	deps.Log.Debug().Str("space_id", spaceID).Int("chars", len(text)).Msg("daily note appended")

	f.Add("Added to daily note", "Successfully added text to today's daily note")
	return f
}
