package ops

import (
	"context"
	"fmt"
	"strings"

	"github.com/caplaunch/caplaunch/internal/command"
	"github.com/caplaunch/caplaunch/internal/feedback"
)

// PrepareSaveWeblink renders the preview entry for a save-weblink action.
// The entry's arg is the encoded pending-action token; invalid input renders
// corrective guidance instead, so no confirmation is possible.
func PrepareSaveWeblink(deps Deps, args []string) *feedback.Feedback {
	f := feedback.New()

	if len(args) == 0 {
		f.Add("Save Weblink", "Format: caps <url> [title] - Press Enter to save")
		return f
	}

	url := args[0]
	title := strings.Join(args[1:], " ")

	token, err := command.EncodeSaveWeblink(url, title)
	if err != nil {
		f.Add("Invalid URL", "Please provide a valid HTTP/HTTPS URL")
		return f
	}

	subtitle := "URL: " + url
	if title != "" {
		subtitle += " | Title: " + title
	}
	subtitle += " - Press Enter to save"

	f.AddAction("Save to Capacities", subtitle, token, true)
	return f
}

// ExecuteSaveWeblink performs the confirmed save. With no default space
// configured, the first listed space is used.
func ExecuteSaveWeblink(ctx context.Context, deps Deps, url, title string) *feedback.Feedback {
	f := feedback.New()

	spaceID := executionSpaceID(ctx, deps, f)
	if spaceID == "" {
		return f
	}

	if err := deps.Client.SaveWeblink(ctx, spaceID, url, title); err != nil {
		f.AddError(err)
		return f
	}

	deps.Log.Debug().Str("space_id", spaceID).Str("url", url).Msg("weblink saved")

	f.Add("Weblink saved", fmt.Sprintf("Successfully saved %s to Capacities", url))
	return f
}
