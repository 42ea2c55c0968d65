package ops

import "github.com/caplaunch/caplaunch/internal/feedback"

// Help lists the available launcher commands.
func Help() *feedback.Feedback {
	f := feedback.New()

	commands := []struct {
		command, description string
	}{
		{"cap <query>", "Search content (3+ chars, auto-delayed)"},
		{"caps <url> [title]", "Save weblink (press Enter to confirm)"},
		{"capn <text>", "Add to daily note (press Enter to confirm)"},
		{"caplaunch config", "Show configuration status and instructions"},
	}

	for _, c := range commands {
		f.Add(c.command, c.description)
	}
	return f
}
