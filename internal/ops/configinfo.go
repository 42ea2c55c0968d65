package ops

import (
	"github.com/caplaunch/caplaunch/internal/feedback"
)

// ConfigInfo reports the configuration state without revealing the token.
// storePath names where persisted settings live.
func ConfigInfo(deps Deps, storePath string) *feedback.Feedback {
	f := feedback.New()

	if deps.Config.APIToken() != "" {
		f.Add("API token: configured", "Resolved from the environment or persisted settings")
	} else {
		f.Add("API token: not set",
			"Set the api_token environment variable, or store it under the api_token settings key")
	}

	if spaceID := deps.Config.DefaultSpaceID(); spaceID != "" {
		f.Add("Default space: "+spaceID, "Searches and saves target this space")
	} else {
		f.Add("Default space: not set",
			"Searches cover all spaces; saves use the first listed space. Set default_space_id to pin one.")
	}

	f.Add("Settings store", storePath)
	return f
}
