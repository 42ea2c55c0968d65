// Package ops implements the launcher operations. Each operation takes its
// collaborators through Deps, builds a feedback list, and never returns an
// error: every failure becomes a display entry.
package ops

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/caplaunch/caplaunch/internal/capacities"
	"github.com/caplaunch/caplaunch/internal/config"
	"github.com/caplaunch/caplaunch/internal/feedback"
	"github.com/caplaunch/caplaunch/internal/spaceinfo"
)

// MaxSearchResults caps how many entries a search renders.
const MaxSearchResults = 20

// MinQueryChars is the short-input guard: queries below this length render a
// hint instead of calling the API.
const MinQueryChars = 3

// Deps bundles the collaborators shared by all operations.
type Deps struct {
	Config *config.Resolver
	Client *capacities.Client
	Cache  *spaceinfo.Cache
	Log    zerolog.Logger
}

// executionSpaceID resolves the space a confirmed action writes into: the
// configured default space id, else the first space the token can list.
// When no space can be resolved, the returned feedback carries the error
// entry and spaceID is "".
func executionSpaceID(ctx context.Context, deps Deps, f *feedback.Feedback) string {
	if spaceID := deps.Config.DefaultSpaceID(); spaceID != "" {
		return spaceID
	}

	spaces, err := deps.Client.Spaces(ctx)
	if err != nil {
		f.AddError(err)
		return ""
	}
	if len(spaces) == 0 {
		f.Add("Error", "No spaces found")
		return ""
	}
	return spaces[0].ID
}
