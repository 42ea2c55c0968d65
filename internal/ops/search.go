package ops

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/caplaunch/caplaunch/internal/capacities"
	"github.com/caplaunch/caplaunch/internal/feedback"
)

// Search runs a full-text search and renders the results.
func Search(ctx context.Context, deps Deps, query string) *feedback.Feedback {
	f := feedback.New()

	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinQueryChars {
		f.Add("Keep typing...", fmt.Sprintf(
			"Enter at least %d characters to search (currently: %d)",
			MinQueryChars, utf8.RuneCountInString(query)))
		return f
	}

	spaceIDs := searchSpaceIDs(ctx, deps)
	if len(spaceIDs) == 0 {
		f.Add("Error", "Could not get spaces for search")
		return f
	}

	results, err := deps.Client.Search(ctx, query, spaceIDs)
	if err != nil {
		f.AddError(err)
		return f
	}

	deps.Log.Debug().Str("query", query).Int("results", len(results)).Msg("search completed")

	if len(results) == 0 {
		f.Add("No results", fmt.Sprintf("No content found for '%s'", query))
		return f
	}

	if len(results) > MaxSearchResults {
		results = results[:MaxSearchResults]
	}
	for _, r := range results {
		f.Items = append(f.Items, resultItem(deps, r))
	}

	return f
}

// searchSpaceIDs resolves which spaces a search covers: the configured
// default space, else every space the token can list.
func searchSpaceIDs(ctx context.Context, deps Deps) []string {
	if spaceID := deps.Config.DefaultSpaceID(); spaceID != "" {
		return []string{spaceID}
	}

	spaces, err := deps.Client.Spaces(ctx)
	if err != nil {
		deps.Log.Debug().Err(err).Msg("listing spaces for search failed")
		return nil
	}

	ids := make([]string, 0, len(spaces))
	for _, s := range spaces {
		ids = append(ids, s.ID)
	}
	return ids
}

// resultItem maps one API result onto a display entry.
func resultItem(deps Deps, r capacities.SearchResult) feedback.Item {
	title := r.Title
	if title == "" {
		title = "Untitled"
	}

	// Older results carry the type in a separate field
	displayType := r.StructureID
	if displayType == "" {
		displayType = r.Type
	}
	if displayType == "" {
		displayType = "Unknown"
	}

	subtitle := "Type: " + deps.Cache.TypeName(r.SpaceID, displayType)
	if r.Snippet != "" {
		subtitle += " | " + feedback.Snippet(r.Snippet)
	}

	arg := capacities.DeepLink(r.SpaceID, r.ID, r.StructureID)
	if arg == "" {
		arg = r.WebURL
	}
	valid := arg != ""

	return feedback.Item{Title: title, Subtitle: subtitle, Arg: arg, Valid: &valid}
}
