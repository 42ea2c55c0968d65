package capacities

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// Space is one entry from GET /spaces.
type Space struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// SearchResult is one hit from POST /search.
type SearchResult struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	SpaceID     string `json:"spaceId"`
	SpaceName   string `json:"spaceName"`
	StructureID string `json:"structureId"`
	Type        string `json:"type"` // older results carry the type here instead of structureId
	Snippet     string `json:"snippet"`
	WebURL      string `json:"webUrl"`
}

// Structure is one object-type definition from GET /space-info.
type Structure struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// SpaceInfo is the metadata payload for a space.
type SpaceInfo struct {
	Structures []Structure `json:"structures"`
}

// Spaces lists the spaces the token can access.
func (c *Client) Spaces(ctx context.Context) ([]Space, error) {
	result, err := c.Request(ctx, http.MethodGet, "/spaces", nil)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Spaces []Space `json:"spaces"`
	}
	if err := reparse(result, &parsed); err != nil {
		return nil, err
	}
	return parsed.Spaces, nil
}

// Search runs a full-text search across the given spaces.
func (c *Client) Search(ctx context.Context, term string, spaceIDs []string) ([]SearchResult, error) {
	body := map[string]any{
		"searchTerm": term,
		"spaceIds":   spaceIDs,
		"mode":       "fullText",
	}

	result, err := c.Request(ctx, http.MethodPost, "/search", body)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Results []SearchResult `json:"results"`
	}
	if err := reparse(result, &parsed); err != nil {
		return nil, err
	}
	return parsed.Results, nil
}

// SaveWeblink saves a URL into the given space. titleOverwrite is optional.
func (c *Client) SaveWeblink(ctx context.Context, spaceID, linkURL, titleOverwrite string) error {
	body := map[string]any{
		"spaceId": spaceID,
		"url":     linkURL,
	}
	if titleOverwrite != "" {
		body["titleOverwrite"] = titleOverwrite
	}

	_, err := c.Request(ctx, http.MethodPost, "/save-weblink", body)
	return err
}

// SaveToDailyNote appends markdown text to today's daily note in the space.
func (c *Client) SaveToDailyNote(ctx context.Context, spaceID, mdText string) error {
	body := map[string]any{
		"spaceId": spaceID,
		"mdText":  mdText,
	}

	_, err := c.Request(ctx, http.MethodPost, "/save-to-daily-note", body)
	return err
}

// SpaceInfo fetches the structure definitions for a space.
func (c *Client) SpaceInfo(ctx context.Context, spaceID string) (*SpaceInfo, error) {
	endpoint := "/space-info?spaceid=" + url.QueryEscape(spaceID)

	result, err := c.Request(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var parsed SpaceInfo
	if err := reparse(result, &parsed); err != nil {
		return nil, err
	}
	return &parsed, nil
}

// DeepLink builds a capacities:// URI opening the item directly in the app.
// Returns "" when the ids needed to address the item are missing.
func DeepLink(spaceID, itemID, structureID string) string {
	if spaceID == "" || itemID == "" {
		return ""
	}
	link := "capacities://" + spaceID + "/" + itemID
	if structureID != "" {
		link += "?bid=" + structureID
	}
	return link
}

// reparse converts the generic Request payload into a typed struct. The
// round trip through json is fine at these payload sizes.
func reparse(raw map[string]any, v any) error {
	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
