package capacities

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/spaces", r.URL.Path)
		w.Write([]byte(`{"spaces": [{"id": "s1", "title": "Personal"}, {"id": "s2", "title": "Work"}]}`))
	}))
	defer srv.Close()

	c := New(staticToken("tok"), WithBaseURL(srv.URL))

	spaces, err := c.Spaces(context.Background())
	require.NoError(t, err)
	require.Len(t, spaces, 2)
	assert.Equal(t, "s1", spaces[0].ID)
	assert.Equal(t, "Personal", spaces[0].Title)
}

func TestSearch(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/search", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"results": [{"id": "i1", "title": "Notes on Go", "spaceId": "s1", "structureId": "RootPage", "snippet": "some text"}]}`))
	}))
	defer srv.Close()

	c := New(staticToken("tok"), WithBaseURL(srv.URL))

	results, err := c.Search(context.Background(), "golang", []string{"s1", "s2"})
	require.NoError(t, err)

	assert.Equal(t, "golang", gotBody["searchTerm"])
	assert.Equal(t, "fullText", gotBody["mode"])
	assert.Equal(t, []any{"s1", "s2"}, gotBody["spaceIds"])

	require.Len(t, results, 1)
	assert.Equal(t, "Notes on Go", results[0].Title)
	assert.Equal(t, "RootPage", results[0].StructureID)
}

func TestSaveWeblink(t *testing.T) {
	t.Run("with title", func(t *testing.T) {
		var gotBody map[string]any
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/save-weblink", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		c := New(staticToken("tok"), WithBaseURL(srv.URL))

		err := c.SaveWeblink(context.Background(), "s1", "http://example.com", "My Title")
		require.NoError(t, err)
		assert.Equal(t, "s1", gotBody["spaceId"])
		assert.Equal(t, "http://example.com", gotBody["url"])
		assert.Equal(t, "My Title", gotBody["titleOverwrite"])
	})

	t.Run("without title", func(t *testing.T) {
		var gotBody map[string]any
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		c := New(staticToken("tok"), WithBaseURL(srv.URL))

		err := c.SaveWeblink(context.Background(), "s1", "http://example.com", "")
		require.NoError(t, err)
		_, hasTitle := gotBody["titleOverwrite"]
		assert.False(t, hasTitle, "titleOverwrite must be omitted when empty")
	})
}

func TestSaveToDailyNote(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/save-to-daily-note", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(staticToken("tok"), WithBaseURL(srv.URL))

	err := c.SaveToDailyNote(context.Background(), "s1", "remember the milk")
	require.NoError(t, err)
	assert.Equal(t, "s1", gotBody["spaceId"])
	assert.Equal(t, "remember the milk", gotBody["mdText"])
}

func TestSpaceInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/space-info", r.URL.Path)
		require.Equal(t, "s1", r.URL.Query().Get("spaceid"))
		w.Write([]byte(`{"structures": [{"id": "custom-1", "title": "Recipe"}]}`))
	}))
	defer srv.Close()

	c := New(staticToken("tok"), WithBaseURL(srv.URL))

	info, err := c.SpaceInfo(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, info.Structures, 1)
	assert.Equal(t, "Recipe", info.Structures[0].Title)
}
