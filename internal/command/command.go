// Package command implements the two-phase preview/confirm protocol. A
// destructive action (save weblink, append note) is first encoded into a
// single opaque token the launcher hands back on confirmation; only the
// decoded token triggers the API call.
package command

import (
	"regexp"
	"strings"

	"github.com/caplaunch/caplaunch/internal/errors"
)

// Token prefixes and the deep-link scheme. These are observable launcher
// behavior and must not change.
const (
	SaveTokenPrefix = "save_execute:"
	NoteTokenPrefix = "note_execute:"
	DeepLinkScheme  = "capacities://"
)

var urlPattern = regexp.MustCompile(`^https?://`)

// Input classifies a raw launcher command line.
type Input string

const (
	InputDeepLink    Input = "deep_link"    // capacities:// URI, passed through
	InputToken       Input = "token"        // confirmed pending action
	InputSavePreview Input = "save_preview" // "caps <url> [title]"
	InputNotePreview Input = "note_preview" // "capn <text>"
	InputQuery       Input = "query"        // everything else is a search
)

// Classify maps a raw command line onto the dispatch paths. Tokens and deep
// links are matched on the full, unsplit input; preview commands on the
// lowercased first word.
func Classify(raw string) Input {
	switch {
	case strings.HasPrefix(raw, DeepLinkScheme):
		return InputDeepLink
	case IsToken(raw):
		return InputToken
	}

	first, _, _ := strings.Cut(strings.TrimSpace(raw), " ")
	switch strings.ToLower(first) {
	case "caps":
		return InputSavePreview
	case "capn":
		return InputNotePreview
	}

	return InputQuery
}

// Kind classifies a decoded pending action.
type Kind string

const (
	KindSaveWeblink Kind = "save_weblink"
	KindNote        Kind = "note"
)

// Action is a decoded pending action, consumed exactly once on confirmation.
type Action struct {
	Kind  Kind
	URL   string // save_weblink
	Title string // save_weblink, optional
	Text  string // note
}

// EncodeSaveWeblink produces a save-weblink token. The URL must carry an
// http(s) prefix; the title may be empty.
//
// Colons inside the title are escaped so the decoder's last-colon split
// always lands on the URL/title boundary. URLs stay raw: the title is the
// last field, so escaping one side is enough for a lossless round trip.
func EncodeSaveWeblink(url, title string) (string, error) {
	if !urlPattern.MatchString(url) {
		return "", errors.NewValidation("Please provide a valid HTTP/HTTPS URL")
	}
	return SaveTokenPrefix + url + ":" + escapeTitle(title), nil
}

// EncodeNote produces an append-to-daily-note token. The text must be
// non-empty after trimming.
func EncodeNote(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", errors.NewValidation("Please enter some text for the note")
	}
	return NoteTokenPrefix + text, nil
}

// IsToken reports whether raw is a pending-action token. The prefix check is
// case-insensitive to match launcher behavior; the payload keeps its casing.
func IsToken(raw string) bool {
	lower := strings.ToLower(raw)
	return strings.HasPrefix(lower, SaveTokenPrefix) || strings.HasPrefix(lower, NoteTokenPrefix)
}

// Decode parses a pending-action token back into an Action.
//
// The save-weblink payload is `<url>:<title>`, and URLs contain colons of
// their own, so the URL/title boundary is the LAST colon that appears after
// the protocol separator, never the first.
func Decode(raw string) (*Action, error) {
	lower := strings.ToLower(raw)

	switch {
	case strings.HasPrefix(lower, SaveTokenPrefix):
		return decodeSave(raw[len(SaveTokenPrefix):]), nil

	case strings.HasPrefix(lower, NoteTokenPrefix):
		return &Action{Kind: KindNote, Text: raw[len(NoteTokenPrefix):]}, nil
	}

	return nil, errors.NewValidation("unrecognized action token")
}

func decodeSave(content string) *Action {
	action := &Action{Kind: KindSaveWeblink, URL: content}

	colonPos := strings.LastIndex(content, ":")
	if colonPos < 0 {
		return action
	}

	// Guard against treating the protocol colon as the field separator when
	// the token has no title.
	protocolEnd := strings.Index(content, "://") + 3
	if colonPos > protocolEnd {
		action.URL = content[:colonPos]
		action.Title = unescapeTitle(content[colonPos+1:])
	}

	return action
}

// escapeTitle hides colons (and the escape character itself) from the token's
// field-separator parsing. Replacement order matters; unescapeTitle reverses it.
func escapeTitle(title string) string {
	title = strings.ReplaceAll(title, "%", "%25")
	return strings.ReplaceAll(title, ":", "%3A")
}

func unescapeTitle(title string) string {
	title = strings.ReplaceAll(title, "%3A", ":")
	return strings.ReplaceAll(title, "%25", "%")
}
