package feedback

import (
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MaxSnippetChars is the hard cap on the snippet portion of a subtitle.
const MaxSnippetChars = 80

// Snippet flattens markdown to plain text and truncates it for subtitle use.
func Snippet(md string) string {
	return TruncateSnippet(FlattenMarkdown(md), MaxSnippetChars)
}

// TruncateSnippet truncates s to maxChars, appending "..." when content was
// dropped. Never splits a multi-byte rune.
func TruncateSnippet(s string, maxChars int) string {
	if maxChars <= 0 {
		return "..."
	}
	if len(s) <= maxChars {
		return s
	}

	// Find a safe truncation point that doesn't split UTF-8 runes
	truncateAt := maxChars
	for truncateAt > 0 && !utf8.RuneStart(s[truncateAt]) {
		truncateAt--
	}
	if truncateAt == 0 {
		return "..."
	}

	return s[:truncateAt] + "..."
}

// FlattenMarkdown strips markdown structure from a snippet, keeping only the
// text content. Result snippets come back from the API with markdown in them,
// which reads poorly in a one-line subtitle.
func FlattenMarkdown(md string) string {
	if md == "" {
		return ""
	}

	source := []byte(md)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var sb strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			// Keep block boundaries from gluing words together
			if n.Type() == ast.TypeBlock {
				sb.WriteByte(' ')
			}
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Text:
			sb.Write(node.Segment.Value(source))
			if node.SoftLineBreak() || node.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.AutoLink:
			sb.Write(node.URL(source))
		}
		return ast.WalkContinue, nil
	})

	return strings.Join(strings.Fields(sb.String()), " ")
}
