// Package feedback builds the display entries handed back to the launcher's
// rendering surface, serialized as script-filter JSON on stdout.
package feedback

import (
	"encoding/json"
	"io"
)

// Item is one launcher result row.
type Item struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	Arg      string `json:"arg,omitempty"`
	Valid    *bool  `json:"valid,omitempty"`
}

// Feedback accumulates items for a single invocation.
type Feedback struct {
	Items []Item `json:"items"`
}

// New creates an empty Feedback.
func New() *Feedback {
	return &Feedback{Items: []Item{}}
}

// Add appends a plain, non-actionable entry (title and subtitle only).
func (f *Feedback) Add(title, subtitle string) {
	f.Items = append(f.Items, Item{Title: title, Subtitle: subtitle})
}

// AddAction appends an actionable entry carrying an arg for the launcher.
func (f *Feedback) AddAction(title, subtitle, arg string, valid bool) {
	f.Items = append(f.Items, Item{Title: title, Subtitle: subtitle, Arg: arg, Valid: &valid})
}

// AddError appends a single error entry. Errors render as entries, never as
// process failures.
func (f *Feedback) AddError(err error) {
	f.Items = append(f.Items, Item{Title: "Error", Subtitle: err.Error()})
}

// Send writes the feedback JSON to w.
func (f *Feedback) Send(w io.Writer) error {
	enc := json.NewEncoder(w)
	return enc.Encode(f)
}
