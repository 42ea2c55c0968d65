package feedback

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

func TestFeedback_Send(t *testing.T) {
	f := New()
	f.Add("Keep typing...", "Enter at least 3 characters")
	f.AddAction("Notes on Go", "Type: Page", "capacities://s1/i1", true)
	f.AddError(fmt.Errorf("API request failed: boom (Status: 500)"))

	var buf bytes.Buffer
	if err := f.Send(&buf); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	var decoded struct {
		Items []struct {
			Title    string `json:"title"`
			Subtitle string `json:"subtitle"`
			Arg      string `json:"arg"`
			Valid    *bool  `json:"valid"`
		} `json:"items"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if len(decoded.Items) != 3 {
		t.Fatalf("len(items) = %d, want 3", len(decoded.Items))
	}
	if decoded.Items[0].Valid != nil {
		t.Error("plain entry should omit valid flag")
	}
	if decoded.Items[1].Arg != "capacities://s1/i1" {
		t.Errorf("arg = %q", decoded.Items[1].Arg)
	}
	if decoded.Items[1].Valid == nil || !*decoded.Items[1].Valid {
		t.Error("action entry should carry valid=true")
	}
	if decoded.Items[2].Title != "Error" {
		t.Errorf("error title = %q, want %q", decoded.Items[2].Title, "Error")
	}
}

func TestFeedback_EmptyItemsSerializesAsArray(t *testing.T) {
	var buf bytes.Buffer
	if err := New().Send(&buf); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if !strings.Contains(buf.String(), `"items":[]`) {
		t.Errorf("output = %q, want empty items array, not null", buf.String())
	}
}

func TestTruncateSnippet(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		maxChars int
		want     string
	}{
		{"short stays", "hello", 80, "hello"},
		{"exact length stays", strings.Repeat("a", 80), 80, strings.Repeat("a", 80)},
		{"long is capped", strings.Repeat("a", 100), 80, strings.Repeat("a", 80) + "..."},
		{"zero max", "hello", 0, "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateSnippet(tt.in, tt.maxChars); got != tt.want {
				t.Errorf("TruncateSnippet = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTruncateSnippet_NeverSplitsRunes(t *testing.T) {
	// 3-byte runes; a cap of 80 lands mid-rune
	s := strings.Repeat("日", 40)
	got := TruncateSnippet(s, 80)

	trimmed := strings.TrimSuffix(got, "...")
	if len(trimmed) == len(got) {
		t.Fatal("expected truncation")
	}
	for _, r := range trimmed {
		if r == '�' {
			t.Fatal("truncation split a multi-byte rune")
		}
	}
	if len(trimmed) != 78 { // 26 complete runes
		t.Errorf("truncated length = %d, want 78", len(trimmed))
	}
}

func TestFlattenMarkdown(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "just text", "just text"},
		{"emphasis", "some **bold** and *italic* text", "some bold and italic text"},
		{"heading", "# A Heading\nbody", "A Heading body"},
		{"list", "- one\n- two", "one two"},
		{"link keeps text", "[Capacities](https://capacities.io)", "Capacities"},
		{"code span", "run `go test` now", "run go test now"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FlattenMarkdown(tt.in); got != tt.want {
				t.Errorf("FlattenMarkdown(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
