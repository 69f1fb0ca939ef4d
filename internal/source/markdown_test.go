package source

import (
	"strings"
	"testing"

	"github.com/dgallion1/outliner/internal/outline"
)

func TestMarkdownExtract(t *testing.T) {
	doc := `# User Guide

Intro paragraph.

## Getting Started

Text.

### Installation

More text.

#### Too Deep

## Usage
`
	var e MarkdownExtractor
	res, err := e.Extract(strings.NewReader(doc), "guide.md")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	if res.Outline.Title != "User Guide" {
		t.Errorf("expected title %q, got %q", "User Guide", res.Outline.Title)
	}

	want := []outline.Entry{
		{Level: outline.H2, Text: "Getting Started", Page: 1},
		{Level: outline.H3, Text: "Installation", Page: 1},
		{Level: outline.H2, Text: "Usage", Page: 1},
	}
	if len(res.Outline.Outline) != len(want) {
		t.Fatalf("expected %d entries, got %+v", len(want), res.Outline.Outline)
	}
	for i, w := range want {
		if res.Outline.Outline[i] != w {
			t.Errorf("entry %d = %+v, want %+v", i, res.Outline.Outline[i], w)
		}
	}
}

func TestMarkdownExtract_NoLeadingH1(t *testing.T) {
	doc := "## Section One\n\ntext\n\n# Late Top Heading\n"
	var e MarkdownExtractor
	res, err := e.Extract(strings.NewReader(doc), "notes.md")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if res.Outline.Title != "" {
		t.Errorf("expected no title, got %q", res.Outline.Title)
	}
	if len(res.Outline.Outline) != 2 {
		t.Fatalf("expected 2 entries, got %+v", res.Outline.Outline)
	}
	if res.Outline.Outline[1].Level != outline.H1 {
		t.Errorf("expected the late top heading as H1, got %+v", res.Outline.Outline[1])
	}
}

func TestMarkdownExtract_Empty(t *testing.T) {
	var e MarkdownExtractor
	res, err := e.Extract(strings.NewReader(""), "empty.md")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if res.Outline.Title != "" || len(res.Outline.Outline) != 0 {
		t.Errorf("expected empty outline, got %+v", res.Outline)
	}
	if res.Outline.Outline == nil {
		t.Error("expected non-nil outline slice")
	}
}
