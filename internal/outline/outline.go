// Package outline defines the result type produced for every document:
// a title plus an ordered list of headings tagged with level and page.
package outline

import "fmt"

// Level is a heading hierarchy level.
type Level string

const (
	H1 Level = "H1"
	H2 Level = "H2"
	H3 Level = "H3"
)

// Valid reports whether l is one of the three emitted levels.
func (l Level) Valid() bool {
	return l == H1 || l == H2 || l == H3
}

// Depth returns 1 for H1, 2 for H2, 3 for H3 and 0 for anything else.
func (l Level) Depth() int {
	switch l {
	case H1:
		return 1
	case H2:
		return 2
	case H3:
		return 3
	}
	return 0
}

// LevelForDepth maps a nesting depth (1-based) to a Level. Depths beyond 3
// are not representable and return ""; callers drop those entries.
func LevelForDepth(depth int) Level {
	switch depth {
	case 1:
		return H1
	case 2:
		return H2
	case 3:
		return H3
	}
	return ""
}

// Entry is one heading in the outline.
type Entry struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
	Page  int    `json:"page"`
}

// Outline is the final structure for one document. Entries are in document
// reading order: non-decreasing page, and non-decreasing vertical position
// within a page. The title may be empty when no plausible candidate exists.
type Outline struct {
	Title   string  `json:"title"`
	Outline []Entry `json:"outline"`
}

// Empty returns a valid outline with no title and no headings. The Outline
// slice is non-nil so it marshals as [] rather than null.
func Empty() Outline {
	return Outline{Outline: []Entry{}}
}

// Validate checks the schema invariants: every entry has a valid level,
// non-empty text and a 1-based page number.
func (o Outline) Validate() error {
	if o.Outline == nil {
		return fmt.Errorf("outline slice is nil")
	}
	for i, e := range o.Outline {
		if !e.Level.Valid() {
			return fmt.Errorf("entry %d: invalid level %q", i, e.Level)
		}
		if e.Text == "" {
			return fmt.Errorf("entry %d: empty text", i)
		}
		if e.Page < 1 {
			return fmt.Errorf("entry %d: page %d is not 1-based", i, e.Page)
		}
	}
	return nil
}
