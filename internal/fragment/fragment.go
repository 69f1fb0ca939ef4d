// Package fragment defines the positioned-text data model consumed by the
// classification engine, and the PDF source that produces it.
//
// Coordinates are top-left origin: Y0 is the top edge of a fragment's box and
// grows downward, so sorting by (Page, Y0) gives reading order directly.
package fragment

import "strings"

// TextFragment is one contiguous run of text with uniform font metadata.
// Fragments are immutable once produced and are never shared across
// documents.
type TextFragment struct {
	Page     int     // 1-based source page
	Text     string  // raw run text
	FontSize float64 // point units
	FontName string

	Bold   bool
	Italic bool

	// Bounding box in top-left-origin page coordinates.
	X0, Y0, X1, Y1 float64

	PageWidth  float64
	PageHeight float64

	// FirstOnPage marks the first fragment in reading order on its page.
	FirstOnPage bool
}

// Width returns the horizontal extent of the fragment.
func (f TextFragment) Width() float64 { return f.X1 - f.X0 }

// PageInfo records the geometry of one source page.
type PageInfo struct {
	Number int
	Width  float64
	Height float64
}

// Document is the full ordered fragment set for one source document.
// FailedPages counts pages whose extraction failed; the remaining pages are
// still present, per the partial-result contract.
type Document struct {
	Pages       []PageInfo
	Fragments   []TextFragment
	FailedPages int
}

// PageCount returns the number of pages the source reported.
func (d *Document) PageCount() int { return len(d.Pages) }

// HasBoldFont reports whether a font name indicates a bold face.
func HasBoldFont(name string) bool {
	n := strings.ToLower(name)
	return strings.Contains(n, "bold") ||
		strings.Contains(n, "black") ||
		strings.Contains(n, "heavy") ||
		strings.Contains(n, "semibold") ||
		strings.Contains(n, "demibold")
}

// HasItalicFont reports whether a font name indicates an italic face.
func HasItalicFont(name string) bool {
	n := strings.ToLower(name)
	return strings.Contains(n, "italic") || strings.Contains(n, "oblique")
}
