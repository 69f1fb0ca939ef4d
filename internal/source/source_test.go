package source

import "testing"

func TestForFile(t *testing.T) {
	cases := []struct {
		filename string
		wantErr  bool
	}{
		{"doc.pdf", false},
		{"notes.md", false},
		{"notes.markdown", false},
		{"page.html", false},
		{"page.htm", false},
		{"report.docx", false},
		{"REPORT.PDF", false},
		{"archive.zip", true},
		{"noext", true},
	}
	for _, c := range cases {
		_, err := ForFile(c.filename, nil)
		if (err != nil) != c.wantErr {
			t.Errorf("ForFile(%q) err = %v, wantErr %v", c.filename, err, c.wantErr)
		}
	}
}

func TestIsSupportedExtension(t *testing.T) {
	if !IsSupportedExtension("a.PDF") {
		t.Error("extension match should be case-insensitive")
	}
	if IsSupportedExtension("a.txt") {
		t.Error("unexpected support for .txt")
	}
}

func TestDocxHeadingDepth(t *testing.T) {
	cases := []struct {
		style string
		want  int
	}{
		{"Heading1", 1},
		{"heading 2", 2},
		{"Heading3", 3},
		{"Heading5", 4},
		{"Title", 0},
		{"Normal", 0},
		{"", 0},
	}
	for _, c := range cases {
		if got := headingDepth(c.style); got != c.want {
			t.Errorf("headingDepth(%q) = %d, want %d", c.style, got, c.want)
		}
	}
}
