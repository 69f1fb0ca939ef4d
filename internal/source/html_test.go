package source

import (
	"strings"
	"testing"

	"github.com/dgallion1/outliner/internal/outline"
)

func TestHTMLExtract(t *testing.T) {
	doc := `<!DOCTYPE html>
<html>
<head><title>API Reference</title><style>h1 { color: red }</style></head>
<body>
<nav><h2>Navigation</h2></nav>
<h1>Endpoints</h1>
<p>intro</p>
<h2>Authentication</h2>
<h3>Token <em>refresh</em></h3>
<h4>ignored depth</h4>
<script>var h1 = "<h1>fake</h1>";</script>
</body>
</html>`

	var e HTMLExtractor
	res, err := e.Extract(strings.NewReader(doc), "ref.html")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	if res.Outline.Title != "API Reference" {
		t.Errorf("expected title from <title>, got %q", res.Outline.Title)
	}

	want := []outline.Entry{
		{Level: outline.H1, Text: "Endpoints", Page: 1},
		{Level: outline.H2, Text: "Authentication", Page: 1},
		{Level: outline.H3, Text: "Token refresh", Page: 1},
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

func TestHTMLExtract_NoHeadings(t *testing.T) {
	var e HTMLExtractor
	res, err := e.Extract(strings.NewReader("<p>just text</p>"), "plain.html")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(res.Outline.Outline) != 0 {
		t.Errorf("expected no entries, got %+v", res.Outline.Outline)
	}
}
