package source

import (
	"bytes"
	"io"

	"github.com/dgallion1/outliner/internal/outline"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownExtractor reads heading structure straight from the markdown AST.
// A leading level-1 heading becomes the document title; the remaining
// headings of level 1-3 form the outline. Markdown has no pages, so every
// entry reports page 1.
type MarkdownExtractor struct{}

func (e *MarkdownExtractor) Extract(r io.Reader, filename string) (Result, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return Result{}, err
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	out := outline.Empty()
	first := true
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*ast.Heading)
		if !ok {
			continue
		}
		title := string(headingText(h, src))
		if title == "" {
			continue
		}
		if first && h.Level == 1 && out.Title == "" {
			out.Title = title
			first = false
			continue
		}
		first = false
		if lvl := outline.LevelForDepth(h.Level); lvl.Valid() {
			out.Outline = append(out.Outline, outline.Entry{
				Level: lvl,
				Text:  title,
				Page:  1,
			})
		}
	}

	return Result{Outline: out, Script: "latin", Pages: 1}, nil
}

// headingText collects the inline text of a heading node.
func headingText(n ast.Node, src []byte) []byte {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
		} else {
			buf.Write(headingText(c, src))
		}
	}
	return bytes.TrimSpace(buf.Bytes())
}
