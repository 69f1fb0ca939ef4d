package source

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/outliner/internal/outline"
	"golang.org/x/net/html"
)

// HTMLExtractor maps h1-h3 tags to outline entries and the <title> tag to
// the document title. Like markdown, HTML has no pages; entries report
// page 1.
type HTMLExtractor struct{}

func (e *HTMLExtractor) Extract(r io.Reader, filename string) (Result, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return Result{}, fmt.Errorf("parse html: %w", err)
	}

	out := outline.Empty()
	out.Title = findTitle(doc)

	root := findBody(doc)
	if root == nil {
		root = doc
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "nav":
				return
			case "h1", "h2", "h3":
				if t := textContent(n); t != "" {
					out.Outline = append(out.Outline, outline.Entry{
						Level: outline.LevelForDepth(int(n.Data[1] - '0')),
						Text:  t,
						Page:  1,
					})
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return Result{Outline: out, Script: "latin", Pages: 1}, nil
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.Join(strings.Fields(buf.String()), " ")
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
