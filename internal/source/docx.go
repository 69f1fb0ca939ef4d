package source

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dgallion1/outliner/internal/outline"
	"github.com/fumiama/go-docx"
)

// DOCXExtractor maps Word heading styles onto outline levels: the "Title"
// style (or the first Heading1) becomes the document title, Heading1-3
// become H1-H3. Deeper heading styles are dropped. Word documents carry no
// fixed pagination in the XML, so entries report page 1.
type DOCXExtractor struct{}

func (e *DOCXExtractor) Extract(r io.Reader, filename string) (Result, error) {
	// go-docx needs a ReadSeeker with a known size, so spool to a temp file.
	tmp, err := os.CreateTemp("", "outliner-docx-*.docx")
	if err != nil {
		return Result{}, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return Result{}, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return Result{}, fmt.Errorf("seek temp file: %w", err)
	}

	doc, err := docx.Parse(tmp, size)
	tmp.Close()
	if err != nil {
		return Result{}, fmt.Errorf("parse docx: %w", err)
	}

	out := outline.Empty()
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := paragraphText(para)
		if text == "" {
			continue
		}
		style := paragraphStyle(para)
		switch {
		case strings.EqualFold(style, "Title"):
			if out.Title == "" {
				out.Title = text
			}
		case headingDepth(style) > 0:
			depth := headingDepth(style)
			if out.Title == "" && depth == 1 && len(out.Outline) == 0 {
				out.Title = text
				continue
			}
			if lvl := outline.LevelForDepth(depth); lvl.Valid() {
				out.Outline = append(out.Outline, outline.Entry{
					Level: lvl,
					Text:  text,
					Page:  1,
				})
			}
		}
	}

	return Result{Outline: out, Script: "latin", Pages: 1}, nil
}

func paragraphStyle(para *docx.Paragraph) string {
	if para.Properties == nil || para.Properties.Style == nil {
		return ""
	}
	return para.Properties.Style.Val
}

// headingDepth maps a Word style name to a heading depth, or 0.
func headingDepth(style string) int {
	s := strings.ToLower(strings.ReplaceAll(style, " ", ""))
	if !strings.HasPrefix(s, "heading") {
		return 0
	}
	switch strings.TrimPrefix(s, "heading") {
	case "1":
		return 1
	case "2":
		return 2
	case "3":
		return 3
	case "4", "5", "6":
		return 4 // Recognized but beyond the emitted range.
	}
	return 0
}

func paragraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
