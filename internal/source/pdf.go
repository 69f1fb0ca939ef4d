package source

import (
	"fmt"
	"io"

	"github.com/dgallion1/outliner/internal/classify"
	"github.com/dgallion1/outliner/internal/fragment"
)

// PDFExtractor runs the positioned-fragment source and the classification
// engine. This is the path the engine exists for: PDF text carries no
// declared structure, only font and layout evidence.
type PDFExtractor struct {
	Engine *classify.Engine
}

func (e *PDFExtractor) Extract(r io.Reader, filename string) (Result, error) {
	src := &fragment.PDFSource{}
	doc, err := src.Extract(r)
	if err != nil {
		return Result{}, fmt.Errorf("extract pdf fragments: %w", err)
	}

	out, meta := e.Engine.Classify(doc)
	return Result{
		Outline:     out,
		Script:      meta.Script.String(),
		Pages:       meta.PageCount,
		Fragments:   meta.Fragments,
		FailedPages: meta.FailedPages,
	}, nil
}
