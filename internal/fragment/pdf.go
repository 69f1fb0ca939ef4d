package fragment

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// Geometry and merge tolerances, in points. Character runs on the same
// baseline are grouped into one line; style changes or wide gaps split the
// line into separate fragments.
const (
	rowTolerance    = 3.0 // Y distance treated as the same baseline
	sizeTolerance   = 0.1 // font size delta treated as the same size
	wordSpaceFactor = 0.3 // gap > factor*size inserts a space
	splitGapFactor  = 2.0 // gap > factor*size starts a new fragment
)

// Letter-size fallback when a page carries no MediaBox.
const (
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0
)

// PDFSource extracts positioned text fragments from PDF bytes.
type PDFSource struct{}

// Extract reads a whole PDF and returns its fragment stream. A page that
// fails to decode is skipped and counted in Document.FailedPages; only a
// document that cannot be opened at all is an error.
func (s *PDFSource) Extract(r io.Reader) (*Document, error) {
	// The pdf library requires a ReadSeeker with a known size, so spool to
	// a temp file.
	tmp, err := os.CreateTemp("", "outliner-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	f, reader, err := pdflib.Open(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	doc := &Document{}
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			doc.FailedPages++
			continue
		}

		w, h := pageGeometry(page)
		doc.Pages = append(doc.Pages, PageInfo{Number: i, Width: w, Height: h})

		texts, ok := pageTexts(page)
		if !ok {
			doc.FailedPages++
			continue
		}
		frags := mergeRuns(texts, i, w, h)
		if len(frags) > 0 {
			frags[0].FirstOnPage = true
		}
		doc.Fragments = append(doc.Fragments, frags...)
	}

	return doc, nil
}

// pageTexts pulls the raw text runs off a page. The content-stream decoder
// panics on some malformed files, so the call is fenced with recover and
// reported as a failed page.
func pageTexts(page pdflib.Page) (texts []pdflib.Text, ok bool) {
	defer func() {
		if recover() != nil {
			texts, ok = nil, false
		}
	}()
	return page.Content().Text, true
}

// pageGeometry reads the page MediaBox, walking up the page tree for
// inherited values, and falls back to US Letter.
func pageGeometry(page pdflib.Page) (width, height float64) {
	node := page.V
	for !node.IsNull() {
		mb := node.Key("MediaBox")
		if !mb.IsNull() && mb.Len() == 4 {
			w := mb.Index(2).Float64() - mb.Index(0).Float64()
			h := mb.Index(3).Float64() - mb.Index(1).Float64()
			if w > 0 && h > 0 {
				return w, h
			}
		}
		node = node.Key("Parent")
	}
	return defaultPageWidth, defaultPageHeight
}

// mergeRuns groups raw character runs into line-level fragments. Runs are
// ordered top-to-bottom then left-to-right; consecutive runs on the same
// baseline with the same font and size become one fragment.
func mergeRuns(texts []pdflib.Text, pageNum int, pageW, pageH float64) []TextFragment {
	runs := make([]pdflib.Text, 0, len(texts))
	for _, t := range texts {
		if strings.TrimSpace(t.S) == "" && t.S != " " {
			continue
		}
		runs = append(runs, t)
	}
	if len(runs) == 0 {
		return nil
	}

	// PDF Y grows upward; larger Y is higher on the page.
	sort.SliceStable(runs, func(i, j int) bool {
		if math.Abs(runs[i].Y-runs[j].Y) > rowTolerance {
			return runs[i].Y > runs[j].Y
		}
		return runs[i].X < runs[j].X
	})

	var frags []TextFragment
	var cur *builder
	for _, t := range runs {
		if cur != nil && cur.accepts(t) {
			cur.add(t)
			continue
		}
		if cur != nil {
			if f, ok := cur.finish(pageNum, pageW, pageH); ok {
				frags = append(frags, f)
			}
		}
		cur = newBuilder(t)
	}
	if cur != nil {
		if f, ok := cur.finish(pageNum, pageW, pageH); ok {
			frags = append(frags, f)
		}
	}
	return frags
}

// builder accumulates one fragment from adjacent runs.
type builder struct {
	text     strings.Builder
	font     string
	size     float64
	y        float64
	x0, x1   float64
	lastEndX float64
}

func newBuilder(t pdflib.Text) *builder {
	b := &builder{
		font:     t.Font,
		size:     t.FontSize,
		y:        t.Y,
		x0:       t.X,
		x1:       t.X + t.W,
		lastEndX: t.X + t.W,
	}
	b.text.WriteString(t.S)
	return b
}

func (b *builder) accepts(t pdflib.Text) bool {
	if math.Abs(t.Y-b.y) > rowTolerance {
		return false
	}
	if t.Font != b.font || math.Abs(t.FontSize-b.size) > sizeTolerance {
		return false
	}
	gap := t.X - b.lastEndX
	return gap <= splitGapFactor*b.size
}

func (b *builder) add(t pdflib.Text) {
	gap := t.X - b.lastEndX
	if gap > wordSpaceFactor*b.size && !strings.HasSuffix(b.text.String(), " ") {
		b.text.WriteByte(' ')
	}
	b.text.WriteString(t.S)
	if t.X+t.W > b.x1 {
		b.x1 = t.X + t.W
	}
	if t.X < b.x0 {
		b.x0 = t.X
	}
	b.lastEndX = t.X + t.W
}

func (b *builder) finish(pageNum int, pageW, pageH float64) (TextFragment, bool) {
	text := strings.TrimSpace(b.text.String())
	if text == "" {
		return TextFragment{}, false
	}
	return TextFragment{
		Page:       pageNum,
		Text:       text,
		FontSize:   b.size,
		FontName:   b.font,
		Bold:       HasBoldFont(b.font),
		Italic:     HasItalicFont(b.font),
		X0:         b.x0,
		Y0:         pageH - b.y - b.size,
		X1:         b.x1,
		Y1:         pageH - b.y,
		PageWidth:  pageW,
		PageHeight: pageH,
	}, true
}
