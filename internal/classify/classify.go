// Package classify runs the heading classification pipeline for a single
// document: profile the fonts, detect the script, score every fragment,
// assign hierarchy levels, pick the title, and assemble the outline in
// reading order.
//
// The pipeline is synchronous and allocation-scoped: profile, script choice
// and scorer live for one document and are discarded with it, which makes
// batch processing safe without any synchronization.
package classify

import (
	"sort"
	"strings"

	"github.com/dgallion1/outliner/internal/fragment"
	"github.com/dgallion1/outliner/internal/outline"
	"github.com/dgallion1/outliner/internal/profile"
	"github.com/dgallion1/outliner/internal/score"
	"github.com/dgallion1/outliner/internal/script"
)

// Options holds the tunable cutoffs of the classifier. All fields have
// working defaults; zero values select them.
type Options struct {
	Weights score.Weights

	// Cutoff is the minimum confidence for a fragment to survive level
	// assignment. Fragments below it are body text.
	Cutoff float64

	// TitleCutoff is the minimum confidence for the title candidate.
	TitleCutoff float64

	// TitlePageLimit bounds how deep into the document a title may sit.
	TitlePageLimit int

	// ScriptMinShare and ScriptSampleRunes tune script detection.
	ScriptMinShare    float64
	ScriptSampleRunes int
}

// DefaultOptions returns the tuned defaults.
func DefaultOptions() Options {
	return Options{
		Weights:        score.DefaultWeights(),
		Cutoff:         0.45,
		TitleCutoff:    0.6,
		TitlePageLimit: 2,
		ScriptMinShare: script.DefaultMinShare,
	}
}

func (o Options) withDefaults() Options {
	if o.Weights == (score.Weights{}) {
		o.Weights = score.DefaultWeights()
	}
	if o.Cutoff <= 0 {
		o.Cutoff = 0.45
	}
	if o.TitleCutoff <= 0 {
		o.TitleCutoff = 0.6
	}
	if o.TitlePageLimit <= 0 {
		o.TitlePageLimit = 2
	}
	return o
}

// Meta describes one classification run, for logging and persistence.
type Meta struct {
	Script      script.Script
	PageCount   int
	Fragments   int
	FailedPages int
}

// Engine classifies documents. It is stateless across documents and safe
// for concurrent use.
type Engine struct {
	opts Options
}

// NewEngine creates an engine with the given options.
func NewEngine(opts Options) *Engine {
	return &Engine{opts: opts.withDefaults()}
}

type candidate struct {
	frag  fragment.TextFragment
	conf  float64
	brk   score.Breakdown
	level outline.Level
}

// Classify runs the full pipeline on one document. An empty document yields
// a valid empty outline, never an error.
func (e *Engine) Classify(doc *fragment.Document) (outline.Outline, Meta) {
	meta := Meta{
		PageCount:   doc.PageCount(),
		FailedPages: doc.FailedPages,
	}

	// Whitespace-only fragments are excluded before scoring.
	frags := make([]fragment.TextFragment, 0, len(doc.Fragments))
	for _, f := range doc.Fragments {
		if strings.TrimSpace(f.Text) != "" {
			frags = append(frags, f)
		}
	}
	meta.Fragments = len(frags)
	if len(frags) == 0 {
		return outline.Empty(), meta
	}

	prof := profile.Build(frags)
	scr := script.Detect(frags, e.opts.ScriptMinShare, e.opts.ScriptSampleRunes)
	meta.Script = scr

	scorer := &score.Scorer{Profile: prof, Script: scr, Weights: e.opts.Weights}

	cands := make([]candidate, len(frags))
	maxSize := 0.0
	for i, f := range frags {
		conf, brk := scorer.Score(f)
		cands[i] = candidate{frag: f, conf: conf, brk: brk}
		if f.FontSize > maxSize {
			maxSize = f.FontSize
		}
	}

	titleIdx := e.pickTitle(cands, maxSize)

	for i := range cands {
		if i == titleIdx {
			continue
		}
		cands[i].level = e.assignLevel(cands[i], prof)
	}

	return e.assemble(cands, titleIdx), meta
}

// pickTitle selects the single best title candidate: on the first pages,
// confident, placed top-of-page or centered, and set in the document's
// largest font. Returns -1 when nothing qualifies; the title stays empty.
func (e *Engine) pickTitle(cands []candidate, maxSize float64) int {
	best := -1
	for i, c := range cands {
		f := c.frag
		if f.Page > e.opts.TitlePageLimit || c.conf < e.opts.TitleCutoff {
			continue
		}
		if f.FontSize < maxSize-0.5 {
			continue
		}
		if !titlePlacement(f) {
			continue
		}
		if best == -1 || c.conf > cands[best].conf ||
			(c.conf == cands[best].conf && readingBefore(f, cands[best].frag)) {
			best = i
		}
	}
	return best
}

// titlePlacement checks for top-of-page or horizontally centered position.
func titlePlacement(f fragment.TextFragment) bool {
	if f.PageHeight > 0 && f.Y0 <= 0.3*f.PageHeight {
		return true
	}
	if f.PageWidth > 0 {
		mid := (f.X0 + f.X1) / 2
		if diff := mid - f.PageWidth/2; diff < 0.08*f.PageWidth && diff > -0.08*f.PageWidth {
			return true
		}
	}
	return false
}

// assignLevel maps a scored candidate onto H1/H2/H3 or rejects it. Tiered
// font sizes drive the level directly. A candidate without a tier is still
// admitted when its confidence clears the cutoff and its pattern signal
// shows a strong structural match: the numbering depth decides the level
// when the pattern encodes one, otherwise the lowest level the document's
// tiers support. This trades precision for recall on documents with flat
// font usage.
func (e *Engine) assignLevel(c candidate, prof *profile.DocumentProfile) outline.Level {
	if c.conf < e.opts.Cutoff {
		return ""
	}
	if tier := prof.TierIndex(profile.Quantize(c.frag.FontSize)); tier >= 0 {
		return outline.LevelForDepth(tier + 1)
	}
	if c.brk.StructuralMatch {
		depth := c.brk.PatternDepth
		if depth == 0 {
			depth = len(prof.Tiers) + 1
		}
		if depth > profile.MaxTiers {
			depth = profile.MaxTiers
		}
		return outline.LevelForDepth(depth)
	}
	return ""
}

// assemble orders surviving candidates by reading order and builds the
// final outline. Headings with identical text on different pages are all
// retained; de-duplication is not this layer's job.
func (e *Engine) assemble(cands []candidate, titleIdx int) outline.Outline {
	out := outline.Empty()
	if titleIdx >= 0 {
		out.Title = cleanText(cands[titleIdx].frag.Text)
	}

	kept := make([]candidate, 0, len(cands))
	for i, c := range cands {
		if i == titleIdx || !c.level.Valid() {
			continue
		}
		kept = append(kept, c)
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return readingBefore(kept[i].frag, kept[j].frag)
	})

	for _, c := range kept {
		text := cleanText(c.frag.Text)
		if text == "" {
			continue
		}
		out.Outline = append(out.Outline, outline.Entry{
			Level: c.level,
			Text:  text,
			Page:  c.frag.Page,
		})
	}
	return out
}

// readingBefore orders fragments by (page, vertical position, horizontal
// position).
func readingBefore(a, b fragment.TextFragment) bool {
	if a.Page != b.Page {
		return a.Page < b.Page
	}
	if a.Y0 != b.Y0 {
		return a.Y0 < b.Y0
	}
	return a.X0 < b.X0
}

// cleanText collapses runs of whitespace. The heading text itself is kept
// verbatim, numbering prefix included, so the outline mirrors what the
// reader sees on the page.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
