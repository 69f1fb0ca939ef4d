// Package score computes the heading confidence of a text fragment from six
// independent signals combined as a fixed-weight linear sum.
//
// The scorer is pure: identical fragment, profile, script and weights always
// produce the identical score. It holds no shared state and performs no I/O.
package score

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/dgallion1/outliner/internal/fragment"
	"github.com/dgallion1/outliner/internal/profile"
	"github.com/dgallion1/outliner/internal/script"
)

// Weights is the immutable signal-weight configuration. The defaults are
// empirically tuned; tests and per-corpus calibration substitute their own.
type Weights struct {
	FontSize   float64 `yaml:"font_size"`
	Formatting float64 `yaml:"formatting"`
	Position   float64 `yaml:"position"`
	Pattern    float64 `yaml:"pattern"`
	Length     float64 `yaml:"length"`
	Special    float64 `yaml:"special"`
}

// DefaultWeights returns the tuned default weighting.
func DefaultWeights() Weights {
	return Weights{
		FontSize:   0.30,
		Formatting: 0.15,
		Position:   0.20,
		Pattern:    0.20,
		Length:     0.10,
		Special:    0.05,
	}
}

// Validate rejects weight sets that cannot produce meaningful scores.
func (w Weights) Validate() error {
	sum := 0.0
	for _, v := range []float64{w.FontSize, w.Formatting, w.Position, w.Pattern, w.Length, w.Special} {
		if v < 0 {
			return fmt.Errorf("negative signal weight %v", v)
		}
		sum += v
	}
	if sum <= 0 {
		return fmt.Errorf("signal weights sum to zero")
	}
	return nil
}

// Breakdown records the per-signal sub-scores behind a confidence value.
// The level assigner uses Pattern and PatternDepth to admit strong
// structural matches that lack a distinguishing font tier.
type Breakdown struct {
	FontSize   float64
	Formatting float64
	Position   float64
	Pattern    float64
	Length     float64
	Special    float64

	StructuralMatch bool
	PatternDepth    int
}

// Scorer scores fragments against one document's profile and script. It is
// built once per document and discarded with it.
type Scorer struct {
	Profile *profile.DocumentProfile
	Script  script.Script
	Weights Weights
}

// Score computes the combined confidence in [0,1] and its breakdown.
// Whitespace-only fragments must be excluded before calling.
func (s *Scorer) Score(f fragment.TextFragment) (float64, Breakdown) {
	var b Breakdown
	b.FontSize = s.fontSizeSignal(f.FontSize)
	b.Formatting = formattingSignal(f)
	b.Position = positionSignal(f)
	b.Pattern, b.StructuralMatch, b.PatternDepth = s.patternSignal(f.Text)
	b.Length = lengthSignal(f.Text)
	b.Special = specialSignal(f)

	conf := s.Weights.FontSize*b.FontSize +
		s.Weights.Formatting*b.Formatting +
		s.Weights.Position*b.Position +
		s.Weights.Pattern*b.Pattern +
		s.Weights.Length*b.Length +
		s.Weights.Special*b.Special
	return clamp01(conf), b
}

// fontSizeSignal maps a size onto the profile's tiers: baseline scores 0,
// each tier up scores progressively higher, and anything at or beyond the
// top tier saturates at 1. Without tiers it falls back to absolute
// point-size thresholds.
func (s *Scorer) fontSizeSignal(size float64) float64 {
	q := profile.Quantize(size)
	p := s.Profile
	if !p.HasStructure() || len(p.Tiers) == 0 {
		switch {
		case q >= 16:
			return 1.0
		case q >= 14:
			return 0.8
		case q >= 12:
			return 0.6
		default:
			return 0.3
		}
	}
	if q <= p.Baseline {
		return 0
	}
	switch p.TierIndex(q) {
	case 0:
		return 1.0
	case 1:
		return 0.7
	case 2:
		return 0.45
	default:
		// Above baseline but between tiers.
		return 0.25
	}
}

func formattingSignal(f fragment.TextFragment) float64 {
	switch {
	case f.Bold && f.Italic:
		return 1.0
	case f.Bold:
		return 0.8
	case f.Italic:
		return 0.4
	}
	return 0
}

// positionSignal favors top-of-page placement, a left-margin indent or
// horizontal centering, with a bonus for the first fragment on a page.
func positionSignal(f fragment.TextFragment) float64 {
	if f.PageWidth <= 0 || f.PageHeight <= 0 {
		return 0
	}
	v := 0.0
	if f.Y0 <= 0.2*f.PageHeight {
		v += 0.35
	}
	leftMargin := 0.15 * f.PageWidth
	mid := (f.X0 + f.X1) / 2
	switch {
	case f.X0 <= leftMargin:
		v += 0.25
	case absf(mid-f.PageWidth/2) <= 0.08*f.PageWidth:
		v += 0.3
	}
	if f.FirstOnPage {
		v += 0.25
	}
	return clamp01(v)
}

// patternSignal matches the active script's structural table. A structural
// match scores near 1; weaker cues score in the middle; no match scores low
// but nonzero so the other signals can still qualify a fragment.
func (s *Scorer) patternSignal(text string) (v float64, structural bool, depth int) {
	prepared := s.Script.Prepare(text)
	if prepared == "" {
		return 0.1, false, 0
	}
	if d, ok := s.Script.MatchStructural(prepared); ok {
		return 0.9, true, d
	}
	if s.Script.MatchKeyword(prepared) {
		return 0.6, false, 0
	}
	if isAllCaps(prepared) {
		return 0.4, false, 0
	}
	if startsUpper(prepared) &&
		len(strings.Fields(prepared)) <= 8 &&
		!strings.HasSuffix(prepared, ".") {
		return 0.3, false, 0
	}
	return 0.1, false, 0
}

// lengthSignal peaks for short heading-like phrases and decays toward 0 for
// paragraph-length text.
func lengthSignal(text string) float64 {
	n := len([]rune(strings.TrimSpace(text)))
	words := len(strings.Fields(text))
	switch {
	case n >= 5 && n <= 50 && words >= 1 && words <= 8:
		return 1.0
	case n >= 3 && n <= 100 && words <= 12:
		return 0.7
	case n <= 150:
		return 0.4
	}
	return 0.1
}

// Words unlikely to start or name a heading: running headers, captions and
// boilerplate.
var noiseKeywords = []string{
	"copyright", "all rights reserved", "figure ", "table ", "page ",
	"footnote", "continued on",
}

// specialSignal applies small adjustments around a neutral 0.5: all-caps
// short text nudges up, sentence-terminal punctuation and boilerplate nudge
// down, early pages nudge up.
func specialSignal(f fragment.TextFragment) float64 {
	v := 0.5
	text := strings.TrimSpace(f.Text)
	lower := strings.ToLower(text)

	for _, k := range noiseKeywords {
		if strings.Contains(lower, k) {
			v -= 0.5
			break
		}
	}
	if isAllCaps(text) {
		v += 0.3
	}
	if endsSentence(text) {
		v -= 0.3
	}
	if f.Page <= 3 {
		v += 0.2
	} else if f.Page > 20 {
		v -= 0.1
	}
	return clamp01(v)
}

func isAllCaps(s string) bool {
	upper, lower := 0, 0
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper++
		case unicode.IsLower(r):
			lower++
		}
	}
	return upper >= 3 && lower == 0
}

func startsUpper(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}

func endsSentence(s string) bool {
	return strings.HasSuffix(s, ".") || strings.HasSuffix(s, "!") ||
		strings.HasSuffix(s, "?") || strings.HasSuffix(s, "。") ||
		strings.HasSuffix(s, "！") || strings.HasSuffix(s, "？")
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
