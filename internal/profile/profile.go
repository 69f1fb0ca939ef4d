// Package profile builds the per-document statistical font profile: a
// frequency-weighted size histogram, the body-text baseline, and up to three
// size tiers above the baseline that map to heading levels.
//
// A profile is created fresh for each document and is read-only afterward.
// It must never be reused or merged across documents.
package profile

import (
	"math"
	"sort"

	"github.com/dgallion1/outliner/internal/fragment"
)

// Tuning constants. The importance weights favor larger sizes while still
// requiring a size to occur often enough to be structural rather than a
// one-off artifact.
const (
	// MinFontSize excludes footnote-scale noise from the histogram.
	MinFontSize = 8.0

	importanceSizeWeight = 0.7
	importanceFreqWeight = 0.3

	// MaxTiers is the number of heading levels driven by font size.
	MaxTiers = 3
)

// DocumentProfile summarizes the font-size distribution of one document.
type DocumentProfile struct {
	// Histogram maps quantized font size to weighted occurrence count.
	Histogram map[float64]int

	// Baseline is the dominant (body text) size: the highest weighted
	// count, ties broken toward the smaller size.
	Baseline float64

	// Tiers holds up to three sizes above the baseline, ranked by
	// importance. Tiers[0] backs H1, Tiers[1] H2, Tiers[2] H3.
	Tiers []float64

	// MaxSize is the largest size observed anywhere in the document.
	MaxSize float64
}

// HasStructure reports whether the fragment set held any measurable text.
// A profile without structure forces pattern/position-only classification.
func (p *DocumentProfile) HasStructure() bool {
	return p != nil && p.Baseline > 0
}

// TierIndex returns the 0-based tier a size falls into, or -1 when the size
// belongs to no tier. A half-point tolerance absorbs sub-pixel rendering
// variation between runs of the same nominal size, but never reaches down to
// the baseline itself.
func (p *DocumentProfile) TierIndex(size float64) int {
	if size <= p.Baseline {
		return -1
	}
	for i, t := range p.Tiers {
		if size >= t-0.5 {
			return i
		}
	}
	return -1
}

// Quantize rounds a font size to one decimal place so near-identical floats
// bucket together. Scaling before the round keeps the result exactly on the
// 0.1pt grid.
func Quantize(size float64) float64 {
	return math.Round(size*10) / 10
}

// Build computes the profile for one document's fragments. An empty or
// unmeasurable fragment set yields a profile with no structure; it is not an
// error, per the graceful-degradation contract.
func Build(frags []fragment.TextFragment) *DocumentProfile {
	p := &DocumentProfile{Histogram: make(map[float64]int)}

	total := 0
	for _, f := range frags {
		size := Quantize(f.FontSize)
		if size < MinFontSize {
			continue
		}
		p.Histogram[size]++
		total++
		if size > p.MaxSize {
			p.MaxSize = size
		}
	}
	if total == 0 {
		return p
	}

	// Baseline: highest weighted count, smaller size wins ties. Body text
	// is usually both the most frequent and the smallest of the frequent
	// sizes.
	for size, count := range p.Histogram {
		bc := p.Histogram[p.Baseline]
		if p.Baseline == 0 || count > bc || (count == bc && size < p.Baseline) {
			p.Baseline = size
		}
	}

	p.Tiers = rankTiers(p.Histogram, p.Baseline, p.MaxSize, total)
	return p
}

// rankTiers orders the distinct sizes above baseline by importance and keeps
// the top MaxTiers. Importance blends how large a size is with how often it
// occurs.
func rankTiers(hist map[float64]int, baseline, maxSize float64, total int) []float64 {
	type cluster struct {
		size       float64
		importance float64
	}

	var clusters []cluster
	for size, count := range hist {
		if size <= baseline {
			continue
		}
		sizeScore := size / maxSize
		freqScore := float64(count) / float64(total)
		clusters = append(clusters, cluster{
			size:       size,
			importance: importanceSizeWeight*sizeScore + importanceFreqWeight*freqScore,
		})
	}

	sort.Slice(clusters, func(i, j int) bool {
		if clusters[i].importance != clusters[j].importance {
			return clusters[i].importance > clusters[j].importance
		}
		return clusters[i].size > clusters[j].size
	})

	n := len(clusters)
	if n > MaxTiers {
		n = MaxTiers
	}
	tiers := make([]float64, 0, n)
	for _, c := range clusters[:n] {
		tiers = append(tiers, c.size)
	}
	return tiers
}
