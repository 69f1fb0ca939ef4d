// Package script determines the dominant writing system of a document and
// selects the structural pattern table used for heading recognition.
//
// Classification is global per document: one dominant structural convention
// is assumed throughout. The dominant non-Latin script wins only when its
// share of letter characters clears a minimum threshold; everything else
// defaults to the Latin/generic table.
package script

import (
	"strings"
	"unicode"

	"github.com/dgallion1/outliner/internal/fragment"
	"golang.org/x/text/unicode/norm"
)

// Script is the tagged variant selecting one structural pattern table.
type Script int

const (
	Latin Script = iota
	CJK
	ArabicHebrew
	Devanagari
)

func (s Script) String() string {
	switch s {
	case CJK:
		return "cjk"
	case ArabicHebrew:
		return "arabic-hebrew"
	case Devanagari:
		return "devanagari"
	default:
		return "latin"
	}
}

// DefaultMinShare is the minimum letter share a non-Latin script needs to
// become the document's dominant script.
const DefaultMinShare = 0.15

// DefaultSampleRunes bounds how much text Detect inspects. Script mix is
// stable across a document, so a prefix sample is representative.
const DefaultSampleRunes = 20000

// Normalize applies compatibility decomposition followed by canonical
// composition (NFKC), so full-width numerals and punctuation compare equal
// to their ASCII forms before any pattern match.
func Normalize(s string) string {
	return norm.NFKC.String(s)
}

// Detect counts characters by Unicode script class over a bounded sample of
// the document text and returns the dominant script. minShare <= 0 and
// sampleRunes <= 0 select the defaults.
func Detect(frags []fragment.TextFragment, minShare float64, sampleRunes int) Script {
	if minShare <= 0 {
		minShare = DefaultMinShare
	}
	if sampleRunes <= 0 {
		sampleRunes = DefaultSampleRunes
	}

	var latin, cjk, arabic, hebrew, devanagari, total int
	seen := 0
	for _, f := range frags {
		for _, r := range f.Text {
			seen++
			switch {
			case unicode.Is(unicode.Latin, r):
				latin++
			case unicode.Is(unicode.Han, r),
				unicode.Is(unicode.Hiragana, r),
				unicode.Is(unicode.Katakana, r),
				unicode.Is(unicode.Hangul, r):
				cjk++
			case unicode.Is(unicode.Arabic, r):
				arabic++
			case unicode.Is(unicode.Hebrew, r):
				hebrew++
			case unicode.Is(unicode.Devanagari, r):
				devanagari++
			default:
				continue
			}
			total++
		}
		if seen >= sampleRunes {
			break
		}
	}
	if total == 0 {
		return Latin
	}

	// Most frequent non-Latin script wins if it clears the threshold;
	// Arabic and Hebrew share one right-to-left pattern table.
	best, bestCount := Latin, 0
	for _, c := range []struct {
		s Script
		n int
	}{
		{CJK, cjk},
		{ArabicHebrew, arabic + hebrew},
		{Devanagari, devanagari},
	} {
		if c.n > bestCount {
			best, bestCount = c.s, c.n
		}
	}
	if float64(bestCount)/float64(total) >= minShare {
		return best
	}
	return Latin
}

// StripBidiControls removes bidirectional formatting characters so
// right-to-left fragments expose their leading digits and markers to the
// anchored patterns.
func StripBidiControls(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '‎', '‏', '؜',
			'‪', '‫', '‬', '‭', '‮',
			'⁦', '⁧', '⁨', '⁩':
			return -1
		}
		return r
	}, s)
}

// Prepare normalizes fragment text for pattern matching under this script.
func (s Script) Prepare(text string) string {
	text = Normalize(text)
	if s == ArabicHebrew {
		text = StripBidiControls(text)
	}
	return strings.TrimSpace(text)
}
