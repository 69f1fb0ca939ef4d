package script

import (
	"regexp"
	"strings"
)

// Pattern is one structural heading form. Depth carries the hierarchy depth
// the form implies (1 for "1.", 2 for "1.1", 3 for "1.1.1"); 0 means the
// form implies no particular depth.
type Pattern struct {
	re    *regexp.Regexp
	Depth int
}

// Structural pattern tables, one per script variant. Text is NFKC-normalized
// before matching, so full-width digits and periods have already been folded
// to their ASCII forms; the CJK table therefore matches ASCII digits in
// addition to native CJK numerals. Deeper numbering forms come first so the
// most specific depth wins.
var (
	latinPatterns = []Pattern{
		{regexp.MustCompile(`^\d+\.\d+\.\d+\.?\s+`), 3},
		{regexp.MustCompile(`^\d+\.\d+\.?\s+`), 2},
		{regexp.MustCompile(`^\d+\.?\s+\S`), 1},
		{regexp.MustCompile(`^[IVXLCDM]+\.?\s+\S`), 1},
		{regexp.MustCompile(`^[A-Z][.)]\s+`), 2},
		{regexp.MustCompile(`^\([a-z0-9]\)\s+`), 3},
		{regexp.MustCompile(`^[a-z]\)\s+`), 3},
		{regexp.MustCompile(`(?i)^(chapter|section|part|appendix|annex)\s+\S`), 0},
	}

	cjkNum = `[0-9一二三四五六七八九十百千〇]`

	cjkPatterns = []Pattern{
		{regexp.MustCompile(`^第` + cjkNum + `+章`), 1},
		{regexp.MustCompile(`^第` + cjkNum + `+[節节編篇部]`), 2},
		{regexp.MustCompile(`^第` + cjkNum + `+[条條項]`), 3},
		{regexp.MustCompile(`^\d+\.\d+\.\d+\.?\s*`), 3},
		{regexp.MustCompile(`^\d+\.\d+\.?\s*`), 2},
		{regexp.MustCompile(`^\d+[.。．]\s*`), 1},
		{regexp.MustCompile(`^[一二三四五六七八九十]+[、.。．]\s*`), 1},
	}

	arabicHebrewPatterns = []Pattern{
		{regexp.MustCompile(`^[0-9\x{0660}-\x{0669}\x{06F0}-\x{06F9}]+[.\x{066B})-]` +
			`[0-9\x{0660}-\x{0669}\x{06F0}-\x{06F9}]+`), 2},
		{regexp.MustCompile(`^[0-9\x{0660}-\x{0669}\x{06F0}-\x{06F9}]+[.)-]?\s+`), 1},
		{regexp.MustCompile(`^[\x{05D0}-\x{05EA}][.)]\s+`), 2},
	}

	devanagariPatterns = []Pattern{
		{regexp.MustCompile(`^[\x{0966}-\x{096F}]+\.[\x{0966}-\x{096F}]+\.[\x{0966}-\x{096F}]+\.?\s*`), 3},
		{regexp.MustCompile(`^[\x{0966}-\x{096F}]+\.[\x{0966}-\x{096F}]+\.?\s*`), 2},
		{regexp.MustCompile(`^[\x{0966}-\x{096F}]+[.।]?\s+`), 1},
	}
)

// Heading keywords provide a weaker structural hint than numbering. They are
// matched case-insensitively anywhere in the fragment.
var (
	latinKeywords = []string{
		"introduction", "abstract", "summary", "overview", "conclusion",
		"contents", "references", "acknowledgements", "glossary", "index",
	}
	cjkKeywords = []string{
		"概要", "要約", "目次", "序論", "結論", "索引", "摘要", "章节",
		"はじめに", "おわりに",
	}
)

// Patterns returns the structural pattern table for the script.
func (s Script) Patterns() []Pattern {
	switch s {
	case CJK:
		return cjkPatterns
	case ArabicHebrew:
		return arabicHebrewPatterns
	case Devanagari:
		return devanagariPatterns
	default:
		return latinPatterns
	}
}

// MatchStructural tests prepared text against the script's pattern table.
// It returns the implied depth (0 when the matching form implies none) and
// whether any pattern matched.
func (s Script) MatchStructural(prepared string) (depth int, ok bool) {
	for _, p := range s.Patterns() {
		if p.re.MatchString(prepared) {
			return p.Depth, true
		}
	}
	return 0, false
}

// MatchKeyword reports whether prepared text contains a heading keyword for
// the script. The Latin list also applies to non-Latin documents, which
// frequently mix in English section names.
func (s Script) MatchKeyword(prepared string) bool {
	lower := strings.ToLower(prepared)
	if s == CJK {
		for _, k := range cjkKeywords {
			if strings.Contains(prepared, k) {
				return true
			}
		}
	}
	for _, k := range latinKeywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}
