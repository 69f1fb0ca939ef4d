package script

import (
	"strings"
	"testing"

	"github.com/dgallion1/outliner/internal/fragment"
)

func fragsOf(texts ...string) []fragment.TextFragment {
	frags := make([]fragment.TextFragment, len(texts))
	for i, s := range texts {
		frags[i] = fragment.TextFragment{Text: s}
	}
	return frags
}

func TestDetect_DefaultsToLatin(t *testing.T) {
	got := Detect(fragsOf("Introduction", "1. Overview", "2. Methods"), 0, 0)
	if got != Latin {
		t.Errorf("expected latin, got %v", got)
	}
}

func TestDetect_CJKAboveThreshold(t *testing.T) {
	// CJK characters well above the 15% letter share.
	got := Detect(fragsOf("第1章 概要", "これは日本語の文書です"), 0, 0)
	if got != CJK {
		t.Errorf("expected cjk, got %v", got)
	}
}

func TestDetect_CJKBelowThresholdStaysLatin(t *testing.T) {
	// One CJK rune against a long Latin body stays under the threshold.
	long := strings.Repeat("english text ", 10)
	got := Detect(fragsOf(long, "語"), 0, 0)
	if got != Latin {
		t.Errorf("expected latin for sub-threshold cjk, got %v", got)
	}
}

func TestDetect_ArabicAndHebrewShareTable(t *testing.T) {
	if got := Detect(fragsOf("مقدمة في الذكاء الاصطناعي"), 0, 0); got != ArabicHebrew {
		t.Errorf("expected arabic-hebrew for arabic text, got %v", got)
	}
	if got := Detect(fragsOf("מבוא לבינה מלאכותית"), 0, 0); got != ArabicHebrew {
		t.Errorf("expected arabic-hebrew for hebrew text, got %v", got)
	}
}

func TestDetect_Devanagari(t *testing.T) {
	if got := Detect(fragsOf("कृत्रिम बुद्धिमत्ता का परिचय"), 0, 0); got != Devanagari {
		t.Errorf("expected devanagari, got %v", got)
	}
}

func TestDetect_EmptyInput(t *testing.T) {
	if got := Detect(nil, 0, 0); got != Latin {
		t.Errorf("expected latin for empty input, got %v", got)
	}
}

func TestNormalize_FullWidthFolds(t *testing.T) {
	// Full-width digits and period fold to ASCII under NFKC.
	got := Normalize("１．概要")
	if got != "1.概要" {
		t.Errorf("expected full-width forms to fold, got %q", got)
	}
}

func TestStripBidiControls(t *testing.T) {
	in := "‏1. ‎مقدمة"
	got := StripBidiControls(in)
	if strings.ContainsRune(got, '‏') || strings.ContainsRune(got, '‎') {
		t.Errorf("expected bidi marks removed, got %q", got)
	}
	if !strings.HasPrefix(got, "1.") {
		t.Errorf("expected leading digits exposed, got %q", got)
	}
}

func TestMatchStructural_LatinDepths(t *testing.T) {
	cases := []struct {
		text  string
		depth int
		ok    bool
	}{
		{"1. Introduction", 1, true},
		{"2.3 Related Work", 2, true},
		{"1.1.1 Details", 3, true},
		{"IV. Results", 1, true},
		{"B. Approach", 2, true},
		{"(a) first case", 3, true},
		{"Chapter One", 0, true},
		{"Appendix A", 0, true},
		{"Just a plain sentence.", 0, false},
	}
	for _, c := range cases {
		depth, ok := Latin.MatchStructural(c.text)
		if ok != c.ok || depth != c.depth {
			t.Errorf("Latin.MatchStructural(%q) = (%d, %v), want (%d, %v)",
				c.text, depth, ok, c.depth, c.ok)
		}
	}
}

func TestMatchStructural_CJK(t *testing.T) {
	cases := []struct {
		text  string
		depth int
		ok    bool
	}{
		{"第1章 概要", 1, true},
		{"第一章 序論", 1, true},
		{"第2節 背景", 2, true},
		{"第3条 定義", 3, true},
		{"一、はじめに", 1, true},
		{"これは見出しではない", 0, false},
	}
	for _, c := range cases {
		depth, ok := CJK.MatchStructural(c.text)
		if ok != c.ok || depth != c.depth {
			t.Errorf("CJK.MatchStructural(%q) = (%d, %v), want (%d, %v)",
				c.text, depth, ok, c.depth, c.ok)
		}
	}
}

func TestMatchStructural_CJKAfterPrepare(t *testing.T) {
	// Full-width numbering must match once prepared.
	prepared := CJK.Prepare("１．概要")
	depth, ok := CJK.MatchStructural(prepared)
	if !ok || depth != 1 {
		t.Errorf("expected depth 1 match for prepared %q, got (%d, %v)", prepared, depth, ok)
	}
}

func TestMatchStructural_ArabicDigits(t *testing.T) {
	depth, ok := ArabicHebrew.MatchStructural("١ مقدمة")
	if !ok || depth != 1 {
		t.Errorf("expected depth 1 for arabic-indic numbering, got (%d, %v)", depth, ok)
	}
}

func TestMatchKeyword(t *testing.T) {
	if !Latin.MatchKeyword("introduction to ai") {
		t.Error("expected latin keyword match")
	}
	if !CJK.MatchKeyword("概要") {
		t.Error("expected cjk keyword match")
	}
	// The latin list applies under any script.
	if !CJK.MatchKeyword("abstract") {
		t.Error("expected latin keyword to match under cjk")
	}
	if Latin.MatchKeyword("ordinary body text") {
		t.Error("expected no keyword match")
	}
}

func TestScriptString(t *testing.T) {
	cases := map[Script]string{
		Latin:        "latin",
		CJK:          "cjk",
		ArabicHebrew: "arabic-hebrew",
		Devanagari:   "devanagari",
	}
	for s, want := range cases {
		if got := s.String(); got != want {
			t.Errorf("String(%d) = %q, want %q", s, got, want)
		}
	}
}
