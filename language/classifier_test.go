package language

import (
	"testing"
	"unicode"
)

func mustTable(t *testing.T, code string) *unicode.RangeTable {
	t.Helper()
	table, err := ParseBlocks(DefaultBlocks[code])
	if err != nil {
		t.Fatalf("ParseBlocks(%s): %v", code, err)
	}
	return table
}

func candidates(t *testing.T, codes ...string) []Candidate {
	t.Helper()
	out := make([]Candidate, 0, len(codes))
	for _, code := range codes {
		out = append(out, Candidate{Code: code, Table: mustTable(t, code)})
	}
	return out
}

func codes(matches []Candidate) []string {
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Code)
	}
	return out
}

func TestClassifySingleScript(t *testing.T) {
	cands := candidates(t, "en", "ru")

	got := Classify("Hello", cands)
	if len(got) != 1 || got[0].Code != "en" {
		t.Errorf("Classify(Hello) = %v, want [en]", codes(got))
	}

	got = Classify("Привет", cands)
	if len(got) != 1 || got[0].Code != "ru" {
		t.Errorf("Classify(Привет) = %v, want [ru]", codes(got))
	}
}

func TestClassifyOverlappingRanges(t *testing.T) {
	// en and de share the basic Latin block; Latin text matches both.
	cands := candidates(t, "en", "de")

	got := Classify("Hallo", cands)
	if len(got) != 2 {
		t.Fatalf("Classify(Hallo) = %v, want [en de]", codes(got))
	}
}

func TestClassifyUnionAcrossText(t *testing.T) {
	cands := candidates(t, "en", "ru")

	// Mixed-script text matches every script present, not just the first rune's.
	got := Classify("Hello Привет", cands)
	if len(got) != 2 {
		t.Fatalf("Classify(mixed) = %v, want [en ru]", codes(got))
	}
}

func TestClassifyUnrecognized(t *testing.T) {
	cands := candidates(t, "en", "ru")

	if got := Classify("12345 !?", cands); len(got) != 0 {
		t.Errorf("Classify(digits) = %v, want empty", codes(got))
	}
	if got := Classify("", cands); len(got) != 0 {
		t.Errorf("Classify(empty) = %v, want empty", codes(got))
	}
}

func TestPickPrefersEnglish(t *testing.T) {
	cands := candidates(t, "de", "en")

	picked, ok := Pick(Classify("Hallo", cands))
	if !ok || picked.Code != "en" {
		t.Errorf("Pick = (%s, %v), want (en, true)", picked.Code, ok)
	}
}

func TestPickFallsBackToFirstMatch(t *testing.T) {
	cands := candidates(t, "ru", "uk")

	picked, ok := Pick(Classify("Привет", cands))
	if !ok || picked.Code != "ru" {
		t.Errorf("Pick = (%s, %v), want (ru, true)", picked.Code, ok)
	}

	if _, ok := Pick(nil); ok {
		t.Error("Pick(nil) should report no match")
	}
}

func TestMatches(t *testing.T) {
	cands := candidates(t, "en", "ru")
	matches := Classify("Привет", cands)

	if !Matches(matches, "ru") {
		t.Error("expected ru to match")
	}
	if Matches(matches, "en") {
		t.Error("did not expect en to match")
	}
}

func TestParseBlocksErrors(t *testing.T) {
	cases := []string{"0041", "zzzz-0041", "0041-zzzz", "005A-0041"}
	for _, in := range cases {
		if _, err := ParseBlocks(in); err == nil {
			t.Errorf("ParseBlocks(%q) succeeded, want error", in)
		}
	}
}

func TestParseBlocksMultiSegment(t *testing.T) {
	table, err := ParseBlocks("0041-005A, 0061-007A")
	if err != nil {
		t.Fatalf("ParseBlocks: %v", err)
	}
	for _, r := range []rune{'A', 'z'} {
		if !unicode.Is(table, r) {
			t.Errorf("expected %q in merged table", r)
		}
	}
	if unicode.Is(table, 'Ж') {
		t.Error("did not expect Cyrillic in Latin table")
	}
}
