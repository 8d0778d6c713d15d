package language

import "unicode"

// Candidate is one language eligible for classification. Table is the merged
// Unicode range table built from the language's configured blocks.
type Candidate struct {
	Code  string
	Table *unicode.RangeTable
}

// EnglishCode is preferred when auto-assigning a language to new text.
const EnglishCode = "en"

// Classify scans text rune by rune and returns every candidate whose table
// contains at least one rune of the text. The result preserves candidate order
// and is the union across the whole text, not just its first rune. Empty text,
// or text no candidate recognizes, yields an empty slice; the caller decides
// whether that is an error.
func Classify(text string, candidates []Candidate) []Candidate {
	if text == "" || len(candidates) == 0 {
		return nil
	}

	matched := make([]bool, len(candidates))
	remaining := len(candidates)

	for _, r := range text {
		for i, c := range candidates {
			if matched[i] || c.Table == nil {
				continue
			}
			if unicode.Is(c.Table, r) {
				matched[i] = true
				remaining--
			}
		}
		if remaining == 0 {
			break
		}
	}

	var out []Candidate
	for i, ok := range matched {
		if ok {
			out = append(out, candidates[i])
		}
	}
	return out
}

// Pick selects the language for an auto-assigned translation: English when it is
// among the matches, otherwise the first match. Returns false for no matches.
func Pick(matches []Candidate) (Candidate, bool) {
	for _, m := range matches {
		if m.Code == EnglishCode {
			return m, true
		}
	}
	if len(matches) > 0 {
		return matches[0], true
	}
	return Candidate{}, false
}

// Matches reports whether code is among the classified candidates. Used to
// validate that a caller-supplied language is script-compatible with its text.
func Matches(matches []Candidate, code string) bool {
	for _, m := range matches {
		if m.Code == code {
			return true
		}
	}
	return false
}
