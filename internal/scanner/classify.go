package scanner

import (
	"strings"

	"textchunk/internal/grammar"
)

// Classify returns the first rule, by rank, whose full-match form accepts
// strings.TrimSpace(text). ok is false for empty text and for gaps.
func Classify(t *grammar.Table, text string) (grammar.Rule, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return grammar.Rule{}, false
	}
	return classifyTrimmed(t, grammar.NewTrimmedInput(trimmed))
}

func classifyTrimmed(t *grammar.Table, in *grammar.Input) (grammar.Rule, bool) {
	for i := 0; i < t.Len(); i++ {
		r := t.Rule(i)
		if r.FullMatch(in) {
			return r, true
		}
	}
	return grammar.Rule{}, false
}
