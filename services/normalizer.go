package services

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Punctuation that becomes whitespace during normalization.
const punctuation = `!¡.,;:?¿-()[]{}<>"'` + "`/\\"

var diacriticStripper = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// NormalizeText lowercases, strips diacritics, replaces punctuation with
// spaces, collapses runs of 3+ identical characters ("holaaa" -> "hola") and
// squeezes whitespace.
func NormalizeText(text string) string {
	if text == "" {
		return ""
	}
	text = strings.ToLower(text)
	if stripped, _, err := transform.String(diacriticStripper, text); err == nil {
		text = stripped
	}
	text = strings.Map(func(r rune) rune {
		if strings.ContainsRune(punctuation, r) {
			return ' '
		}
		return r
	}, text)
	text = collapseRuns(text)
	return strings.Join(strings.Fields(text), " ")
}

// NormalizeTokens splits normalized text into tokens and applies a naive
// de-pluralization: a trailing "s" is dropped from tokens longer than three
// characters. This is a heuristic, not a linguistic rule; false positives on
// non-plural words ending in "s" are accepted.
func NormalizeTokens(text string) []string {
	fields := strings.Fields(NormalizeText(text))
	tokens := make([]string, 0, len(fields))
	for _, t := range fields {
		if strings.HasSuffix(t, "s") && len(t) > 3 {
			t = t[:len(t)-1]
		}
		tokens = append(tokens, t)
	}
	return tokens
}

// collapseRuns reduces any run of three or more identical runes to a single
// rune; runs of two stay intact ("llamar" keeps its double l). A hand-rolled
// loop because RE2 has no backreferences.
func collapseRuns(text string) string {
	in := []rune(text)
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(in); {
		j := i
		for j < len(in) && in[j] == in[i] {
			j++
		}
		n := j - i
		if n >= 3 {
			n = 1
		}
		for k := 0; k < n; k++ {
			b.WriteRune(in[i])
		}
		i = j
	}
	return b.String()
}
