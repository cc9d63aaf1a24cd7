package services

import (
	"github.com/pmezard/go-difflib/difflib"
)

// TokenOverlap returns |A ∩ B| / min(|A|, |B|) over the token sets. The bias
// toward the shorter set keeps short user messages comparable against long
// keyword lists. Zero when either side is empty.
func TokenOverlap(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	setA := toSet(a)
	setB := toSet(b)
	inter := 0
	for t := range setA {
		if _, ok := setB[t]; ok {
			inter++
		}
	}
	smaller := len(setA)
	if len(setB) < smaller {
		smaller = len(setB)
	}
	if smaller < 1 {
		smaller = 1
	}
	return float64(inter) / float64(smaller)
}

// CharSimilarity is the longest-matching-blocks ratio between two strings:
// 1.0 for identical strings, 0.0 for fully disjoint ones.
func CharSimilarity(a, b string) float64 {
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	return difflib.NewMatcher(splitRunes(a), splitRunes(b)).Ratio()
}

// FuzzyAvg averages, over the tokens of a, the best CharSimilarity against
// any token of b. Zero when either sequence is empty.
func FuzzyAvg(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	total := 0.0
	for _, ta := range a {
		best := 0.0
		for _, tb := range b {
			if r := CharSimilarity(ta, tb); r > best {
				best = r
			}
		}
		total += best
	}
	return total / float64(len(a))
}

// TokensMatch reports whether any token pair clears the similarity threshold.
// Coarse yes/no classification for keyword and branch-name hits.
func TokensMatch(a, b []string, threshold float64) bool {
	for _, ta := range a {
		for _, tb := range b {
			if CharSimilarity(ta, tb) >= threshold {
				return true
			}
		}
	}
	return false
}

func toSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
