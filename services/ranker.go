package services

import (
	"sort"
	"strings"

	"faq-bot/models"
)

// Scoring weights for one FAQ entry against a user message. Token overlap
// dominates, character-level fuzziness softens typos, and the bonuses reward
// exact phrases and intent-label hits.
const (
	overlapWeight  = 0.55
	fuzzyWeight    = 0.35
	phraseBonus    = 0.15
	intentBonusOne = 0.03
	intentBonusCap = 0.12
)

// keyTokens builds the combined token sequence an entry is matched against:
// keyword phrases, the canonical question, the intent label (underscores as
// spaces), subtype and type.
func keyTokens(entry models.FAQEntry) []string {
	var tokens []string
	for _, kw := range entry.Keywords {
		tokens = append(tokens, NormalizeTokens(kw)...)
	}
	tokens = append(tokens, NormalizeTokens(entry.Question)...)
	tokens = append(tokens, NormalizeTokens(strings.ReplaceAll(entry.Intent, "_", " "))...)
	tokens = append(tokens, NormalizeTokens(entry.Subtype)...)
	tokens = append(tokens, NormalizeTokens(entry.Type)...)
	return tokens
}

// ScoreEntry scores one FAQ entry against a user message, in [0, 1].
func ScoreEntry(userMsg string, userTokens []string, entry models.FAQEntry) float64 {
	keys := keyTokens(entry)

	score := overlapWeight*TokenOverlap(userTokens, keys) +
		fuzzyWeight*FuzzyAvg(userTokens, keys)

	userNorm := NormalizeText(userMsg)
	if phraseHit(userNorm, entry) {
		score += phraseBonus
	}
	score += intentHint(userNorm, entry.Intent)

	if score > 1 {
		score = 1
	}
	return score
}

// phraseHit reports whether the normalized user message contains any keyword
// phrase or the canonical question as a contiguous substring.
func phraseHit(userNorm string, entry models.FAQEntry) bool {
	phrases := append([]string{}, entry.Keywords...)
	phrases = append(phrases, entry.Question)
	for _, p := range phrases {
		if pn := NormalizeText(p); pn != "" && strings.Contains(userNorm, pn) {
			return true
		}
	}
	return false
}

// intentHint adds a small bonus per intent-label part found in the message,
// capped so intent alone never dominates.
func intentHint(userNorm, intent string) float64 {
	if intent == "" {
		return 0
	}
	hint := 0.0
	for _, part := range strings.Fields(strings.ReplaceAll(intent, "_", " ")) {
		if strings.Contains(userNorm, part) {
			hint += intentBonusOne
		}
	}
	if hint > intentBonusCap {
		hint = intentBonusCap
	}
	return hint
}

// RankFAQs scores every entry against the message and returns candidates in
// descending score order. Zero scores are excluded; ties keep knowledge-base
// iteration order.
func RankFAQs(userMsg string, entries []models.FAQEntry) []models.Candidate {
	userTokens := NormalizeTokens(userMsg)
	var ranked []models.Candidate
	for _, entry := range entries {
		if s := ScoreEntry(userMsg, userTokens, entry); s > 0 {
			ranked = append(ranked, models.Candidate{Score: s, Entry: entry})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// TopFAQ returns the highest-scoring selectable candidate at or above
// minScore. Entries without response variants are never selectable.
func TopFAQ(userMsg string, entries []models.FAQEntry, minScore float64) (models.Candidate, bool) {
	var best models.Candidate
	found := false
	for _, c := range RankFAQs(userMsg, entries) {
		if c.Score < minScore || len(c.Entry.Variants()) == 0 {
			continue
		}
		if !found || c.Score > best.Score {
			best = c
			found = true
		}
	}
	return best, found
}
