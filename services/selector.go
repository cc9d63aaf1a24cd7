package services

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"regexp"
	"strings"

	"faq-bot/models"
)

var urlRe = regexp.MustCompile(`https?://[^\s<>"\)]+`)

// PickVariant deterministically selects a response variant for a (user,
// message) pair: identical queries from the same user always get the same
// variant, different users may get different ones. The SHA-256 fold keeps the
// choice reproducible across implementations.
func PickVariant(variants []string, userID, userMsg string) string {
	if len(variants) == 0 {
		return ""
	}
	sum := sha256.Sum256([]byte(userID + "||" + userMsg))
	idx := binary.BigEndian.Uint64(sum[:8]) % uint64(len(variants))
	return variants[idx]
}

// RenderActions renders call-to-action links as HTML anchors joined by " • ".
func RenderActions(actions []models.CTA) string {
	if len(actions) == 0 {
		return ""
	}
	parts := make([]string, 0, len(actions))
	for _, a := range actions {
		label := a.Label
		if label == "" {
			label = "Abrir enlace"
		}
		url := a.URL
		if url == "" {
			url = "#"
		}
		parts = append(parts, fmt.Sprintf(`<a href="%s" target="_blank">%s</a>`, url, label))
	}
	return strings.Join(parts, " • ")
}

// RenderAnswer assembles the direct answer for a candidate: deterministic
// variant plus rendered CTA links.
func RenderAnswer(c models.Candidate, userID, userMsg string) string {
	answer := PickVariant(c.Entry.Variants(), userID, userMsg)
	if actions := RenderActions(c.Entry.Actions); actions != "" {
		answer += " " + actions
	}
	return answer
}

// Interpretation is the optional human-readable prefix naming the canonical
// question the message was matched to.
func Interpretation(c models.Candidate) string {
	if c.Entry.Question == "" {
		return ""
	}
	return fmt.Sprintf("Interpreté tu consulta como: %s.\n\n", c.Entry.Question)
}

// EnrichLinks wraps bare URLs in anchor tags for rich-text channels, leaving
// URLs that already sit inside an anchor untouched.
func EnrichLinks(text string) string {
	var b strings.Builder
	last := 0
	for _, loc := range urlRe.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		url := text[start:end]
		left := text[max(0, start-3):start]
		right := text[end:min(len(text), end+4)]
		b.WriteString(text[last:start])
		if strings.HasSuffix(left, `="`) || strings.HasSuffix(left, ">") || strings.HasPrefix(right, "</a") {
			b.WriteString(url)
		} else {
			fmt.Fprintf(&b, `<a href="%s" target="_blank">%s</a>`, url, url)
		}
		last = end
	}
	b.WriteString(text[last:])
	return b.String()
}
