package services

import (
	"regexp"
	"strings"

	"faq-bot/config"
)

// SafetyFilter validates delegated model output before it reaches the user.
type SafetyFilter struct {
	blocklist      []string
	refusals       []*regexp.Regexp
	forbiddenTerms []string
}

// NewSafetyFilter compiles the refusal patterns once. Invalid patterns are a
// programming error in the phrase tables, so compilation panics via MustCompile.
func NewSafetyFilter(phrases config.Phrases) *SafetyFilter {
	refusals := make([]*regexp.Regexp, 0, len(phrases.RefusalPatterns))
	for _, p := range phrases.RefusalPatterns {
		refusals = append(refusals, regexp.MustCompile(p))
	}
	return &SafetyFilter{
		blocklist:      phrases.BlocklistSnippets,
		refusals:       refusals,
		forbiddenTerms: phrases.ForbiddenTerms,
	}
}

// Sanitize post-processes a delegated response. Blocked when the text is
// empty, carries the generation error marker, contains a blocklist phrase, or
// matches a generic-refusal pattern.
func (f *SafetyFilter) Sanitize(text string) (string, bool) {
	t := strings.TrimSpace(text)
	if t == "" {
		return "", true
	}
	low := strings.ToLower(t)

	if strings.Contains(low, errorMarker) {
		return t, true
	}
	for _, snippet := range f.blocklist {
		if strings.Contains(low, snippet) {
			return t, true
		}
	}
	for _, re := range f.refusals {
		if re.MatchString(low) {
			return t, true
		}
	}
	return t, false
}

// IsGrounded reports whether a delegated response is traceable to the
// supplied context: no forbidden term may appear unless the context mentions
// it, and every URL must be present verbatim in the context.
func (f *SafetyFilter) IsGrounded(text, context string) bool {
	low := strings.ToLower(text)
	ctx := strings.ToLower(context)

	for _, term := range f.forbiddenTerms {
		if strings.Contains(low, term) && !strings.Contains(ctx, term) {
			return false
		}
	}
	for _, url := range urlRe.FindAllString(text, -1) {
		if !strings.Contains(ctx, strings.ToLower(url)) {
			return false
		}
	}
	return true
}
