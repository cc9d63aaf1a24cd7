package services

import (
	"fmt"
	"strings"
	"time"

	"faq-bot/models"
)

const (
	// Context assembly takes the top few FAQ answers above a loose floor;
	// the strict delegation threshold is applied later by the controller.
	contextTopK     = 4
	contextMinScore = 0.38

	// Threshold for exact-ish keyword hits on addresses and branch names.
	keywordMatchThreshold = 0.82
)

var localTZ = func() *time.Location {
	loc, err := time.LoadLocation("America/Costa_Rica")
	if err != nil {
		return time.UTC
	}
	return loc
}()

// RelevantFAQs returns ready-to-show answers for the top-ranked entries above
// the context floor.
func RelevantFAQs(userMsg, userID string, entries []models.FAQEntry) []string {
	ranked := RankFAQs(userMsg, entries)
	var answers []string
	for i, c := range ranked {
		if i >= contextTopK || c.Score < contextMinScore {
			break
		}
		if len(c.Entry.Variants()) == 0 {
			continue
		}
		answers = append(answers, RenderAnswer(c, userID, userMsg))
	}
	return answers
}

// SearchAddresses matches the message against zone names and keywords. When
// nothing matches it points at the business-centres page instead.
func SearchAddresses(userMsg string, addresses []models.Address, fallbackURL string) []string {
	tokens := NormalizeTokens(userMsg)
	var found []string

	for _, addr := range addresses {
		keys := NormalizeTokens(addr.Zone)
		for _, kw := range append(addr.Keywords, addr.KeywordsNormalized...) {
			keys = append(keys, NormalizeTokens(kw)...)
		}
		if !TokensMatch(tokens, keys, keywordMatchThreshold) {
			continue
		}
		entry := fmt.Sprintf("%s: %s.", addr.Zone, addr.Street)
		if waze := strings.TrimSpace(addr.Waze); waze != "" {
			entry += fmt.Sprintf(` Waze: <a href="%s" target="_blank">Ver en Waze</a>`, waze)
		}
		found = append(found, entry)
	}

	if len(found) == 0 {
		found = append(found, fmt.Sprintf(
			`No encontré la dirección que buscás. Podés consultarla en: <a href="%s" target="_blank">Centros de Negocio</a>`,
			fallbackURL))
	}
	return found
}

// SearchSchedules matches the message against branch names.
func SearchSchedules(userMsg string, schedules []models.Schedule, fallbackURL string) []string {
	tokens := NormalizeTokens(userMsg)
	var found []string

	for _, sched := range schedules {
		if !TokensMatch(tokens, NormalizeTokens(sched.Branch), keywordMatchThreshold) {
			continue
		}
		found = append(found, fmt.Sprintf("%s: lun-vie %s, sáb %s, dom %s",
			sched.Branch, sched.Weekdays, sched.Saturday, sched.Sunday))
	}

	if len(found) == 0 {
		found = append(found, fmt.Sprintf(
			`No encontré el horario solicitado. Podés consultarlo en: <a href="%s" target="_blank">Centros de Negocio</a>`,
			fallbackURL))
	}
	return found
}

// containsSynonym reports whether any normalized message token is in the
// synonym list.
func containsSynonym(userMsg string, synonyms []string) bool {
	for _, token := range NormalizeTokens(userMsg) {
		for _, s := range synonyms {
			if token == s {
				return true
			}
		}
	}
	return false
}

// localGreeting picks the salutation for the local hour.
func localGreeting(now time.Time) string {
	switch hour := now.In(localTZ).Hour(); {
	case hour >= 5 && hour < 12:
		return "¡Buenos días!"
	case hour >= 12 && hour < 18:
		return "¡Buenas tardes!"
	default:
		return "¡Buenas noches!"
	}
}

// BuildContext assembles the knowledge-base context for a message: relevant
// FAQ answers always, addresses and schedules only when the message asks for
// them. Empty when the knowledge base has nothing relevant.
func (b *Bot) BuildContext(userMsg, userID string, country models.Country) string {
	var sections []string

	if faqs := RelevantFAQs(userMsg, userID, b.knowledge.FAQs(country)); len(faqs) > 0 {
		sections = append(sections, "FAQs relevantes:")
		sections = append(sections, faqs...)
	}

	if containsSynonym(userMsg, b.phrases.AddressSynonyms) {
		addresses := SearchAddresses(userMsg, b.knowledge.Addresses(country), b.branchURL(country))
		sections = append(sections, "\nDirecciones encontradas:")
		sections = append(sections, addresses...)
	}

	if containsSynonym(userMsg, b.phrases.ScheduleSynonyms) {
		schedules := SearchSchedules(userMsg, b.knowledge.Schedules(country), b.branchURL(country))
		sections = append(sections, "\nHorarios disponibles:")
		sections = append(sections, schedules...)
	}

	if len(sections) == 0 {
		return ""
	}
	return localGreeting(time.Now()) + "\n" + strings.Join(sections, "\n")
}

func (b *Bot) branchURL(country models.Country) string {
	if url, ok := b.phrases.BranchURLs[country.Folder()]; ok {
		return url
	}
	return b.phrases.BranchURLs["cr"]
}
