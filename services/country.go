package services

import (
	"strings"

	"faq-bot/models"
)

// countryAliases maps menu numbers, codes, names and flag emoji to countries.
var countryAliases = map[string]models.Country{
	"1": models.CostaRica,
	"2": models.Nicaragua,
	"3": models.Panama,
	"4": models.ElSalvador,

	"cr": models.CostaRica, "crc": models.CostaRica, "costa rica": models.CostaRica, "🇨🇷": models.CostaRica,
	"nic": models.Nicaragua, "ni": models.Nicaragua, "nicaragua": models.Nicaragua, "🇳🇮": models.Nicaragua,
	"pa": models.Panama, "panama": models.Panama, "panamá": models.Panama, "🇵🇦": models.Panama,
	"slv": models.ElSalvador, "sv": models.ElSalvador, "el salvador": models.ElSalvador,
	"salvador": models.ElSalvador, "🇸🇻": models.ElSalvador,
}

// countryLabels are the free-form labels fuzzy-matched when no alias hits.
var countryLabels = []string{
	"costa rica", "nicaragua", "panama", "panamá", "el salvador", "salvador",
	"cr", "ni", "pa", "sv", "slv",
}

// countryLabelThreshold is deliberately loose: country names arrive with
// typos and partial spellings, and the best label above it wins.
const countryLabelThreshold = 0.72

// DetectCountry classifies a free-form message as a country selection. Exact
// alias hits win; otherwise the best fuzzy label match above the threshold.
func DetectCountry(message string) (models.Country, bool) {
	msg := strings.ToLower(strings.TrimSpace(message))
	msg = strings.Join(strings.Fields(msg), " ")
	if msg == "" {
		return models.CountryNone, false
	}

	if country, ok := countryAliases[msg]; ok {
		return country, true
	}

	best, bestScore := "", 0.0
	for _, label := range countryLabels {
		if r := CharSimilarity(msg, label); r > bestScore {
			best, bestScore = label, r
		}
	}
	if bestScore >= countryLabelThreshold {
		if country, ok := countryAliases[best]; ok {
			return country, true
		}
	}
	return models.CountryNone, false
}
