package models

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Country identifies one of the supported markets.
type Country string

const (
	CostaRica   Country = "CR"
	Nicaragua   Country = "NIC"
	Panama      Country = "PA"
	ElSalvador  Country = "SLV"
	CountryNone Country = ""
)

// Folder returns the per-country data directory name.
func (c Country) Folder() string {
	switch c {
	case CostaRica:
		return "cr"
	case Nicaragua:
		return "nic"
	case Panama:
		return "pa"
	case ElSalvador:
		return "slv"
	}
	return ""
}

// CTA is a call-to-action link attached to a FAQ entry.
type CTA struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// FAQEntry is one knowledge-base record. JSON tags follow the Spanish field
// names used by the data files.
type FAQEntry struct {
	ID        string   `json:"id"`
	Question  string   `json:"pregunta"`
	Keywords  []string `json:"keywords"`
	Intent    string   `json:"intencion"`
	Type      string   `json:"tipo"`
	Subtype   string   `json:"subtipo"`
	Responses []string `json:"respuestas"`
	Response  string   `json:"respuesta"` // legacy single-response field
	Actions   []CTA    `json:"acciones"`
}

// Variants returns the response variants, folding the legacy single-response
// field in when the list is empty.
func (e FAQEntry) Variants() []string {
	if len(e.Responses) > 0 {
		return e.Responses
	}
	if e.Response != "" {
		return []string{e.Response}
	}
	return nil
}

// Candidate pairs a FAQ entry with its score for one ranking call.
type Candidate struct {
	Score float64
	Entry FAQEntry
}

// Address is a branch location record.
type Address struct {
	Zone               string   `json:"zona"`
	Street             string   `json:"direccion"`
	Waze               string   `json:"waze"`
	Keywords           []string `json:"keywords"`
	KeywordsNormalized []string `json:"keywords_normalized"`
}

// Schedule holds opening hours for one branch.
type Schedule struct {
	Branch   string
	Weekdays string
	Saturday string
	Sunday   string
}

// UnmarshalJSON accepts both the legacy long keys and the compact keys found
// in the data files.
func (s *Schedule) UnmarshalJSON(data []byte) error {
	var raw struct {
		Branch         string `json:"CDN"`
		WeekdaysLegacy string `json:"Horario lunes a viernes"`
		Weekdays       string `json:"lunes_viernes"`
		SaturdayLegacy string `json:"Sabados"`
		Saturday       string `json:"sabado"`
		SundayLegacy   string `json:"domingos"`
		Sunday         string `json:"domingo"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.Branch = raw.Branch
	s.Weekdays = firstNonEmpty(raw.WeekdaysLegacy, raw.Weekdays)
	s.Saturday = firstNonEmpty(raw.SaturdayLegacy, raw.Saturday)
	s.Sunday = firstNonEmpty(raw.SundayLegacy, raw.Sunday)
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// ChatTurn is one role-tagged entry in a session's conversation history.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Selection identifies the FAQ entry a ranking call picked.
type Selection struct {
	FAQID  string  `json:"faq_id"`
	Intent string  `json:"intencion"`
	Score  float64 `json:"score"`
}

// Prediction snapshots a turn's classification outcome so later negative
// feedback can be correlated with it.
type Prediction struct {
	UserMsg      string      `json:"user_msg"`
	Selected     Selection   `json:"selected"`
	Alternatives []Selection `json:"alternatives"`
}

// TrainingRecord is one append-only log entry for offline analysis. It is
// never read back at runtime.
type TrainingRecord struct {
	Label        string      `json:"label"` // "auto" or "negative"
	UserID       string      `json:"user_id"`
	Country      string      `json:"country"`
	UserMsg      string      `json:"user_msg"`
	Selected     *Selection  `json:"selected,omitempty"`
	Alternatives []Selection `json:"alternatives,omitempty"`
	Note         string      `json:"note,omitempty"`
	Timestamp    time.Time   `json:"ts"`
}

// NoContextRecord captures a question the bot could not answer from context.
type NoContextRecord struct {
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Timestamp time.Time `json:"ts"`
}

// Transcript is one archived conversation turn. Written fire-and-forget when
// the Mongo archive is enabled; sessions themselves stay in memory.
type Transcript struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"user_id" json:"user_id"`
	Country   string             `bson:"country" json:"country"`
	UserMsg   string             `bson:"user_msg" json:"user_msg"`
	BotMsg    string             `bson:"bot_msg" json:"bot_msg"`
	Direct    bool               `bson:"direct" json:"direct"` // answered from the knowledge base
	Channel   string             `bson:"channel" json:"channel"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}
