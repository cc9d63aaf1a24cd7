package services

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"faq-bot/config"
	"faq-bot/models"
)

const (
	// DelegationThreshold is deliberately high: only very confident lexical
	// matches answer directly, everything else goes to the model so a
	// marginal match never produces a wrong canned answer.
	DelegationThreshold = 0.9

	// Courtesy detection only applies to short messages.
	courtesyMaxTokens = 4
	courtesyThreshold = 0.75

	// showInterpretation prefixes direct answers with the canonical question
	// they were matched to.
	showInterpretation = true
)

// Delivery channels.
const (
	ChannelWeb       = "web"
	ChannelMessenger = "meta"
)

var symbolsOnlyRe = regexp.MustCompile(`^[\W_]+$`)

// Bot orchestrates a conversation turn: command handling, country selection,
// courtesy short-circuit, context assembly, the direct-vs-delegate decision
// and output safety. All collaborators are injected.
type Bot struct {
	phrases   config.Phrases
	knowledge KnowledgeStore
	sessions  *SessionStore
	generator Generator
	trainer   *Trainer
	archive   *Archive
	safety    *SafetyFilter
}

func NewBot(phrases config.Phrases, knowledge KnowledgeStore, sessions *SessionStore,
	generator Generator, trainer *Trainer, archive *Archive) *Bot {
	return &Bot{
		phrases:   phrases,
		knowledge: knowledge,
		sessions:  sessions,
		generator: generator,
		trainer:   trainer,
		archive:   archive,
		safety:    NewSafetyFilter(phrases),
	}
}

// Sessions exposes the session store, mainly for the cleanup goroutine.
func (b *Bot) Sessions() *SessionStore {
	return b.sessions
}

// HandleMessage runs one conversation turn and returns the reply text.
func (b *Bot) HandleMessage(ctx context.Context, userID, userMsg, channel string) string {
	// Negative feedback: log the miss against the previous prediction and
	// ask for clarification. No state change.
	if b.isNegativeFeedback(userMsg) {
		if last := b.sessions.LastPrediction(userID); last != nil {
			b.trainer.Record(models.TrainingRecord{
				Label:        "negative",
				UserID:       userID,
				Country:      string(b.sessions.Country(userID)),
				UserMsg:      last.UserMsg,
				Selected:     &last.Selected,
				Alternatives: last.Alternatives,
				Note:         "user_neg_feedback",
			})
		}
		return b.phrases.FeedbackPrompt
	}

	// Session commands.
	if reply, handled := b.handleCommand(userID, userMsg); handled {
		return reply
	}

	country := b.sessions.Country(userID)

	// Country selection gate.
	if country == models.CountryNone {
		if detected, ok := DetectCountry(userMsg); ok {
			b.sessions.SetCountry(userID, detected)
			slog.Info("Country selected", "userID", userID, "country", detected)
			return b.phrases.CountryConfirmation
		}
		return b.phrases.WelcomeMessage
	}

	// Courtesy short-circuit: canned reply, no history update.
	if reply, ok := b.detectCourtesy(userMsg); ok {
		return reply
	}

	// Context assembly. A fresh non-empty context replaces the cached one;
	// an empty build keeps whatever the previous turn produced.
	if built := b.BuildContext(userMsg, userID, country); strings.TrimSpace(built) != "" {
		b.sessions.SetContext(userID, built)
	}
	contextText := b.sessions.Context(userID)

	if strings.TrimSpace(contextText) == "" {
		b.trainer.LogNoContext(userMsg, b.phrases.FallbackMessage)
		b.sessions.SetLastPrediction(userID, nil)
		b.finishTurn(ctx, userID, string(country), userMsg, b.phrases.FallbackMessage, false, channel)
		return b.phrases.FallbackMessage
	}

	// Direct answer when the top candidate clears the delegation threshold.
	ranked := RankFAQs(userMsg, b.knowledge.FAQs(country))
	if top, ok := bestSelectable(ranked, DelegationThreshold); ok {
		selected := models.Selection{FAQID: top.Entry.ID, Intent: top.Entry.Intent, Score: top.Score}
		alternatives := topAlternatives(ranked, 3)

		b.trainer.Record(models.TrainingRecord{
			Label:        "auto",
			UserID:       userID,
			Country:      string(country),
			UserMsg:      userMsg,
			Selected:     &selected,
			Alternatives: alternatives,
		})
		b.sessions.SetLastPrediction(userID, &models.Prediction{
			UserMsg:      userMsg,
			Selected:     selected,
			Alternatives: alternatives,
		})

		reply := RenderAnswer(top, userID, userMsg)
		if showInterpretation {
			reply = Interpretation(top) + reply
		}
		if channel == ChannelWeb {
			reply = EnrichLinks(reply)
		}
		b.finishTurn(ctx, userID, string(country), userMsg, reply, true, channel)
		return reply
	}

	// Delegate to the model. The blocking call happens outside any session
	// lock so unrelated users keep flowing.
	b.sessions.SetLastPrediction(userID, nil)
	history, expired := b.sessions.History(userID)
	botMsg := b.generator.Generate(ctx, BuildMessages(contextText, history, userMsg))

	botMsg, blocked := b.safety.Sanitize(botMsg)
	if !blocked && !b.safety.IsGrounded(botMsg, contextText) {
		blocked = true
	}
	if blocked || strings.TrimSpace(botMsg) == "" {
		b.trainer.LogNoContext(userMsg, strings.TrimSpace(botMsg))
		botMsg = b.phrases.FallbackMessage
	}

	if channel == ChannelWeb {
		botMsg = EnrichLinks(botMsg)
	}
	b.finishTurn(ctx, userID, string(country), userMsg, botMsg, false, channel)

	if expired {
		return b.phrases.SessionExpiredNotice + botMsg
	}
	return botMsg
}

// finishTurn updates the in-memory history and, when enabled, archives the
// exchange.
func (b *Bot) finishTurn(ctx context.Context, userID, country, userMsg, botMsg string, direct bool, channel string) {
	b.sessions.AppendTurn(userID, userMsg, botMsg)
	b.archive.SaveTurn(ctx, models.Transcript{
		UserID:  userID,
		Country: country,
		UserMsg: userMsg,
		BotMsg:  botMsg,
		Direct:  direct,
		Channel: channel,
	})
}

// isNegativeFeedback matches the fixed feedback phrase set: single-word
// phrases must equal the whole message, multi-word phrases may appear as a
// substring. (A bare substring match on "no" would swallow "buenas noches".)
func (b *Bot) isNegativeFeedback(userMsg string) bool {
	msg := normalizeBasic(userMsg)
	for _, phrase := range b.phrases.NegativeFeedback {
		if msg == phrase {
			return true
		}
		if strings.Contains(phrase, " ") && strings.Contains(msg, phrase) {
			return true
		}
	}
	return false
}

// handleCommand recognizes reset and change-country synonyms.
func (b *Bot) handleCommand(userID, userMsg string) (string, bool) {
	msg := normalizeBasic(userMsg)
	for _, cmd := range b.phrases.ResetCommands {
		if msg == cmd {
			b.sessions.Reset(userID)
			return b.phrases.ResetConfirmation + b.phrases.WelcomeMessage, true
		}
	}
	for _, cmd := range b.phrases.ChangeCountryCommands {
		if msg == cmd {
			b.sessions.Clear(userID)
			return b.phrases.WelcomeMessage, true
		}
	}
	return "", false
}

// detectCourtesy fuzzy-matches short messages against the courtesy phrase
// table. A phrase wins when enough of its tokens are covered by message
// tokens at the courtesy threshold.
func (b *Bot) detectCourtesy(userMsg string) (string, bool) {
	if symbolsOnlyRe.MatchString(strings.TrimSpace(userMsg)) {
		return "", false
	}
	tokens := strings.Fields(NormalizeText(userMsg))
	if len(tokens) == 0 || len(tokens) > courtesyMaxTokens {
		return "", false
	}

	bestReply, bestScore := "", 0.0
	for phrase, reply := range b.phrases.CourtesyReplies {
		phraseTokens := strings.Fields(NormalizeText(phrase))
		hits := 0
		for _, t := range tokens {
			for _, pt := range phraseTokens {
				if CharSimilarity(t, pt) >= courtesyThreshold {
					hits++
					break
				}
			}
		}
		ratio := float64(hits) / float64(max(1, len(phraseTokens)))
		if ratio >= courtesyThreshold && ratio > bestScore {
			bestReply, bestScore = reply, ratio
		}
	}
	return bestReply, bestReply != ""
}

// bestSelectable picks the highest-scoring candidate with response variants
// at or above minScore from an already-ranked list.
func bestSelectable(ranked []models.Candidate, minScore float64) (models.Candidate, bool) {
	for _, c := range ranked {
		if c.Score < minScore {
			break
		}
		if len(c.Entry.Variants()) > 0 {
			return c, true
		}
	}
	return models.Candidate{}, false
}

// topAlternatives extracts the leading candidates for the training record.
func topAlternatives(ranked []models.Candidate, n int) []models.Selection {
	if len(ranked) < n {
		n = len(ranked)
	}
	alts := make([]models.Selection, 0, n)
	for _, c := range ranked[:n] {
		alts = append(alts, models.Selection{FAQID: c.Entry.ID, Intent: c.Entry.Intent, Score: c.Score})
	}
	return alts
}

// normalizeBasic lowercases and squeezes whitespace without touching accents
// or punctuation; command and feedback phrases keep their written form.
func normalizeBasic(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}
