package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"faq-bot/config"
	"faq-bot/models"
)

// stubKnowledge serves fixed slices regardless of country.
type stubKnowledge struct {
	faqs      []models.FAQEntry
	addresses []models.Address
	schedules []models.Schedule
}

func (s *stubKnowledge) FAQs(models.Country) []models.FAQEntry      { return s.faqs }
func (s *stubKnowledge) Addresses(models.Country) []models.Address  { return s.addresses }
func (s *stubKnowledge) Schedules(models.Country) []models.Schedule { return s.schedules }

// stubGenerator returns a fixed reply and records what it was asked.
type stubGenerator struct {
	reply    string
	called   bool
	messages []ChatMessage
}

func (g *stubGenerator) Generate(_ context.Context, messages []ChatMessage) string {
	g.called = true
	g.messages = messages
	return g.reply
}

type botFixture struct {
	bot    *Bot
	gen    *stubGenerator
	clock  *fakeClock
	logDir string
}

func newBotFixture(t *testing.T, knowledge *stubKnowledge) *botFixture {
	t.Helper()
	logDir := t.TempDir()
	trainer := NewTrainer(logDir)
	t.Cleanup(trainer.Close)

	store, clock := newTestStore(5 * time.Minute)
	gen := &stubGenerator{reply: "respuesta delegada"}

	return &botFixture{
		bot:    NewBot(config.DefaultPhrases(), knowledge, store, gen, trainer, nil),
		gen:    gen,
		clock:  clock,
		logDir: logDir,
	}
}

// selectCountry walks a fresh user through the country gate.
func (f *botFixture) selectCountry(t *testing.T, userID, choice string) {
	t.Helper()
	reply := f.bot.HandleMessage(context.Background(), userID, choice, ChannelWeb)
	require.Equal(t, config.DefaultPhrases().CountryConfirmation, reply)
}

func TestHandleMessageCountryGate(t *testing.T) {
	f := newBotFixture(t, &stubKnowledge{faqs: testEntries()})
	ctx := context.Background()
	phrases := config.DefaultPhrases()

	// Anything before a country selection gets the menu, greetings included.
	assert.Equal(t, phrases.WelcomeMessage, f.bot.HandleMessage(ctx, "u1", "Hola!!!", ChannelWeb))
	assert.Equal(t, phrases.WelcomeMessage, f.bot.HandleMessage(ctx, "u1", "quiero un credito", ChannelWeb))

	assert.Equal(t, phrases.CountryConfirmation, f.bot.HandleMessage(ctx, "u1", "1", ChannelWeb))
	assert.Equal(t, models.CostaRica, f.bot.Sessions().Country("u1"))

	// Country names work as well as menu numbers.
	assert.Equal(t, phrases.CountryConfirmation, f.bot.HandleMessage(ctx, "u2", "el salvador", ChannelWeb))
	assert.Equal(t, models.ElSalvador, f.bot.Sessions().Country("u2"))
}

func TestHandleMessageCourtesy(t *testing.T) {
	f := newBotFixture(t, &stubKnowledge{faqs: testEntries()})
	ctx := context.Background()
	phrases := config.DefaultPhrases()
	f.selectCountry(t, "u1", "1")

	assert.Equal(t, phrases.CourtesyReplies["hola"], f.bot.HandleMessage(ctx, "u1", "hola", ChannelWeb))
	assert.Equal(t, phrases.CourtesyReplies["gracias"], f.bot.HandleMessage(ctx, "u1", "muchas gracias", ChannelWeb))
	assert.Equal(t, phrases.CourtesyReplies["buenas noches"], f.bot.HandleMessage(ctx, "u1", "buenas noches", ChannelWeb))

	// Typos inside the similarity threshold still count.
	assert.Equal(t, phrases.CourtesyReplies["hola"], f.bot.HandleMessage(ctx, "u1", "holaa", ChannelWeb))

	// Courtesy turns leave no history behind.
	turns, _ := f.bot.Sessions().History("u1")
	assert.Empty(t, turns)
	assert.False(t, f.gen.called)
}

func TestHandleMessageDirectAnswer(t *testing.T) {
	f := newBotFixture(t, &stubKnowledge{faqs: testEntries()})
	ctx := context.Background()
	f.selectCountry(t, "u1", "1")

	reply := f.bot.HandleMessage(ctx, "u1", "horario de atencion", ChannelWeb)

	assert.Contains(t, reply, "Interpreté tu consulta como: ¿Cuál es el horario de atención?.")
	assert.Contains(t, reply, "Atendemos de lunes a viernes de 8am a 5pm.")
	assert.False(t, f.gen.called, "confident matches must not reach the model")

	// The turn lands in history and the prediction is kept for feedback.
	turns, _ := f.bot.Sessions().History("u1")
	require.Len(t, turns, 2)
	pred := f.bot.Sessions().LastPrediction("u1")
	require.NotNil(t, pred)
	assert.Equal(t, "faq-horario", pred.Selected.FAQID)

	lines := readJSONLines(t, filepath.Join(f.logDir, "training_data.jsonl"))
	require.Len(t, lines, 1)
	assert.Equal(t, "auto", lines[0]["label"])
}

func TestHandleMessageDirectAnswerLinksOnlyOnWeb(t *testing.T) {
	f := newBotFixture(t, &stubKnowledge{faqs: testEntries()})
	ctx := context.Background()
	f.selectCountry(t, "u1", "1")
	f.selectCountry(t, "u2", "1")

	web := f.bot.HandleMessage(ctx, "u1", "solicitar credito", ChannelWeb)
	messenger := f.bot.HandleMessage(ctx, "u2", "solicitar credito", ChannelMessenger)

	assert.Contains(t, web, `<a href="https://example.com/solicitar"`)
	assert.Contains(t, messenger, `<a href="https://example.com/solicitar"`)
	// CTA anchors come from the answer itself; EnrichLinks must not re-wrap them.
	assert.Equal(t, web, messenger)
}

func TestHandleMessageNoContextFallback(t *testing.T) {
	f := newBotFixture(t, &stubKnowledge{faqs: testEntries()})
	ctx := context.Background()
	phrases := config.DefaultPhrases()
	f.selectCountry(t, "u1", "1")

	reply := f.bot.HandleMessage(ctx, "u1", "asunto desconocido xyz", ChannelWeb)

	assert.Equal(t, phrases.FallbackMessage, reply)
	assert.False(t, f.gen.called)

	lines := readJSONLines(t, filepath.Join(f.logDir, "no_context_log.jsonl"))
	require.Len(t, lines, 1)
	assert.Equal(t, "asunto desconocido xyz", lines[0]["question"])
}

func TestHandleMessageDelegation(t *testing.T) {
	f := newBotFixture(t, &stubKnowledge{faqs: testEntries()})
	ctx := context.Background()
	f.selectCountry(t, "u1", "1")

	f.gen.reply = "Podés solicitarlo en cualquier sucursal con tu cédula."
	reply := f.bot.HandleMessage(ctx, "u1", "credito rapido", ChannelWeb)

	assert.Equal(t, f.gen.reply, reply)
	require.True(t, f.gen.called)

	// Prompt layout: system instruction, context block, then the user message.
	require.GreaterOrEqual(t, len(f.gen.messages), 3)
	assert.Equal(t, "system", f.gen.messages[0].Role)
	assert.Equal(t, config.SystemPrompt, f.gen.messages[0].Content)
	assert.Equal(t, "system", f.gen.messages[1].Role)
	assert.Contains(t, f.gen.messages[1].Content, "FAQs relevantes:")
	last := f.gen.messages[len(f.gen.messages)-1]
	assert.Equal(t, ChatMessage{Role: "user", Content: "credito rapido"}, last)

	// Delegated turns never leave a prediction to blame.
	assert.Nil(t, f.bot.Sessions().LastPrediction("u1"))
}

func TestHandleMessageDelegationBlocked(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"blocklist phrase", "Como modelo de lenguaje no puedo responder eso."},
		{"generic refusal", "No tengo información sobre ese tema."},
		{"invented url", "Consultá https://otro-sitio.example.com para más detalles."},
		{"forbidden product", "También ofrecemos crédito hipotecario."},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBotFixture(t, &stubKnowledge{faqs: testEntries()})
			ctx := context.Background()
			phrases := config.DefaultPhrases()
			f.selectCountry(t, "u1", "1")

			f.gen.reply = tt.reply
			reply := f.bot.HandleMessage(ctx, "u1", "credito rapido", ChannelWeb)

			assert.True(t, f.gen.called)
			assert.Equal(t, phrases.FallbackMessage, reply)

			lines := readJSONLines(t, filepath.Join(f.logDir, "no_context_log.jsonl"))
			require.Len(t, lines, 1)
			assert.Equal(t, "credito rapido", lines[0]["question"])
		})
	}
}

func TestHandleMessageExpiredSessionNotice(t *testing.T) {
	f := newBotFixture(t, &stubKnowledge{faqs: testEntries()})
	ctx := context.Background()
	phrases := config.DefaultPhrases()
	f.selectCountry(t, "u1", "1")

	f.bot.HandleMessage(ctx, "u1", "credito rapido", ChannelWeb)
	f.clock.advance(10 * time.Minute)

	reply := f.bot.HandleMessage(ctx, "u1", "credito rapido", ChannelWeb)
	assert.True(t, len(reply) > len(phrases.SessionExpiredNotice))
	assert.Contains(t, reply, phrases.SessionExpiredNotice)

	// The country survives the inactivity reset.
	assert.Equal(t, models.CostaRica, f.bot.Sessions().Country("u1"))
}

func TestHandleMessageCommands(t *testing.T) {
	f := newBotFixture(t, &stubKnowledge{faqs: testEntries()})
	ctx := context.Background()
	phrases := config.DefaultPhrases()
	f.selectCountry(t, "u1", "1")
	f.bot.HandleMessage(ctx, "u1", "horario de atencion", ChannelWeb)

	// Reset keeps the country but drops the history.
	reply := f.bot.HandleMessage(ctx, "u1", "reiniciar", ChannelWeb)
	assert.Equal(t, phrases.ResetConfirmation+phrases.WelcomeMessage, reply)
	turns, _ := f.bot.Sessions().History("u1")
	assert.Empty(t, turns)
	assert.Equal(t, models.CostaRica, f.bot.Sessions().Country("u1"))

	// Change-country drops the whole session.
	reply = f.bot.HandleMessage(ctx, "u1", "cambiar pais", ChannelWeb)
	assert.Equal(t, phrases.WelcomeMessage, reply)
	assert.Equal(t, models.CountryNone, f.bot.Sessions().Country("u1"))
}

func TestHandleMessageNegativeFeedback(t *testing.T) {
	f := newBotFixture(t, &stubKnowledge{faqs: testEntries()})
	ctx := context.Background()
	phrases := config.DefaultPhrases()
	f.selectCountry(t, "u1", "1")

	// A direct answer leaves a prediction behind.
	f.bot.HandleMessage(ctx, "u1", "horario de atencion", ChannelWeb)

	reply := f.bot.HandleMessage(ctx, "u1", "no es eso", ChannelWeb)
	assert.Equal(t, phrases.FeedbackPrompt, reply)

	lines := readJSONLines(t, filepath.Join(f.logDir, "training_data.jsonl"))
	require.Len(t, lines, 2)
	assert.Equal(t, "negative", lines[1]["label"])
	assert.Equal(t, "horario de atencion", lines[1]["user_msg"])
	assert.Equal(t, "faq-horario", lines[1]["selected"].(map[string]any)["faq_id"])
}

func TestIsNegativeFeedback(t *testing.T) {
	f := newBotFixture(t, &stubKnowledge{})

	assert.True(t, f.bot.isNegativeFeedback("no"))
	assert.True(t, f.bot.isNegativeFeedback("No es eso"))
	assert.True(t, f.bot.isNegativeFeedback("creo que eso no era lo que pregunté"))

	// Single-word phrases only match the whole message.
	assert.False(t, f.bot.isNegativeFeedback("buenas noches"))
	assert.False(t, f.bot.isNegativeFeedback("no sé qué horario tienen"))
}

func TestBuildContextSections(t *testing.T) {
	f := newBotFixture(t, &stubKnowledge{
		faqs: testEntries(),
		addresses: []models.Address{
			{Zone: "San José Centro", Street: "Avenida Central", Waze: "https://waze.com/ul/sj"},
		},
		schedules: []models.Schedule{
			{Branch: "San José Centro", Weekdays: "8-17", Saturday: "8-12", Sunday: "Cerrado"},
		},
	})

	// Address and schedule sections only appear when asked for.
	plain := f.bot.BuildContext("horario de atencion", "u1", models.CostaRica)
	assert.Contains(t, plain, "FAQs relevantes:")
	assert.Contains(t, plain, "Horarios disponibles:")
	assert.NotContains(t, plain, "Direcciones encontradas:")

	withAddress := f.bot.BuildContext("direccion de san jose", "u1", models.CostaRica)
	assert.Contains(t, withAddress, "Direcciones encontradas:")
	assert.Contains(t, withAddress, "Avenida Central")

	assert.Equal(t, "", f.bot.BuildContext("asunto desconocido xyz", "u1", models.CostaRica))
}
