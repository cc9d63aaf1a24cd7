package webhooks

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"faq-bot/config"
	"faq-bot/models"
	"faq-bot/services"
)

type emptyKnowledge struct{}

func (emptyKnowledge) FAQs(models.Country) []models.FAQEntry      { return nil }
func (emptyKnowledge) Addresses(models.Country) []models.Address  { return nil }
func (emptyKnowledge) Schedules(models.Country) []models.Schedule { return nil }

type staticGenerator struct{}

func (staticGenerator) Generate(context.Context, []services.ChatMessage) string { return "" }

func newTestApp(t *testing.T) (*fiber.App, *config.Config) {
	t.Helper()
	cfg := &config.Config{VerifyToken: "verify-me"}

	trainer := services.NewTrainer(t.TempDir())
	t.Cleanup(trainer.Close)

	bot := services.NewBot(
		config.DefaultPhrases(),
		emptyKnowledge{},
		services.NewSessionStore(5*time.Minute),
		staticGenerator{},
		trainer,
		nil,
	)

	app := fiber.New()
	RegisterRoutes(app, cfg, bot)
	return app, cfg
}

func TestVerifyWebhook(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest("GET",
		"/webhook/?hub.mode=subscribe&hub.verify_token=verify-me&hub.challenge=12345", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "12345", string(body))
}

func TestVerifyWebhookBadToken(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest("GET",
		"/webhook/?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=12345", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestHandleWebhookEvent(t *testing.T) {
	app, _ := newTestApp(t)

	event := WebhookEvent{
		Object: "page",
		Entry: []Entry{
			{ID: "page-1", Messaging: []Messaging{
				{Sender: User{ID: "psid-1"}, Message: &Message{MID: "m1"}},
			}},
		},
	}
	data, err := json.Marshal(event)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/webhook/", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "EVENT_RECEIVED", string(body))
}

func TestHandleWebhookEventWrongObject(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest("POST", "/webhook/",
		bytes.NewReader([]byte(`{"object": "user", "entry": []}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestHandleWebhookEventBadBody(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest("POST", "/webhook/", bytes.NewReader([]byte("{broken")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
