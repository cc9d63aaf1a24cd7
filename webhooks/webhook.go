package webhooks

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"faq-bot/config"
	"faq-bot/services"
)

// RegisterRoutes mounts the Messenger webhook endpoints.
func RegisterRoutes(app *fiber.App, cfg *config.Config, bot *services.Bot) {
	webhook := app.Group("/webhook")

	// Webhook verification endpoint
	webhook.Get("/", verifyWebhook(cfg))

	// Webhook event handler
	webhook.Post("/", handleWebhookEvent(cfg, bot))
}

// verifyWebhook handles the Messenger webhook verification handshake.
func verifyWebhook(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		mode := c.Query("hub.mode")
		token := c.Query("hub.verify_token")
		challenge := c.Query("hub.challenge")

		if mode == "subscribe" && token == cfg.VerifyToken {
			slog.Info("Webhook verified successfully")
			return c.SendString(challenge)
		}

		slog.Warn("Webhook verification failed", "mode", mode)
		return c.SendStatus(fiber.StatusForbidden)
	}
}

// handleWebhookEvent acks immediately and processes the event in the
// background; Messenger retries on slow responses.
func handleWebhookEvent(cfg *config.Config, bot *services.Bot) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body WebhookEvent
		if err := c.BodyParser(&body); err != nil {
			slog.Error("Failed to parse webhook body", "error", err)
			return c.SendStatus(fiber.StatusBadRequest)
		}

		if body.Object != "page" {
			return c.SendStatus(fiber.StatusNotFound)
		}

		go processWebhookEvent(body, cfg, bot)

		return c.SendString("EVENT_RECEIVED")
	}
}

// processWebhookEvent runs each text message through the bot and delivers
// the reply. Delivery failures are logged, not retried.
func processWebhookEvent(body WebhookEvent, cfg *config.Config, bot *services.Bot) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	for _, entry := range body.Entry {
		for _, messaging := range entry.Messaging {
			if messaging.Message == nil || messaging.Message.Text == "" {
				continue
			}

			senderID := messaging.Sender.ID
			reply := bot.HandleMessage(ctx, senderID, messaging.Message.Text, services.ChannelMessenger)

			if err := services.SendMessengerReply(ctx, senderID, reply, cfg.PageAccessToken); err != nil {
				slog.Error("Failed to deliver reply", "error", err, "recipientID", senderID)
			}
		}
	}
}
