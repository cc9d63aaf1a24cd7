package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"faq-bot/models"
	"faq-bot/services"
)

// ChatRequest is the web chat request body.
type ChatRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

// ChatResponse is the web chat reply. The user id is echoed back so
// anonymous clients can keep their generated session key.
type ChatResponse struct {
	UserID string `json:"user_id"`
	Reply  string `json:"reply"`
}

// WebChat returns the handler for the web chat endpoint.
func WebChat(bot *services.Bot) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req ChatRequest
		if err := c.BodyParser(&req); err != nil {
			slog.Error("Failed to parse chat request", "error", err)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}

		if req.Message == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "message is required",
			})
		}

		userID := req.UserID
		if userID == "" {
			userID = uuid.NewString()
		}

		reply := bot.HandleMessage(c.Context(), userID, req.Message, services.ChannelWeb)

		return c.JSON(ChatResponse{
			UserID: userID,
			Reply:  reply,
		})
	}
}

// ChatHistory returns the archived turns for a user, oldest first. Empty when
// the transcript archive is disabled.
func ChatHistory(archive *services.Archive) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Query("user_id")
		if userID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "user_id is required",
			})
		}

		turns, err := archive.RecentTurns(c.Context(), userID, c.QueryInt("limit", 20))
		if err != nil {
			slog.Error("Failed to load chat history", "error", err, "userID", userID)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load history",
			})
		}
		if turns == nil {
			turns = []models.Transcript{}
		}

		return c.JSON(fiber.Map{
			"user_id": userID,
			"turns":   turns,
		})
	}
}
