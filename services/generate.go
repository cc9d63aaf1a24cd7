package services

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"faq-bot/config"
	"faq-bot/models"
)

// errorMarker is the soft-failure string a failed generation call collapses
// into. The safety filter treats it as blocked output, so transport errors
// never reach the user.
const errorMarker = "error al contactar con el modelo"

// ChatMessage is one role-tagged message sent to the generation service.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Generator produces a reply for an ordered list of messages. Implementations
// never return an error to the caller: any failure yields a textual error
// marker instead.
type Generator interface {
	Generate(ctx context.Context, messages []ChatMessage) string
}

// OllamaClient calls an Ollama-compatible /api/chat endpoint.
type OllamaClient struct {
	url    string
	model  string
	client *http.Client
}

func NewOllamaClient(cfg *config.Config) *OllamaClient {
	timeout := cfg.GenerateTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &OllamaClient{
		url:   cfg.GenerateURL,
		model: cfg.ModelName,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type ollamaRequest struct {
	Model    string         `json:"model"`
	Messages []ChatMessage  `json:"messages"`
	Stream   bool           `json:"stream"`
	Options  map[string]any `json:"options"`
}

type ollamaResponse struct {
	Message ChatMessage `json:"message"`
}

// Generate sends the conversation to the model and returns its reply text.
// Temperature is pinned to zero so retrieval-grounded answers stay stable.
func (c *OllamaClient) Generate(ctx context.Context, messages []ChatMessage) string {
	requestBody := ollamaRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   false,
		Options:  map[string]any{"temperature": 0},
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		slog.Error("Failed to encode generation request", "error", err)
		return errorMarker
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.url, bytes.NewBuffer(jsonData))
	if err != nil {
		slog.Error("Failed to build generation request", "error", err)
		return errorMarker
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		slog.Error("Generation call failed", "error", err, "url", c.url)
		return errorMarker
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Error("Generation call returned non-200", "status", resp.StatusCode)
		return errorMarker
	}

	var out ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		slog.Error("Failed to decode generation response", "error", err)
		return errorMarker
	}
	if out.Message.Content == "" {
		return errorMarker
	}
	return out.Message.Content
}

// BuildMessages assembles the delegated prompt: system instruction, context
// block, flat history replay, then the current user message.
func BuildMessages(contextText string, history []models.ChatTurn, userMsg string) []ChatMessage {
	messages := make([]ChatMessage, 0, len(history)+3)
	messages = append(messages,
		ChatMessage{Role: "system", Content: config.SystemPrompt},
		ChatMessage{Role: "system", Content: contextText},
	)
	for _, turn := range history {
		messages = append(messages, ChatMessage{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, ChatMessage{Role: "user", Content: userMsg})
	return messages
}
