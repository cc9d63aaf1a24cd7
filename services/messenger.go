package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

const fbGraphAPI = "https://graph.facebook.com/v19.0"

// SendMessengerReply delivers a reply through the Messenger Send API. The
// caller logs failures; delivery is not retried.
func SendMessengerReply(ctx context.Context, recipientID, message, pageAccessToken string) error {
	url := fmt.Sprintf("%s/me/messages?access_token=%s", fbGraphAPI, pageAccessToken)

	payload := map[string]interface{}{
		"recipient": map[string]string{
			"id": recipientID,
		},
		"message": map[string]string{
			"text": message,
		},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		slog.Error("Failed to send messenger reply", "status", resp.StatusCode, "body", string(body))
		return fmt.Errorf("failed to send message: %s", resp.Status)
	}

	return nil
}
