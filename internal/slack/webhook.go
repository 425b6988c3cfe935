package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"docdigest/internal/apperrors"
)

// Webhook posts JSON payloads to a Slack incoming webhook.
type Webhook struct {
	URL    string
	client *http.Client
}

// NewWebhook creates a Webhook for url.
func NewWebhook(url string) *Webhook {
	return &Webhook{URL: url, client: &http.Client{Timeout: 30 * time.Second}}
}

// Post sends payload as JSON.
func (w *Webhook) Post(ctx context.Context, payload any) error {
	if w.URL == "" {
		return apperrors.MissingConfig("SLACK_WEBHOOK_URL")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status %d: %s", resp.StatusCode, string(raw))
	}
	return nil
}
