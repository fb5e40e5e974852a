package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/dailybrief/dailybrief/pkg/config"
)

// Telegram posts digest messages to a single chat via the Bot API.
// One attempt per run, a non-success response is fatal for the run.
type Telegram struct {
	client  *http.Client
	apiBase string
	token   string
	chatID  string
}

// NewTelegram creates a delivery client. Credentials are validated at
// config load, before any network call is made.
func NewTelegram(cfg config.TelegramConfig) *Telegram {
	return &Telegram{
		client:  &http.Client{Timeout: cfg.Timeout},
		apiBase: cfg.APIBase,
		token:   cfg.Token,
		chatID:  cfg.ChatID,
	}
}

// sendMessageRequest is the Bot API sendMessage payload
type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

// Send delivers the message text in a single attempt
func (t *Telegram) Send(ctx context.Context, text string) error {
	if t.token == "" || t.chatID == "" {
		return fmt.Errorf("telegram credentials missing")
	}

	payload := sendMessageRequest{
		ChatID:                t.chatID,
		Text:                  text,
		ParseMode:             "HTML",
		DisableWebPagePreview: true,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.apiBase, t.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// surface the API error body for diagnostics
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("telegram error: status %d: %s", resp.StatusCode, string(detail))
	}

	return nil
}
