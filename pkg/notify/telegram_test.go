package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dailybrief/dailybrief/pkg/config"
)

func testTelegramConfig(apiBase string) config.TelegramConfig {
	return config.TelegramConfig{
		Token:   "test-token",
		ChatID:  "12345",
		APIBase: apiBase,
		Timeout: 5 * time.Second,
	}
}

func TestTelegram_Send(t *testing.T) {
	var gotPath string
	var gotPayload map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	tg := NewTelegram(testTelegramConfig(server.URL))
	err := tg.Send(context.Background(), "digest text")
	require.NoError(t, err)

	assert.Equal(t, "/bottest-token/sendMessage", gotPath)
	assert.Equal(t, "12345", gotPayload["chat_id"])
	assert.Equal(t, "digest text", gotPayload["text"])
	assert.Equal(t, "HTML", gotPayload["parse_mode"])
	assert.Equal(t, true, gotPayload["disable_web_page_preview"])
}

func TestTelegram_Send_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"ok":false,"description":"Bad Request: message is too long"}`))
	}))
	defer server.Close()

	tg := NewTelegram(testTelegramConfig(server.URL))
	err := tg.Send(context.Background(), "digest text")
	require.Error(t, err)

	// error carries the API response body for diagnostics
	assert.Contains(t, err.Error(), "status 400")
	assert.Contains(t, err.Error(), "message is too long")
}

func TestTelegram_Send_MissingCredentials(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	cfg := testTelegramConfig(server.URL)
	cfg.Token = ""
	tg := NewTelegram(cfg)

	err := tg.Send(context.Background(), "digest text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credentials missing")
	assert.Zero(t, calls, "no network call should be made without credentials")
}

func TestTelegram_Send_SingleAttempt(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	tg := NewTelegram(testTelegramConfig(server.URL))
	err := tg.Send(context.Background(), "digest text")
	require.Error(t, err)
	assert.Equal(t, 1, calls, "exactly one attempt, no retry")
}
