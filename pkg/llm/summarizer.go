package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/dailybrief/dailybrief/pkg/config"
)

// prompts are fixed, the output style is part of the product contract
const (
	summarySystemPrompt = "You are a strategy editor writing concise executive summaries."
	summaryUserPrompt   = "Summarize the following text in 2-3 formal sentences for a senior business leader (clarity, no buzzwords):\n\n"

	translateSystemPrompt = "You are a professional translator proficient in Persian (Farsi)."
	translateUserPrompt   = "Translate the following English executive summary into formal Persian (Farsi) while keeping the tone professional and concise:\n\n"
)

// Summarizer issues summarize and translate completions against an
// OpenAI-compatible endpoint. Translation goes to a cheaper model by default.
type Summarizer struct {
	client *openai.Client
	cfg    config.LLMConfig
}

// NewSummarizer creates a new LLM client from config
func NewSummarizer(cfg config.LLMConfig) *Summarizer {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = cfg.Endpoint
	}

	return &Summarizer{
		client: openai.NewClientWithConfig(clientConfig),
		cfg:    cfg,
	}
}

// Summarize produces a 2-3 sentence English executive summary
func (s *Summarizer) Summarize(ctx context.Context, text string) (string, error) {
	result, err := s.complete(ctx, s.cfg.SummaryModel, summarySystemPrompt, summaryUserPrompt+text)
	if err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}
	return result, nil
}

// TranslatePersian renders an English summary into formal Persian
func (s *Summarizer) TranslatePersian(ctx context.Context, summary string) (string, error) {
	result, err := s.complete(ctx, s.cfg.TranslateModel, translateSystemPrompt, translateUserPrompt+summary)
	if err != nil {
		return "", fmt.Errorf("translate: %w", err)
	}
	return result, nil
}

// complete runs a single chat completion with the configured bounds
func (s *Summarizer) complete(ctx context.Context, model, system, user string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model:       model,
		Temperature: float32(s.cfg.Temperature),
		MaxTokens:   s.cfg.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	}

	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("llm request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from llm")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
