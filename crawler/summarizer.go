package crawler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"procurement-dashboard/config"
)

const maxPromptChars = 12000

// Summarizer condenses article text. Implementations may fail; callers fall
// back to the extractive summary.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// LLMSummarizer asks an OpenAI-compatible chat endpoint for a bullet summary.
type LLMSummarizer struct {
	client *openai.Client
	model  string
}

// NewLLMSummarizer returns nil when no API key is configured.
func NewLLMSummarizer(cfg config.AIConfig) *LLMSummarizer {
	key := cfg.Key()
	if key == "" {
		return nil
	}
	oc := openai.DefaultConfig(key)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &LLMSummarizer{client: openai.NewClientWithConfig(oc), model: model}
}

func (s *LLMSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model,
		Temperature: 0.3,
		MaxTokens:   300,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: createPrompt(text)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in chat completion response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func createPrompt(text string) string {
	if r := []rune(text); len(r) > maxPromptChars {
		text = string(r[:maxPromptChars])
	}
	return fmt.Sprintf(`Summarise in 5-7 bullets focusing on UK defence procurement problems and proposed solutions. Be specific.

%s`, text)
}
