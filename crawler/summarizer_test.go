package crawler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procurement-dashboard/config"
)

func TestNewLLMSummarizer_NoKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	assert.Nil(t, NewLLMSummarizer(config.AIConfig{}))
}

func TestLLMSummarizer_Summarize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		require.Len(t, req.Messages, 1)
		assert.Contains(t, req.Messages[0].Content, "the article body")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"  - one\n- two  "},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	s := NewLLMSummarizer(config.AIConfig{APIKey: "test-key", BaseURL: srv.URL, Model: "test-model"})
	require.NotNil(t, s)

	got, err := s.Summarize(context.Background(), "the article body")
	require.NoError(t, err)
	assert.Equal(t, "- one\n- two", got)
}

func TestLLMSummarizer_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"quota","type":"rate_limit"}}`))
	}))
	defer srv.Close()

	s := NewLLMSummarizer(config.AIConfig{APIKey: "k", BaseURL: srv.URL})
	_, err := s.Summarize(context.Background(), "text")
	assert.Error(t, err)
}

func TestCreatePrompt_Truncates(t *testing.T) {
	p := createPrompt(strings.Repeat("é", maxPromptChars+100))
	assert.Equal(t, maxPromptChars, strings.Count(p, "é"))
}
