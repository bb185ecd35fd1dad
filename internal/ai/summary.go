// Package ai talks to the external summary generator: a stateless
// text-in/text-out service behind an OpenAI-compatible chat-completions
// endpoint.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mkaydev/huddle/internal/domain"
)

// Fallback is returned whenever the upstream service fails; summaries are
// best-effort and never surface an error to the chat.
const Fallback = "Sorry, AI summary is currently unavailable."

const promptTemplate = `
You are an AI assistant in a group chat.

Write a smooth, natural summary of the conversation in 2 sentences only.

Rules:
- Do NOT say "Here's a summary".
- Do NOT explain like "A asked B and B replied".
- Write like a final conclusion.
- Mention key topic and final plan/decision.
- Simple English.

Conversation:
%s
`

type Summarizer struct {
	endpoint string
	model    string
	apiKey   string
	client   *http.Client
}

func NewSummarizer(endpoint, model, apiKey string) *Summarizer {
	return &Summarizer{
		endpoint: endpoint,
		model:    model,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type completionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Summarize condenses the conversation into two sentences. Any upstream
// failure degrades to Fallback.
func (s *Summarizer) Summarize(ctx context.Context, messages []domain.Message) string {
	lines := make([]string, 0, len(messages))
	for _, msg := range messages {
		sender := msg.Sender.Username
		if sender == "" {
			sender = "User"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", sender, msg.Content))
	}
	prompt := fmt.Sprintf(promptTemplate, strings.Join(lines, "\n"))

	body, err := json.Marshal(completionRequest{
		Model:       s.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: 0.2,
		MaxTokens:   120,
	})
	if err != nil {
		log.Error().Err(err).Str("module", "ai").Msg("marshal completion request")
		return Fallback
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		log.Error().Err(err).Str("module", "ai").Msg("build completion request")
		return Fallback
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		log.Error().Err(err).Str("module", "ai").Msg("summary request failed")
		return Fallback
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Error().Int("status", resp.StatusCode).Str("module", "ai").Msg("summary request rejected")
		return Fallback
	}

	var parsed completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil || len(parsed.Choices) == 0 {
		log.Error().Err(err).Str("module", "ai").Msg("bad completion response")
		return Fallback
	}
	return parsed.Choices[0].Message.Content
}
