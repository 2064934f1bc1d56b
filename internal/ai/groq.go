package ai

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"mindbridge/backend/internal/config"

	"github.com/goccy/go-json"
)

// Groq calls Groq's OpenAI-compatible chat completions endpoint.
type Groq struct {
	cfg    config.ProviderConfig
	client *http.Client
}

func NewGroq(cfg config.ProviderConfig, client *http.Client) *Groq {
	if client == nil {
		client = http.DefaultClient
	}
	return &Groq{cfg: cfg, client: client}
}

func (g *Groq) Name() string { return ProviderGroq }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

func (g *Groq) Attempt(ctx context.Context, p Prompt) (string, error) {
	messages := make([]chatMessage, 0, 2)
	if p.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: p.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: p.User})

	payload, err := json.Marshal(chatCompletionRequest{
		Model:     g.cfg.Model,
		Messages:  messages,
		MaxTokens: p.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)

	resp, err := doRequest(g.client, req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", readStatusError(resp, func(b []byte) string {
			var e chatCompletionResponse
			if json.Unmarshal(b, &e) == nil && e.Error != nil {
				return e.Error.Message
			}
			return ""
		})
	}

	var out chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if out.Error != nil {
		return "", fmt.Errorf("provider error: %s", out.Error.Message)
	}
	if len(out.Choices) == 0 {
		return "", errEmptyReply
	}
	return out.Choices[0].Message.Content, nil
}
