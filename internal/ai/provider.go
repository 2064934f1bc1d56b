// Package ai calls hosted language-model providers in a fixed order and
// returns the first successful reply.
package ai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

const (
	ProviderGemini = "Gemini"
	ProviderGroq   = "Groq"
	// ProviderSystem marks canned replies that never reached a provider.
	ProviderSystem = "System"
)

var errEmptyReply = errors.New("provider returned an empty reply")

// Prompt is one request to a provider.
type Prompt struct {
	System    string
	User      string
	MaxTokens int
}

// Provider is a single hosted model.
type Provider interface {
	Name() string
	Attempt(ctx context.Context, p Prompt) (string, error)
}

// Reply is a generated text and the provider that produced it.
type Reply struct {
	Text     string
	Provider string
}

// maxErrorBody bounds how much of an error response is kept in messages.
const maxErrorBody = 2048

func readStatusError(resp *http.Response, message func([]byte) string) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := message(body)
	if msg == "" {
		msg = string(body)
	}
	return &StatusError{StatusCode: resp.StatusCode, Message: msg}
}

func doRequest(client *http.Client, req *http.Request) (*http.Response, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}
