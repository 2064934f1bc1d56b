package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"mindbridge/backend/internal/ai"
	"mindbridge/backend/internal/auth"
	"mindbridge/backend/internal/chathub"
	"mindbridge/backend/internal/models"
	"mindbridge/backend/internal/storage"
	"mindbridge/backend/internal/wellness"

	"github.com/stretchr/testify/assert"
)

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"invalid check-in", fmt.Errorf("%w: mood", models.ErrInvalidCheckIn), http.StatusBadRequest, "invalid check-in: mood"},
		{"invalid message", chathub.ErrInvalidMessage, http.StatusBadRequest, "invalid message"},
		{"invalid college", auth.ErrInvalidCollege, http.StatusBadRequest, auth.ErrInvalidCollege.Error()},
		{"empty ai message", wellness.ErrEmptyMessage, http.StatusBadRequest, "message cannot be empty"},
		{"unauthenticated", fmt.Errorf("%w: expired", auth.ErrUnauthenticated), http.StatusUnauthorized, "unauthorized"},
		{"not found", fmt.Errorf("room: %w", storage.ErrNotFound), http.StatusNotFound, "not found"},
		{"ai not configured", fmt.Errorf("chat: %w", ai.ErrNotConfigured), http.StatusInternalServerError, "AI service not configured"},
		{"ai rate limited", &ai.Error{Kind: ai.KindRateLimited, Provider: "Groq", Err: errors.New("quota")}, http.StatusTooManyRequests, "API rate limit exceeded"},
		{"ai auth", &ai.Error{Kind: ai.KindAuthInvalid, Provider: "Groq", Err: errors.New("denied")}, http.StatusUnauthorized, "Invalid API credentials"},
		{"ai unavailable", &ai.Error{Kind: ai.KindUnavailable, Provider: "Groq", Err: errors.New("timeout")}, http.StatusInternalServerError, "Failed to get response from AI"},
		{"other", errors.New("disk full"), http.StatusInternalServerError, "disk full"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := errorStatus(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.body, body.Error)
		})
	}
}

func TestErrorStatus_AIDetails(t *testing.T) {
	_, body := errorStatus(&ai.Error{Kind: ai.KindRateLimited, Provider: "Gemini", Status: 429, Err: errors.New("slow down")})
	assert.Equal(t, "Gemini", body.Provider)
	assert.Equal(t, "rate_limited", body.Kind)
	assert.Equal(t, 429, body.Status)
}
