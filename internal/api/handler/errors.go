package handler

import (
	"errors"
	"net/http"

	"mindbridge/backend/internal/ai"
	"mindbridge/backend/internal/auth"
	"mindbridge/backend/internal/chathub"
	"mindbridge/backend/internal/models"
	"mindbridge/backend/internal/storage"
	"mindbridge/backend/internal/wellness"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error    string `json:"error"`
	Details  string `json:"details,omitempty"`
	Provider string `json:"provider,omitempty"`
	Kind     string `json:"kind,omitempty"`
	Status   int    `json:"status,omitempty"`
}

func isValidation(err error) bool {
	return errors.Is(err, models.ErrInvalidCheckIn) ||
		errors.Is(err, chathub.ErrInvalidMessage) ||
		errors.Is(err, auth.ErrInvalidCollege) ||
		errors.Is(err, wellness.ErrEmptyMessage)
}

// errorStatus maps a service error onto its HTTP status and body.
func errorStatus(err error) (int, ErrorResponse) {
	var aiErr *ai.Error
	switch {
	case isValidation(err):
		return http.StatusBadRequest, ErrorResponse{Error: err.Error()}
	case errors.Is(err, auth.ErrUnauthenticated):
		return http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"}
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{Error: "not found"}
	case errors.Is(err, ai.ErrNotConfigured):
		return http.StatusInternalServerError, ErrorResponse{
			Error:   "AI service not configured",
			Details: "Please set GOOGLE_API_KEY or GROQ_API_KEY",
			Kind:    ai.KindNotConfigured.String(),
		}
	case errors.As(err, &aiErr):
		body := ErrorResponse{Provider: aiErr.Provider, Kind: aiErr.Kind.String(), Status: aiErr.Status}
		switch aiErr.Kind {
		case ai.KindRateLimited:
			body.Error = "API rate limit exceeded"
			body.Details = "All AI providers are temporarily unavailable due to rate limits. Please try again in a few moments."
			return http.StatusTooManyRequests, body
		case ai.KindAuthInvalid:
			body.Error = "Invalid API credentials"
			body.Details = "Please check the configured API keys"
			return http.StatusUnauthorized, body
		default:
			body.Error = "Failed to get response from AI"
			body.Details = aiErr.Error()
			return http.StatusInternalServerError, body
		}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: err.Error()}
	}
}

func respondError(c *gin.Context, err error) {
	status, body := errorStatus(err)
	event := log.Warn()
	if status >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.Err(err).
		Str("path", c.FullPath()).
		Int("status", status).
		Msg("request failed")
	c.AbortWithStatusJSON(status, body)
}

// badRequest answers binding and validator failures.
func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
}
