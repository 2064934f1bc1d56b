package ai_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"mindbridge/backend/internal/ai"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ai.Kind
	}{
		{name: "429", err: &ai.StatusError{StatusCode: 429}, want: ai.KindRateLimited},
		{name: "rate limit text", err: errors.New("Rate limit reached for model"), want: ai.KindRateLimited},
		{name: "quota text on 403", err: &ai.StatusError{StatusCode: 403, Message: "quota exhausted"}, want: ai.KindRateLimited},
		{name: "401", err: &ai.StatusError{StatusCode: 401, Message: "bad key"}, want: ai.KindAuthInvalid},
		{name: "403", err: &ai.StatusError{StatusCode: 403, Message: "permission denied"}, want: ai.KindAuthInvalid},
		{name: "wrapped 401", err: fmt.Errorf("call: %w", &ai.StatusError{StatusCode: 401}), want: ai.KindAuthInvalid},
		{name: "500", err: &ai.StatusError{StatusCode: 500}, want: ai.KindUnavailable},
		{name: "network", err: errors.New("connection refused"), want: ai.KindUnavailable},
		{name: "timeout", err: context.DeadlineExceeded, want: ai.KindUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ai.Classify("Groq", tt.err)
			assert.Equal(t, tt.want, got.Kind)
			assert.Equal(t, "Groq", got.Provider)
			assert.ErrorIs(t, got, tt.err)
		})
	}

	assert.Nil(t, ai.Classify("Groq", nil))
}

func TestClassify_KeepsClassifiedErrors(t *testing.T) {
	orig := &ai.Error{Kind: ai.KindRateLimited, Provider: "Gemini", Err: errors.New("x")}
	assert.Same(t, orig, ai.Classify("Groq", orig))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, ai.KindUnavailable, ai.KindOf(errors.New("plain")))
	assert.Equal(t, ai.KindNotConfigured, ai.KindOf(ai.ErrNotConfigured))
	assert.Equal(t, "rate_limited", ai.KindRateLimited.String())
	assert.False(t, errors.Is(&ai.Error{Kind: ai.KindUnavailable, Err: errors.New("x")}, ai.ErrNotConfigured))
}
