package ai

import (
	"context"
	"net/http"
	"strings"
	"time"

	"mindbridge/backend/internal/config"
	"mindbridge/backend/internal/metrics"

	"github.com/rs/zerolog/log"
)

// Gateway tries each provider once, in order, and returns the first reply.
// There is no retry, backoff or caching.
type Gateway struct {
	providers []Provider
	timeout   time.Duration
}

// NewGateway builds a gateway over providers. A non-positive timeout falls
// back to 20 seconds per attempt.
func NewGateway(timeout time.Duration, providers ...Provider) *Gateway {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Gateway{providers: providers, timeout: timeout}
}

// FromConfig registers Gemini then Groq, skipping providers without a key.
func FromConfig(cfg config.AIConfig, client *http.Client) *Gateway {
	var providers []Provider
	if cfg.Gemini.Configured() {
		providers = append(providers, NewGemini(cfg.Gemini, client))
	}
	if cfg.Groq.Configured() {
		providers = append(providers, NewGroq(cfg.Groq, client))
	}
	return NewGateway(cfg.Timeout, providers...)
}

// Providers lists the configured provider names in attempt order.
func (g *Gateway) Providers() []string {
	names := make([]string, len(g.providers))
	for i, p := range g.providers {
		names[i] = p.Name()
	}
	return names
}

// Generate returns the first successful reply. When every provider fails the
// error of the last one is returned, classified.
func (g *Gateway) Generate(ctx context.Context, p Prompt) (Reply, error) {
	if len(g.providers) == 0 {
		return Reply{}, ErrNotConfigured
	}

	var lastErr *Error
	for _, provider := range g.providers {
		text, err := g.attempt(ctx, provider, p)
		if err == nil {
			metrics.AIAttempts.WithLabelValues(provider.Name(), "success").Inc()
			return Reply{Text: text, Provider: provider.Name()}, nil
		}

		lastErr = Classify(provider.Name(), err)
		metrics.AIAttempts.WithLabelValues(provider.Name(), lastErr.Kind.String()).Inc()
		log.Warn().Err(err).
			Str("provider", provider.Name()).
			Str("kind", lastErr.Kind.String()).
			Msg("AI provider attempt failed")

		if ctx.Err() != nil {
			break
		}
	}
	return Reply{}, lastErr
}

func (g *Gateway) attempt(ctx context.Context, provider Provider, p Prompt) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	text, err := provider.Attempt(attemptCtx, p)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", errEmptyReply
	}
	return strings.TrimSpace(text), nil
}
