package ai_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mindbridge/backend/internal/ai"
	"mindbridge/backend/internal/config"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGemini_Attempt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-goog-api-key"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gen, ok := body["generationConfig"].(map[string]any)
		if assert.True(t, ok) {
			assert.EqualValues(t, 256, gen["maxOutputTokens"])
		}
		assert.NotNil(t, body["systemInstruction"])

		_, _ = io.WriteString(w, `{"candidates":[{"content":{"parts":[{"text":"Take "},{"text":"a walk."}]}}]}`)
	}))
	defer srv.Close()

	g := ai.NewGemini(config.ProviderConfig{APIKey: "secret", Model: "gemini-test", BaseURL: srv.URL + "/v1beta"}, srv.Client())
	text, err := g.Attempt(context.Background(), ai.ChatPrompt("I'm tired"))

	require.NoError(t, err)
	assert.Equal(t, "Take a walk.", text)
	assert.Equal(t, "Gemini", g.Name())
}

func TestGemini_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"error":{"code":429,"message":"Resource has been exhausted","status":"RESOURCE_EXHAUSTED"}}`)
	}))
	defer srv.Close()

	g := ai.NewGemini(config.ProviderConfig{APIKey: "k", Model: "m", BaseURL: srv.URL}, srv.Client())
	_, err := g.Attempt(context.Background(), ai.ChatPrompt("hi"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Resource has been exhausted")
	assert.Equal(t, ai.KindRateLimited, ai.Classify("Gemini", err).Kind)
}

func TestGemini_NoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"candidates":[]}`)
	}))
	defer srv.Close()

	g := ai.NewGemini(config.ProviderConfig{APIKey: "k", Model: "m", BaseURL: srv.URL}, srv.Client())
	_, err := g.Attempt(context.Background(), ai.ChatPrompt("hi"))
	assert.Error(t, err)
}

func TestGroq_Attempt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/openai/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer gsk", r.Header.Get("Authorization"))

		raw, _ := io.ReadAll(r.Body)
		assert.True(t, strings.Contains(string(raw), `"max_tokens":512`), string(raw))
		assert.True(t, strings.Contains(string(raw), `"model":"llama-test"`), string(raw))

		_, _ = io.WriteString(w, `{"choices":[{"message":{"role":"assistant","content":"Sleep more."}}]}`)
	}))
	defer srv.Close()

	g := ai.NewGroq(config.ProviderConfig{APIKey: "gsk", Model: "llama-test", BaseURL: srv.URL + "/openai/v1"}, srv.Client())
	text, err := g.Attempt(context.Background(), ai.Prompt{User: "stats", MaxTokens: 512})

	require.NoError(t, err)
	assert.Equal(t, "Sleep more.", text)
}

func TestGroq_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":{"message":"Invalid API Key","type":"invalid_request_error"}}`)
	}))
	defer srv.Close()

	g := ai.NewGroq(config.ProviderConfig{APIKey: "bad", Model: "m", BaseURL: srv.URL}, srv.Client())
	_, err := g.Attempt(context.Background(), ai.ChatPrompt("hi"))

	require.Error(t, err)
	classified := ai.Classify("Groq", err)
	assert.Equal(t, ai.KindAuthInvalid, classified.Kind)
	assert.Equal(t, http.StatusUnauthorized, classified.Status)
	assert.Contains(t, err.Error(), "Invalid API Key")
}
