package handler_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mindbridge/backend/internal/ai"
	"mindbridge/backend/internal/analysis"
	"mindbridge/backend/internal/api/handler"
	"mindbridge/backend/internal/auth"
	"mindbridge/backend/internal/chathub"
	"mindbridge/backend/internal/localization"
	"mindbridge/backend/internal/metrics"
	"mindbridge/backend/internal/models"
	"mindbridge/backend/internal/storage"
	"mindbridge/backend/internal/wellness"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "handler-test-secret-0123456789abcdef"

type stubProvider struct {
	name  string
	reply string
	err   error
}

func (s stubProvider) Name() string { return s.name }

func (s stubProvider) Attempt(context.Context, ai.Prompt) (string, error) {
	return s.reply, s.err
}

type testServer struct {
	router  *gin.Engine
	store   *storage.MemoryStore
	locales *localization.Localizer
}

func newTestServer(t *testing.T, providers ...ai.Provider) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	store := storage.NewMemoryStore()
	hub := chathub.NewManagerService(nil)
	go hub.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-hub.Done()
	})

	relay := chathub.NewRelay(store, hub, chathub.NewLocalBroker(), nil)
	require.NoError(t, relay.Start(ctx))

	locales, err := localization.Default()
	require.NoError(t, err)

	h := handler.NewHandler(
		auth.NewService(store, testSecret, 0),
		wellness.NewService(store, ai.NewGateway(0, providers...)),
		hub,
		relay,
		locales,
	)
	return &testServer{router: handler.NewRouter(h, 100), store: store, locales: locales}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(t *testing.T) (token, anonID string) {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"college": "MIT"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp["token"], resp["anonId"]
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"college": "MIT"})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[map[string]string](t, w)
	assert.NotEmpty(t, resp["token"])
	assert.Equal(t, "MIT", resp["college"])
	assert.Equal(t, resp["anonId"], resp["anonymousId"])
	assert.True(t, s.store.UserExists(resp["anonId"]))

	w = s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"college": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"college": strings.Repeat("x", 121)})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid college: college must be at most 120 characters", decode[map[string]string](t, w)["error"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/api/checkin/history", "/api/burnout/score", "/api/burnout/tips"} {
		w := s.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)

		w = s.do(t, http.MethodGet, path, "not-a-token", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestCheckInAndBurnout(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.login(t)

	w := s.do(t, http.MethodGet, "/api/burnout/score", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, analysis.Result{Score: 100, Status: "Healthy", Trend: "stable"}, decode[analysis.Result](t, w))

	w = s.do(t, http.MethodGet, "/api/burnout/suggestion", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, s.locales.GetString("en", analysis.SuggestionFirstCheckIn), decode[map[string]string](t, w)["suggestion"])

	w = s.do(t, http.MethodPost, "/api/checkin", token, gin.H{"mood": 4, "sleep": 8, "stress": 2, "note": "calm"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	saved := decode[struct {
		Message string         `json:"message"`
		CheckIn models.CheckIn `json:"checkin"`
	}](t, w)
	assert.NotEmpty(t, saved.Message)
	assert.Equal(t, 4, saved.CheckIn.Mood)

	w = s.do(t, http.MethodGet, "/api/checkin/history", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.CheckIn](t, w), 1)

	w = s.do(t, http.MethodGet, "/api/burnout/score", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	result := decode[analysis.Result](t, w)
	assert.Equal(t, 1, result.CheckIns)
	assert.Equal(t, "Healthy", result.Status)

	w = s.do(t, http.MethodGet, "/api/burnout/tips", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	tips := decode[map[string][]string](t, w)["tips"]
	assert.NotEmpty(t, tips)
	for _, tip := range tips {
		assert.NotContains(t, tip, "tip.", "tips are resolved to text")
	}
}

func TestCheckInValidation(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.login(t)

	for name, body := range map[string]gin.H{
		"mood too high":  {"mood": 6, "sleep": 7, "stress": 2},
		"stress missing": {"mood": 3, "sleep": 7},
		"sleep missing":  {"mood": 3, "stress": 2},
		"negative sleep": {"mood": 3, "sleep": -1, "stress": 2},
	} {
		t.Run(name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/api/checkin", token, body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}

	// Zero hours of sleep is a valid answer.
	w := s.do(t, http.MethodPost, "/api/checkin", token, gin.H{"mood": 3, "sleep": 0, "stress": 2})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestLogoutDeletesData(t *testing.T) {
	s := newTestServer(t)
	token, anonID := s.login(t)

	w := s.do(t, http.MethodPost, "/api/checkin", token, gin.H{"mood": 3, "sleep": 7, "stress": 3})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "User data deleted successfully", decode[map[string]string](t, w)["message"])
	assert.False(t, s.store.UserExists(anonID))

	// The token outlives the data; a repeat logout is harmless.
	w = s.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/checkin/history", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]models.CheckIn](t, w))
}

func TestChatRoutes(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.login(t)

	w := s.do(t, http.MethodPost, "/api/chat/room", token, gin.H{"college": "MIT"})
	require.Equal(t, http.StatusOK, w.Code)
	room := decode[models.ChatRoom](t, w)

	w = s.do(t, http.MethodPost, "/api/chat/room", token, gin.H{"college": "MIT"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, room.ID, decode[models.ChatRoom](t, w).ID, "one room per college")

	w = s.do(t, http.MethodPost, "/api/chat/message", token, gin.H{"roomId": room.ID, "text": "I hate finals"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	msg := decode[models.ChatMessage](t, w)
	assert.Equal(t, "I *** finals", msg.Text)
	assert.Equal(t, "Anonymous", msg.Username)

	w = s.do(t, http.MethodPost, "/api/chat/message", token, gin.H{"roomId": room.ID, "text": "second", "username": "owl"})
	require.Equal(t, http.StatusOK, w.Code)

	// History is public.
	w = s.do(t, http.MethodGet, "/api/chat/messages/"+room.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	history := decode[[]models.ChatMessage](t, w)
	require.Len(t, history, 2)
	assert.Equal(t, "I *** finals", history[0].Text)
	assert.Equal(t, "owl", history[1].Username)

	w = s.do(t, http.MethodGet, "/api/chat/messages/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = s.do(t, http.MethodGet, "/api/chat/messages/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/api/chat/message", token, gin.H{"roomId": uuid.NewString(), "text": "hi"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/api/chat/message", token, gin.H{"roomId": room.ID, "text": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatAI(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		s := newTestServer(t)
		token, _ := s.login(t)

		w := s.do(t, http.MethodPost, "/api/chat-ai", token, gin.H{"message": "help"})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "AI service not configured", decode[map[string]any](t, w)["error"])
	})

	t.Run("empty message", func(t *testing.T) {
		s := newTestServer(t, stubProvider{name: ai.ProviderGemini, reply: "hi"})
		token, _ := s.login(t)

		w := s.do(t, http.MethodPost, "/api/chat-ai", token, gin.H{"message": "  "})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("fallback reply", func(t *testing.T) {
		s := newTestServer(t,
			stubProvider{name: ai.ProviderGemini, err: &ai.StatusError{StatusCode: http.StatusServiceUnavailable}},
			stubProvider{name: ai.ProviderGroq, reply: "Break it into chunks."},
		)
		token, _ := s.login(t)

		w := s.do(t, http.MethodPost, "/api/chat-ai", token, gin.H{"message": "how to study?"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, map[string]string{"reply": "Break it into chunks.", "provider": "Groq"}, decode[map[string]string](t, w))
	})

	t.Run("rate limited", func(t *testing.T) {
		s := newTestServer(t,
			stubProvider{name: ai.ProviderGemini, err: &ai.StatusError{StatusCode: http.StatusTooManyRequests}},
		)
		token, _ := s.login(t)

		w := s.do(t, http.MethodPost, "/api/chat-ai", token, gin.H{"message": "help"})
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	})

	t.Run("bad credentials", func(t *testing.T) {
		s := newTestServer(t,
			stubProvider{name: ai.ProviderGroq, err: &ai.StatusError{StatusCode: http.StatusForbidden}},
		)
		token, _ := s.login(t)

		w := s.do(t, http.MethodPost, "/api/chat-ai", token, gin.H{"message": "help"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAIAnalysisWithoutData(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.login(t)

	w := s.do(t, http.MethodGet, "/api/burnout/ai-analysis", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	report := decode[wellness.DashboardReport](t, w)
	assert.Equal(t, ai.ProviderSystem, report.Provider)
	assert.Equal(t, s.locales.GetString("en", wellness.NoDataDashboard), report.Analysis)
	assert.Equal(t, 100, report.Score)

	w = s.do(t, http.MethodGet, "/api/chat-ai/analyze/analytics", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	analytics := decode[wellness.AnalyticsReport](t, w)
	assert.Equal(t, ai.ProviderSystem, analytics.Provider)
	assert.Equal(t, s.locales.GetString("en", wellness.NoDataAnalytics), analytics.Analysis)
}

func TestAIAnalysisWithData(t *testing.T) {
	s := newTestServer(t, stubProvider{name: ai.ProviderGemini, reply: "You are doing fine."})
	token, _ := s.login(t)

	w := s.do(t, http.MethodPost, "/api/checkin", token, gin.H{"mood": 2, "sleep": 4, "stress": 5})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/burnout/ai-analysis", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	report := decode[wellness.DashboardReport](t, w)
	assert.Equal(t, "You are doing fine.", report.Analysis)
	assert.Equal(t, ai.ProviderGemini, report.Provider)
	assert.Equal(t, "High Risk", report.Status)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)
	preflights := metrics.RequestCounter.WithLabelValues(http.MethodOptions, "unmatched", "204")
	before := testutil.ToFloat64(preflights)

	req := httptest.NewRequest(http.MethodOptions, "/api/checkin", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
	assert.Equal(t, before+1, testutil.ToFloat64(preflights), "preflights are counted")
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}
