package handler

import (
	"net/http"
	"time"

	"mindbridge/backend/internal/metrics"

	"github.com/gin-gonic/gin"
)

// NewRouter wires every route. aiPerMinute bounds AI calls per client IP.
func NewRouter(h *Handler, aiPerMinute int) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(), metrics.Middleware(), CORS())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", metrics.Handler())
	r.GET("/ws", h.ServeWebSocket)

	requireAuth := RequireAuth(h.Auth)
	aiLimit := NewRateLimiter(aiPerMinute, time.Minute).Middleware()

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/login", h.Login)
	authGroup.POST("/logout", requireAuth, h.Logout)

	checkin := api.Group("/checkin", requireAuth)
	checkin.POST("", h.SubmitCheckIn)
	checkin.GET("/history", h.CheckInHistory)

	burnout := api.Group("/burnout", requireAuth)
	burnout.GET("/score", h.BurnoutScore)
	burnout.GET("/suggestion", h.Suggestion)
	burnout.GET("/tips", h.Tips)
	burnout.GET("/ai-analysis", aiLimit, h.AIAnalysis)

	chat := api.Group("/chat")
	chat.POST("/room", requireAuth, h.ChatRoom)
	chat.GET("/messages/:roomId", h.ChatMessages)
	chat.POST("/message", requireAuth, h.PostMessage)

	chatAI := api.Group("/chat-ai", requireAuth, aiLimit)
	chatAI.POST("", h.ChatAI)
	chatAI.GET("/analyze/analytics", h.AnalyzeAnalytics)

	return r
}
