package handler

import (
	"net/http"

	"mindbridge/backend/internal/ai"

	"github.com/gin-gonic/gin"
)

type chatAIRequest struct {
	Message string `json:"message"`
}

// ChatAI handles POST /api/chat-ai
func (h *Handler) ChatAI(c *gin.Context) {
	var req chatAIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	reply, err := h.Wellness.Chat(c.Request.Context(), req.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply.Text, "provider": reply.Provider})
}

// AnalyzeAnalytics handles GET /api/chat-ai/analyze/analytics
func (h *Handler) AnalyzeAnalytics(c *gin.Context) {
	report, err := h.Wellness.Analytics(c.Request.Context(), AnonID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if report.Provider == ai.ProviderSystem {
		report.Analysis = h.text(c, report.Analysis)
	}
	c.JSON(http.StatusOK, report)
}
