package handler

import (
	"net/http"

	"mindbridge/backend/internal/ai"

	"github.com/gin-gonic/gin"
)

func (h *Handler) BurnoutScore(c *gin.Context) {
	result, err := h.Wellness.Burnout(c.Request.Context(), AnonID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) Suggestion(c *gin.Context) {
	key, err := h.Wellness.Suggestion(c.Request.Context(), AnonID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestion": h.text(c, key)})
}

func (h *Handler) Tips(c *gin.Context) {
	keys, err := h.Wellness.Tips(c.Request.Context(), AnonID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tips": h.Locales.GetStrings(h.language(c), keys)})
}

// AIAnalysis handles GET /api/burnout/ai-analysis
func (h *Handler) AIAnalysis(c *gin.Context) {
	report, err := h.Wellness.DashboardAnalysis(c.Request.Context(), AnonID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	// Canned System replies are message keys.
	if report.Provider == ai.ProviderSystem {
		report.Analysis = h.text(c, report.Analysis)
	}
	c.JSON(http.StatusOK, report)
}
