package handler

import (
	"net/http"

	"mindbridge/backend/internal/models"
	"mindbridge/backend/internal/wellness"

	"github.com/gin-gonic/gin"
)

type checkInRequest struct {
	Mood   int      `json:"mood" binding:"required,min=1,max=5"`
	Sleep  *float64 `json:"sleep" binding:"required,min=0,max=24"`
	Stress int      `json:"stress" binding:"required,min=1,max=5"`
	Note   string   `json:"note" binding:"max=1000"`
}

// SubmitCheckIn handles POST /api/checkin
func (h *Handler) SubmitCheckIn(c *gin.Context) {
	var req checkInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	checkin, err := h.Wellness.SubmitCheckIn(c.Request.Context(), AnonID(c), wellness.CheckInInput{
		Mood:   req.Mood,
		Sleep:  *req.Sleep,
		Stress: req.Stress,
		Note:   req.Note,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": h.text(c, "checkin.saved"), "checkin": checkin})
}

// CheckInHistory handles GET /api/checkin/history
func (h *Handler) CheckInHistory(c *gin.Context) {
	checkins, err := h.Wellness.History(c.Request.Context(), AnonID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if checkins == nil {
		checkins = []models.CheckIn{}
	}
	c.JSON(http.StatusOK, checkins)
}
