package handler

import (
	"net/http"
	"strconv"

	"mindbridge/backend/internal/models"

	"github.com/gin-gonic/gin"
)

type roomRequest struct {
	College string `json:"college" binding:"required"`
}

type messageRequest struct {
	RoomID   string `json:"roomId" binding:"required"`
	Text     string `json:"text" binding:"required"`
	Username string `json:"username"`
}

// ChatRoom returns the room of a college, creating it on first use.
// POST /api/chat/room
func (h *Handler) ChatRoom(c *gin.Context) {
	var req roomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	room, err := h.Relay.Room(c.Request.Context(), req.College)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// ChatMessages is the polling fallback for clients without a socket.
// GET /api/chat/messages/:roomId
func (h *Handler) ChatMessages(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(c, err)
			return
		}
		limit = n
	}

	messages, err := h.Relay.History(c.Request.Context(), c.Param("roomId"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	if messages == nil {
		messages = []models.ChatMessage{}
	}
	c.JSON(http.StatusOK, messages)
}

// PostMessage filters, stores and broadcasts a chat message.
// POST /api/chat/message
func (h *Handler) PostMessage(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	msg, err := h.Relay.SendToRoom(c.Request.Context(), req.RoomID, req.Text, req.Username)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}
