package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	College string `json:"college" binding:"required"`
}

type loginResponse struct {
	Token  string `json:"token"`
	AnonID string `json:"anonId"`
	// AnonymousID duplicates AnonID for clients that read the longer name.
	AnonymousID string `json:"anonymousId"`
	College     string `json:"college"`
}

// Login issues a fresh anonymous identity. POST /api/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	session, err := h.Auth.Login(c.Request.Context(), req.College)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, loginResponse{
		Token:       session.Token,
		AnonID:      session.AnonID,
		AnonymousID: session.AnonID,
		College:     session.College,
	})
}

// Logout deletes the caller and all their check-ins. POST /api/auth/logout
func (h *Handler) Logout(c *gin.Context) {
	if err := h.Auth.Logout(c.Request.Context(), AnonID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": h.text(c, "logout.done")})
}
