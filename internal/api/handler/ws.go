package handler

import (
	"net/http"

	"mindbridge/backend/internal/chathub"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browsers connect from the frontend origin; CORS is already wildcard.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket upgrades GET /ws. The token comes from ?token= (browsers
// cannot set headers on a WebSocket) or from the Authorization header.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token = bearerToken(c.Request)
	}
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "authorization token missing"})
		return
	}

	anonID, err := h.Auth.Authenticate(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid or expired token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the error response.
		log.Warn().Err(err).Str("anon_id", anonID).Msg("websocket upgrade failed")
		return
	}

	client := chathub.NewWebSocketClient(anonID, conn, h.Hub, h.Relay)
	h.Hub.Register(client)
	client.Run()
}
