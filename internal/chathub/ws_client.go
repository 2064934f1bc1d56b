package chathub

import (
	"context"
	"errors"
	"time"

	"mindbridge/backend/internal/models"
	"mindbridge/backend/internal/storage"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	// SendBuffer is the per-client queue; a full queue drops the client.
	SendBuffer = 256
	opTimeout  = 5 * time.Second
)

// WebSocketClient implements chathub.Client over gorilla/websocket.
type WebSocketClient struct {
	AnonID string
	Conn   *websocket.Conn
	Hub    *ManagerService
	Relay  *Relay
	Send   chan models.Event
}

func NewWebSocketClient(anonID string, conn *websocket.Conn, hub *ManagerService, relay *Relay) *WebSocketClient {
	return &WebSocketClient{
		AnonID: anonID,
		Conn:   conn,
		Hub:    hub,
		Relay:  relay,
		Send:   make(chan models.Event, SendBuffer),
	}
}

func (c *WebSocketClient) GetUserID() string                    { return c.AnonID }
func (c *WebSocketClient) GetSendChannel() chan<- models.Event { return c.Send }

// Run starts the pumps for the connection.
func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close closes the Send channel, which stops writePump.
func (c *WebSocketClient) Close() {
	close(c.Send)
}

func (c *WebSocketClient) readPump() {
	// The upgrade request's context ends with the handler, so the connection
	// carries its own.
	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("anon_id", c.AnonID).Msg("error reading message")
			}
			return
		}

		var event models.Event
		if err := json.Unmarshal(data, &event); err != nil {
			c.fail("malformed event")
			continue
		}
		c.handle(ctx, event)
	}
}

func (c *WebSocketClient) handle(ctx context.Context, event models.Event) {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	switch event.Type {
	case models.EventJoin:
		if _, err := c.Relay.Join(opCtx, c, event.Room); err != nil {
			c.fail(clientMessage(err))
		}
	case models.EventMsg:
		if _, err := c.Relay.SendToCollege(opCtx, event.Room, event.Text, event.Username); err != nil {
			log.Debug().Err(err).Str("anon_id", c.AnonID).Str("room", event.Room).Msg("message rejected")
			c.fail(clientMessage(err))
		}
	default:
		c.fail("unknown event type")
	}
}

func (c *WebSocketClient) fail(reason string) {
	c.Hub.Notify(c, models.Event{Type: models.EventError, Error: reason})
}

func clientMessage(err error) string {
	switch {
	case errors.Is(err, ErrInvalidMessage):
		return err.Error()
	case errors.Is(err, storage.ErrNotFound):
		return "room not found"
	default:
		return "internal error"
	}
}

// writePump reads events from Send and writes them to the socket, pinging
// periodically to keep the connection alive.
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := json.Marshal(event)
			if err != nil {
				log.Error().Err(err).Str("anon_id", c.AnonID).Msg("error encoding event")
				continue
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
