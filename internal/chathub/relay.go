package chathub

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"mindbridge/backend/internal/config"
	"mindbridge/backend/internal/metrics"
	"mindbridge/backend/internal/models"
	"mindbridge/backend/internal/moderation"
	"mindbridge/backend/internal/storage"

	"github.com/rs/zerolog/log"
)

// ErrInvalidMessage is returned for empty or oversized chat input.
var ErrInvalidMessage = errors.New("invalid message")

// Relay is the chat pipeline: validate, filter, persist, publish. Delivery
// to sockets happens when the broker hands the broadcast back to the hub.
type Relay struct {
	store  storage.Storage
	hub    *ManagerService
	broker Broker
	filter *moderation.Filter
	now    func() time.Time
}

func NewRelay(store storage.Storage, hub *ManagerService, broker Broker, filter *moderation.Filter) *Relay {
	if filter == nil {
		filter = moderation.Default()
	}
	return &Relay{
		store:  store,
		hub:    hub,
		broker: broker,
		filter: filter,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Start connects the broker's deliveries to the hub.
func (r *Relay) Start(ctx context.Context) error {
	return r.broker.Start(ctx, r.hub.Broadcast)
}

// Room returns the room of college, creating it on first access.
func (r *Relay) Room(ctx context.Context, college string) (*models.ChatRoom, error) {
	college = strings.TrimSpace(college)
	if college == "" {
		return nil, fmt.Errorf("%w: college is required", ErrInvalidMessage)
	}
	return r.store.GetOrCreateRoom(ctx, college)
}

// Join puts a connected client into the room of college.
func (r *Relay) Join(ctx context.Context, c Client, college string) (*models.ChatRoom, error) {
	room, err := r.Room(ctx, college)
	if err != nil {
		return nil, err
	}
	r.hub.Join(c, room.College)
	return room, nil
}

// SendToRoom sends into an existing room by id.
func (r *Relay) SendToRoom(ctx context.Context, roomID, text, username string) (*models.ChatMessage, error) {
	room, err := r.store.GetRoomByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return r.send(ctx, room, text, username)
}

// SendToCollege sends into the room of college, creating it if needed.
func (r *Relay) SendToCollege(ctx context.Context, college, text, username string) (*models.ChatMessage, error) {
	room, err := r.Room(ctx, college)
	if err != nil {
		return nil, err
	}
	return r.send(ctx, room, text, username)
}

func (r *Relay) send(ctx context.Context, room *models.ChatRoom, text, username string) (*models.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: text is required", ErrInvalidMessage)
	}
	if utf8.RuneCountInString(text) > config.MaxMessageLength {
		return nil, fmt.Errorf("%w: text must be at most %d characters", ErrInvalidMessage, config.MaxMessageLength)
	}
	username = strings.TrimSpace(username)
	if utf8.RuneCountInString(username) > config.MaxUsernameLength {
		return nil, fmt.Errorf("%w: username must be at most %d characters", ErrInvalidMessage, config.MaxUsernameLength)
	}
	if username == "" {
		username = config.DefaultDisplayName
	}

	if r.filter.Flagged(text) || r.filter.Flagged(username) {
		metrics.ChatMasked.Inc()
		log.Info().Str("room", room.College).Msg("banned words masked in chat message")
	}

	msg := &models.ChatMessage{
		RoomID:    room.ID,
		Text:      r.filter.Clean(text),
		Username:  r.filter.Clean(username),
		Timestamp: r.now(),
	}
	if err := r.store.SaveMessage(ctx, msg); err != nil {
		return nil, err
	}
	metrics.ChatMessages.Inc()

	// Delivery is best effort; the message is already stored.
	if err := r.broker.Publish(ctx, models.RoomBroadcast{Room: room.College, Message: *msg}); err != nil {
		log.Error().Err(err).Str("room", room.College).Uint("message_id", msg.ID).Msg("failed to publish chat message")
	}
	return msg, nil
}

// History returns up to limit of the newest messages of a room, oldest first.
// limit is clamped to config.HistoryLimit.
func (r *Relay) History(ctx context.Context, roomID string, limit int) ([]models.ChatMessage, error) {
	if limit <= 0 || limit > config.HistoryLimit {
		limit = config.HistoryLimit
	}
	if _, err := r.store.GetRoomByID(ctx, roomID); err != nil {
		return nil, err
	}

	messages, err := r.store.RecentMessages(ctx, roomID, limit)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(messages, func(i, j int) bool { return newer(messages[i], messages[j]) })
	if len(messages) > limit {
		messages = messages[:limit]
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func newer(a, b models.ChatMessage) bool {
	if !a.Timestamp.Equal(b.Timestamp) {
		return a.Timestamp.After(b.Timestamp)
	}
	return a.ID > b.ID
}
