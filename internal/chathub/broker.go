package chathub

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"mindbridge/backend/internal/models"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RoomChannelPrefix prefixes the Redis channel of every college room.
const RoomChannelPrefix = "chat:room:"

var errBrokerNotStarted = errors.New("broker not started")

// Broker carries stored messages to the hubs that fan them out.
type Broker interface {
	Publish(ctx context.Context, b models.RoomBroadcast) error
	// Start begins delivering published broadcasts to deliver. It returns once
	// the subscription is established.
	Start(ctx context.Context, deliver func(models.RoomBroadcast)) error
}

// LocalBroker delivers in-process, for a single server instance.
type LocalBroker struct {
	mu      sync.RWMutex
	deliver func(models.RoomBroadcast)
}

func NewLocalBroker() *LocalBroker { return &LocalBroker{} }

func (l *LocalBroker) Start(_ context.Context, deliver func(models.RoomBroadcast)) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.deliver = deliver
	return nil
}

func (l *LocalBroker) Publish(_ context.Context, b models.RoomBroadcast) error {
	l.mu.RLock()
	deliver := l.deliver
	l.mu.RUnlock()

	if deliver == nil {
		return errBrokerNotStarted
	}
	deliver(b)
	return nil
}

// RedisBroker fans messages out through Redis Pub/Sub so every server
// instance subscribed to the pattern relays them to its own clients.
type RedisBroker struct {
	Redis *redis.Client
}

func NewRedisBroker(rdb *redis.Client) *RedisBroker {
	return &RedisBroker{Redis: rdb}
}

// RoomChannel is the Redis channel for a college room.
func RoomChannel(college string) string { return RoomChannelPrefix + college }

// Publish serializes the broadcast and publishes it on the room channel.
func (r *RedisBroker) Publish(ctx context.Context, b models.RoomBroadcast) error {
	payload, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("encode broadcast: %w", err)
	}
	if err := r.Redis.Publish(ctx, RoomChannel(b.Room), payload).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", RoomChannel(b.Room), err)
	}
	return nil
}

// Start pattern-subscribes to every room channel and feeds decoded
// broadcasts to deliver until ctx is cancelled.
func (r *RedisBroker) Start(ctx context.Context, deliver func(models.RoomBroadcast)) error {
	pubsub := r.Redis.PSubscribe(ctx, RoomChannelPrefix+"*")
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return fmt.Errorf("subscribe to room channels: %w", err)
	}

	go func() {
		defer pubsub.Close()
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				b, err := DecodeBroadcast(msg.Channel, msg.Payload)
				if err != nil {
					log.Error().Err(err).Str("channel", msg.Channel).Msg("error decoding Redis message")
					continue
				}
				deliver(b)
			}
		}
	}()

	log.Info().Str("pattern", RoomChannelPrefix+"*").Msg("listening for room broadcasts on Redis")
	return nil
}

// DecodeBroadcast parses a payload received on channel. The room is taken
// from the channel name when the payload omits it.
func DecodeBroadcast(channel, payload string) (models.RoomBroadcast, error) {
	var b models.RoomBroadcast
	if err := json.Unmarshal([]byte(payload), &b); err != nil {
		return b, err
	}
	if b.Room == "" {
		b.Room = strings.TrimPrefix(channel, RoomChannelPrefix)
	}
	return b, nil
}
