package chathub

import (
	"context"

	"mindbridge/backend/internal/metrics"
	"mindbridge/backend/internal/models"

	"github.com/rs/zerolog/log"
)

const broadcastBuffer = 256

type joinRequest struct {
	client Client
	room   string
}

type directMessage struct {
	client Client
	event  models.Event
}

// ManagerService is the hub. A single goroutine (Run) owns the client set and
// the Registry; every mutation arrives over a channel, so no locks are needed.
type ManagerService struct {
	registry *Registry
	clients  map[Client]struct{}

	// Channels
	RegisterCh   chan Client
	UnregisterCh chan Client
	joinCh       chan joinRequest
	broadcastCh  chan models.RoomBroadcast
	directCh     chan directMessage
	inspectCh    chan func(*Registry)

	done chan struct{}
}

// NewManagerService creates a hub over registry (a new one when nil).
func NewManagerService(registry *Registry) *ManagerService {
	if registry == nil {
		registry = NewRegistry()
	}
	return &ManagerService{
		registry:     registry,
		clients:      make(map[Client]struct{}),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		joinCh:       make(chan joinRequest),
		broadcastCh:  make(chan models.RoomBroadcast, broadcastBuffer),
		directCh:     make(chan directMessage),
		inspectCh:    make(chan func(*Registry)),
		done:         make(chan struct{}),
	}
}

// Run processes hub events until ctx is cancelled, then closes every client.
func (m *ManagerService) Run(ctx context.Context) {
	defer close(m.done)

	for {
		select {
		case <-ctx.Done():
			for c := range m.clients {
				m.remove(c)
			}
			log.Info().Msg("chat hub stopped")
			return

		case c := <-m.RegisterCh:
			if _, ok := m.clients[c]; !ok {
				m.clients[c] = struct{}{}
				metrics.WSConnections.Inc()
				log.Debug().Str("anon_id", c.GetUserID()).Msg("client registered")
			}

		case c := <-m.UnregisterCh:
			if _, ok := m.clients[c]; ok {
				rooms := m.registry.RoomsOf(c)
				m.remove(c)
				log.Debug().Str("anon_id", c.GetUserID()).Strs("rooms", rooms).Msg("client unregistered")
			}

		case req := <-m.joinCh:
			if _, ok := m.clients[req.client]; !ok {
				continue
			}
			if m.registry.Join(req.client, req.room) {
				log.Debug().
					Str("anon_id", req.client.GetUserID()).
					Str("room", req.room).
					Msg("client joined room")
			}

		case b := <-m.broadcastCh:
			m.fanOut(b)

		case d := <-m.directCh:
			if _, ok := m.clients[d.client]; ok {
				m.deliver(d.client, d.event)
			}

		case fn := <-m.inspectCh:
			fn(m.registry)
		}
	}
}

func (m *ManagerService) fanOut(b models.RoomBroadcast) {
	msg := b.Message
	event := models.Event{Type: models.EventMsg, Room: b.Room, Message: &msg}
	for _, c := range m.registry.Members(b.Room) {
		m.deliver(c, event)
	}
}

// deliver never blocks; a client whose buffer is full is dropped.
func (m *ManagerService) deliver(c Client, event models.Event) {
	select {
	case c.GetSendChannel() <- event:
	default:
		log.Warn().Str("anon_id", c.GetUserID()).Msg("client send buffer full, dropping client")
		metrics.ChatDropped.Inc()
		m.remove(c)
	}
}

func (m *ManagerService) remove(c Client) {
	m.registry.Leave(c)
	if _, ok := m.clients[c]; ok {
		delete(m.clients, c)
		metrics.WSConnections.Dec()
		c.Close()
	}
}

// Register adds c to the hub. It returns immediately once the hub stopped.
func (m *ManagerService) Register(c Client) {
	select {
	case m.RegisterCh <- c:
	case <-m.done:
	}
}

// Unregister removes c from every room and closes it.
func (m *ManagerService) Unregister(c Client) {
	select {
	case m.UnregisterCh <- c:
	case <-m.done:
	}
}

// Join adds a registered client to room. Joining twice is a no-op.
func (m *ManagerService) Join(c Client, room string) {
	select {
	case m.joinCh <- joinRequest{client: c, room: room}:
	case <-m.done:
	}
}

// Broadcast queues b for every current member of b.Room.
func (m *ManagerService) Broadcast(b models.RoomBroadcast) {
	select {
	case m.broadcastCh <- b:
	case <-m.done:
	}
}

// Notify sends an event to a single registered client.
func (m *ManagerService) Notify(c Client, event models.Event) {
	select {
	case m.directCh <- directMessage{client: c, event: event}:
	case <-m.done:
	}
}

// Inspect runs fn on the hub goroutine and waits for it to return. It reports
// false if the hub has stopped.
func (m *ManagerService) Inspect(fn func(*Registry)) bool {
	finished := make(chan struct{})
	wrapped := func(r *Registry) {
		defer close(finished)
		fn(r)
	}
	select {
	case m.inspectCh <- wrapped:
		<-finished
		return true
	case <-m.done:
		return false
	}
}

// Done is closed when Run returns.
func (m *ManagerService) Done() <-chan struct{} { return m.done }
