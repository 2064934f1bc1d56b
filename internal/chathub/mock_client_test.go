package chathub_test

import (
	"sync"
	"time"

	"mindbridge/backend/internal/models"
)

// MockClient is an in-memory chathub.Client.
type MockClient struct {
	userID      string
	RecvChannel chan models.Event

	mu     sync.Mutex
	closed bool
}

func newMockClient(userID string) *MockClient {
	return newMockClientWithBuffer(userID, 10)
}

func newMockClientWithBuffer(userID string, size int) *MockClient {
	return &MockClient{
		userID:      userID,
		RecvChannel: make(chan models.Event, size),
	}
}

func (c *MockClient) GetUserID() string { return c.userID }

func (c *MockClient) GetSendChannel() chan<- models.Event { return c.RecvChannel }

func (c *MockClient) Run() {
	// Not needed for testing
}

func (c *MockClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *MockClient) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// next waits briefly for the next event.
func (c *MockClient) next() (models.Event, bool) {
	select {
	case ev := <-c.RecvChannel:
		return ev, true
	case <-time.After(time.Second):
		return models.Event{}, false
	}
}

// quiet reports whether no event arrives within a short window.
func (c *MockClient) quiet() bool {
	select {
	case <-c.RecvChannel:
		return false
	case <-time.After(50 * time.Millisecond):
		return true
	}
}
