package chathub

import "mindbridge/backend/internal/models"

// Client is the interface for any realtime connection. It abstracts the
// underlying transport so the hub can manage clients uniformly and tests can
// substitute an in-memory client.
type Client interface {
	// GetUserID returns the anonymous id of the user behind the connection.
	GetUserID() string

	// GetSendChannel returns the channel to which the ManagerService (hub) sends
	// events intended for this specific client. Only the hub writes to it.
	GetSendChannel() chan<- models.Event

	// Run starts the client's read and write pumps.
	Run()
	// Close releases the send channel. The hub calls it exactly once, when the
	// client leaves or is dropped.
	Close()
}
