package models

import "time"

// ChatMessage represents a saved chat message.
// Messages belong to a room, never to a user, so they survive logout.
type ChatMessage struct {
	// ID is the auto-increment message identifier.
	ID uint `gorm:"primaryKey" json:"id"`
	// RoomID is the identifier of the chat room where the message was sent.
	RoomID string `gorm:"type:uuid;not null;index:idx_room_msg" json:"roomId"`
	// Text is the filtered message body as stored and broadcast.
	Text string `gorm:"type:text;not null" json:"text"`
	// Username is the self-chosen display name, "Anonymous" when omitted.
	Username string `gorm:"type:text;not null;default:Anonymous" json:"username"`
	// Timestamp is when the message was accepted.
	Timestamp time.Time `gorm:"not null;index:idx_room_msg" json:"timestamp"`
}

func (ChatMessage) TableName() string { return "chat_messages" }
