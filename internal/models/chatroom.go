package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatRoom is the per-college support room. It only scopes fan-out and
// history; rooms are created lazily and never change afterwards.
type ChatRoom struct {
	// ID is the unique identifier for the chat room (UUID).
	ID string `gorm:"primaryKey;type:uuid" json:"id"`
	// College is the room key; exactly one room exists per college name.
	College string `gorm:"type:text;not null;uniqueIndex" json:"college"`
	// CreatedAt is the timestamp when the chat room was created.
	CreatedAt time.Time `json:"createdAt"`
}

func (ChatRoom) TableName() string { return "chat_rooms" }

// BeforeCreate assigns a UUID to rooms created without one.
func (r *ChatRoom) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return
}
