package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AnonymousUser is the only identity the service knows about: a random UUID
// and the college the student typed at login. No credentials, no PII.
type AnonymousUser struct {
	AnonID    string    `gorm:"primaryKey;type:uuid" json:"anonId"`
	College   string    `gorm:"type:text;not null;index" json:"college"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName keeps the table name stable regardless of struct renames.
func (AnonymousUser) TableName() string { return "anonymous_users" }

// BeforeCreate generates a new UUID for the user if AnonID has not been set yet.
func (u *AnonymousUser) BeforeCreate(tx *gorm.DB) (err error) {
	if u.AnonID == "" {
		u.AnonID = uuid.New().String()
	}
	return
}
