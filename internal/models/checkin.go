package models

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"
)

// ErrInvalidCheckIn is returned by CheckIn.Validate for out-of-range values.
var ErrInvalidCheckIn = errors.New("invalid check-in")

const (
	MinRating     = 1
	MaxRating     = 5
	MaxSleepHours = 24
	MaxNoteLength = 1000
)

// CheckIn is one daily mood/sleep/stress record. Rows are immutable and only
// removed when their owner logs out.
type CheckIn struct {
	ID     uint      `gorm:"primaryKey" json:"id"`
	UserID string    `gorm:"type:uuid;not null;index:idx_checkin_user_date" json:"userId"`
	Mood   int       `gorm:"not null" json:"mood"`
	Sleep  float64   `gorm:"not null" json:"sleep"`
	Stress int       `gorm:"not null" json:"stress"`
	Note   string    `gorm:"type:text" json:"note,omitempty"`
	Date   time.Time `gorm:"not null;index:idx_checkin_user_date" json:"date"`
}

func (CheckIn) TableName() string { return "checkins" }

// Validate enforces mood, stress ∈ [1,5] and a plausible sleep duration.
func (c *CheckIn) Validate() error {
	if c.Mood < MinRating || c.Mood > MaxRating {
		return fmt.Errorf("%w: mood must be between %d and %d", ErrInvalidCheckIn, MinRating, MaxRating)
	}
	if c.Stress < MinRating || c.Stress > MaxRating {
		return fmt.Errorf("%w: stress must be between %d and %d", ErrInvalidCheckIn, MinRating, MaxRating)
	}
	if c.Sleep < 0 || c.Sleep > MaxSleepHours {
		return fmt.Errorf("%w: sleep must be between 0 and %d hours", ErrInvalidCheckIn, MaxSleepHours)
	}
	if utf8.RuneCountInString(c.Note) > MaxNoteLength {
		return fmt.Errorf("%w: note must be at most %d characters", ErrInvalidCheckIn, MaxNoteLength)
	}
	return nil
}
