package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mindbridge/backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when a looked-up record does not exist.
var ErrNotFound = errors.New("record not found")

// Storage is the data access layer for users, check-ins, rooms and messages.
// It has no logic beyond ordering and schema constraints.
type Storage interface {
	CreateUser(ctx context.Context, user *models.AnonymousUser) error
	// DeleteUser returns the number of deleted rows; zero is not an error.
	DeleteUser(ctx context.Context, anonID string) (int64, error)

	SaveCheckIn(ctx context.Context, checkin *models.CheckIn) error
	// ListCheckIns returns all check-ins of a user, newest first.
	ListCheckIns(ctx context.Context, userID string) ([]models.CheckIn, error)
	// ListCheckInsSince returns check-ins with date >= since, newest first.
	ListCheckInsSince(ctx context.Context, userID string, since time.Time) ([]models.CheckIn, error)
	// LatestCheckIn returns nil without error when the user has none.
	LatestCheckIn(ctx context.Context, userID string) (*models.CheckIn, error)
	DeleteCheckIns(ctx context.Context, userID string) (int64, error)

	GetOrCreateRoom(ctx context.Context, college string) (*models.ChatRoom, error)
	GetRoomByID(ctx context.Context, roomID string) (*models.ChatRoom, error)
	ListRooms(ctx context.Context) ([]models.ChatRoom, error)

	SaveMessage(ctx context.Context, msg *models.ChatMessage) error
	// RecentMessages returns up to limit of the newest messages of a room,
	// newest first.
	RecentMessages(ctx context.Context, roomID string, limit int) ([]models.ChatMessage, error)
}

// Service is the PostgreSQL implementation of Storage.
type Service struct {
	DB *gorm.DB
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

func (s *Service) CreateUser(ctx context.Context, user *models.AnonymousUser) error {
	if err := s.DB.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *Service) DeleteUser(ctx context.Context, anonID string) (int64, error) {
	if _, err := uuid.Parse(anonID); err != nil {
		return 0, nil
	}
	result := s.DB.WithContext(ctx).Where("anon_id = ?", anonID).Delete(&models.AnonymousUser{})
	if result.Error != nil {
		return 0, fmt.Errorf("delete user %s: %w", anonID, result.Error)
	}
	return result.RowsAffected, nil
}

func (s *Service) SaveCheckIn(ctx context.Context, checkin *models.CheckIn) error {
	if checkin.Date.IsZero() {
		checkin.Date = time.Now().UTC()
	}
	if err := s.DB.WithContext(ctx).Create(checkin).Error; err != nil {
		return fmt.Errorf("save check-in: %w", err)
	}
	return nil
}

func (s *Service) ListCheckIns(ctx context.Context, userID string) ([]models.CheckIn, error) {
	var checkins []models.CheckIn
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date desc, id desc").
		Find(&checkins).Error
	if err != nil {
		return nil, fmt.Errorf("list check-ins: %w", err)
	}
	return checkins, nil
}

func (s *Service) ListCheckInsSince(ctx context.Context, userID string, since time.Time) ([]models.CheckIn, error) {
	var checkins []models.CheckIn
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND date >= ?", userID, since).
		Order("date desc, id desc").
		Find(&checkins).Error
	if err != nil {
		return nil, fmt.Errorf("list check-ins since %s: %w", since.Format(time.RFC3339), err)
	}
	return checkins, nil
}

func (s *Service) LatestCheckIn(ctx context.Context, userID string) (*models.CheckIn, error) {
	var checkin models.CheckIn
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date desc, id desc").
		First(&checkin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest check-in: %w", err)
	}
	return &checkin, nil
}

func (s *Service) DeleteCheckIns(ctx context.Context, userID string) (int64, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return 0, nil
	}
	result := s.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CheckIn{})
	if result.Error != nil {
		return 0, fmt.Errorf("delete check-ins of %s: %w", userID, result.Error)
	}
	return result.RowsAffected, nil
}

// GetOrCreateRoom inserts the room if missing and reads it back. Concurrent
// callers for the same college collapse onto the unique index.
func (s *Service) GetOrCreateRoom(ctx context.Context, college string) (*models.ChatRoom, error) {
	db := s.DB.WithContext(ctx)
	candidate := models.ChatRoom{College: college}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "college"}},
		DoNothing: true,
	}).Create(&candidate).Error
	if err != nil {
		return nil, fmt.Errorf("create room %q: %w", college, err)
	}

	var room models.ChatRoom
	if err := db.Where("college = ?", college).First(&room).Error; err != nil {
		return nil, fmt.Errorf("load room %q: %w", college, err)
	}
	return &room, nil
}

func (s *Service) GetRoomByID(ctx context.Context, roomID string) (*models.ChatRoom, error) {
	// Non-UUID ids can never match and would fail the uuid column cast.
	if _, err := uuid.Parse(roomID); err != nil {
		return nil, ErrNotFound
	}

	var room models.ChatRoom
	err := s.DB.WithContext(ctx).Where("id = ?", roomID).First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get room %s: %w", roomID, err)
	}
	return &room, nil
}

func (s *Service) ListRooms(ctx context.Context) ([]models.ChatRoom, error) {
	var rooms []models.ChatRoom
	if err := s.DB.WithContext(ctx).Order("college asc").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

func (s *Service) SaveMessage(ctx context.Context, msg *models.ChatMessage) error {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	if err := s.DB.WithContext(ctx).Create(msg).Error; err != nil {
		return fmt.Errorf("save message for room %s: %w", msg.RoomID, err)
	}
	return nil
}

func (s *Service) RecentMessages(ctx context.Context, roomID string, limit int) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	err := s.DB.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("timestamp desc, id desc").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("recent messages for room %s: %w", roomID, err)
	}
	return messages, nil
}
