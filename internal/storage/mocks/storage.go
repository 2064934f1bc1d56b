// Package mocks holds testify mocks shared by the service and handler tests.
package mocks

import (
	"context"
	"time"

	"mindbridge/backend/internal/models"
	"mindbridge/backend/internal/storage"

	"github.com/stretchr/testify/mock"
)

// MockStorage is a testify implementation of storage.Storage.
type MockStorage struct {
	mock.Mock
}

var _ storage.Storage = (*MockStorage)(nil)

// User operations
func (m *MockStorage) CreateUser(ctx context.Context, user *models.AnonymousUser) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockStorage) DeleteUser(ctx context.Context, anonID string) (int64, error) {
	args := m.Called(ctx, anonID)
	return args.Get(0).(int64), args.Error(1)
}

// Check-in operations
func (m *MockStorage) SaveCheckIn(ctx context.Context, checkin *models.CheckIn) error {
	args := m.Called(ctx, checkin)
	return args.Error(0)
}

func (m *MockStorage) ListCheckIns(ctx context.Context, userID string) ([]models.CheckIn, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CheckIn), args.Error(1)
}

func (m *MockStorage) ListCheckInsSince(ctx context.Context, userID string, since time.Time) ([]models.CheckIn, error) {
	args := m.Called(ctx, userID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CheckIn), args.Error(1)
}

func (m *MockStorage) LatestCheckIn(ctx context.Context, userID string) (*models.CheckIn, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CheckIn), args.Error(1)
}

func (m *MockStorage) DeleteCheckIns(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// Room operations
func (m *MockStorage) GetOrCreateRoom(ctx context.Context, college string) (*models.ChatRoom, error) {
	args := m.Called(ctx, college)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatRoom), args.Error(1)
}

func (m *MockStorage) GetRoomByID(ctx context.Context, roomID string) (*models.ChatRoom, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatRoom), args.Error(1)
}

func (m *MockStorage) ListRooms(ctx context.Context) ([]models.ChatRoom, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChatRoom), args.Error(1)
}

// Message operations
func (m *MockStorage) SaveMessage(ctx context.Context, msg *models.ChatMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockStorage) RecentMessages(ctx context.Context, roomID string, limit int) ([]models.ChatMessage, error) {
	args := m.Called(ctx, roomID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChatMessage), args.Error(1)
}
