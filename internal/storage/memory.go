package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"mindbridge/backend/internal/models"

	"github.com/google/uuid"
)

// MemoryStore keeps everything in process memory. It orders results the same
// way the SQL backend does and is used for local runs and tests.
type MemoryStore struct {
	mu sync.RWMutex

	users    map[string]models.AnonymousUser
	checkins []models.CheckIn
	rooms    map[string]models.ChatRoom // by id
	colleges map[string]string          // college -> room id
	messages []models.ChatMessage

	nextCheckInID uint
	nextMessageID uint
	now           func() time.Time
}

var _ Storage = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[string]models.AnonymousUser),
		rooms:    make(map[string]models.ChatRoom),
		colleges: make(map[string]string),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (m *MemoryStore) CreateUser(_ context.Context, user *models.AnonymousUser) error {
	if user.AnonID == "" {
		user.AnonID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = m.now()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.AnonID] = *user
	return nil
}

func (m *MemoryStore) DeleteUser(_ context.Context, anonID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[anonID]; !ok {
		return 0, nil
	}
	delete(m.users, anonID)
	return 1, nil
}

// UserExists reports whether anonID is still stored. Tests use it to confirm a purge.
func (m *MemoryStore) UserExists(anonID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.users[anonID]
	return ok
}

func (m *MemoryStore) SaveCheckIn(_ context.Context, checkin *models.CheckIn) error {
	if checkin.Date.IsZero() {
		checkin.Date = m.now()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextCheckInID++
	checkin.ID = m.nextCheckInID
	m.checkins = append(m.checkins, *checkin)
	return nil
}

func (m *MemoryStore) ListCheckIns(ctx context.Context, userID string) ([]models.CheckIn, error) {
	return m.ListCheckInsSince(ctx, userID, time.Time{})
}

func (m *MemoryStore) ListCheckInsSince(_ context.Context, userID string, since time.Time) ([]models.CheckIn, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.CheckIn, 0)
	for _, c := range m.checkins {
		if c.UserID == userID && !c.Date.Before(since) {
			out = append(out, c)
		}
	}
	sortCheckInsNewestFirst(out)
	return out, nil
}

func (m *MemoryStore) LatestCheckIn(ctx context.Context, userID string) (*models.CheckIn, error) {
	all, err := m.ListCheckIns(ctx, userID)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	latest := all[0]
	return &latest, nil
}

func (m *MemoryStore) DeleteCheckIns(_ context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.checkins[:0]
	var deleted int64
	for _, c := range m.checkins {
		if c.UserID == userID {
			deleted++
			continue
		}
		kept = append(kept, c)
	}
	m.checkins = kept
	return deleted, nil
}

func (m *MemoryStore) GetOrCreateRoom(_ context.Context, college string) (*models.ChatRoom, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id, ok := m.colleges[college]; ok {
		room := m.rooms[id]
		return &room, nil
	}
	room := models.ChatRoom{ID: uuid.New().String(), College: college, CreatedAt: m.now()}
	m.rooms[room.ID] = room
	m.colleges[college] = room.ID
	return &room, nil
}

func (m *MemoryStore) GetRoomByID(_ context.Context, roomID string) (*models.ChatRoom, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	room, ok := m.rooms[roomID]
	if !ok {
		return nil, ErrNotFound
	}
	return &room, nil
}

func (m *MemoryStore) ListRooms(_ context.Context) ([]models.ChatRoom, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rooms := make([]models.ChatRoom, 0, len(m.rooms))
	for _, r := range m.rooms {
		rooms = append(rooms, r)
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].College < rooms[j].College })
	return rooms, nil
}

func (m *MemoryStore) SaveMessage(_ context.Context, msg *models.ChatMessage) error {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = m.now()
	}
	if msg.Username == "" {
		msg.Username = "Anonymous"
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextMessageID++
	msg.ID = m.nextMessageID
	m.messages = append(m.messages, *msg)
	return nil
}

func (m *MemoryStore) RecentMessages(_ context.Context, roomID string, limit int) ([]models.ChatMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.ChatMessage, 0)
	for _, msg := range m.messages {
		if msg.RoomID == roomID {
			out = append(out, msg)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func sortCheckInsNewestFirst(checkins []models.CheckIn) {
	sort.SliceStable(checkins, func(i, j int) bool {
		if !checkins[i].Date.Equal(checkins[j].Date) {
			return checkins[i].Date.After(checkins[j].Date)
		}
		return checkins[i].ID > checkins[j].ID
	})
}
