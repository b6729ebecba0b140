package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"hotel-ops-backend/internal/model"
)

// ErrNotFound is returned when an entity id does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the interface for all database operations.
type Store interface {
	DB() *gorm.DB
	Empty(ctx context.Context) (bool, error)

	CreateUser(ctx context.Context, u *model.User) error
	GetUser(ctx context.Context, id string) (*model.User, error)
	ListUsers(ctx context.Context, role model.Role) ([]model.User, error)

	CreateRoom(ctx context.Context, r *model.Room) error
	GetRoom(ctx context.Context, id string) (*model.Room, error)
	ListRooms(ctx context.Context, f RoomFilter) ([]model.Room, error)
	SaveRoom(ctx context.Context, r *model.Room, rec *model.CleaningRecord) error
	ListCleaningRecords(ctx context.Context, f RecordFilter) ([]model.CleaningRecord, error)

	CreateRequest(ctx context.Context, r *model.ServiceRequest) error
	GetRequest(ctx context.Context, id string) (*model.ServiceRequest, error)
	ListRequests(ctx context.Context, f RequestFilter) ([]model.ServiceRequest, error)
	SaveRequest(ctx context.Context, r *model.ServiceRequest) error

	CreateTask(ctx context.Context, t *model.MaintenanceTask) error
	GetTask(ctx context.Context, id string) (*model.MaintenanceTask, error)
	ListTasks(ctx context.Context, f TaskFilter) ([]model.MaintenanceTask, error)
	SaveTask(ctx context.Context, t *model.MaintenanceTask) error

	CreateChatRoom(ctx context.Context, c *model.ChatRoom) error
	GetChatRoom(ctx context.Context, id string) (*model.ChatRoom, error)
	ListChatRooms(ctx context.Context) ([]model.ChatRoom, error)
	AppendMessage(ctx context.Context, m *model.ChatMessage) error
	ListMessages(ctx context.Context, roomID string) ([]model.ChatMessage, error)
	MarkRead(ctx context.Context, roomID, viewerID string) (int64, error)
	UnreadCounts(ctx context.Context, viewerID string) (map[string]int, error)

	UpsertSubscription(ctx context.Context, sub *model.PushSubscription) error
	GetSubscription(ctx context.Context, endpoint string) (*model.PushSubscription, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
	SubscriptionsForUsers(ctx context.Context, userIDs []string) ([]model.PushSubscription, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// Empty reports whether no users exist yet; seeding keys off it.
func (s *gormStore) Empty(ctx context.Context) (bool, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).Count(&n).Error; err != nil {
		return false, fmt.Errorf("failed to count users: %w", err)
	}
	return n == 0, nil
}

// notFound maps gorm's sentinel onto ErrNotFound for the given entity.
func notFound(err error, kind, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
	}
	return fmt.Errorf("failed to load %s %q: %w", kind, id, err)
}

func likePattern(q string) string {
	return "%" + strings.ToLower(strings.TrimSpace(q)) + "%"
}
