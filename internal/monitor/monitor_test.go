package monitor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-ops-backend/config"
	"hotel-ops-backend/internal/model"
	"hotel-ops-backend/internal/notification"
	"hotel-ops-backend/internal/store"
	"hotel-ops-backend/internal/tracker"
)

// mockSource is a mock implementation of the Source interface.
type mockSource struct {
	ListRoomsFunc func(ctx context.Context, f store.RoomFilter) ([]model.Room, error)
	ListUsersFunc func(ctx context.Context, role model.Role) ([]model.User, error)
}

func (m *mockSource) ListRooms(ctx context.Context, f store.RoomFilter) ([]model.Room, error) {
	return m.ListRoomsFunc(ctx, f)
}

func (m *mockSource) ListUsers(ctx context.Context, role model.Role) ([]model.User, error) {
	return m.ListUsersFunc(ctx, role)
}

type recorder struct {
	mu      sync.Mutex
	notices []notification.Notice
}

func (r *recorder) Dispatch(n notification.Notice) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
	return true
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.notices)
}

var start = time.Date(2025, 1, 26, 9, 0, 0, 0, time.UTC)

func cleaningRoom(id, number, recordID string) model.Room {
	room := model.Room{ID: id, Number: number, Status: model.RoomVacant}
	if _, err := tracker.StartCleaning(&room, tracker.Housekeeper{ID: "housekeeper-1", Name: "Maria Garcia"}, recordID, start); err != nil {
		panic(err)
	}
	return room
}

func newSource(rooms ...model.Room) *mockSource {
	return &mockSource{
		ListRoomsFunc: func(ctx context.Context, f store.RoomFilter) ([]model.Room, error) {
			var out []model.Room
			for _, r := range rooms {
				if f.Status == "" || r.Status == f.Status {
					out = append(out, r)
				}
			}
			return out, nil
		},
		ListUsersFunc: func(ctx context.Context, role model.Role) ([]model.User, error) {
			return []model.User{{ID: "admin-1", Role: model.RoleAdmin}}, nil
		},
	}
}

func TestCheckOnce(t *testing.T) {
	ctx := context.Background()
	src := newSource(
		cleaningRoom("room-305", "305", "c1"),
		cleaningRoom("room-414", "414", "c2"),
		model.Room{ID: "room-503", Number: "503", Status: model.RoomVacant},
	)
	now := start.Add(108 * time.Minute)
	rec := &recorder{}
	svc := NewService(config.MonitorConfig{Enabled: true}, src, rec, func() time.Time { return now }, nil)

	found, err := svc.CheckOnce(ctx)
	require.NoError(t, err)
	assert.Empty(t, found, "108 minutes is still on time")

	now = start.Add(109 * time.Minute)
	found, err = svc.CheckOnce(ctx)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, 109, found[0].Minutes)
	require.Equal(t, 2, rec.count())
	assert.Equal(t, []string{"admin-1", "housekeeper-1"}, rec.notices[0].UserIDs)
	assert.Equal(t, "Room 305 cleaning overdue", rec.notices[0].Title)

	// A flagged session is not flagged again.
	now = start.Add(3 * time.Hour)
	found, err = svc.CheckOnce(ctx)
	require.NoError(t, err)
	assert.Empty(t, found)
	assert.Equal(t, 2, rec.count())
}

func TestCheckOnce_SkipsInconsistentRooms(t *testing.T) {
	started := start
	orphan := model.Room{ID: "room-217", Number: "217", Status: model.RoomCleaning, CleaningStartTime: &started}
	closed := cleaningRoom("room-104", "104", "c3")
	end := start.Add(time.Hour)
	closed.CleaningHistory[0].EndTime = &end
	closed.CleaningHistory[0].Status = model.CleaningCompleted

	rec := &recorder{}
	now := start.Add(3 * time.Hour)
	svc := NewService(config.MonitorConfig{Enabled: true}, newSource(orphan, closed), rec, func() time.Time { return now }, nil)

	found, err := svc.CheckOnce(context.Background())
	require.NoError(t, err)
	assert.Empty(t, found)
	assert.Zero(t, rec.count())
}

func TestCheckOnce_SourceError(t *testing.T) {
	src := &mockSource{
		ListRoomsFunc: func(ctx context.Context, f store.RoomFilter) ([]model.Room, error) {
			return nil, errors.New("db down")
		},
	}
	svc := NewService(config.MonitorConfig{Enabled: true}, src, nil, time.Now, nil)
	_, err := svc.CheckOnce(context.Background())
	assert.Error(t, err)
}

func TestRun_StopsWithContext(t *testing.T) {
	var (
		mu    sync.Mutex
		calls int
	)
	src := newSource()
	src.ListRoomsFunc = func(ctx context.Context, f store.RoomFilter) ([]model.Room, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		return nil, nil
	}
	svc := NewService(config.MonitorConfig{Enabled: true, Interval: 10 * time.Millisecond}, src, nil, time.Now, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls >= 2
	}, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop")
	}
}

func TestRun_Disabled(t *testing.T) {
	svc := NewService(config.MonitorConfig{Enabled: false}, newSource(), nil, time.Now, nil)
	svc.Run(context.Background()) // returns immediately
}
