package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hotel-ops-backend/internal/db"
	"hotel-ops-backend/internal/notification"
	"hotel-ops-backend/internal/seed"
	"hotel-ops-backend/internal/session"
	"hotel-ops-backend/internal/store"
)

var (
	guest       = session.Actor{UserID: "guest-1", Name: "John Smith", Role: "guest"}
	otherGuest  = session.Actor{UserID: "guest-2", Name: "Jane Doe", Role: "guest"}
	housekeeper = session.Actor{UserID: "housekeeper-1", Name: "Maria Garcia", Role: "housekeeper"}
	admin       = session.Actor{UserID: "admin-1", Name: "Sarah Johnson", Role: "admin"}
)

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

func (r *recorder) all() []notification.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notification.Notice(nil), r.notices...)
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fixture struct {
	svc   *Service
	store store.Store
	clock *clock
	sent  *recorder
}

// newFixture seeds the demo hotel into a private sqlite database.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	st := store.NewGormStore(gormDB)
	c := &clock{now: time.Date(2025, 1, 26, 13, 0, 0, 0, time.UTC)}
	log := zerolog.Nop()
	_, err = seed.Run(context.Background(), st, c.Now(), &log)
	require.NoError(t, err)

	var (
		idMu sync.Mutex
		next int
	)
	ids := func() string {
		idMu.Lock()
		defer idMu.Unlock()
		next++
		return fmt.Sprintf("id-%d", next)
	}

	rec := &recorder{}
	svc := New(st, rec, &log, WithClock(c.Now), WithIDGenerator(ids))
	return &fixture{svc: svc, store: st, clock: c, sent: rec}
}
