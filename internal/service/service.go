// Package service applies every state transition of the hotel domain. All
// writes go through one mutex so a read-modify-write of a room, request or
// task never interleaves with another.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"hotel-ops-backend/internal/model"
	"hotel-ops-backend/internal/notification"
	"hotel-ops-backend/internal/session"
	"hotel-ops-backend/internal/store"
)

var (
	// ErrInvalidInput marks a request the caller must fix before retrying.
	ErrInvalidInput = errors.New("invalid input")
	// ErrForbidden marks an actor acting outside its role or ownership.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict marks a create that collides with an existing entity.
	ErrConflict = errors.New("already exists")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Service owns the hotel state.
type Service struct {
	mu       sync.Mutex
	store    store.Store
	notifier notification.Notifier
	log      *zerolog.Logger
	now      func() time.Time
	newID    func() string
}

// Option customises a Service.
type Option func(*Service)

// WithClock replaces the wall clock, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator replaces uuid-based identifiers.
func WithIDGenerator(f func() string) Option {
	return func(s *Service) { s.newID = f }
}

// New creates a service. A nil notifier discards notices.
func New(st store.Store, notifier notification.Notifier, log *zerolog.Logger, opts ...Option) *Service {
	if notifier == nil {
		notifier = notification.Discard{}
	}
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	s := &Service{
		store:    st,
		notifier: notifier,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now is the service clock.
func (s *Service) Now() time.Time {
	return s.now()
}

// mutate runs fn under the writer lock and dispatches the notices it
// returns once the lock is released.
func (s *Service) mutate(fn func() ([]notification.Notice, error)) error {
	s.mu.Lock()
	notices, err := fn()
	s.mu.Unlock()
	if err != nil {
		return err
	}
	for _, n := range notices {
		s.notifier.Dispatch(n)
	}
	return nil
}

// ResolveActor loads the user behind an id.
func (s *Service) ResolveActor(ctx context.Context, userID string) (session.Actor, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return session.Actor{}, err
	}
	return session.FromUser(*u), nil
}

// ListUsers lists users, optionally restricted to one role.
func (s *Service) ListUsers(ctx context.Context, role model.Role) ([]model.User, error) {
	if role != "" && !role.Valid() {
		return nil, invalid("unknown role %q", role)
	}
	return s.store.ListUsers(ctx, role)
}

func (s *Service) userIDs(ctx context.Context, role model.Role) []string {
	users, err := s.store.ListUsers(ctx, role)
	if err != nil {
		s.log.Warn().Err(err).Str("role", string(role)).Msg("could not resolve notice recipients")
		return nil
	}
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids
}

func requireRole(a session.Actor, roles ...model.Role) error {
	if !a.Is(roles...) {
		return fmt.Errorf("%w: role %q may not do this", ErrForbidden, a.Role)
	}
	return nil
}
