// Package monitor watches open cleaning sessions and raises one notice per
// session once it runs past the on-time limit. It never writes rooms.
package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"hotel-ops-backend/config"
	"hotel-ops-backend/internal/metrics"
	"hotel-ops-backend/internal/model"
	"hotel-ops-backend/internal/notification"
	"hotel-ops-backend/internal/store"
	"hotel-ops-backend/internal/tracker"
)

// Source is the read-only slice of the store the monitor needs.
type Source interface {
	ListRooms(ctx context.Context, f store.RoomFilter) ([]model.Room, error)
	ListUsers(ctx context.Context, role model.Role) ([]model.User, error)
}

// Overdue describes one session that crossed the limit.
type Overdue struct {
	RoomID          string
	RoomNumber      string
	RecordID        string
	HousekeeperID   string
	HousekeeperName string
	Minutes         int
}

// Service periodically checks for overdue cleanings.
type Service struct {
	cfg      config.MonitorConfig
	source   Source
	notifier notification.Notifier
	seen     *cache.Cache
	now      func() time.Time
	log      *zerolog.Logger
}

// NewService creates a monitor. now is normally the service clock.
func NewService(cfg config.MonitorConfig, source Source, notifier notification.Notifier, now func() time.Time, log *zerolog.Logger) *Service {
	if notifier == nil {
		notifier = notification.Discard{}
	}
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	return &Service{
		cfg:      cfg,
		source:   source,
		notifier: notifier,
		// Sessions are forgotten a day after they were flagged.
		seen: cache.New(24*time.Hour, time.Hour),
		now:  now,
		log:  log,
	}
}

// Run checks once immediately and then every configured interval until ctx ends.
func (s *Service) Run(ctx context.Context) {
	if !s.cfg.Enabled {
		s.log.Info().Msg("overdue monitor is disabled, not starting")
		return
	}
	s.log.Info().Dur("interval", s.cfg.Interval).Msg("starting overdue monitor")

	s.check(ctx)

	timer := time.NewTimer(s.cfg.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("overdue monitor shutting down")
			return
		case <-timer.C:
			s.check(ctx)
			timer.Reset(s.cfg.Interval)
		}
	}
}

func (s *Service) check(ctx context.Context) {
	if _, err := s.CheckOnce(ctx); err != nil {
		s.log.Error().Err(err).Msg("overdue check failed")
	}
}

// CheckOnce flags every session past the on-time limit that was not flagged
// before and returns them.
func (s *Service) CheckOnce(ctx context.Context) ([]Overdue, error) {
	rooms, err := s.source.ListRooms(ctx, store.RoomFilter{Status: model.RoomCleaning})
	if err != nil {
		return nil, err
	}
	now := s.now()

	var found []Overdue
	for i := range rooms {
		room := &rooms[i]
		if err := tracker.CheckConsistency(room); err != nil {
			s.log.Warn().Err(err).Str("room", room.Number).Msg("skipping room with inconsistent cleaning history")
			continue
		}
		mins, err := tracker.ElapsedMinutes(room, now)
		if err != nil || tracker.IsOnTime(mins) {
			continue
		}
		rec := room.TrailingRecord()
		if _, ok := s.seen.Get(rec.ID); ok {
			continue
		}
		s.seen.SetDefault(rec.ID, struct{}{})

		found = append(found, Overdue{
			RoomID:          room.ID,
			RoomNumber:      room.Number,
			RecordID:        rec.ID,
			HousekeeperID:   rec.HousekeeperID,
			HousekeeperName: rec.HousekeeperName,
			Minutes:         mins,
		})
	}
	if len(found) == 0 {
		return nil, nil
	}

	admins, err := s.source.ListUsers(ctx, model.RoleAdmin)
	if err != nil {
		s.log.Warn().Err(err).Msg("could not load admins for overdue notices")
	}
	for _, o := range found {
		metrics.Overdue()
		s.log.Warn().
			Str("room", o.RoomNumber).
			Str("housekeeper", o.HousekeeperName).
			Int("minutes", o.Minutes).
			Msg("cleaning overdue")

		to := make([]string, 0, len(admins)+1)
		for _, a := range admins {
			to = append(to, a.ID)
		}
		if o.HousekeeperID != "" {
			to = append(to, o.HousekeeperID)
		}
		s.notifier.Dispatch(notification.Notice{
			UserIDs: to,
			Title:   fmt.Sprintf("Room %s cleaning overdue", o.RoomNumber),
			Body:    fmt.Sprintf("%s has been cleaning for %d minutes", o.HousekeeperName, o.Minutes),
			URL:     "/rooms/" + o.RoomID,
		})
	}
	return found, nil
}
