package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hotel-ops-backend/internal/lifecycle"
	"hotel-ops-backend/internal/metrics"
	"hotel-ops-backend/internal/model"
	"hotel-ops-backend/internal/notification"
	"hotel-ops-backend/internal/parse"
	"hotel-ops-backend/internal/session"
	"hotel-ops-backend/internal/store"
	"hotel-ops-backend/internal/tracker"
)

// NewRoom is the input of CreateRoom. Floor is derived from the number when nil.
type NewRoom struct {
	Number   string         `json:"number"`
	Floor    *int           `json:"floor"`
	Type     model.RoomType `json:"type"`
	Capacity int            `json:"capacity"`
	Price    float64        `json:"price"`
	Notes    string         `json:"notes"`
}

// StatusChange carries the optional parts of a room status change.
type StatusChange struct {
	HousekeeperID string `json:"housekeeperId"`
	Rating        *int   `json:"qualityRating"`
	Notes         string `json:"notes"`
}

// Elapsed is the live view of an open cleaning session.
type Elapsed struct {
	RoomID    string    `json:"roomId"`
	StartedAt time.Time `json:"startedAt"`
	Minutes   int       `json:"elapsedMinutes"`
	OnTime    bool      `json:"onTime"`
}

func (s *Service) ListRooms(ctx context.Context, f store.RoomFilter) ([]model.Room, error) {
	if f.Status != "" && !model.RoomLifecycle.Valid(f.Status) {
		return nil, invalid("unknown room status %q", f.Status)
	}
	return s.store.ListRooms(ctx, f)
}

func (s *Service) GetRoom(ctx context.Context, id string) (*model.Room, error) {
	return s.store.GetRoom(ctx, id)
}

// CreateRoom registers a vacant room.
func (s *Service) CreateRoom(ctx context.Context, actor session.Actor, in NewRoom) (*model.Room, error) {
	if err := requireRole(actor, model.RoleAdmin); err != nil {
		return nil, err
	}
	parsed, err := parse.ParseRoomNumber(in.Number)
	if err != nil {
		return nil, invalid("%v", err)
	}
	floor := parsed.Floor
	if in.Floor != nil {
		if *in.Floor <= 0 {
			return nil, invalid("floor must be positive")
		}
		floor = *in.Floor
	}
	if in.Type == "" {
		in.Type = model.RoomStandard
	}
	if !in.Type.Valid() {
		return nil, invalid("unknown room type %q", in.Type)
	}
	if in.Capacity < 0 || in.Price < 0 {
		return nil, invalid("capacity and price must not be negative")
	}
	if in.Capacity == 0 {
		in.Capacity = 2
	}

	var room *model.Room
	err = s.mutate(func() ([]notification.Notice, error) {
		existing, err := s.store.ListRooms(ctx, store.RoomFilter{Query: parsed.Number})
		if err != nil {
			return nil, err
		}
		for _, r := range existing {
			if r.Number == parsed.Number {
				return nil, fmt.Errorf("%w: room %s", ErrConflict, parsed.Number)
			}
		}
		now := s.now()
		room = &model.Room{
			ID:        s.newID(),
			Number:    parsed.Number,
			Floor:     floor,
			Type:      in.Type,
			Capacity:  in.Capacity,
			Price:     in.Price,
			Status:    model.RoomVacant,
			Notes:     strings.TrimSpace(in.Notes),
			CreatedAt: now,
			UpdatedAt: now,
		}
		return nil, s.store.CreateRoom(ctx, room)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("room", room.Number).Int("floor", room.Floor).Str("actor", actor.UserID).Msg("room created")
	return room, nil
}

// ChangeRoomStatus moves a room to any status. Entering or leaving cleaning
// opens or completes a session through the tracker.
func (s *Service) ChangeRoomStatus(ctx context.Context, actor session.Actor, id string, to model.RoomStatus, change StatusChange) (*model.Room, error) {
	if err := requireRole(actor, model.RoleHousekeeper, model.RoleAdmin); err != nil {
		return nil, err
	}
	if !model.RoomLifecycle.Valid(to) {
		return nil, fmt.Errorf("%w: room status %q", lifecycle.ErrUnknownState, to)
	}

	var room *model.Room
	err := s.mutate(func() ([]notification.Notice, error) {
		var err error
		room, err = s.store.GetRoom(ctx, id)
		if err != nil {
			return nil, err
		}
		switch {
		case to == model.RoomCleaning && room.Status != model.RoomCleaning:
			return s.startLocked(ctx, actor, room, change.HousekeeperID)
		case room.Status == model.RoomCleaning && to != model.RoomCleaning:
			return s.closeLocked(ctx, room, to, tracker.Outcome{Rating: change.Rating, Notes: change.Notes}, false)
		}

		changed, err := lifecycle.Advance(model.RoomLifecycle, room, to, s.now())
		if err != nil || !changed {
			return nil, err
		}
		if err := s.store.SaveRoom(ctx, room, nil); err != nil {
			return nil, err
		}
		metrics.Transition("room", string(to))
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	return room, nil
}

// StartCleaning opens a cleaning session. Unlike ChangeRoomStatus it refuses
// a room that is already being cleaned.
func (s *Service) StartCleaning(ctx context.Context, actor session.Actor, id, housekeeperID string) (*model.Room, error) {
	return s.withRoom(ctx, actor, id, func(room *model.Room) ([]notification.Notice, error) {
		return s.startLocked(ctx, actor, room, housekeeperID)
	})
}

// FinishCleaning completes the open session and moves the room to target.
func (s *Service) FinishCleaning(ctx context.Context, actor session.Actor, id string, target model.RoomStatus, out tracker.Outcome) (*model.Room, error) {
	return s.withRoom(ctx, actor, id, func(room *model.Room) ([]notification.Notice, error) {
		return s.closeLocked(ctx, room, target, out, false)
	})
}

// CancelCleaning abandons the open session. The record is kept but never
// counted in statistics.
func (s *Service) CancelCleaning(ctx context.Context, actor session.Actor, id string, target model.RoomStatus, notes string) (*model.Room, error) {
	return s.withRoom(ctx, actor, id, func(room *model.Room) ([]notification.Notice, error) {
		return s.closeLocked(ctx, room, target, tracker.Outcome{Notes: notes}, true)
	})
}

// ElapsedMinutes reports how long the open session of a room has run.
func (s *Service) ElapsedMinutes(ctx context.Context, id string) (Elapsed, error) {
	room, err := s.store.GetRoom(ctx, id)
	if err != nil {
		return Elapsed{}, err
	}
	mins, err := tracker.ElapsedMinutes(room, s.now())
	if err != nil {
		return Elapsed{}, err
	}
	return Elapsed{
		RoomID:    room.ID,
		StartedAt: *room.CleaningStartTime,
		Minutes:   mins,
		OnTime:    tracker.IsOnTime(mins),
	}, nil
}

// AssignHousekeeper sets or, with an empty id, clears a room's housekeeper.
func (s *Service) AssignHousekeeper(ctx context.Context, actor session.Actor, id, housekeeperID string) (*model.Room, error) {
	if err := requireRole(actor, model.RoleAdmin); err != nil {
		return nil, err
	}
	var hk *model.User
	if housekeeperID != "" {
		u, err := s.lookupHousekeeper(ctx, housekeeperID)
		if err != nil {
			return nil, err
		}
		hk = u
	}

	var room *model.Room
	err := s.mutate(func() ([]notification.Notice, error) {
		var err error
		room, err = s.store.GetRoom(ctx, id)
		if err != nil {
			return nil, err
		}
		room.UpdatedAt = s.now()
		if hk == nil {
			room.AssignedHousekeeper = nil
			return nil, s.store.SaveRoom(ctx, room, nil)
		}
		room.AssignedHousekeeper = &hk.ID
		if err := s.store.SaveRoom(ctx, room, nil); err != nil {
			return nil, err
		}
		return []notification.Notice{{
			UserIDs: []string{hk.ID},
			Title:   fmt.Sprintf("Room %s assigned", room.Number),
			Body:    fmt.Sprintf("You have been assigned to room %s", room.Number),
			URL:     "/rooms/" + room.ID,
		}}, nil
	})
	if err != nil {
		return nil, err
	}
	return room, nil
}

// withRoom loads a room under the writer lock for a staff actor.
func (s *Service) withRoom(ctx context.Context, actor session.Actor, id string, fn func(*model.Room) ([]notification.Notice, error)) (*model.Room, error) {
	if err := requireRole(actor, model.RoleHousekeeper, model.RoleAdmin); err != nil {
		return nil, err
	}
	var room *model.Room
	err := s.mutate(func() ([]notification.Notice, error) {
		var err error
		room, err = s.store.GetRoom(ctx, id)
		if err != nil {
			return nil, err
		}
		return fn(room)
	})
	if err != nil {
		return nil, err
	}
	return room, nil
}

func (s *Service) startLocked(ctx context.Context, actor session.Actor, room *model.Room, housekeeperID string) ([]notification.Notice, error) {
	hk, err := s.resolveHousekeeper(ctx, actor, room, housekeeperID)
	if err != nil {
		return nil, err
	}
	rec, err := tracker.StartCleaning(room, hk, s.newID(), s.now())
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveRoom(ctx, room, rec); err != nil {
		return nil, err
	}
	metrics.CleaningStarted()
	metrics.Transition("room", string(model.RoomCleaning))
	s.log.Info().
		Str("room", room.Number).
		Str("housekeeper", hk.Name).
		Int("seq", rec.Seq).
		Msg("cleaning started")
	return nil, nil
}

func (s *Service) closeLocked(ctx context.Context, room *model.Room, target model.RoomStatus, out tracker.Outcome, cancel bool) ([]notification.Notice, error) {
	var (
		rec *model.CleaningRecord
		err error
	)
	if cancel {
		rec, err = tracker.CancelCleaning(room, target, out.Notes, s.now())
	} else {
		rec, err = tracker.FinishCleaning(room, target, out, s.now())
	}
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveRoom(ctx, room, rec); err != nil {
		return nil, err
	}

	onTime := tracker.IsOnTime(*rec.Duration)
	metrics.CleaningClosed(string(rec.Status), *rec.Duration, onTime)
	metrics.Transition("room", string(room.Status))
	s.log.Info().
		Str("room", room.Number).
		Str("status", string(rec.Status)).
		Int("minutes", *rec.Duration).
		Bool("on_time", onTime).
		Msg("cleaning closed")

	if cancel {
		return nil, nil
	}
	body := fmt.Sprintf("Cleaned by %s in %d minutes", rec.HousekeeperName, *rec.Duration)
	if !onTime {
		body += " (delayed)"
	}
	return []notification.Notice{{
		UserIDs: s.userIDs(ctx, model.RoleAdmin),
		Title:   fmt.Sprintf("Room %s is %s", room.Number, room.Status),
		Body:    body,
		URL:     "/rooms/" + room.ID,
	}}, nil
}

// resolveHousekeeper picks who a new session is stamped with: the acting
// housekeeper, then an explicit id, then the room's assigned housekeeper.
func (s *Service) resolveHousekeeper(ctx context.Context, actor session.Actor, room *model.Room, explicit string) (tracker.Housekeeper, error) {
	if actor.Is(model.RoleHousekeeper) {
		return tracker.Housekeeper{ID: actor.UserID, Name: actor.Name}, nil
	}
	if explicit != "" {
		u, err := s.lookupHousekeeper(ctx, explicit)
		if err != nil {
			return tracker.Housekeeper{}, err
		}
		return tracker.Housekeeper{ID: u.ID, Name: u.Name}, nil
	}
	if room.AssignedHousekeeper != nil {
		id := *room.AssignedHousekeeper
		u, err := s.store.GetUser(ctx, id)
		switch {
		case err == nil:
			return tracker.Housekeeper{ID: u.ID, Name: u.Name}, nil
		case errors.Is(err, store.ErrNotFound):
			return tracker.Housekeeper{ID: id, Name: "Unknown"}, nil
		default:
			return tracker.Housekeeper{}, err
		}
	}
	return tracker.Housekeeper{Name: "Unknown"}, nil
}

func (s *Service) lookupHousekeeper(ctx context.Context, id string) (*model.User, error) {
	u, err := s.store.GetUser(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, invalid("no housekeeper %q", id)
	}
	if err != nil {
		return nil, err
	}
	if u.Role != model.RoleHousekeeper {
		return nil, invalid("user %q is not a housekeeper", id)
	}
	return u, nil
}
