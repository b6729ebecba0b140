// Package tracker opens and closes room cleaning sessions. Every function is
// pure over the room value it is given: the caller supplies the clock and
// persists the result.
package tracker

import (
	"errors"
	"fmt"
	"math"
	"time"

	"hotel-ops-backend/internal/lifecycle"
	"hotel-ops-backend/internal/model"
)

const (
	// ExpectedMinutes is the standard length of one room cleaning.
	ExpectedMinutes = 90
	// OnTimeFactor is the tolerance over ExpectedMinutes still counted as on time.
	OnTimeFactor = 1.2
	// OnTimeLimit is the longest on-time duration in minutes (108).
	OnTimeLimit = ExpectedMinutes * OnTimeFactor
)

var (
	// ErrPreconditionFailed is the parent of every refused transition below.
	ErrPreconditionFailed = errors.New("precondition failed")

	ErrAlreadyCleaning = fmt.Errorf("%w: room is already being cleaned", ErrPreconditionFailed)
	ErrNotCleaning     = fmt.Errorf("%w: room is not being cleaned", ErrPreconditionFailed)
	ErrNoOpenSession   = fmt.Errorf("%w: room has no open cleaning session", ErrPreconditionFailed)
	ErrInvalidTarget   = fmt.Errorf("%w: a cleaning session cannot end in cleaning", ErrPreconditionFailed)
	ErrInconsistent    = fmt.Errorf("%w: cleaning history does not match room status", ErrPreconditionFailed)

	ErrInvalidRating = errors.New("quality rating must be between 1 and 5")
)

// Housekeeper is stamped on a session when it opens.
type Housekeeper struct {
	ID   string
	Name string
}

// Outcome carries the optional inspection result of a finished session.
type Outcome struct {
	Rating *int
	Notes  string
}

// StartCleaning moves the room into cleaning and appends an in-progress
// record. Any status other than cleaning may start a session.
func StartCleaning(room *model.Room, hk Housekeeper, recordID string, now time.Time) (*model.CleaningRecord, error) {
	if room.Status == model.RoomCleaning {
		return nil, ErrAlreadyCleaning
	}
	if tr := room.TrailingRecord(); tr != nil && tr.Open() {
		return nil, ErrInconsistent
	}

	start := now
	room.SetStatus(model.RoomCleaning, now)
	room.CleaningStartTime = &start
	room.CleaningEndTime = nil
	room.CleaningDuration = nil

	room.CleaningHistory = append(room.CleaningHistory, model.CleaningRecord{
		ID:              recordID,
		RoomID:          room.ID,
		Seq:             room.NextSeq(),
		HousekeeperID:   hk.ID,
		HousekeeperName: hk.Name,
		StartTime:       start,
		Status:          model.CleaningInProgress,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	return room.TrailingRecord(), nil
}

// FinishCleaning closes the trailing open record as completed and moves the
// room to target (vacant when empty). Nothing is mutated on error.
func FinishCleaning(room *model.Room, target model.RoomStatus, out Outcome, now time.Time) (*model.CleaningRecord, error) {
	return closeSession(room, target, out, model.CleaningCompleted, now)
}

// CancelCleaning closes the trailing open record as cancelled. The room's
// lastCleaned stamp is left untouched.
func CancelCleaning(room *model.Room, target model.RoomStatus, notes string, now time.Time) (*model.CleaningRecord, error) {
	return closeSession(room, target, Outcome{Notes: notes}, model.CleaningCancelled, now)
}

func closeSession(room *model.Room, target model.RoomStatus, out Outcome, closed model.CleaningStatus, now time.Time) (*model.CleaningRecord, error) {
	if target == "" {
		target = model.RoomVacant
	}
	if !model.RoomLifecycle.Valid(target) {
		return nil, fmt.Errorf("room status %q: %w", target, lifecycle.ErrUnknownState)
	}
	if target == model.RoomCleaning {
		return nil, ErrInvalidTarget
	}
	if out.Rating != nil && (*out.Rating < 1 || *out.Rating > 5) {
		return nil, ErrInvalidRating
	}
	if room.Status != model.RoomCleaning {
		return nil, ErrNotCleaning
	}
	tr := room.TrailingRecord()
	if tr == nil || !tr.Open() {
		return nil, ErrNoOpenSession
	}

	start := tr.StartTime
	if room.CleaningStartTime != nil {
		start = *room.CleaningStartTime
	}
	end := now
	roomDuration := Minutes(start, end)
	recordDuration := roomDuration

	room.SetStatus(target, now)
	room.CleaningEndTime = &end
	room.CleaningDuration = &roomDuration
	if closed == model.CleaningCompleted {
		room.LastCleaned = &end
	}

	tr.EndTime = &end
	tr.Duration = &recordDuration
	tr.Status = closed
	tr.UpdatedAt = now
	if out.Rating != nil {
		rating := *out.Rating
		tr.QualityRating = &rating
	}
	if out.Notes != "" {
		tr.Notes = out.Notes
	}
	return tr, nil
}

// ElapsedMinutes is the live length of the open session. It never writes.
func ElapsedMinutes(room *model.Room, now time.Time) (int, error) {
	if room.Status != model.RoomCleaning {
		return 0, ErrNotCleaning
	}
	if room.CleaningStartTime == nil {
		return 0, ErrNoOpenSession
	}
	return Minutes(*room.CleaningStartTime, now), nil
}

// Minutes rounds end-start to whole minutes, never below zero.
func Minutes(start, end time.Time) int {
	m := int(math.Round(end.Sub(start).Minutes()))
	if m < 0 {
		return 0
	}
	return m
}

// IsOnTime reports whether a session of d minutes met the standard.
func IsOnTime(d int) bool {
	return float64(d) <= OnTimeLimit
}

// CheckConsistency verifies that the room is cleaning exactly when its
// trailing record is open, that no earlier record is open, and that the
// history is strictly ordered.
func CheckConsistency(room *model.Room) error {
	tr := room.TrailingRecord()
	open := tr != nil && tr.Open()
	if (room.Status == model.RoomCleaning) != open {
		return ErrInconsistent
	}
	for i, rec := range room.CleaningHistory {
		if i == len(room.CleaningHistory)-1 {
			break
		}
		if rec.Open() {
			return fmt.Errorf("record %s: %w", rec.ID, ErrInconsistent)
		}
		if room.CleaningHistory[i+1].Seq <= rec.Seq {
			return fmt.Errorf("record %s out of order: %w", room.CleaningHistory[i+1].ID, ErrInconsistent)
		}
	}
	return nil
}
