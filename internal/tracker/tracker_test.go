package tracker

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-ops-backend/internal/lifecycle"
	"hotel-ops-backend/internal/model"
)

var (
	t0 = time.Date(2025, 1, 26, 9, 0, 0, 0, time.UTC)
	h1 = Housekeeper{ID: "housekeeper-1", Name: "Maria Garcia"}
)

func intPtr(v int) *int { return &v }

func newRoom(status model.RoomStatus) *model.Room {
	return &model.Room{ID: "R1", Number: "305", Status: status}
}

func TestCleaningScenario(t *testing.T) {
	room := newRoom(model.RoomVacant)

	rec, err := StartCleaning(room, h1, "clean-1", t0)
	require.NoError(t, err)
	assert.Equal(t, model.RoomCleaning, room.Status)
	require.Len(t, room.CleaningHistory, 1)
	assert.Equal(t, model.CleaningInProgress, rec.Status)
	assert.Equal(t, t0, rec.StartTime)
	assert.Equal(t, "housekeeper-1", rec.HousekeeperID)
	assert.Equal(t, 1, rec.Seq)
	assert.NoError(t, CheckConsistency(room))

	done, err := FinishCleaning(room, model.RoomVacant, Outcome{}, t0.Add(75*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, model.RoomVacant, room.Status)
	require.NotNil(t, room.CleaningDuration)
	assert.Equal(t, 75, *room.CleaningDuration)
	require.NotNil(t, done.Duration)
	assert.Equal(t, 75, *done.Duration)
	assert.Equal(t, model.CleaningCompleted, done.Status)
	assert.Equal(t, t0.Add(75*time.Minute), *room.LastCleaned)
	assert.Equal(t, t0.Add(75*time.Minute), *done.EndTime)
	assert.NoError(t, CheckConsistency(room))
}

func TestStartThenFinishImmediately(t *testing.T) {
	room := newRoom(model.RoomOccupied)
	_, err := StartCleaning(room, h1, "c", t0)
	require.NoError(t, err)

	rec, err := FinishCleaning(room, "", Outcome{}, t0)
	require.NoError(t, err)
	assert.Equal(t, 0, *rec.Duration)
	assert.Equal(t, 0, *room.CleaningDuration)
	assert.Equal(t, model.RoomVacant, room.Status, "empty target defaults to vacant")
}

func TestStartCleaning_FromAnyNonCleaningStatus(t *testing.T) {
	for _, status := range []model.RoomStatus{model.RoomOccupied, model.RoomVacant, model.RoomMaintenance, model.RoomOutOfOrder} {
		t.Run(string(status), func(t *testing.T) {
			room := newRoom(status)
			_, err := StartCleaning(room, h1, "c", t0)
			assert.NoError(t, err)
			assert.Equal(t, model.RoomCleaning, room.Status)
		})
	}
}

func TestStartCleaning_AlreadyCleaning(t *testing.T) {
	room := newRoom(model.RoomVacant)
	_, err := StartCleaning(room, h1, "c1", t0)
	require.NoError(t, err)

	_, err = StartCleaning(room, h1, "c2", t0.Add(time.Minute))
	assert.ErrorIs(t, err, ErrAlreadyCleaning)
	assert.ErrorIs(t, err, ErrPreconditionFailed)
	assert.Len(t, room.CleaningHistory, 1)
	assert.Equal(t, t0, *room.CleaningStartTime)
}

func TestStartCleaning_ClearsPreviousSessionFields(t *testing.T) {
	room := newRoom(model.RoomVacant)
	_, _ = StartCleaning(room, h1, "c1", t0)
	_, _ = FinishCleaning(room, model.RoomVacant, Outcome{}, t0.Add(30*time.Minute))

	rec, err := StartCleaning(room, h1, "c2", t0.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Nil(t, room.CleaningEndTime)
	assert.Nil(t, room.CleaningDuration)
	assert.Equal(t, 2, rec.Seq)
	assert.NoError(t, CheckConsistency(room))
}

func TestFinishCleaning_Preconditions(t *testing.T) {
	t.Run("not cleaning", func(t *testing.T) {
		room := newRoom(model.RoomVacant)
		_, err := FinishCleaning(room, model.RoomVacant, Outcome{}, t0)
		assert.ErrorIs(t, err, ErrNotCleaning)
		assert.ErrorIs(t, err, ErrPreconditionFailed)
	})

	t.Run("cleaning without open record fails and mutates nothing", func(t *testing.T) {
		start := t0
		room := newRoom(model.RoomCleaning)
		room.CleaningStartTime = &start
		_, err := FinishCleaning(room, model.RoomVacant, Outcome{}, t0.Add(time.Hour))
		assert.ErrorIs(t, err, ErrNoOpenSession)
		assert.Equal(t, model.RoomCleaning, room.Status)
		assert.Nil(t, room.CleaningEndTime)
		assert.Nil(t, room.LastCleaned)
	})

	t.Run("cleaning is not a valid target", func(t *testing.T) {
		room := newRoom(model.RoomVacant)
		_, _ = StartCleaning(room, h1, "c", t0)
		_, err := FinishCleaning(room, model.RoomCleaning, Outcome{}, t0.Add(time.Minute))
		assert.ErrorIs(t, err, ErrInvalidTarget)
		assert.Equal(t, model.RoomCleaning, room.Status)
	})

	t.Run("unknown target", func(t *testing.T) {
		room := newRoom(model.RoomVacant)
		_, _ = StartCleaning(room, h1, "c", t0)
		_, err := FinishCleaning(room, "demolished", Outcome{}, t0.Add(time.Minute))
		assert.ErrorIs(t, err, lifecycle.ErrUnknownState)
	})

	t.Run("rating out of range", func(t *testing.T) {
		room := newRoom(model.RoomVacant)
		_, _ = StartCleaning(room, h1, "c", t0)
		_, err := FinishCleaning(room, model.RoomVacant, Outcome{Rating: intPtr(6)}, t0.Add(time.Minute))
		assert.ErrorIs(t, err, ErrInvalidRating)
		assert.True(t, room.TrailingRecord().Open())
	})
}

func TestFinishCleaning_RecordsOutcome(t *testing.T) {
	room := newRoom(model.RoomVacant)
	_, _ = StartCleaning(room, h1, "c", t0)
	rec, err := FinishCleaning(room, model.RoomOccupied, Outcome{Rating: intPtr(4), Notes: "minibar restocked"}, t0.Add(50*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 4, *rec.QualityRating)
	assert.Equal(t, "minibar restocked", rec.Notes)
	assert.Equal(t, model.RoomOccupied, room.Status)
}

func TestFinishCleaning_DurationNeverNegative(t *testing.T) {
	room := newRoom(model.RoomVacant)
	_, _ = StartCleaning(room, h1, "c", t0)
	rec, err := FinishCleaning(room, model.RoomVacant, Outcome{}, t0.Add(-10*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 0, *rec.Duration)
	assert.Equal(t, *rec.Duration, *room.CleaningDuration)
}

func TestCancelCleaning(t *testing.T) {
	room := newRoom(model.RoomVacant)
	_, _ = StartCleaning(room, h1, "c", t0)
	rec, err := CancelCleaning(room, model.RoomMaintenance, "leak found", t0.Add(20*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, model.CleaningCancelled, rec.Status)
	assert.Equal(t, 20, *rec.Duration)
	assert.Equal(t, model.RoomMaintenance, room.Status)
	assert.Nil(t, room.LastCleaned)
	assert.NoError(t, CheckConsistency(room))
}

func TestElapsedMinutes(t *testing.T) {
	room := newRoom(model.RoomVacant)
	_, err := ElapsedMinutes(room, t0)
	assert.ErrorIs(t, err, ErrNotCleaning)

	_, _ = StartCleaning(room, h1, "c", t0)
	elapsed, err := ElapsedMinutes(room, t0.Add(42*time.Minute+29*time.Second))
	require.NoError(t, err)
	assert.Equal(t, 42, elapsed)
	assert.True(t, room.TrailingRecord().Open(), "elapsed must not close the session")
	assert.Nil(t, room.TrailingRecord().Duration)
}

func TestIsOnTime(t *testing.T) {
	testCases := []struct {
		duration int
		onTime   bool
	}{
		{0, true},
		{90, true},
		{91, true},
		{108, true},
		{109, false},
		{240, false},
	}
	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%d minutes", tc.duration), func(t *testing.T) {
			assert.Equal(t, tc.onTime, IsOnTime(tc.duration))
		})
	}
}

func TestCheckConsistency(t *testing.T) {
	open := model.CleaningRecord{ID: "a", Seq: 1, Status: model.CleaningInProgress}
	closed := model.CleaningRecord{ID: "b", Seq: 2, Status: model.CleaningCompleted}

	testCases := []struct {
		name    string
		room    model.Room
		wantErr bool
	}{
		{name: "empty vacant", room: model.Room{Status: model.RoomVacant}},
		{name: "cleaning without history", room: model.Room{Status: model.RoomCleaning}, wantErr: true},
		{name: "vacant with open trailing", room: model.Room{Status: model.RoomVacant, CleaningHistory: []model.CleaningRecord{open}}, wantErr: true},
		{name: "open record not trailing", room: model.Room{Status: model.RoomVacant, CleaningHistory: []model.CleaningRecord{open, closed}}, wantErr: true},
		{name: "out of order", room: model.Room{Status: model.RoomVacant, CleaningHistory: []model.CleaningRecord{
			{ID: "x", Seq: 3, Status: model.CleaningCompleted}, closed,
		}}, wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckConsistency(&tc.room)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInconsistent)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// Randomised start/finish sequences keep the cleaning invariant.
func TestInvariantHoldsAcrossSessions(t *testing.T) {
	room := newRoom(model.RoomOccupied)
	now := t0
	for i := 0; i < 20; i++ {
		_, err := StartCleaning(room, h1, fmt.Sprintf("c%d", i), now)
		require.NoError(t, err)
		require.NoError(t, CheckConsistency(room))

		now = now.Add(time.Duration(30+i*7) * time.Minute)
		target := model.RoomVacant
		if i%3 == 0 {
			target = model.RoomOccupied
		}
		rec, err := FinishCleaning(room, target, Outcome{}, now)
		require.NoError(t, err)
		require.NoError(t, CheckConsistency(room))
		assert.GreaterOrEqual(t, *room.CleaningDuration, 0)
		assert.Equal(t, *rec.Duration, *room.CleaningDuration)
		now = now.Add(time.Hour)
	}
	assert.Len(t, room.CleaningHistory, 20)
}
