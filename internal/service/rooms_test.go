package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-ops-backend/internal/lifecycle"
	"hotel-ops-backend/internal/model"
	"hotel-ops-backend/internal/store"
	"hotel-ops-backend/internal/tracker"
)

func TestService_CleaningScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	start := f.clock.Now()

	room, err := f.svc.StartCleaning(ctx, housekeeper, "room-305", "")
	require.NoError(t, err)
	assert.Equal(t, model.RoomCleaning, room.Status)
	require.NotNil(t, room.CleaningStartTime)
	assert.Equal(t, start, *room.CleaningStartTime)

	f.clock.Advance(40 * time.Minute)
	el, err := f.svc.ElapsedMinutes(ctx, "room-305")
	require.NoError(t, err)
	assert.Equal(t, 40, el.Minutes)
	assert.True(t, el.OnTime)

	f.clock.Advance(35 * time.Minute)
	rating := 5
	room, err = f.svc.FinishCleaning(ctx, housekeeper, "room-305", "", tracker.Outcome{Rating: &rating, Notes: "spotless"})
	require.NoError(t, err)
	assert.Equal(t, model.RoomVacant, room.Status)
	require.NotNil(t, room.CleaningDuration)
	assert.Equal(t, 75, *room.CleaningDuration)

	loaded, err := f.store.GetRoom(ctx, "room-305")
	require.NoError(t, err)
	require.Len(t, loaded.CleaningHistory, 1)
	rec := loaded.CleaningHistory[0]
	assert.Equal(t, model.CleaningCompleted, rec.Status)
	assert.Equal(t, "housekeeper-1", rec.HousekeeperID)
	assert.Equal(t, "Maria Garcia", rec.HousekeeperName)
	assert.Equal(t, 75, *rec.Duration)
	assert.Equal(t, 5, *rec.QualityRating)
	assert.NoError(t, tracker.CheckConsistency(loaded))

	notices := f.sent.all()
	require.Len(t, notices, 1)
	assert.Equal(t, []string{"admin-1"}, notices[0].UserIDs)
	assert.Equal(t, "Room 305 is vacant", notices[0].Title)
}

func TestService_StartCleaningPreconditions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.StartCleaning(ctx, housekeeper, "room-305", "")
	require.NoError(t, err)

	_, err = f.svc.StartCleaning(ctx, housekeeper, "room-305", "")
	assert.ErrorIs(t, err, tracker.ErrAlreadyCleaning)
	assert.ErrorIs(t, err, tracker.ErrPreconditionFailed)

	_, err = f.svc.FinishCleaning(ctx, housekeeper, "room-503", "", tracker.Outcome{})
	assert.ErrorIs(t, err, tracker.ErrNotCleaning)

	_, err = f.svc.StartCleaning(ctx, guest, "room-503", "")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.StartCleaning(ctx, housekeeper, "room-999", "")
	assert.ErrorIs(t, err, store.ErrNotFound)

	room, err := f.store.GetRoom(ctx, "room-305")
	require.NoError(t, err)
	assert.Len(t, room.CleaningHistory, 1, "refused calls append nothing")
}

func TestService_StartCleaningHousekeeperResolution(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name     string
		room     string
		explicit string
		wantID   string
		wantName string
		wantErr  error
	}{
		{name: "assigned housekeeper", room: "room-217", wantID: "housekeeper-2", wantName: "Li Wei"},
		{name: "explicit overrides assigned", room: "room-217", explicit: "housekeeper-1", wantID: "housekeeper-1", wantName: "Maria Garcia"},
		{name: "nobody assigned", room: "room-104", wantName: "Unknown"},
		{name: "explicit must be housekeeper", room: "room-104", explicit: "guest-1", wantErr: ErrInvalidInput},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.svc.StartCleaning(ctx, admin, tc.room, tc.explicit)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			room, err := f.store.GetRoom(ctx, tc.room)
			require.NoError(t, err)
			rec := room.TrailingRecord()
			require.NotNil(t, rec)
			assert.Equal(t, tc.wantID, rec.HousekeeperID)
			assert.Equal(t, tc.wantName, rec.HousekeeperName)
		})
	}
}

func TestService_ChangeRoomStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	room, err := f.svc.ChangeRoomStatus(ctx, admin, "room-503", model.RoomMaintenance, StatusChange{})
	require.NoError(t, err)
	assert.Equal(t, model.RoomMaintenance, room.Status)

	// Same status is a no-op.
	_, err = f.svc.ChangeRoomStatus(ctx, admin, "room-503", model.RoomMaintenance, StatusChange{})
	require.NoError(t, err)

	room, err = f.svc.ChangeRoomStatus(ctx, housekeeper, "room-503", model.RoomCleaning, StatusChange{})
	require.NoError(t, err)
	assert.Equal(t, model.RoomCleaning, room.Status)
	require.Len(t, room.CleaningHistory, 1)
	assert.True(t, room.CleaningHistory[0].Open())

	f.clock.Advance(120 * time.Minute)
	room, err = f.svc.ChangeRoomStatus(ctx, housekeeper, "room-503", model.RoomOccupied, StatusChange{})
	require.NoError(t, err)
	assert.Equal(t, model.RoomOccupied, room.Status)
	assert.Equal(t, 120, *room.CleaningDuration)
	assert.Equal(t, model.CleaningCompleted, room.CleaningHistory[0].Status)

	_, err = f.svc.ChangeRoomStatus(ctx, admin, "room-503", "flooded", StatusChange{})
	assert.ErrorIs(t, err, lifecycle.ErrUnknownState)
}

func TestService_CancelCleaning(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.StartCleaning(ctx, housekeeper, "room-414", "")
	require.NoError(t, err)
	f.clock.Advance(10 * time.Minute)

	room, err := f.svc.CancelCleaning(ctx, housekeeper, "room-414", model.RoomOccupied, "guest returned")
	require.NoError(t, err)
	assert.Equal(t, model.RoomOccupied, room.Status)
	assert.Nil(t, room.LastCleaned)
	assert.Equal(t, model.CleaningCancelled, room.CleaningHistory[0].Status)
	assert.Empty(t, f.sent.all(), "cancelling notifies nobody")

	report, err := f.svc.CleaningReport(ctx, admin, tracker.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 0, report.Stats.TotalCleanings)
}

func TestService_CreateRoom(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	room, err := f.svc.CreateRoom(ctx, admin, NewRoom{Number: "1204", Type: model.RoomSuite})
	require.NoError(t, err)
	assert.Equal(t, "id-1", room.ID)
	assert.Equal(t, 12, room.Floor)
	assert.Equal(t, model.RoomVacant, room.Status)
	assert.Equal(t, 2, room.Capacity)

	_, err = f.svc.CreateRoom(ctx, admin, NewRoom{Number: "1204"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = f.svc.CreateRoom(ctx, admin, NewRoom{Number: "lobby"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.CreateRoom(ctx, admin, NewRoom{Number: "601", Type: "penthouse"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.CreateRoom(ctx, housekeeper, NewRoom{Number: "602"})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestService_AssignHousekeeper(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	room, err := f.svc.AssignHousekeeper(ctx, admin, "room-104", "housekeeper-2")
	require.NoError(t, err)
	require.NotNil(t, room.AssignedHousekeeper)
	assert.Equal(t, "housekeeper-2", *room.AssignedHousekeeper)

	notices := f.sent.all()
	require.Len(t, notices, 1)
	assert.Equal(t, []string{"housekeeper-2"}, notices[0].UserIDs)

	room, err = f.svc.AssignHousekeeper(ctx, admin, "room-104", "")
	require.NoError(t, err)
	assert.Nil(t, room.AssignedHousekeeper)

	_, err = f.svc.AssignHousekeeper(ctx, admin, "room-104", "admin-1")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = f.svc.AssignHousekeeper(ctx, housekeeper, "room-104", "housekeeper-1")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestService_AssignKeepsClosedRecords(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.StartCleaning(ctx, housekeeper, "room-305", "")
	require.NoError(t, err)
	f.clock.Advance(60 * time.Minute)
	_, err = f.svc.FinishCleaning(ctx, housekeeper, "room-305", "", tracker.Outcome{})
	require.NoError(t, err)
	before, err := f.store.GetRoom(ctx, "room-305")
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	_, err = f.svc.AssignHousekeeper(ctx, admin, "room-305", "housekeeper-2")
	require.NoError(t, err)

	after, err := f.store.GetRoom(ctx, "room-305")
	require.NoError(t, err)
	assert.Equal(t, before.CleaningHistory[0].UpdatedAt, after.CleaningHistory[0].UpdatedAt)
}

func TestService_ConcurrentStartsOpenOneSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	const n = 8
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		oks int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.svc.StartCleaning(ctx, housekeeper, "room-503", ""); err == nil {
				mu.Lock()
				oks++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, oks)
	room, err := f.store.GetRoom(ctx, "room-503")
	require.NoError(t, err)
	assert.Len(t, room.CleaningHistory, 1)
	assert.NoError(t, tracker.CheckConsistency(room))
}
