package service

import (
	"context"
	"math"
	"strings"
	"time"

	"hotel-ops-backend/internal/model"
	"hotel-ops-backend/internal/session"
	"hotel-ops-backend/internal/store"
	"hotel-ops-backend/internal/tracker"
)

// LiveCleaning is a room currently being cleaned.
type LiveCleaning struct {
	RoomID          string `json:"roomId"`
	RoomNumber      string `json:"roomNumber"`
	HousekeeperID   string `json:"housekeeperId"`
	HousekeeperName string `json:"housekeeperName"`
	ElapsedMinutes  int    `json:"elapsedMinutes"`
	OnTime          bool   `json:"onTime"`
}

// AdminDashboard is the hotel-wide overview.
type AdminDashboard struct {
	NewRequests        int                  `json:"newRequests"`
	InProgressRequests int                  `json:"inProgressRequests"`
	PendingTasks       int                  `json:"pendingTasks"`
	OccupiedRooms      int                  `json:"occupiedRooms"`
	TotalRooms         int                  `json:"totalRooms"`
	OccupancyRate      int                  `json:"occupancyRate"`
	UnassignedRooms    int                  `json:"unassignedRooms"`
	Housekeepers       int                  `json:"housekeepers"`
	Cleaning           tracker.RoomSnapshot `json:"cleaning"`
	CleaningNow        []LiveCleaning       `json:"cleaningNow"`
}

// HousekeeperDashboard is one housekeeper's work queue.
type HousekeeperDashboard struct {
	AssignedRooms   []model.Room           `json:"assignedRooms"`
	PendingRequests []model.ServiceRequest `json:"pendingRequests"`
	CompletedToday  int                    `json:"completedToday"`
	AverageTime     int                    `json:"averageTime"`
	QualityScore    float64                `json:"qualityScore"`
}

func (s *Service) AdminDashboard(ctx context.Context, actor session.Actor) (*AdminDashboard, error) {
	if err := requireRole(actor, model.RoleAdmin); err != nil {
		return nil, err
	}
	now := s.now()

	requests, err := s.store.ListRequests(ctx, store.RequestFilter{})
	if err != nil {
		return nil, err
	}
	tasks, err := s.store.ListTasks(ctx, store.TaskFilter{})
	if err != nil {
		return nil, err
	}
	rooms, err := s.store.ListRooms(ctx, store.RoomFilter{})
	if err != nil {
		return nil, err
	}
	housekeepers, err := s.store.ListUsers(ctx, model.RoleHousekeeper)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(housekeepers))
	for _, hk := range housekeepers {
		names[hk.ID] = hk.Name
	}

	d := &AdminDashboard{
		TotalRooms:   len(rooms),
		Housekeepers: len(housekeepers),
		Cleaning:     tracker.RoomStats(rooms),
		CleaningNow:  []LiveCleaning{},
	}
	for _, r := range requests {
		switch r.Status {
		case model.RequestNew:
			d.NewRequests++
		case model.RequestInProgress:
			d.InProgressRequests++
		}
	}
	for _, t := range tasks {
		if t.Status == model.TaskPending || t.Status == model.TaskInProgress {
			d.PendingTasks++
		}
	}
	for i := range rooms {
		r := &rooms[i]
		if r.Status == model.RoomOccupied {
			d.OccupiedRooms++
		}
		if r.AssignedHousekeeper == nil {
			d.UnassignedRooms++
		}
		mins, err := tracker.ElapsedMinutes(r, now)
		if err != nil {
			continue
		}
		live := LiveCleaning{
			RoomID:         r.ID,
			RoomNumber:     r.Number,
			ElapsedMinutes: mins,
			OnTime:         tracker.IsOnTime(mins),
		}
		if tr := r.TrailingRecord(); tr != nil {
			live.HousekeeperID = tr.HousekeeperID
			live.HousekeeperName = tr.HousekeeperName
		}
		if name, ok := names[live.HousekeeperID]; ok && live.HousekeeperName == "" {
			live.HousekeeperName = name
		}
		d.CleaningNow = append(d.CleaningNow, live)
	}
	if d.TotalRooms > 0 {
		d.OccupancyRate = int(math.Round(float64(d.OccupiedRooms) / float64(d.TotalRooms) * 100))
	}
	return d, nil
}

// HousekeeperDashboard lists the actor's rooms, the open requests in their
// scope and their cleanings completed since midnight.
func (s *Service) HousekeeperDashboard(ctx context.Context, actor session.Actor) (*HousekeeperDashboard, error) {
	if err := requireRole(actor, model.RoleHousekeeper); err != nil {
		return nil, err
	}
	now := s.now()

	rooms, err := s.store.ListRooms(ctx, store.RoomFilter{HousekeeperID: actor.UserID})
	if err != nil {
		return nil, err
	}
	mine := make(map[string]bool, len(rooms))
	for _, r := range rooms {
		mine[r.Number] = true
	}

	requests, err := s.store.ListRequests(ctx, store.RequestFilter{})
	if err != nil {
		return nil, err
	}
	pending := []model.ServiceRequest{}
	for _, r := range requests {
		if r.Status == model.RequestCompleted {
			continue
		}
		assigned := r.AssignedTo != nil && *r.AssignedTo == actor.UserID
		if assigned || mine[r.RoomNumber] || strings.EqualFold(r.Category, "Housekeeping") {
			pending = append(pending, r)
		}
	}

	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	records, err := s.store.ListCleaningRecords(ctx, store.RecordFilter{
		HousekeeperID: actor.UserID,
		Status:        model.CleaningCompleted,
		StartedAfter:  &midnight,
	})
	if err != nil {
		return nil, err
	}
	stats := tracker.Summarize(records)

	if rooms == nil {
		rooms = []model.Room{}
	}
	return &HousekeeperDashboard{
		AssignedRooms:   rooms,
		PendingRequests: pending,
		CompletedToday:  stats.TotalCleanings,
		AverageTime:     stats.AverageTime,
		QualityScore:    stats.QualityScore,
	}, nil
}
