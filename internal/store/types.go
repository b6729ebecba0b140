package store

import (
	"time"

	"hotel-ops-backend/internal/model"
)

// RoomFilter narrows ListRooms. Zero values match everything.
type RoomFilter struct {
	Status        model.RoomStatus
	Type          model.RoomType
	Floor         *int
	Query         string // number, guest name or notes
	HousekeeperID string
}

// RecordFilter narrows ListCleaningRecords.
type RecordFilter struct {
	RoomID        string
	HousekeeperID string
	Status        model.CleaningStatus
	StartedAfter  *time.Time
}

// RequestFilter narrows ListRequests.
type RequestFilter struct {
	Status     model.RequestStatus
	Priority   model.RequestPriority
	Category   string
	Query      string // message, guest name or room number
	GuestID    string
	AssignedTo string
}

// TaskFilter narrows ListTasks.
type TaskFilter struct {
	Status     model.TaskStatus
	Priority   model.TaskPriority
	Category   string
	Query      string // title, description or room number
	AssignedTo string
}
