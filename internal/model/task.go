package model

import (
	"math"
	"time"

	"hotel-ops-backend/internal/lifecycle"
)

// TaskStatus tracks a maintenance task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskCancelled  TaskStatus = "cancelled"
)

// TaskPriority adds urgent on top of the request priorities.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

// Valid reports whether p is a known task priority.
func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	}
	return false
}

// DefaultEstimatedHours applies when a task is created without an estimate.
const DefaultEstimatedHours = 2.0

var TaskLifecycle = lifecycle.New("task", map[TaskStatus][]TaskStatus{
	TaskPending:    {TaskInProgress, TaskCancelled},
	TaskInProgress: {TaskCompleted, TaskCancelled},
})

// MaintenanceTask is work scheduled by administrators.
type MaintenanceTask struct {
	ID                string       `gorm:"primaryKey;size:64" json:"id"`
	Title             string       `gorm:"size:256;not null" json:"title"`
	Description       string       `gorm:"size:2048;not null" json:"description"`
	RoomNumber        string       `gorm:"size:16;index" json:"roomNumber,omitempty"`
	Priority          TaskPriority `gorm:"size:16;not null" json:"priority"`
	Status            TaskStatus   `gorm:"size:32;index;not null" json:"status"`
	Category          string       `gorm:"size:64;index;not null" json:"category"`
	AssignedTo        *string      `gorm:"size:64;index" json:"assignedTo,omitempty"`
	ScheduledFor      *time.Time   `json:"scheduledFor,omitempty"`
	CompletedAt       *time.Time   `json:"completedAt,omitempty"`
	EstimatedDuration float64      `json:"estimatedDuration"` // hours
	ActualDuration    *float64     `json:"actualDuration,omitempty"`
	Cost              *float64     `json:"cost,omitempty"`
	CreatedAt         time.Time    `gorm:"index" json:"createdAt"`
	UpdatedAt         time.Time    `json:"updatedAt"`
}

func (t *MaintenanceTask) CurrentStatus() TaskStatus { return t.Status }

// SetStatus stamps completedAt once and derives the actual duration in hours.
func (t *MaintenanceTask) SetStatus(to TaskStatus, at time.Time) {
	t.Status = to
	t.UpdatedAt = at
	if to != TaskCompleted || t.CompletedAt != nil {
		return
	}
	t.CompletedAt = &at
	if t.ActualDuration == nil && !t.CreatedAt.IsZero() {
		hours := math.Round(at.Sub(t.CreatedAt).Hours()*10) / 10
		if hours < 0 {
			hours = 0
		}
		t.ActualDuration = &hours
	}
}
