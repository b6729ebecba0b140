package model

import (
	"time"

	"hotel-ops-backend/internal/lifecycle"
)

// RequestStatus tracks a guest service request.
type RequestStatus string

const (
	RequestNew        RequestStatus = "new"
	RequestInProgress RequestStatus = "in_progress"
	RequestCompleted  RequestStatus = "completed"
)

// RequestPriority is set by the guest when submitting.
type RequestPriority string

const (
	PriorityLow    RequestPriority = "low"
	PriorityMedium RequestPriority = "medium"
	PriorityHigh   RequestPriority = "high"
)

// Valid reports whether p is a known request priority.
func (p RequestPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// RequestLifecycle only moves forward; completed is terminal.
var RequestLifecycle = lifecycle.New("request", map[RequestStatus][]RequestStatus{
	RequestNew:        {RequestInProgress, RequestCompleted},
	RequestInProgress: {RequestCompleted},
})

// ServiceRequest is a guest's request to hotel staff.
type ServiceRequest struct {
	ID          string          `gorm:"primaryKey;size:64" json:"id"`
	GuestID     string          `gorm:"size:64;index;not null" json:"guestId"`
	GuestName   string          `gorm:"size:256" json:"guestName"`
	RoomNumber  string          `gorm:"size:16;index" json:"roomNumber"`
	Phone       string          `gorm:"size:32" json:"phone"`
	Message     string          `gorm:"size:2048;not null" json:"message"`
	Status      RequestStatus   `gorm:"size:32;index;not null" json:"status"`
	Priority    RequestPriority `gorm:"size:16;not null" json:"priority"`
	Category    string          `gorm:"size:64;index" json:"category"`
	AssignedTo  *string         `gorm:"size:64;index" json:"assignedTo,omitempty"`
	CompletedAt *time.Time      `json:"completedAt,omitempty"`
	Rating      *int            `json:"rating,omitempty"`
	Response    string          `gorm:"size:2048" json:"response,omitempty"`
	CreatedAt   time.Time       `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (r *ServiceRequest) CurrentStatus() RequestStatus { return r.Status }

// SetStatus stamps completedAt exactly once, on entry to completed.
func (r *ServiceRequest) SetStatus(to RequestStatus, at time.Time) {
	r.Status = to
	r.UpdatedAt = at
	if to == RequestCompleted && r.CompletedAt == nil {
		r.CompletedAt = &at
	}
}
