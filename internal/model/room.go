package model

import (
	"time"

	"hotel-ops-backend/internal/lifecycle"
)

// RoomStatus is the single source of truth for a room's state.
type RoomStatus string

const (
	RoomOccupied    RoomStatus = "occupied"
	RoomVacant      RoomStatus = "vacant"
	RoomCleaning    RoomStatus = "cleaning"
	RoomMaintenance RoomStatus = "maintenance"
	RoomOutOfOrder  RoomStatus = "out_of_order"
)

// RoomType classifies a room's category.
type RoomType string

const (
	RoomStandard   RoomType = "standard"
	RoomDeluxe     RoomType = "deluxe"
	RoomSuite      RoomType = "suite"
	RoomAccessible RoomType = "accessible"
)

// Valid reports whether t is a known room type.
func (t RoomType) Valid() bool {
	switch t {
	case RoomStandard, RoomDeluxe, RoomSuite, RoomAccessible:
		return true
	}
	return false
}

var roomStatuses = []RoomStatus{RoomOccupied, RoomVacant, RoomCleaning, RoomMaintenance, RoomOutOfOrder}

// RoomLifecycle lets any room status move to any other. Entering and leaving
// cleaning goes through the cleaning tracker, not through this table alone.
var RoomLifecycle = lifecycle.New("room", func() map[RoomStatus][]RoomStatus {
	table := make(map[RoomStatus][]RoomStatus, len(roomStatuses))
	for _, from := range roomStatuses {
		for _, to := range roomStatuses {
			if from != to {
				table[from] = append(table[from], to)
			}
		}
	}
	return table
}())

// Room is a hotel room and its cleaning state.
type Room struct {
	ID       string     `gorm:"primaryKey;size:64" json:"id"`
	Number   string     `gorm:"uniqueIndex;size:16;not null" json:"number"`
	Floor    int        `gorm:"index" json:"floor"`
	Type     RoomType   `gorm:"size:32;not null;default:standard" json:"type"`
	Capacity int        `json:"capacity"`
	Price    float64    `json:"price"`
	Status   RoomStatus `gorm:"size:32;index;not null" json:"status"`

	GuestName           string     `gorm:"size:256" json:"guestName,omitempty"`
	CheckIn             *time.Time `json:"checkIn,omitempty"`
	CheckOut            *time.Time `json:"checkOut,omitempty"`
	AssignedHousekeeper *string    `gorm:"size:64;index" json:"assignedHousekeeper,omitempty"`

	LastCleaned       *time.Time `json:"lastCleaned,omitempty"`
	CleaningStartTime *time.Time `json:"cleaningStartTime,omitempty"`
	CleaningEndTime   *time.Time `json:"cleaningEndTime,omitempty"`
	CleaningDuration  *int       `json:"cleaningDuration,omitempty"` // minutes

	Notes     string    `gorm:"size:1024" json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Associations
	CleaningHistory []CleaningRecord `gorm:"foreignKey:RoomID" json:"cleaningHistory"`
}

func (r *Room) CurrentStatus() RoomStatus { return r.Status }

func (r *Room) SetStatus(to RoomStatus, at time.Time) {
	r.Status = to
	r.UpdatedAt = at
}

// TrailingRecord returns the most recently appended cleaning record, or nil.
func (r *Room) TrailingRecord() *CleaningRecord {
	if len(r.CleaningHistory) == 0 {
		return nil
	}
	return &r.CleaningHistory[len(r.CleaningHistory)-1]
}

// NextSeq is the sequence number the next appended record takes.
func (r *Room) NextSeq() int {
	if tr := r.TrailingRecord(); tr != nil {
		return tr.Seq + 1
	}
	return 1
}
