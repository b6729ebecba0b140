package model

import "time"

// CleaningStatus is the state of a single cleaning session.
type CleaningStatus string

const (
	CleaningInProgress CleaningStatus = "in_progress"
	CleaningCompleted  CleaningStatus = "completed"
	CleaningCancelled  CleaningStatus = "cancelled"
)

// CleaningRecord is one cleaning session of a room. Records are append-only;
// Seq orders them within a room and only the trailing open record is mutated.
type CleaningRecord struct {
	ID              string         `gorm:"primaryKey;size:64" json:"id"`
	RoomID          string         `gorm:"size:64;not null;uniqueIndex:idx_cleaning_room_seq" json:"roomId"`
	Seq             int            `gorm:"not null;uniqueIndex:idx_cleaning_room_seq" json:"seq"`
	HousekeeperID   string         `gorm:"size:64;index" json:"housekeeperId"`
	HousekeeperName string         `gorm:"size:256" json:"housekeeperName"`
	StartTime       time.Time      `gorm:"not null;index" json:"startTime"`
	EndTime         *time.Time     `json:"endTime,omitempty"`
	Duration        *int           `json:"duration,omitempty"` // minutes
	Status          CleaningStatus `gorm:"size:32;not null" json:"status"`
	QualityRating   *int           `json:"qualityRating,omitempty"`
	Notes           string         `gorm:"size:1024" json:"notes,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

// Open reports whether the session has not been closed yet.
func (c CleaningRecord) Open() bool {
	return c.Status == CleaningInProgress
}
