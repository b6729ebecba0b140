package model

import "time"

// Role selects what an actor may do.
type Role string

const (
	RoleGuest       Role = "guest"
	RoleHousekeeper Role = "housekeeper"
	RoleAdmin       Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleGuest, RoleHousekeeper, RoleAdmin:
		return true
	}
	return false
}

// Staff reports whether r belongs to hotel staff.
func (r Role) Staff() bool {
	return r == RoleHousekeeper || r == RoleAdmin
}

type User struct {
	ID         string    `gorm:"primaryKey;size:64" json:"id"`
	Email      string    `gorm:"uniqueIndex;size:256;not null" json:"email"`
	Name       string    `gorm:"size:256;not null" json:"name"`
	Role       Role      `gorm:"size:32;index;not null" json:"role"`
	Phone      string    `gorm:"size:32" json:"phone,omitempty"`
	RoomNumber string    `gorm:"size:16" json:"roomNumber,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
