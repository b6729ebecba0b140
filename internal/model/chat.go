package model

import "time"

// ChatKind separates guest conversations from staff-only channels.
type ChatKind string

const (
	ChatGuestSupport ChatKind = "guest_support"
	ChatStaff        ChatKind = "staff"
)

// ChatRoom is a conversation. Guest support rooms belong to one guest.
type ChatRoom struct {
	ID            string     `gorm:"primaryKey;size:64" json:"id"`
	Name          string     `gorm:"size:256;not null" json:"name"`
	Kind          ChatKind   `gorm:"size:32;not null" json:"kind"`
	GuestID       *string    `gorm:"size:64;index" json:"guestId,omitempty"`
	LastMessageAt *time.Time `json:"lastMessageAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// VisibleTo reports whether a user with the given id and role may read the room.
func (c ChatRoom) VisibleTo(userID string, role Role) bool {
	if c.Kind == ChatStaff {
		return role.Staff()
	}
	if role.Staff() {
		return true
	}
	return c.GuestID != nil && *c.GuestID == userID
}

type ChatMessage struct {
	ID         string    `gorm:"primaryKey;size:64" json:"id"`
	ChatRoomID string    `gorm:"size:64;index;not null" json:"chatRoomId"`
	SenderID   string    `gorm:"size:64;not null" json:"senderId"`
	SenderName string    `gorm:"size:256" json:"senderName"`
	SenderRole Role      `gorm:"size:32" json:"senderRole"`
	Content    string    `gorm:"size:4096;not null" json:"content"`
	IsRead     bool      `gorm:"not null;default:false" json:"isRead"`
	CreatedAt  time.Time `gorm:"index" json:"timestamp"`
}
