package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"hotel-ops-backend/internal/model"
)

func (s *gormStore) CreateChatRoom(ctx context.Context, c *model.ChatRoom) error {
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("failed to create chat room: %w", err)
	}
	return nil
}

func (s *gormStore) GetChatRoom(ctx context.Context, id string) (*model.ChatRoom, error) {
	var c model.ChatRoom
	if err := s.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "chat room", id)
	}
	return &c, nil
}

// ListChatRooms returns rooms with the most recent activity first.
func (s *gormStore) ListChatRooms(ctx context.Context) ([]model.ChatRoom, error) {
	var rooms []model.ChatRoom
	err := s.db.WithContext(ctx).
		Order("last_message_at IS NULL, last_message_at DESC, name ASC").
		Find(&rooms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list chat rooms: %w", err)
	}
	return rooms, nil
}

// AppendMessage stores the message and bumps the room's activity stamp.
func (s *gormStore) AppendMessage(ctx context.Context, m *model.ChatMessage) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(m).Error; err != nil {
			return fmt.Errorf("failed to create message: %w", err)
		}
		res := tx.Model(&model.ChatRoom{}).
			Where("id = ?", m.ChatRoomID).
			Updates(map[string]any{"last_message_at": m.CreatedAt, "updated_at": m.CreatedAt})
		if res.Error != nil {
			return fmt.Errorf("failed to touch chat room %s: %w", m.ChatRoomID, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("chat room %q: %w", m.ChatRoomID, ErrNotFound)
		}
		return nil
	})
}

func (s *gormStore) ListMessages(ctx context.Context, roomID string) ([]model.ChatMessage, error) {
	var msgs []model.ChatMessage
	err := s.db.WithContext(ctx).
		Where("chat_room_id = ?", roomID).
		Order("created_at ASC, id ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list messages of %s: %w", roomID, err)
	}
	return msgs, nil
}

// MarkRead flags every unread message in the room not sent by the viewer.
func (s *gormStore) MarkRead(ctx context.Context, roomID, viewerID string) (int64, error) {
	res := s.db.WithContext(ctx).
		Model(&model.ChatMessage{}).
		Where("chat_room_id = ? AND sender_id <> ? AND is_read = ?", roomID, viewerID, false).
		Update("is_read", true)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to mark messages read: %w", res.Error)
	}
	return res.RowsAffected, nil
}

type unreadRow struct {
	ChatRoomID string
	Unread     int
}

// UnreadCounts counts, per room, unread messages sent by someone other than the viewer.
func (s *gormStore) UnreadCounts(ctx context.Context, viewerID string) (map[string]int, error) {
	var rows []unreadRow
	err := s.db.WithContext(ctx).
		Model(&model.ChatMessage{}).
		Select("chat_room_id, COUNT(*) AS unread").
		Where("sender_id <> ? AND is_read = ?", viewerID, false).
		Group("chat_room_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count unread messages: %w", err)
	}
	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.ChatRoomID] = r.Unread
	}
	return counts, nil
}
