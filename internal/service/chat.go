package service

import (
	"context"
	"fmt"
	"strings"

	"hotel-ops-backend/internal/model"
	"hotel-ops-backend/internal/notification"
	"hotel-ops-backend/internal/session"
	"hotel-ops-backend/internal/store"
)

// ChatRoomView is a chat room as one viewer sees it.
type ChatRoomView struct {
	model.ChatRoom
	UnreadCount int                `json:"unreadCount"`
	LastMessage *model.ChatMessage `json:"lastMessage,omitempty"`
}

// Conversation is an opened chat room with its messages.
type Conversation struct {
	Room     model.ChatRoom      `json:"room"`
	Messages []model.ChatMessage `json:"messages"`
}

// ListChatRooms lists the rooms visible to the actor. A guest without a
// support room gets one on first use.
func (s *Service) ListChatRooms(ctx context.Context, actor session.Actor) ([]ChatRoomView, error) {
	rooms, err := s.store.ListChatRooms(ctx)
	if err != nil {
		return nil, err
	}
	var visible []model.ChatRoom
	for _, r := range rooms {
		if r.VisibleTo(actor.UserID, actor.Role) {
			visible = append(visible, r)
		}
	}
	if actor.Is(model.RoleGuest) && len(visible) == 0 {
		room, err := s.supportRoom(ctx, actor)
		if err != nil {
			return nil, err
		}
		visible = append(visible, *room)
	}

	unread, err := s.store.UnreadCounts(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	views := make([]ChatRoomView, 0, len(visible))
	for _, r := range visible {
		v := ChatRoomView{ChatRoom: r, UnreadCount: unread[r.ID]}
		if r.LastMessageAt != nil {
			msgs, err := s.store.ListMessages(ctx, r.ID)
			if err != nil {
				return nil, err
			}
			if n := len(msgs); n > 0 {
				v.LastMessage = &msgs[n-1]
			}
		}
		views = append(views, v)
	}
	return views, nil
}

// OpenChatRoom returns the messages of a room and marks those sent by
// others as read for the viewer.
func (s *Service) OpenChatRoom(ctx context.Context, actor session.Actor, id string) (*Conversation, error) {
	room, err := s.visibleRoom(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	err = s.mutate(func() ([]notification.Notice, error) {
		_, err := s.store.MarkRead(ctx, room.ID, actor.UserID)
		return nil, err
	})
	if err != nil {
		return nil, err
	}
	msgs, err := s.store.ListMessages(ctx, room.ID)
	if err != nil {
		return nil, err
	}
	return &Conversation{Room: *room, Messages: msgs}, nil
}

// SendMessage appends a message to a room. Guest messages notify the staff;
// staff replies in a support room notify the guest.
func (s *Service) SendMessage(ctx context.Context, actor session.Actor, id, content string) (*model.ChatMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, invalid("message content is required")
	}
	room, err := s.visibleRoom(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	var msg *model.ChatMessage
	err = s.mutate(func() ([]notification.Notice, error) {
		msg = &model.ChatMessage{
			ID:         s.newID(),
			ChatRoomID: room.ID,
			SenderID:   actor.UserID,
			SenderName: actor.Name,
			SenderRole: actor.Role,
			Content:    content,
			CreatedAt:  s.now(),
		}
		if err := s.store.AppendMessage(ctx, msg); err != nil {
			return nil, err
		}

		var to []string
		switch {
		case actor.Is(model.RoleGuest):
			to = s.userIDs(ctx, model.RoleAdmin)
		case room.Kind == model.ChatGuestSupport && room.GuestID != nil:
			to = []string{*room.GuestID}
		}
		if len(to) == 0 {
			return nil, nil
		}
		return []notification.Notice{{
			UserIDs: to,
			Title:   fmt.Sprintf("New message from %s", actor.Name),
			Body:    content,
			URL:     "/chat/" + room.ID,
		}}, nil
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *Service) visibleRoom(ctx context.Context, actor session.Actor, id string) (*model.ChatRoom, error) {
	room, err := s.store.GetChatRoom(ctx, id)
	if err != nil {
		return nil, err
	}
	if !room.VisibleTo(actor.UserID, actor.Role) {
		return nil, fmt.Errorf("chat room %s: %w", id, store.ErrNotFound)
	}
	return room, nil
}

// supportRoom returns the guest's support room, creating it if no room is
// visible to them yet. The lookup is repeated under the writer lock so
// concurrent first calls share one room.
func (s *Service) supportRoom(ctx context.Context, actor session.Actor) (*model.ChatRoom, error) {
	var room *model.ChatRoom
	err := s.mutate(func() ([]notification.Notice, error) {
		rooms, err := s.store.ListChatRooms(ctx)
		if err != nil {
			return nil, err
		}
		for i := range rooms {
			if rooms[i].VisibleTo(actor.UserID, actor.Role) {
				room = &rooms[i]
				return nil, nil
			}
		}

		now := s.now()
		guestID := actor.UserID
		room = &model.ChatRoom{
			ID:        s.newID(),
			Name:      "Guest Support - " + actor.Name,
			Kind:      model.ChatGuestSupport,
			GuestID:   &guestID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return nil, s.store.CreateChatRoom(ctx, room)
	})
	if err != nil {
		return nil, err
	}
	return room, nil
}
