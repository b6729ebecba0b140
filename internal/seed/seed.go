// Package seed loads the demo hotel into an empty store.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"hotel-ops-backend/internal/model"
	"hotel-ops-backend/internal/parse"
	"hotel-ops-backend/internal/store"
)

//go:embed data.yaml
var demoData []byte

type user struct {
	ID    string     `yaml:"id"`
	Email string     `yaml:"email"`
	Name  string     `yaml:"name"`
	Role  model.Role `yaml:"role"`
	Phone string     `yaml:"phone"`
	Room  string     `yaml:"room"`
}

type room struct {
	ID          string           `yaml:"id"`
	Number      string           `yaml:"number"`
	Type        model.RoomType   `yaml:"type"`
	Status      model.RoomStatus `yaml:"status"`
	Guest       string           `yaml:"guest"`
	CheckIn     *time.Time       `yaml:"checkIn"`
	CheckOut    *time.Time       `yaml:"checkOut"`
	Housekeeper string           `yaml:"housekeeper"`
	LastCleaned *time.Time       `yaml:"lastCleaned"`
}

type request struct {
	ID         string                `yaml:"id"`
	Guest      string                `yaml:"guest"`
	Message    string                `yaml:"message"`
	Status     model.RequestStatus   `yaml:"status"`
	Priority   model.RequestPriority `yaml:"priority"`
	Category   string                `yaml:"category"`
	AssignedTo string                `yaml:"assignedTo"`
	CreatedAt  time.Time             `yaml:"createdAt"`
}

type task struct {
	ID                string             `yaml:"id"`
	Title             string             `yaml:"title"`
	Description       string             `yaml:"description"`
	Room              string             `yaml:"room"`
	Priority          model.TaskPriority `yaml:"priority"`
	Status            model.TaskStatus   `yaml:"status"`
	Category          string             `yaml:"category"`
	AssignedTo        string             `yaml:"assignedTo"`
	CreatedAt         time.Time          `yaml:"createdAt"`
	ScheduledFor      *time.Time         `yaml:"scheduledFor"`
	CompletedAt       *time.Time         `yaml:"completedAt"`
	EstimatedDuration float64            `yaml:"estimatedDuration"`
	ActualDuration    *float64           `yaml:"actualDuration"`
	Cost              *float64           `yaml:"cost"`
}

type message struct {
	ID      string    `yaml:"id"`
	Sender  string    `yaml:"sender"`
	Content string    `yaml:"content"`
	At      time.Time `yaml:"at"`
}

type chat struct {
	ID       string         `yaml:"id"`
	Name     string         `yaml:"name"`
	Kind     model.ChatKind `yaml:"kind"`
	Guest    string         `yaml:"guest"`
	Messages []message      `yaml:"messages"`
}

// Data is the decoded demo hotel.
type Data struct {
	Users    []user    `yaml:"users"`
	Rooms    []room    `yaml:"rooms"`
	Requests []request `yaml:"requests"`
	Tasks    []task    `yaml:"tasks"`
	Chats    []chat    `yaml:"chats"`
}

// Demo decodes the embedded demo hotel.
func Demo() (*Data, error) {
	var d Data
	if err := yaml.Unmarshal(demoData, &d); err != nil {
		return nil, fmt.Errorf("failed to decode seed data: %w", err)
	}
	return &d, nil
}

// Run inserts the demo hotel unless the store already has users. It reports
// whether anything was inserted.
func Run(ctx context.Context, st store.Store, now time.Time, log *zerolog.Logger) (bool, error) {
	empty, err := st.Empty(ctx)
	if err != nil {
		return false, err
	}
	if !empty {
		log.Info().Msg("store already populated, skipping seed")
		return false, nil
	}
	d, err := Demo()
	if err != nil {
		return false, err
	}
	if err := d.insert(ctx, st, now); err != nil {
		return false, err
	}
	log.Info().
		Int("users", len(d.Users)).
		Int("rooms", len(d.Rooms)).
		Int("requests", len(d.Requests)).
		Int("tasks", len(d.Tasks)).
		Msg("seeded demo data")
	return true, nil
}

func (d *Data) insert(ctx context.Context, st store.Store, now time.Time) error {
	users := make(map[string]model.User, len(d.Users))
	for _, u := range d.Users {
		m := model.User{
			ID:         u.ID,
			Email:      u.Email,
			Name:       u.Name,
			Role:       u.Role,
			Phone:      u.Phone,
			RoomNumber: u.Room,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := st.CreateUser(ctx, &m); err != nil {
			return err
		}
		users[u.ID] = m
	}

	for _, r := range d.Rooms {
		parsed, err := parse.ParseRoomNumber(r.Number)
		if err != nil {
			return fmt.Errorf("seed room %s: %w", r.ID, err)
		}
		m := model.Room{
			ID:          r.ID,
			Number:      parsed.Number,
			Floor:       parsed.Floor,
			Type:        r.Type,
			Capacity:    2,
			Status:      r.Status,
			GuestName:   r.Guest,
			CheckIn:     r.CheckIn,
			CheckOut:    r.CheckOut,
			LastCleaned: r.LastCleaned,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if r.Housekeeper != "" {
			hk := r.Housekeeper
			m.AssignedHousekeeper = &hk
		}
		if err := st.CreateRoom(ctx, &m); err != nil {
			return err
		}
	}

	for _, r := range d.Requests {
		guest := users[r.Guest]
		m := model.ServiceRequest{
			ID:         r.ID,
			GuestID:    guest.ID,
			GuestName:  guest.Name,
			RoomNumber: guest.RoomNumber,
			Phone:      guest.Phone,
			Message:    r.Message,
			Status:     r.Status,
			Priority:   r.Priority,
			Category:   r.Category,
			CreatedAt:  r.CreatedAt,
			UpdatedAt:  r.CreatedAt,
		}
		if r.AssignedTo != "" {
			a := r.AssignedTo
			m.AssignedTo = &a
		}
		if err := st.CreateRequest(ctx, &m); err != nil {
			return err
		}
	}

	for _, t := range d.Tasks {
		m := model.MaintenanceTask{
			ID:                t.ID,
			Title:             t.Title,
			Description:       t.Description,
			RoomNumber:        t.Room,
			Priority:          t.Priority,
			Status:            t.Status,
			Category:          t.Category,
			ScheduledFor:      t.ScheduledFor,
			CompletedAt:       t.CompletedAt,
			EstimatedDuration: t.EstimatedDuration,
			ActualDuration:    t.ActualDuration,
			Cost:              t.Cost,
			CreatedAt:         t.CreatedAt,
			UpdatedAt:         t.CreatedAt,
		}
		if t.AssignedTo != "" {
			a := t.AssignedTo
			m.AssignedTo = &a
		}
		if err := st.CreateTask(ctx, &m); err != nil {
			return err
		}
	}

	for _, c := range d.Chats {
		m := model.ChatRoom{ID: c.ID, Name: c.Name, Kind: c.Kind, CreatedAt: now, UpdatedAt: now}
		if c.Guest != "" {
			g := c.Guest
			m.GuestID = &g
		}
		if err := st.CreateChatRoom(ctx, &m); err != nil {
			return err
		}
		for _, msg := range c.Messages {
			sender := users[msg.Sender]
			err := st.AppendMessage(ctx, &model.ChatMessage{
				ID:         msg.ID,
				ChatRoomID: c.ID,
				SenderID:   sender.ID,
				SenderName: sender.Name,
				SenderRole: sender.Role,
				Content:    msg.Content,
				CreatedAt:  msg.At,
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}
