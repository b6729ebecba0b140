package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hotel-ops-backend/internal/lifecycle"
	"hotel-ops-backend/internal/metrics"
	"hotel-ops-backend/internal/model"
	"hotel-ops-backend/internal/notification"
	"hotel-ops-backend/internal/session"
	"hotel-ops-backend/internal/store"
)

// NewTask is the input of CreateTask.
type NewTask struct {
	Title             string             `json:"title"`
	Description       string             `json:"description"`
	RoomNumber        string             `json:"roomNumber"`
	Priority          model.TaskPriority `json:"priority"`
	Category          string             `json:"category"`
	AssignedTo        string             `json:"assignedTo"`
	ScheduledFor      *time.Time         `json:"scheduledFor"`
	EstimatedDuration float64            `json:"estimatedDuration"`
	Cost              *float64           `json:"cost"`
}

func (s *Service) ListTasks(ctx context.Context, f store.TaskFilter) ([]model.MaintenanceTask, error) {
	if f.Status != "" && !model.TaskLifecycle.Valid(f.Status) {
		return nil, invalid("unknown task status %q", f.Status)
	}
	if f.Priority != "" && !f.Priority.Valid() {
		return nil, invalid("unknown priority %q", f.Priority)
	}
	return s.store.ListTasks(ctx, f)
}

func (s *Service) GetTask(ctx context.Context, id string) (*model.MaintenanceTask, error) {
	return s.store.GetTask(ctx, id)
}

// CreateTask schedules a pending maintenance task.
func (s *Service) CreateTask(ctx context.Context, actor session.Actor, in NewTask) (*model.MaintenanceTask, error) {
	if err := requireRole(actor, model.RoleAdmin); err != nil {
		return nil, err
	}
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	if in.Title == "" || in.Description == "" || in.Category == "" {
		return nil, invalid("title, description and category are required")
	}
	if in.Priority == "" {
		in.Priority = model.TaskPriorityMedium
	}
	if !in.Priority.Valid() {
		return nil, invalid("unknown priority %q", in.Priority)
	}
	if in.EstimatedDuration < 0 {
		return nil, invalid("estimated duration must not be negative")
	}
	if in.EstimatedDuration == 0 {
		in.EstimatedDuration = model.DefaultEstimatedHours
	}
	var assignee *string
	if in.AssignedTo != "" {
		id := in.AssignedTo
		if err := s.checkStaff(ctx, &id, actor); err != nil {
			return nil, err
		}
		assignee = &id
	}

	var task *model.MaintenanceTask
	err := s.mutate(func() ([]notification.Notice, error) {
		now := s.now()
		task = &model.MaintenanceTask{
			ID:                s.newID(),
			Title:             in.Title,
			Description:       in.Description,
			RoomNumber:        strings.TrimSpace(in.RoomNumber),
			Priority:          in.Priority,
			Status:            model.TaskPending,
			Category:          in.Category,
			AssignedTo:        assignee,
			ScheduledFor:      in.ScheduledFor,
			EstimatedDuration: in.EstimatedDuration,
			Cost:              in.Cost,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if err := s.store.CreateTask(ctx, task); err != nil {
			return nil, err
		}
		if assignee == nil || *assignee == actor.UserID {
			return nil, nil
		}
		return []notification.Notice{taskNotice(task, *assignee)}, nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("task", task.ID).Str("category", task.Category).Msg("task created")
	return task, nil
}

// ChangeTaskStatus moves a task along its lifecycle.
func (s *Service) ChangeTaskStatus(ctx context.Context, actor session.Actor, id string, to model.TaskStatus) (*model.MaintenanceTask, error) {
	if err := requireRole(actor, model.RoleHousekeeper, model.RoleAdmin); err != nil {
		return nil, err
	}
	var task *model.MaintenanceTask
	err := s.mutate(func() ([]notification.Notice, error) {
		var err error
		task, err = s.store.GetTask(ctx, id)
		if err != nil {
			return nil, err
		}
		changed, err := lifecycle.Advance(model.TaskLifecycle, task, to, s.now())
		if err != nil || !changed {
			return nil, err
		}
		if err := s.store.SaveTask(ctx, task); err != nil {
			return nil, err
		}
		metrics.Transition("task", string(to))
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// AssignTask hands a task to a staff member, the actor when assignee is empty.
func (s *Service) AssignTask(ctx context.Context, actor session.Actor, id, assignee string) (*model.MaintenanceTask, error) {
	if err := requireRole(actor, model.RoleHousekeeper, model.RoleAdmin); err != nil {
		return nil, err
	}
	if err := s.checkStaff(ctx, &assignee, actor); err != nil {
		return nil, err
	}
	var task *model.MaintenanceTask
	err := s.mutate(func() ([]notification.Notice, error) {
		var err error
		task, err = s.store.GetTask(ctx, id)
		if err != nil {
			return nil, err
		}
		task.AssignedTo = &assignee
		task.UpdatedAt = s.now()
		if err := s.store.SaveTask(ctx, task); err != nil {
			return nil, err
		}
		if assignee == actor.UserID {
			return nil, nil
		}
		return []notification.Notice{taskNotice(task, assignee)}, nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func taskNotice(t *model.MaintenanceTask, userID string) notification.Notice {
	title := fmt.Sprintf("Task assigned: %s", t.Title)
	if t.RoomNumber != "" {
		title = fmt.Sprintf("Task assigned: %s (room %s)", t.Title, t.RoomNumber)
	}
	return notification.Notice{
		UserIDs: []string{userID},
		Title:   title,
		Body:    t.Description,
		URL:     "/tasks/" + t.ID,
	}
}
