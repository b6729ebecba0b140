package store

import (
	"context"
	"fmt"

	"hotel-ops-backend/internal/model"
)

func (s *gormStore) CreateTask(ctx context.Context, t *model.MaintenanceTask) error {
	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

func (s *gormStore) GetTask(ctx context.Context, id string) (*model.MaintenanceTask, error) {
	var t model.MaintenanceTask
	if err := s.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "task", id)
	}
	return &t, nil
}

func (s *gormStore) ListTasks(ctx context.Context, f TaskFilter) ([]model.MaintenanceTask, error) {
	q := s.db.WithContext(ctx)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Priority != "" {
		q = q.Where("priority = ?", f.Priority)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.AssignedTo != "" {
		q = q.Where("assigned_to = ?", f.AssignedTo)
	}
	if f.Query != "" {
		p := likePattern(f.Query)
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(room_number) LIKE ?", p, p, p)
	}

	var tasks []model.MaintenanceTask
	if err := q.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

func (s *gormStore) SaveTask(ctx context.Context, t *model.MaintenanceTask) error {
	if err := s.db.WithContext(ctx).Save(t).Error; err != nil {
		return fmt.Errorf("failed to save task %s: %w", t.ID, err)
	}
	return nil
}
