package store

import (
	"context"
	"fmt"

	"hotel-ops-backend/internal/model"
)

func (s *gormStore) CreateRequest(ctx context.Context, r *model.ServiceRequest) error {
	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return nil
}

func (s *gormStore) GetRequest(ctx context.Context, id string) (*model.ServiceRequest, error) {
	var r model.ServiceRequest
	if err := s.db.WithContext(ctx).First(&r, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "request", id)
	}
	return &r, nil
}

// ListRequests returns matching requests, newest first.
func (s *gormStore) ListRequests(ctx context.Context, f RequestFilter) ([]model.ServiceRequest, error) {
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
	if f.GuestID != "" {
		q = q.Where("guest_id = ?", f.GuestID)
	}
	if f.AssignedTo != "" {
		q = q.Where("assigned_to = ?", f.AssignedTo)
	}
	if f.Query != "" {
		p := likePattern(f.Query)
		q = q.Where("LOWER(message) LIKE ? OR LOWER(guest_name) LIKE ? OR LOWER(room_number) LIKE ?", p, p, p)
	}

	var requests []model.ServiceRequest
	if err := q.Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return requests, nil
}

func (s *gormStore) SaveRequest(ctx context.Context, r *model.ServiceRequest) error {
	if err := s.db.WithContext(ctx).Save(r).Error; err != nil {
		return fmt.Errorf("failed to save request %s: %w", r.ID, err)
	}
	return nil
}
