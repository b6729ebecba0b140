package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hotel-ops-backend/internal/model"
)

// orderedHistory preloads a room's cleaning records in append order.
func orderedHistory(db *gorm.DB) *gorm.DB {
	return db.Order("seq ASC")
}

func (s *gormStore) CreateRoom(ctx context.Context, r *model.Room) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(r).Error; err != nil {
		return fmt.Errorf("failed to create room %s: %w", r.Number, err)
	}
	return nil
}

func (s *gormStore) GetRoom(ctx context.Context, id string) (*model.Room, error) {
	var room model.Room
	err := s.db.WithContext(ctx).
		Preload("CleaningHistory", orderedHistory).
		First(&room, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, "room", id)
	}
	return &room, nil
}

func (s *gormStore) ListRooms(ctx context.Context, f RoomFilter) ([]model.Room, error) {
	q := s.db.WithContext(ctx).Preload("CleaningHistory", orderedHistory)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Floor != nil {
		q = q.Where("floor = ?", *f.Floor)
	}
	if f.HousekeeperID != "" {
		q = q.Where("assigned_housekeeper = ?", f.HousekeeperID)
	}
	if f.Query != "" {
		p := likePattern(f.Query)
		q = q.Where("LOWER(number) LIKE ? OR LOWER(guest_name) LIKE ? OR LOWER(notes) LIKE ?", p, p, p)
	}

	var rooms []model.Room
	if err := q.Order("number ASC").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

// SaveRoom writes the room row and, when rec is set, that cleaning record in
// one transaction. Callers pass only the record the transition touched.
func (s *gormStore) SaveRoom(ctx context.Context, r *model.Room, rec *model.CleaningRecord) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(r).Error; err != nil {
			return fmt.Errorf("failed to save room %s: %w", r.ID, err)
		}
		if rec != nil {
			if err := tx.Save(rec).Error; err != nil {
				return fmt.Errorf("failed to save cleaning record %s: %w", rec.ID, err)
			}
		}
		return nil
	})
}

func (s *gormStore) ListCleaningRecords(ctx context.Context, f RecordFilter) ([]model.CleaningRecord, error) {
	q := s.db.WithContext(ctx)
	if f.RoomID != "" {
		q = q.Where("room_id = ?", f.RoomID)
	}
	if f.HousekeeperID != "" {
		q = q.Where("housekeeper_id = ?", f.HousekeeperID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.StartedAfter != nil {
		q = q.Where("start_time >= ?", *f.StartedAfter)
	}

	var records []model.CleaningRecord
	if err := q.Order("start_time ASC, seq ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list cleaning records: %w", err)
	}
	return records, nil
}
