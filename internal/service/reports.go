package service

import (
	"context"

	"hotel-ops-backend/internal/model"
	"hotel-ops-backend/internal/session"
	"hotel-ops-backend/internal/store"
	"hotel-ops-backend/internal/tracker"
)

// RecentLimit caps the recent cleanings listed in a report.
const RecentLimit = 5

// CleaningReport is the statistics page for one window.
type CleaningReport struct {
	Window      tracker.Window         `json:"range"`
	Stats       tracker.Stats          `json:"stats"`
	Performance []tracker.Performance  `json:"performance"`
	Recent      []model.CleaningRecord `json:"recent"`
}

// CleaningRecords lists the records inside f, oldest first.
func (s *Service) CleaningRecords(ctx context.Context, actor session.Actor, f tracker.Filter) ([]model.CleaningRecord, error) {
	if err := requireRole(actor, model.RoleAdmin); err != nil {
		return nil, err
	}
	return s.records(ctx, f)
}

// CleaningReport summarises the records inside f.
func (s *Service) CleaningReport(ctx context.Context, actor session.Actor, f tracker.Filter) (*CleaningReport, error) {
	if err := requireRole(actor, model.RoleAdmin); err != nil {
		return nil, err
	}
	if f.Window == "" {
		f.Window = tracker.DefaultWindow
	}
	records, err := s.records(ctx, f)
	if err != nil {
		return nil, err
	}
	users, err := s.store.ListUsers(ctx, model.RoleHousekeeper)
	if err != nil {
		return nil, err
	}
	hks := make([]tracker.Housekeeper, 0, len(users))
	for _, u := range users {
		if f.HousekeeperID != "" && u.ID != f.HousekeeperID {
			continue
		}
		hks = append(hks, tracker.Housekeeper{ID: u.ID, Name: u.Name})
	}
	return &CleaningReport{
		Window:      f.Window,
		Stats:       tracker.Summarize(records),
		Performance: tracker.ByHousekeeper(records, hks),
		Recent:      tracker.Recent(records, RecentLimit),
	}, nil
}

func (s *Service) records(ctx context.Context, f tracker.Filter) ([]model.CleaningRecord, error) {
	if f.Window == "" {
		f.Window = tracker.DefaultWindow
	}
	records, err := s.store.ListCleaningRecords(ctx, store.RecordFilter{HousekeeperID: f.HousekeeperID})
	if err != nil {
		return nil, err
	}
	return tracker.FilterRecords(records, f, s.now()), nil
}
