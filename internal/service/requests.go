package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hotel-ops-backend/internal/lifecycle"
	"hotel-ops-backend/internal/metrics"
	"hotel-ops-backend/internal/model"
	"hotel-ops-backend/internal/notification"
	"hotel-ops-backend/internal/session"
	"hotel-ops-backend/internal/store"
)

// NewRequest is what a guest submits.
type NewRequest struct {
	Message  string                `json:"message"`
	Priority model.RequestPriority `json:"priority"`
	Category string                `json:"category"`
	Phone    string                `json:"phone"`
}

// ListRequests lists requests; guests only ever see their own.
func (s *Service) ListRequests(ctx context.Context, actor session.Actor, f store.RequestFilter) ([]model.ServiceRequest, error) {
	if f.Status != "" && !model.RequestLifecycle.Valid(f.Status) {
		return nil, invalid("unknown request status %q", f.Status)
	}
	if f.Priority != "" && !f.Priority.Valid() {
		return nil, invalid("unknown priority %q", f.Priority)
	}
	if actor.Is(model.RoleGuest) {
		f.GuestID = actor.UserID
	}
	return s.store.ListRequests(ctx, f)
}

func (s *Service) GetRequest(ctx context.Context, actor session.Actor, id string) (*model.ServiceRequest, error) {
	req, err := s.store.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Is(model.RoleGuest) && req.GuestID != actor.UserID {
		// Someone else's request is indistinguishable from a missing one.
		return nil, fmt.Errorf("request %s: %w", id, store.ErrNotFound)
	}
	return req, nil
}

// CreateRequest files a guest request against the guest's room.
func (s *Service) CreateRequest(ctx context.Context, actor session.Actor, in NewRequest) (*model.ServiceRequest, error) {
	if err := requireRole(actor, model.RoleGuest); err != nil {
		return nil, err
	}
	msg := strings.TrimSpace(in.Message)
	if msg == "" {
		return nil, invalid("message is required")
	}
	if in.Priority == "" {
		in.Priority = model.PriorityMedium
	}
	if !in.Priority.Valid() {
		return nil, invalid("unknown priority %q", in.Priority)
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = "General"
	}

	guest, err := s.store.GetUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	phone := in.Phone
	if phone == "" {
		phone = guest.Phone
	}

	var req *model.ServiceRequest
	err = s.mutate(func() ([]notification.Notice, error) {
		now := s.now()
		req = &model.ServiceRequest{
			ID:         s.newID(),
			GuestID:    guest.ID,
			GuestName:  guest.Name,
			RoomNumber: guest.RoomNumber,
			Phone:      phone,
			Message:    msg,
			Status:     model.RequestNew,
			Priority:   in.Priority,
			Category:   category,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.store.CreateRequest(ctx, req); err != nil {
			return nil, err
		}
		return []notification.Notice{{
			UserIDs: s.userIDs(ctx, model.RoleAdmin),
			Title:   fmt.Sprintf("New %s request from room %s", strings.ToLower(category), req.RoomNumber),
			Body:    msg,
			URL:     "/requests/" + req.ID,
		}}, nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("request", req.ID).Str("guest", guest.ID).Str("priority", string(req.Priority)).Msg("request created")
	return req, nil
}

// ChangeRequestStatus moves a request along its lifecycle. A non-empty
// response is stored with the change. Completion notifies the guest.
func (s *Service) ChangeRequestStatus(ctx context.Context, actor session.Actor, id string, to model.RequestStatus, response string) (*model.ServiceRequest, error) {
	if err := requireRole(actor, model.RoleHousekeeper, model.RoleAdmin); err != nil {
		return nil, err
	}
	var req *model.ServiceRequest
	err := s.mutate(func() ([]notification.Notice, error) {
		var err error
		req, err = s.store.GetRequest(ctx, id)
		if err != nil {
			return nil, err
		}
		now := s.now()
		changed, err := lifecycle.Advance(model.RequestLifecycle, req, to, now)
		if err != nil {
			return nil, err
		}
		if response = strings.TrimSpace(response); response != "" {
			req.Response = response
			req.UpdatedAt = now
		} else if !changed {
			return nil, nil
		}
		if err := s.store.SaveRequest(ctx, req); err != nil {
			return nil, err
		}
		if !changed {
			return nil, nil
		}
		metrics.Transition("request", string(to))
		if to != model.RequestCompleted {
			return nil, nil
		}
		return []notification.Notice{{
			UserIDs: []string{req.GuestID},
			Title:   "Your request has been completed",
			Body:    req.Message,
			URL:     "/requests/" + req.ID,
		}}, nil
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// AssignRequest hands a request to a staff member, the actor when assignee is empty.
func (s *Service) AssignRequest(ctx context.Context, actor session.Actor, id, assignee string) (*model.ServiceRequest, error) {
	if err := requireRole(actor, model.RoleHousekeeper, model.RoleAdmin); err != nil {
		return nil, err
	}
	if err := s.checkStaff(ctx, &assignee, actor); err != nil {
		return nil, err
	}

	var req *model.ServiceRequest
	err := s.mutate(func() ([]notification.Notice, error) {
		var err error
		req, err = s.store.GetRequest(ctx, id)
		if err != nil {
			return nil, err
		}
		req.AssignedTo = &assignee
		req.UpdatedAt = s.now()
		if err := s.store.SaveRequest(ctx, req); err != nil {
			return nil, err
		}
		if assignee == actor.UserID {
			return nil, nil
		}
		return []notification.Notice{{
			UserIDs: []string{assignee},
			Title:   fmt.Sprintf("Request from room %s assigned to you", req.RoomNumber),
			Body:    req.Message,
			URL:     "/requests/" + req.ID,
		}}, nil
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// RateRequest records a guest's 1–5 rating of their own completed request.
func (s *Service) RateRequest(ctx context.Context, actor session.Actor, id string, rating int) (*model.ServiceRequest, error) {
	if err := requireRole(actor, model.RoleGuest); err != nil {
		return nil, err
	}
	if rating < 1 || rating > 5 {
		return nil, invalid("rating must be between 1 and 5")
	}
	var req *model.ServiceRequest
	err := s.mutate(func() ([]notification.Notice, error) {
		var err error
		req, err = s.store.GetRequest(ctx, id)
		if err != nil {
			return nil, err
		}
		if req.GuestID != actor.UserID {
			return nil, fmt.Errorf("request %s: %w", id, store.ErrNotFound)
		}
		if req.Status != model.RequestCompleted {
			return nil, invalid("only completed requests can be rated")
		}
		req.Rating = &rating
		req.UpdatedAt = s.now()
		return nil, s.store.SaveRequest(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// checkStaff defaults *id to the actor and verifies it names a staff member.
func (s *Service) checkStaff(ctx context.Context, id *string, actor session.Actor) error {
	if *id == "" || *id == actor.UserID {
		*id = actor.UserID
		return nil
	}
	u, err := s.store.GetUser(ctx, *id)
	if errors.Is(err, store.ErrNotFound) {
		return invalid("no user %q", *id)
	}
	if err != nil {
		return err
	}
	if !u.Role.Staff() {
		return invalid("user %q is not staff", *id)
	}
	return nil
}
