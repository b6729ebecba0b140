// Package session carries the acting user explicitly through every call.
package session

import (
	"context"

	"hotel-ops-backend/internal/model"
)

// Actor is the user on whose behalf an operation runs.
type Actor struct {
	UserID string     `json:"id"`
	Name   string     `json:"name"`
	Role   model.Role `json:"role"`
}

// System acts for background jobs such as the overdue monitor.
var System = Actor{UserID: "system", Name: "System", Role: model.RoleAdmin}

// FromUser builds the actor for a stored user.
func FromUser(u model.User) Actor {
	return Actor{UserID: u.ID, Name: u.Name, Role: u.Role}
}

// Is reports whether the actor holds one of roles.
func (a Actor) Is(roles ...model.Role) bool {
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}

type ctxKey struct{}

// WithActor returns a context carrying a.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, a)
}

// FromContext returns the actor stored by WithActor.
func FromContext(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(ctxKey{}).(Actor)
	return a, ok
}
