package mw

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-ops-backend/internal/model"
	"hotel-ops-backend/internal/session"
	"hotel-ops-backend/internal/store"
)

// UserHeader names the request header carrying the acting user's id.
const UserHeader = "X-User-ID"

const actorKey = "actor"

// Resolver turns a user id into an actor.
type Resolver interface {
	ResolveActor(ctx context.Context, userID string) (session.Actor, error)
}

// Actor resolves the acting user from UserHeader. Requests without a known
// user are rejected with 401.
func Actor(r Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(UserHeader)
		if id == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing " + UserHeader + " header"})
			return
		}
		a, err := r.ResolveActor(c.Request.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
			return
		}
		if err != nil {
			c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		c.Set(actorKey, a)
		c.Request = c.Request.WithContext(session.WithActor(c.Request.Context(), a))
		c.Next()
	}
}

// ActorFrom returns the actor resolved by Actor, or the zero actor.
func ActorFrom(c *gin.Context) session.Actor {
	if v, ok := c.Get(actorKey); ok {
		if a, ok := v.(session.Actor); ok {
			return a
		}
	}
	return session.Actor{}
}

// RequireRole rejects actors holding none of roles with 403.
func RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !ActorFrom(c).Is(roles...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
