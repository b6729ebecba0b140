package mw

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"

	"hotel-ops-backend/internal/model"
	"hotel-ops-backend/internal/session"
	"hotel-ops-backend/internal/store"
)

type resolverFunc func(ctx context.Context, id string) (session.Actor, error)

func (f resolverFunc) ResolveActor(ctx context.Context, id string) (session.Actor, error) {
	return f(ctx, id)
}

var users = resolverFunc(func(ctx context.Context, id string) (session.Actor, error) {
	switch id {
	case "admin-1":
		return session.Actor{UserID: id, Name: "Sarah Johnson", Role: model.RoleAdmin}, nil
	case "guest-1":
		return session.Actor{UserID: id, Name: "John Smith", Role: model.RoleGuest}, nil
	}
	return session.Actor{}, store.ErrNotFound
})

func init() {
	gin.SetMode(gin.TestMode)
}

func do(r http.Handler, method, path, user string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if user != "" {
		req.Header.Set(UserHeader, user)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestActorAndRequireRole(t *testing.T) {
	r := gin.New()
	r.Use(Actor(users))
	r.GET("/me", func(c *gin.Context) {
		a, ok := session.FromContext(c.Request.Context())
		assert.True(t, ok)
		c.JSON(http.StatusOK, a)
	})
	r.GET("/admin", RequireRole(model.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	testCases := []struct {
		name string
		path string
		user string
		want int
	}{
		{name: "missing header", path: "/me", want: http.StatusUnauthorized},
		{name: "unknown user", path: "/me", user: "ghost", want: http.StatusUnauthorized},
		{name: "known user", path: "/me", user: "guest-1", want: http.StatusOK},
		{name: "wrong role", path: "/admin", user: "guest-1", want: http.StatusForbidden},
		{name: "right role", path: "/admin", user: "admin-1", want: http.StatusNoContent},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(r, http.MethodGet, tc.path, tc.user)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestCache(t *testing.T) {
	cs := cache.New(time.Minute, time.Minute)
	calls := 0
	r := gin.New()
	r.Use(Actor(users), Invalidate(cs), Cache(cs, time.Minute))
	r.GET("/stats", func(c *gin.Context) {
		calls++
		c.JSON(http.StatusOK, gin.H{"calls": calls, "actor": ActorFrom(c).UserID})
	})
	r.POST("/rooms", func(c *gin.Context) { c.Status(http.StatusCreated) })
	r.POST("/fail", func(c *gin.Context) { c.Status(http.StatusBadRequest) })

	first := do(r, http.MethodGet, "/stats", "admin-1")
	second := do(r, http.MethodGet, "/stats", "admin-1")
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, 1, calls)

	// Other actors do not share entries.
	do(r, http.MethodGet, "/stats", "guest-1")
	assert.Equal(t, 2, calls)

	do(r, http.MethodPost, "/fail", "admin-1")
	do(r, http.MethodGet, "/stats", "admin-1")
	assert.Equal(t, 2, calls, "failed writes keep the cache")

	do(r, http.MethodPost, "/rooms", "admin-1")
	do(r, http.MethodGet, "/stats", "admin-1")
	assert.Equal(t, 3, calls, "successful writes flush the cache")
}

func TestRateLimiter(t *testing.T) {
	r := gin.New()
	r.Use(Actor(users), RateLimiter(rate.Limit(0.001), 2))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/ping", "admin-1").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/ping", "admin-1").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, http.MethodGet, "/ping", "admin-1").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/ping", "guest-1").Code, "limits are per actor")
}

func TestKeyedRateLimiter_ReusesLimiter(t *testing.T) {
	l := NewKeyedRateLimiter(rate.Limit(1), 1)
	assert.Same(t, l.GetLimiter("a"), l.GetLimiter("a"))
	assert.NotSame(t, l.GetLimiter("a"), l.GetLimiter("b"))
}

func TestLogger(t *testing.T) {
	log := zerolog.Nop()
	r := gin.New()
	r.Use(Logger(&log))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/ok", "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/missing", "").Code)
}
