package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"hotel-ops-backend/config"
	"hotel-ops-backend/internal/model"
	"hotel-ops-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler, cfg config.ServerConfig, log *zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), mw.Logger(log))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(ttl, 2*ttl)
	caching := mw.Cache(cacheStore, ttl)

	staff := mw.RequireRole(model.RoleHousekeeper, model.RoleAdmin)
	admin := mw.RequireRole(model.RoleAdmin)
	guest := mw.RequireRole(model.RoleGuest)

	r.GET("/api/vapid_public_key", rateLimiter, h.GetVAPIDPublicKey)

	api := r.Group("/api")
	api.Use(mw.Actor(h.svc), rateLimiter, mw.Invalidate(cacheStore))
	{
		api.GET("/me", h.GetMe)
		api.GET("/users", staff, h.GetUsers)

		rooms := api.Group("/rooms")
		{
			rooms.GET("", staff, h.GetRooms)
			rooms.POST("", admin, h.PostRoom)
			rooms.GET("/:id", staff, h.GetRoom)
			rooms.PUT("/:id/status", staff, h.PutRoomStatus)
			rooms.PUT("/:id/housekeeper", admin, h.PutRoomHousekeeper)
			rooms.POST("/:id/cleaning/start", staff, h.PostStartCleaning)
			rooms.POST("/:id/cleaning/finish", staff, h.PostFinishCleaning)
			rooms.POST("/:id/cleaning/cancel", staff, h.PostCancelCleaning)
			rooms.GET("/:id/cleaning/elapsed", staff, h.GetElapsed)
		}

		api.GET("/cleaning/records", admin, caching, h.GetCleaningRecords)
		api.GET("/cleaning/stats", admin, caching, h.GetCleaningStats)

		requests := api.Group("/requests")
		{
			requests.GET("", h.GetRequests)
			requests.POST("", guest, h.PostRequest)
			requests.GET("/:id", h.GetRequest)
			requests.PUT("/:id/status", staff, h.PutRequestStatus)
			requests.PUT("/:id/assignee", staff, h.PutRequestAssignee)
			requests.PUT("/:id/rating", guest, h.PutRequestRating)
		}

		tasks := api.Group("/tasks")
		{
			tasks.GET("", staff, h.GetTasks)
			tasks.POST("", admin, h.PostTask)
			tasks.PUT("/:id/status", staff, h.PutTaskStatus)
			tasks.PUT("/:id/assignee", staff, h.PutTaskAssignee)
		}

		chat := api.Group("/chat/rooms")
		{
			chat.GET("", h.GetChatRooms)
			chat.GET("/:id", h.GetChatRoom)
			chat.POST("/:id/messages", h.PostChatMessage)
		}

		api.GET("/dashboard/admin", admin, caching, h.GetAdminDashboard)
		api.GET("/dashboard/housekeeper", mw.RequireRole(model.RoleHousekeeper), caching, h.GetHousekeeperDashboard)

		api.GET("/subscriptions", h.GetSubscription)
		api.PUT("/subscriptions", h.PutSubscription)
		api.DELETE("/subscriptions", h.DeleteSubscription)
	}

	return r
}
