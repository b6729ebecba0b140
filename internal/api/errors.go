package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-ops-backend/internal/lifecycle"
	"hotel-ops-backend/internal/service"
	"hotel-ops-backend/internal/store"
	"hotel-ops-backend/internal/tracker"
)

// statusFor maps a domain error onto an HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, tracker.ErrPreconditionFailed),
		errors.Is(err, lifecycle.ErrInvalidTransition),
		errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, lifecycle.ErrUnknownState),
		errors.Is(err, tracker.ErrInvalidRating):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

// fail writes err as {"error": ...}. Internal errors are logged and hidden.
func (h *Handler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.Error(err)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
