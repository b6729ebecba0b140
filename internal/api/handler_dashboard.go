package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-ops-backend/internal/model"
	"hotel-ops-backend/internal/mw"
)

func (h *Handler) GetAdminDashboard(c *gin.Context) {
	d, err := h.svc.AdminDashboard(c.Request.Context(), mw.ActorFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) GetHousekeeperDashboard(c *gin.Context) {
	d, err := h.svc.HousekeeperDashboard(c.Request.Context(), mw.ActorFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// GetMe returns the acting user.
func (h *Handler) GetMe(c *gin.Context) {
	c.JSON(http.StatusOK, mw.ActorFrom(c))
}

func (h *Handler) GetUsers(c *gin.Context) {
	users, err := h.svc.ListUsers(c.Request.Context(), model.Role(c.Query("role")))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}
