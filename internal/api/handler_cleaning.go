package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-ops-backend/internal/mw"
	"hotel-ops-backend/internal/tracker"
)

func cleaningFilter(c *gin.Context) (tracker.Filter, error) {
	w, err := tracker.ParseWindow(c.Query("range"))
	if err != nil {
		return tracker.Filter{}, err
	}
	hk := c.Query("housekeeper")
	if hk == "all" {
		hk = ""
	}
	return tracker.Filter{HousekeeperID: hk, Window: w}, nil
}

// GetCleaningRecords lists cleaning records inside ?range= for ?housekeeper=.
func (h *Handler) GetCleaningRecords(c *gin.Context) {
	f, err := cleaningFilter(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	records, err := h.svc.CleaningRecords(c.Request.Context(), mw.ActorFrom(c), f)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// GetCleaningStats reports aggregate and per-housekeeper statistics.
func (h *Handler) GetCleaningStats(c *gin.Context) {
	f, err := cleaningFilter(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	report, err := h.svc.CleaningReport(c.Request.Context(), mw.ActorFrom(c), f)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
