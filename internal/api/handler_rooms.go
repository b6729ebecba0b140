package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hotel-ops-backend/internal/model"
	"hotel-ops-backend/internal/mw"
	"hotel-ops-backend/internal/service"
	"hotel-ops-backend/internal/store"
	"hotel-ops-backend/internal/tracker"
)

// GetRooms lists rooms filtered by status, type, floor, housekeeper and a free-text query.
func (h *Handler) GetRooms(c *gin.Context) {
	f := store.RoomFilter{
		Status:        model.RoomStatus(c.Query("status")),
		Type:          model.RoomType(c.Query("type")),
		Query:         c.Query("q"),
		HousekeeperID: c.Query("housekeeper"),
	}
	if raw := c.Query("floor"); raw != "" {
		floor, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(c, errors.New("floor must be a number"))
			return
		}
		f.Floor = &floor
	}
	rooms, err := h.svc.ListRooms(c.Request.Context(), f)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

func (h *Handler) GetRoom(c *gin.Context) {
	room, err := h.svc.GetRoom(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

func (h *Handler) PostRoom(c *gin.Context) {
	var req service.NewRoom
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	room, err := h.svc.CreateRoom(c.Request.Context(), mw.ActorFrom(c), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, room)
}

type putRoomStatusRequest struct {
	Status model.RoomStatus `json:"status" binding:"required"`
	service.StatusChange
}

// PutRoomStatus moves a room to any status, opening or closing a cleaning
// session when cleaning is entered or left.
func (h *Handler) PutRoomStatus(c *gin.Context) {
	var req putRoomStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	room, err := h.svc.ChangeRoomStatus(c.Request.Context(), mw.ActorFrom(c), c.Param("id"), req.Status, req.StatusChange)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

type putHousekeeperRequest struct {
	HousekeeperID string `json:"housekeeperId"`
}

// PutRoomHousekeeper assigns a housekeeper; an empty id unassigns.
func (h *Handler) PutRoomHousekeeper(c *gin.Context) {
	var req putHousekeeperRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	room, err := h.svc.AssignHousekeeper(c.Request.Context(), mw.ActorFrom(c), c.Param("id"), req.HousekeeperID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

type startCleaningRequest struct {
	HousekeeperID string `json:"housekeeperId"`
}

func (h *Handler) PostStartCleaning(c *gin.Context) {
	var req startCleaningRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		badRequest(c, err)
		return
	}
	room, err := h.svc.StartCleaning(c.Request.Context(), mw.ActorFrom(c), c.Param("id"), req.HousekeeperID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

type finishCleaningRequest struct {
	Status        model.RoomStatus `json:"status"`
	QualityRating *int             `json:"qualityRating"`
	Notes         string           `json:"notes"`
}

func (h *Handler) PostFinishCleaning(c *gin.Context) {
	var req finishCleaningRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		badRequest(c, err)
		return
	}
	out := tracker.Outcome{Rating: req.QualityRating, Notes: req.Notes}
	room, err := h.svc.FinishCleaning(c.Request.Context(), mw.ActorFrom(c), c.Param("id"), req.Status, out)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

type cancelCleaningRequest struct {
	Status model.RoomStatus `json:"status"`
	Notes  string           `json:"notes"`
}

func (h *Handler) PostCancelCleaning(c *gin.Context) {
	var req cancelCleaningRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		badRequest(c, err)
		return
	}
	room, err := h.svc.CancelCleaning(c.Request.Context(), mw.ActorFrom(c), c.Param("id"), req.Status, req.Notes)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

func (h *Handler) GetElapsed(c *gin.Context) {
	el, err := h.svc.ElapsedMinutes(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, el)
}

// bindOptionalJSON binds a JSON body when one was sent.
func bindOptionalJSON(c *gin.Context, v any) error {
	if c.Request.ContentLength == 0 {
		return nil
	}
	return c.ShouldBindJSON(v)
}
