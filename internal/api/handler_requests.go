package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-ops-backend/internal/model"
	"hotel-ops-backend/internal/mw"
	"hotel-ops-backend/internal/service"
	"hotel-ops-backend/internal/store"
)

func (h *Handler) GetRequests(c *gin.Context) {
	f := store.RequestFilter{
		Status:   model.RequestStatus(c.Query("status")),
		Priority: model.RequestPriority(c.Query("priority")),
		Category: c.Query("category"),
		Query:    c.Query("q"),
	}
	reqs, err := h.svc.ListRequests(c.Request.Context(), mw.ActorFrom(c), f)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, reqs)
}

func (h *Handler) GetRequest(c *gin.Context) {
	req, err := h.svc.GetRequest(c.Request.Context(), mw.ActorFrom(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

func (h *Handler) PostRequest(c *gin.Context) {
	var body service.NewRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	req, err := h.svc.CreateRequest(c.Request.Context(), mw.ActorFrom(c), body)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, req)
}

type putRequestStatusRequest struct {
	Status   model.RequestStatus `json:"status" binding:"required"`
	Response string              `json:"response"`
}

func (h *Handler) PutRequestStatus(c *gin.Context) {
	var body putRequestStatusRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	req, err := h.svc.ChangeRequestStatus(c.Request.Context(), mw.ActorFrom(c), c.Param("id"), body.Status, body.Response)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

type putAssigneeRequest struct {
	AssignedTo string `json:"assignedTo"`
}

// PutRequestAssignee assigns a request; without a body the actor takes it.
func (h *Handler) PutRequestAssignee(c *gin.Context) {
	var body putAssigneeRequest
	if err := bindOptionalJSON(c, &body); err != nil {
		badRequest(c, err)
		return
	}
	req, err := h.svc.AssignRequest(c.Request.Context(), mw.ActorFrom(c), c.Param("id"), body.AssignedTo)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

type putRatingRequest struct {
	Rating int `json:"rating" binding:"required"`
}

func (h *Handler) PutRequestRating(c *gin.Context) {
	var body putRatingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	req, err := h.svc.RateRequest(c.Request.Context(), mw.ActorFrom(c), c.Param("id"), body.Rating)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}
