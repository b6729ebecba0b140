package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-ops-backend/internal/model"
	"hotel-ops-backend/internal/mw"
	"hotel-ops-backend/internal/service"
	"hotel-ops-backend/internal/store"
)

func (h *Handler) GetTasks(c *gin.Context) {
	f := store.TaskFilter{
		Status:     model.TaskStatus(c.Query("status")),
		Priority:   model.TaskPriority(c.Query("priority")),
		Category:   c.Query("category"),
		Query:      c.Query("q"),
		AssignedTo: c.Query("assignee"),
	}
	tasks, err := h.svc.ListTasks(c.Request.Context(), f)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *Handler) PostTask(c *gin.Context) {
	var body service.NewTask
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	task, err := h.svc.CreateTask(c.Request.Context(), mw.ActorFrom(c), body)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

type putTaskStatusRequest struct {
	Status model.TaskStatus `json:"status" binding:"required"`
}

func (h *Handler) PutTaskStatus(c *gin.Context) {
	var body putTaskStatusRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	task, err := h.svc.ChangeTaskStatus(c.Request.Context(), mw.ActorFrom(c), c.Param("id"), body.Status)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *Handler) PutTaskAssignee(c *gin.Context) {
	var body putAssigneeRequest
	if err := bindOptionalJSON(c, &body); err != nil {
		badRequest(c, err)
		return
	}
	task, err := h.svc.AssignTask(c.Request.Context(), mw.ActorFrom(c), c.Param("id"), body.AssignedTo)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}
