package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-ops-backend/internal/mw"
)

func (h *Handler) GetChatRooms(c *gin.Context) {
	rooms, err := h.svc.ListChatRooms(c.Request.Context(), mw.ActorFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// GetChatRoom returns the conversation and marks it read for the caller.
func (h *Handler) GetChatRoom(c *gin.Context) {
	conv, err := h.svc.OpenChatRoom(c.Request.Context(), mw.ActorFrom(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, conv)
}

type postMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *Handler) PostChatMessage(c *gin.Context) {
	var body postMessageRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	msg, err := h.svc.SendMessage(c.Request.Context(), mw.ActorFrom(c), c.Param("id"), body.Content)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}
