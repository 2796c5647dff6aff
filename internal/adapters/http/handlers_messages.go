package http

import (
	"net/http"

	"github.com/dkeye/Pulse/internal/adapters/auth"
	"github.com/dkeye/Pulse/internal/app/orch"
	"github.com/dkeye/Pulse/internal/domain"
	"github.com/gin-gonic/gin"
)

type reactionRequest struct {
	Emoji string `json:"emoji" binding:"max=32"`
}

type createGroupRequest struct {
	Name     string          `json:"name" binding:"required,max=100"`
	Members  []domain.UserID `json:"members" binding:"required,min=1,dive,required"`
	GroupPic string          `json:"groupPic"`
}

func (h *api) sendMessage(c *gin.Context) {
	var d orch.Draft
	if err := c.ShouldBindJSON(&d); err != nil {
		badRequest(c, err)
		return
	}
	msg, err := h.orch.SendMessage(c.Request.Context(), auth.UserID(c), domain.UserID(c.Param("id")), d)
	if err != nil {
		fail(c, "send-message", err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func (h *api) sidebar(c *gin.Context) {
	entries, err := h.orch.Sidebar(c.Request.Context(), auth.UserID(c))
	if err != nil {
		fail(c, "sidebar", err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *api) conversation(c *gin.Context) {
	msgs, err := h.orch.Conversation(c.Request.Context(), auth.UserID(c), domain.UserID(c.Param("id")))
	if err != nil {
		fail(c, "conversation", err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

func (h *api) react(c *gin.Context) {
	var req reactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	msg, err := h.orch.React(c.Request.Context(), auth.UserID(c), domain.MessageID(c.Param("id")), req.Emoji)
	if err != nil {
		fail(c, "react", err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

func (h *api) createGroup(c *gin.Context) {
	var req createGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	g, err := h.orch.CreateGroup(c.Request.Context(), auth.UserID(c), req.Name, req.Members, req.GroupPic)
	if err != nil {
		fail(c, "create-group", err)
		return
	}
	c.JSON(http.StatusCreated, g)
}

func (h *api) groups(c *gin.Context) {
	gs, err := h.orch.Groups(c.Request.Context(), auth.UserID(c))
	if err != nil {
		fail(c, "groups", err)
		return
	}
	c.JSON(http.StatusOK, gs)
}

func (h *api) sendGroupMessage(c *gin.Context) {
	var d orch.Draft
	if err := c.ShouldBindJSON(&d); err != nil {
		badRequest(c, err)
		return
	}
	msg, err := h.orch.SendGroupMessage(c.Request.Context(), auth.UserID(c), domain.GroupID(c.Param("id")), d)
	if err != nil {
		fail(c, "send-group-message", err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func (h *api) groupHistory(c *gin.Context) {
	msgs, err := h.orch.GroupHistory(c.Request.Context(), auth.UserID(c), domain.GroupID(c.Param("id")))
	if err != nil {
		fail(c, "group-history", err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}
