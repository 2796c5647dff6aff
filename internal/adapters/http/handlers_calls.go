package http

import (
	"net/http"

	"github.com/dkeye/Pulse/internal/adapters/auth"
	"github.com/dkeye/Pulse/internal/app"
	"github.com/dkeye/Pulse/internal/domain"
	"github.com/gin-gonic/gin"
)

type pushTokenRequest struct {
	Token string `json:"token" binding:"required,max=4096"`
}

type logCallRequest struct {
	ReceiverID domain.UserID `json:"receiverId" binding:"required"`
	Type       string        `json:"type"`
	Status     string        `json:"status"`
	Duration   int           `json:"duration" binding:"min=0"`
}

func (h *api) addPushToken(c *gin.Context) {
	var req pushTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.orch.AddPushToken(c.Request.Context(), auth.UserID(c), req.Token); err != nil {
		fail(c, "add-push-token", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *api) removePushToken(c *gin.Context) {
	var req pushTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.orch.RemovePushToken(c.Request.Context(), auth.UserID(c), req.Token); err != nil {
		fail(c, "remove-push-token", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *api) logCall(c *gin.Context) {
	var req logCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	typ, err := domain.ParseCallType(req.Type)
	if err != nil {
		fail(c, "log-call", err)
		return
	}
	status, err := domain.ParseCallStatus(req.Status)
	if err != nil {
		fail(c, "log-call", err)
		return
	}
	rec, err := h.orch.Calls.LogCall(c.Request.Context(), auth.UserID(c), app.LogCallRequest{
		ReceiverID: req.ReceiverID,
		Type:       typ,
		Status:     status,
		Duration:   req.Duration,
	})
	if err != nil {
		fail(c, "log-call", err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (h *api) callHistory(c *gin.Context) {
	recs, err := h.orch.Calls.History(c.Request.Context(), auth.UserID(c))
	if err != nil {
		fail(c, "call-history", err)
		return
	}
	c.JSON(http.StatusOK, recs)
}

func (h *api) iceServers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"iceServers": h.ice.ICEServers})
}
