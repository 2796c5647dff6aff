package http

import (
	"net/http"

	"github.com/dkeye/Pulse/internal/adapters/auth"
	"github.com/dkeye/Pulse/internal/app/orch"
	"github.com/dkeye/Pulse/internal/domain"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const sessionDeviceKey = "device_id"

type pairRequest struct {
	Code string `json:"code" binding:"required,numeric,min=4,max=12"`
}

type loginTokenRequest struct {
	Token      string `json:"token" binding:"required,uuid"`
	DeviceID   string `json:"deviceId" binding:"required,max=128"`
	DeviceName string `json:"deviceName" binding:"max=256"`
	UserAgent  string `json:"userAgent"`
}

type deviceRequest struct {
	DeviceID string `json:"deviceId" binding:"required,max=128"`
}

// pair is called by the already signed-in device after scanning the code.
func (h *api) pair(c *gin.Context) {
	var req pairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if _, err := h.orch.Pairing.Authorize(c.Request.Context(), req.Code, auth.UserID(c)); err != nil {
		fail(c, "pair", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// loginWithToken redeems a pairing token on the new device.
func (h *api) loginWithToken(c *gin.Context) {
	var req loginTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.UserAgent == "" {
		req.UserAgent = c.Request.UserAgent()
	}
	user, dev, err := h.orch.Pairing.Redeem(c.Request.Context(), req.Token, domain.DeviceInfo{
		DeviceID:   req.DeviceID,
		DeviceName: req.DeviceName,
		UserAgent:  req.UserAgent,
	})
	if err != nil {
		fail(c, "login-token", err)
		return
	}
	jwt, err := h.auth.Issue(user.ID, dev.DeviceID)
	if err != nil {
		fail(c, "login-token", err)
		return
	}
	h.auth.SetCookie(c, jwt, h.secure)

	s := sessions.Default(c)
	s.Set(sessionDeviceKey, dev.DeviceID)
	if err := s.Save(); err != nil {
		log.Warn().Err(err).Str("module", "adapters.http").Msg("save session")
	}
	c.JSON(http.StatusOK, user)
}

// deviceOf prefers the device bound into the token, then the cookie session.
func deviceOf(c *gin.Context) string {
	if did := auth.DeviceID(c); did != "" {
		return did
	}
	if v, ok := sessions.Default(c).Get(sessionDeviceKey).(string); ok {
		return v
	}
	return ""
}

func (h *api) check(c *gin.Context) {
	uid := auth.UserID(c)
	ctx := c.Request.Context()
	if err := h.orch.TouchDevice(ctx, uid, deviceOf(c)); err != nil {
		log.Debug().Err(err).Str("module", "adapters.http").Str("user", string(uid)).Msg("touch device")
	}
	user, err := h.orch.Profile(ctx, uid)
	if err != nil {
		fail(c, "check", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *api) devices(c *gin.Context) {
	devs, err := h.orch.Devices(c.Request.Context(), auth.UserID(c))
	if err != nil {
		fail(c, "devices", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"devices": devs, "current": deviceOf(c)})
}

func (h *api) removeDevice(c *gin.Context) {
	var req deviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.orch.RemoveDevice(c.Request.Context(), auth.UserID(c), req.DeviceID); err != nil {
		fail(c, "remove-device", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *api) updateProfile(c *gin.Context) {
	var req orch.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	user, err := h.orch.UpdateProfile(c.Request.Context(), auth.UserID(c), req)
	if err != nil {
		fail(c, "profile", err)
		return
	}
	c.JSON(http.StatusOK, user)
}
