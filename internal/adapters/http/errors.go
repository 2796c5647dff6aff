package http

import (
	"errors"
	"net/http"

	"github.com/dkeye/Pulse/internal/app"
	"github.com/dkeye/Pulse/internal/app/orch"
	"github.com/dkeye/Pulse/internal/core"
	"github.com/dkeye/Pulse/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, orch.ErrEmptyMessage),
		errors.Is(err, orch.ErrBadGroup),
		errors.Is(err, domain.ErrDeviceIDEmpty),
		errors.Is(err, domain.ErrDeviceIDTooLong),
		errors.Is(err, domain.ErrCallType),
		errors.Is(err, domain.ErrCallStatus),
		errors.Is(err, domain.ErrVisibility):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, orch.ErrNotMember), errors.Is(err, app.ErrNotParticipant):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, app.ErrTokenNotFound):
		return http.StatusUnauthorized, "Invalid or expired token"
	case errors.Is(err, app.ErrPairingCodeUnknown):
		return http.StatusNotFound, "Invalid or expired pairing code"
	}
	return http.StatusInternalServerError, "Internal server error"
}

func fail(c *gin.Context, op string, err error) {
	code, msg := statusOf(err)
	if code >= http.StatusInternalServerError {
		log.Error().Err(err).Str("module", "adapters.http").Str("op", op).Msg("request failed")
	}
	c.JSON(code, gin.H{"error": msg})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
