package signal

import (
	"time"

	"github.com/dkeye/Pulse/internal/app"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) handlePing(s *session) {
	ctl.sendJSON(s.conn, app.NewPongEvent(time.Now()))
}

// handlePairingRequest issues a fresh code, e.g. after the first one expired
// on the screen of the device being linked.
func (ctl *SignalWSController) handlePairingRequest(s *session) {
	if _, err := ctl.Orch.Pairing.RequestCode(s.sid); err != nil {
		log.Error().Err(err).Str("module", "signal").Str("sid", string(s.sid)).Msg("pairing code")
		ctl.sendError(s, errInternal)
	}
}
