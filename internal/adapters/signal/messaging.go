package signal

import (
	"context"

	"github.com/dkeye/Pulse/internal/domain"
	"github.com/rs/zerolog/log"
)

type typingPayload struct {
	ReceiverID domain.UserID `json:"receiverId" validate:"required,max=128"`
}

type seenPayload struct {
	SenderID domain.UserID `json:"senderId" validate:"required,max=128"`
}

func (ctl *SignalWSController) handleTyping(s *session, data []byte, typing bool) {
	if !ctl.identified(s) {
		return
	}
	var p typingPayload
	if !ctl.decode(s, data, &p) {
		return
	}
	if typing {
		ctl.Orch.Relay.Typing(s.uid, p.ReceiverID)
		return
	}
	ctl.Orch.Relay.StopTyping(s.uid, p.ReceiverID)
}

func (ctl *SignalWSController) handleMarkSeen(ctx context.Context, s *session, data []byte) {
	if !ctl.identified(s) {
		return
	}
	var p seenPayload
	if !ctl.decode(s, data, &p) {
		return
	}
	if _, err := ctl.Orch.Relay.MarkSeen(ctx, s.uid, p.SenderID); err != nil {
		log.Error().Err(err).Str("module", "signal").Str("user", string(s.uid)).Msg("mark seen")
		ctl.sendError(s, errInternal)
	}
}
