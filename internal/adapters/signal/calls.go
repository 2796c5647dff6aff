package signal

import (
	"context"
	"errors"

	"github.com/dkeye/Pulse/internal/app"
	"github.com/dkeye/Pulse/internal/domain"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
)

type callUserPayload struct {
	To       string                    `json:"to" validate:"required,max=128"`
	Offer    webrtc.SessionDescription `json:"offer"`
	CallType string                    `json:"callType" validate:"omitempty,oneof=audio video"`
}

type callAcceptedPayload struct {
	To  domain.UserID             `json:"to" validate:"required,max=128"`
	Ans webrtc.SessionDescription `json:"ans"`
}

type callPeerPayload struct {
	To string `json:"to" validate:"required,max=128"`
}

type icePayload struct {
	To        domain.UserID           `json:"to" validate:"required,max=128"`
	Candidate webrtc.ICECandidateInit `json:"candidate"`
}

func (ctl *SignalWSController) handleCallUser(ctx context.Context, s *session, data []byte) {
	if !ctl.identified(s) {
		return
	}
	var p callUserPayload
	if !ctl.decode(s, data, &p) {
		return
	}
	if p.Offer.Type != webrtc.SDPTypeOffer || p.Offer.SDP == "" {
		ctl.sendError(s, errBadPayload)
		return
	}
	media, err := domain.ParseCallType(p.CallType)
	if err != nil {
		ctl.sendError(s, errBadPayload)
		return
	}
	res := ctl.Orch.Calls.Invite(ctx, s.uid, p.To, p.Offer, media)
	log.Debug().Str("module", "signal").Str("from", string(s.uid)).Str("to", p.To).
		Bool("group", res.Group).Int("relayed", res.Relayed).Bool("pushed", res.Pushed).Msg("call:user")
}

func (ctl *SignalWSController) handleCallAccepted(s *session, data []byte) {
	if !ctl.identified(s) {
		return
	}
	var p callAcceptedPayload
	if !ctl.decode(s, data, &p) {
		return
	}
	if p.Ans.Type != webrtc.SDPTypeAnswer || p.Ans.SDP == "" {
		ctl.sendError(s, errBadPayload)
		return
	}
	_, err := ctl.Orch.Calls.Accept(s.uid, p.To, p.Ans)
	ctl.callResult(s, err)
}

func (ctl *SignalWSController) handleCallRejected(s *session, data []byte) {
	if !ctl.identified(s) {
		return
	}
	var p callPeerPayload
	if !ctl.decode(s, data, &p) {
		return
	}
	_, err := ctl.Orch.Calls.Reject(s.uid, domain.UserID(p.To))
	ctl.callResult(s, err)
}

func (ctl *SignalWSController) handleICECandidate(s *session, data []byte) {
	if !ctl.identified(s) {
		return
	}
	var p icePayload
	if !ctl.decode(s, data, &p) {
		return
	}
	if p.Candidate.Candidate == "" {
		ctl.sendError(s, errBadPayload)
		return
	}
	_, err := ctl.Orch.Calls.ICECandidate(s.uid, p.To, p.Candidate)
	ctl.callResult(s, err)
}

func (ctl *SignalWSController) handleCallEnded(ctx context.Context, s *session, data []byte) {
	if !ctl.identified(s) {
		return
	}
	var p callPeerPayload
	if !ctl.decode(s, data, &p) {
		return
	}
	_, err := ctl.Orch.Calls.End(ctx, s.uid, p.To)
	ctl.callResult(s, err)
}

func (ctl *SignalWSController) callResult(s *session, err error) {
	switch {
	case err == nil:
	case errors.Is(err, app.ErrOutOfOrder):
		ctl.sendError(s, errOutOfOrder)
	default:
		log.Error().Err(err).Str("module", "signal").Str("user", string(s.uid)).Msg("call signal")
		ctl.sendError(s, errInternal)
	}
}
