package orch

import (
	"context"

	"github.com/dkeye/Pulse/internal/core"
	"github.com/dkeye/Pulse/internal/domain"
	"github.com/rs/zerolog/log"
)

// Connect admits a new transport session. An identified session joins its
// user room; a pairing session gets a code. Every connect is followed by a
// presence snapshot.
func (o *Orchestrator) Connect(ctx context.Context, sid core.SessionID, sess core.MemberSession, cancel context.CancelFunc) {
	meta := sess.Meta()
	o.Registry.BindSession(sid, sess, cancel)

	if meta.Identified() {
		if prev, replaced := o.Registry.Register(meta.UserID, sid); replaced {
			log.Info().Str("module", "orch").Str("user", string(meta.UserID)).Str("prev_sid", string(prev)).Msg("user reconnected on a new session")
		}
		o.Router.Join(sid, domain.UserRoom(meta.UserID))
	}
	o.Presence.Snapshot()

	if meta.Pairing {
		if _, err := o.Pairing.RequestCode(sid); err != nil {
			log.Error().Err(err).Str("module", "orch").Str("sid", string(sid)).Msg("pairing code")
		}
	}
}

// Disconnect retires sid. It is safe to call more than once.
func (o *Orchestrator) Disconnect(ctx context.Context, sid core.SessionID) {
	o.Router.LeaveAll(sid)
	uid, current, ok := o.Registry.Unregister(sid)
	if !ok {
		return
	}
	if current {
		o.Calls.Tracker.DropUser(uid)
		o.Presence.WentOffline(ctx, uid)
	}
	o.Presence.Snapshot()
}

// KickBySID cancels the connection; the adapter then calls Disconnect.
func (o *Orchestrator) KickBySID(sid core.SessionID) bool {
	return o.Registry.Cancel(sid)
}

// Shutdown cancels every live session.
func (o *Orchestrator) Shutdown() int {
	n := 0
	for _, snap := range o.Registry.Sessions() {
		if o.KickBySID(snap.SID) {
			n++
		}
	}
	return n
}

func (o *Orchestrator) Online() []domain.UserID {
	return o.Registry.OnlineUsers()
}
