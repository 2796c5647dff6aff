package app

import (
	"encoding/json"

	"github.com/dkeye/Pulse/internal/core"
	"github.com/dkeye/Pulse/internal/domain"
	"github.com/dkeye/Pulse/internal/metrics"
	"github.com/rs/zerolog/log"
)

// Emitter encodes events and hands them to resolved sessions. Sends never
// block: a full buffer is reported to the backpressure policy.
type Emitter struct {
	Router   *Router
	Registry *Registry
	Policy   Policy
	Metrics  *metrics.Metrics
}

func NewEmitter(router *Router, policy Policy, m *metrics.Metrics) *Emitter {
	return &Emitter{Router: router, Registry: router.Registry, Policy: policy, Metrics: m}
}

func (e *Emitter) encode(ev Event) (core.Frame, bool) {
	b, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Str("module", "app.emitter").Str("event", ev.EventType()).Msg("marshal event")
		return nil, false
	}
	return b, true
}

// ToRoom delivers ev to every member of room except from and returns how
// many sessions accepted it. An unknown or empty room is a silent no-op.
func (e *Emitter) ToRoom(room domain.RoomName, from core.SessionID, ev Event) int {
	rs, ok := e.Router.Rooms.Get(room)
	if !ok {
		return 0
	}
	frame, ok := e.encode(ev)
	if !ok {
		return 0
	}
	res := rs.Broadcast(from, frame)
	e.handleDropped(rs, res.Dropped)
	if res.SendTo > 0 {
		e.Metrics.Relayed(ev.EventType())
	}
	return res.SendTo
}

func (e *Emitter) ToUser(uid domain.UserID, ev Event) int {
	if uid == "" {
		return 0
	}
	return e.ToRoom(domain.UserRoom(uid), "", ev)
}

func (e *Emitter) ToSession(sid core.SessionID, ev Event) bool {
	sess, ok := e.Registry.GetSession(sid)
	if !ok {
		return false
	}
	frame, ok := e.encode(ev)
	if !ok {
		return false
	}
	if err := sess.Signal().TrySend(frame); err != nil {
		e.handleDropped(nil, []core.MemberSession{sess})
		return false
	}
	e.Metrics.Relayed(ev.EventType())
	return true
}

// ToAll delivers ev to every bound session, identified or not.
func (e *Emitter) ToAll(ev Event) int {
	frame, ok := e.encode(ev)
	if !ok {
		return 0
	}
	sent := 0
	var dropped []core.MemberSession
	for _, snap := range e.Registry.Sessions() {
		if err := snap.Session.Signal().TrySend(frame); err != nil {
			dropped = append(dropped, snap.Session)
			continue
		}
		sent++
	}
	e.handleDropped(nil, dropped)
	if sent > 0 {
		e.Metrics.Relayed(ev.EventType())
	}
	return sent
}

func (e *Emitter) handleDropped(room core.RoomService, dropped []core.MemberSession) {
	e.Metrics.Dropped(len(dropped))
	if e.Policy == nil {
		return
	}
	for _, slow := range dropped {
		switch e.Policy.OnBackPressure(room, slow) {
		case KickMember:
			if e.Registry.Kick(slow) {
				log.Warn().Str("module", "app.emitter").Str("user", string(slow.Meta().UserID)).Msg("kicked slow member")
			}
		case MarkSlow, DropFrame, NoAction:
		}
	}
}
