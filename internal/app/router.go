package app

import (
	"github.com/dkeye/Pulse/internal/core"
	"github.com/dkeye/Pulse/internal/domain"
	"github.com/rs/zerolog/log"
)

// Router resolves logical destinations (a user id, a pairing code) to the
// sessions currently joined to them.
type Router struct {
	Registry *Registry
	Rooms    core.RoomManager
}

func NewRouter(reg *Registry, rooms core.RoomManager) *Router {
	return &Router{Registry: reg, Rooms: rooms}
}

// Join puts a live session into room. It fails if the session is already gone.
func (r *Router) Join(sid core.SessionID, room domain.RoomName) bool {
	sess, ok := r.Registry.GetSession(sid)
	if !ok {
		return false
	}
	if !r.Registry.AddRoom(sid, room) {
		return false
	}
	r.Rooms.Join(room, sid, sess)
	log.Info().Str("module", "app.router").Str("sid", string(sid)).Str("room", string(room)).Msg("joined room")
	return true
}

// LeaveAll drops every membership of sid; called once on disconnect.
func (r *Router) LeaveAll(sid core.SessionID) {
	for _, name := range r.Registry.RoomsOf(sid) {
		r.Rooms.Leave(name, sid)
		r.Registry.RemoveRoom(sid, name)
	}
}

func (r *Router) Resolve(room domain.RoomName) []core.MemberSession {
	rs, ok := r.Rooms.Get(room)
	if !ok {
		return nil
	}
	return rs.Sessions()
}

func (r *Router) ResolveUser(uid domain.UserID) []core.MemberSession {
	return r.Resolve(domain.UserRoom(uid))
}
