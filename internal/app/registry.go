package app

import (
	"context"
	"slices"
	"sync"

	"github.com/dkeye/Pulse/internal/core"
	"github.com/dkeye/Pulse/internal/domain"
	"github.com/dkeye/Pulse/internal/metrics"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

type sessionEntry struct {
	UserID  domain.UserID
	Session core.MemberSession
	Rooms   map[domain.RoomName]struct{}
	Cancel  context.CancelFunc
}

// Registry is the authoritative map of live sessions and of the one session
// each user is reachable on. Every method is synchronous and never blocks on I/O.
type Registry struct {
	mu       sync.RWMutex
	sessions map[core.SessionID]*sessionEntry
	users    map[domain.UserID]core.SessionID
	metrics  *metrics.Metrics
}

func NewRegistry(m *metrics.Metrics) *Registry {
	return &Registry{
		sessions: make(map[core.SessionID]*sessionEntry),
		users:    make(map[domain.UserID]core.SessionID),
		metrics:  m,
	}
}

func (r *Registry) entry(sid core.SessionID) *sessionEntry {
	e, ok := r.sessions[sid]
	if !ok {
		e = &sessionEntry{Rooms: make(map[domain.RoomName]struct{})}
		r.sessions[sid] = e
	}
	return e
}

// BindSession records a live transport session. cancel tears the connection down.
func (r *Registry) BindSession(sid core.SessionID, sess core.MemberSession, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.entry(sid)
	e.Session = sess
	e.Cancel = cancel
	r.metrics.SetOnline(len(r.users), len(r.sessions))
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("bound session")
}

// Register makes sid the session uid is reachable on. The most recent call
// wins; a previous session of the same user is left running and reported back.
func (r *Registry) Register(uid domain.UserID, sid core.SessionID) (core.SessionID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.entry(sid)
	e.UserID = uid
	prev, had := r.users[uid]
	r.users[uid] = sid
	r.metrics.SetOnline(len(r.users), len(r.sessions))
	replaced := had && prev != sid
	ev := log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("user", string(uid))
	if replaced {
		ev = ev.Str("evicted_sid", string(prev))
	}
	ev.Msg("registered user")
	return prev, replaced
}

// Unregister forgets sid. The user mapping is only dropped while it still
// points at sid, so a late disconnect never evicts a newer reconnect.
// Calling it twice is harmless; ok is false the second time.
func (r *Registry) Unregister(sid core.SessionID) (uid domain.UserID, current bool, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[sid]
	if !ok {
		return "", false, false
	}
	delete(r.sessions, sid)
	uid = e.UserID
	if uid != "" && r.users[uid] == sid {
		delete(r.users, uid)
		current = true
	}
	r.metrics.SetOnline(len(r.users), len(r.sessions))
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("user", string(uid)).Bool("current", current).Msg("unbind session")
	return uid, current, true
}

func (r *Registry) Lookup(uid domain.UserID) (core.SessionID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sid, ok := r.users[uid]
	return sid, ok
}

func (r *Registry) IsOnline(uid domain.UserID) bool {
	_, ok := r.Lookup(uid)
	return ok
}

// OnlineUsers returns the sorted ids of every user with a live session.
func (r *Registry) OnlineUsers() []domain.UserID {
	r.mu.RLock()
	out := lo.Keys(r.users)
	r.mu.RUnlock()
	slices.Sort(out)
	return out
}

func (r *Registry) GetSession(sid core.SessionID) (core.MemberSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.sessions[sid]; ok && e.Session != nil {
		return e.Session, true
	}
	return nil, false
}

func (r *Registry) SessionCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// AddRoom records room membership so it can be undone on disconnect.
func (r *Registry) AddRoom(sid core.SessionID, room domain.RoomName) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[sid]
	if !ok {
		return false
	}
	e.Rooms[room] = struct{}{}
	log.Debug().Str("module", "app.registry").Str("sid", string(sid)).Str("room", string(room)).Msg("added room")
	return true
}

func (r *Registry) RemoveRoom(sid core.SessionID, room domain.RoomName) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.sessions[sid]; ok {
		delete(e.Rooms, room)
	}
}

func (r *Registry) RoomsOf(sid core.SessionID) []domain.RoomName {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[sid]
	if !ok {
		return nil
	}
	out := make([]domain.RoomName, 0, len(e.Rooms))
	for name := range e.Rooms {
		out = append(out, name)
	}
	return out
}

// SessionSnap pairs a session id with its session.
type SessionSnap struct {
	SID     core.SessionID
	Session core.MemberSession
}

// Sessions snapshots every bound session so callers can send without the lock.
func (r *Registry) Sessions() []SessionSnap {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]SessionSnap, 0, len(r.sessions))
	for sid, e := range r.sessions {
		if e.Session == nil {
			continue
		}
		out = append(out, SessionSnap{SID: sid, Session: e.Session})
	}
	return out
}

func (r *Registry) Cancel(sid core.SessionID) bool {
	r.mu.RLock()
	e, ok := r.sessions[sid]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	if e.Cancel != nil {
		e.Cancel()
	}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("canceled session")
	return true
}

// Kick cancels whichever session owns sess.
func (r *Registry) Kick(sess core.MemberSession) bool {
	r.mu.RLock()
	var target core.SessionID
	for sid, e := range r.sessions {
		if e.Session == sess {
			target = sid
			break
		}
	}
	r.mu.RUnlock()
	if target == "" {
		return false
	}
	return r.Cancel(target)
}
