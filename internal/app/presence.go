package app

import (
	"context"
	"time"

	"github.com/dkeye/Pulse/internal/core"
	"github.com/dkeye/Pulse/internal/domain"
	"github.com/rs/zerolog/log"
)

// LastSeenWriter is the part of the store presence writes to.
type LastSeenWriter interface {
	UpdateUser(ctx context.Context, id domain.UserID, patch core.UserPatch) error
}

// Presence turns registry mutations into getOnlineUsers snapshots and
// userOffline notices.
type Presence struct {
	Registry     *Registry
	Emit         *Emitter
	Users        LastSeenWriter
	Now          func() time.Time
	WriteTimeout time.Duration
	Retries      int
	RetryBackoff time.Duration
}

func NewPresence(reg *Registry, emit *Emitter, users LastSeenWriter) *Presence {
	return &Presence{
		Registry:     reg,
		Emit:         emit,
		Users:        users,
		Now:          time.Now,
		WriteTimeout: 5 * time.Second,
		Retries:      2,
		RetryBackoff: 100 * time.Millisecond,
	}
}

// Snapshot sends the full set of online users to every session.
func (p *Presence) Snapshot() int {
	users := p.Registry.OnlineUsers()
	return p.Emit.ToAll(OnlineUsersEvent{Head: Head{Type: EventOnlineUsers}, Users: users})
}

// WentOffline records lastSeen and then announces it. A failed write is
// logged and the announcement still goes out.
func (p *Presence) WentOffline(ctx context.Context, uid domain.UserID) time.Time {
	at := p.Now().UTC()
	if err := p.writeLastSeen(ctx, uid, at); err != nil {
		log.Error().Err(err).Str("module", "app.presence").Str("user", string(uid)).Msg("persist lastSeen")
	}
	p.Emit.ToAll(UserOfflineEvent{Head: Head{Type: EventUserOffline}, UserID: uid, LastSeen: at})
	return at
}

func (p *Presence) writeLastSeen(ctx context.Context, uid domain.UserID, at time.Time) error {
	if p.Users == nil {
		return nil
	}
	patch := core.UserPatch{LastSeen: &at}
	var err error
	for attempt := 0; attempt <= p.Retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.RetryBackoff):
			}
		}
		wctx, cancel := context.WithTimeout(ctx, p.WriteTimeout)
		err = p.Users.UpdateUser(wctx, uid, patch)
		cancel()
		if err == nil {
			return nil
		}
		log.Warn().Err(err).Str("module", "app.presence").Str("user", string(uid)).Int("attempt", attempt+1).Msg("lastSeen write failed")
	}
	return err
}
