package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dkeye/Pulse/internal/domain"
	"github.com/rs/zerolog/log"
)

type CallState int

const (
	CallIdle CallState = iota
	CallRinging
	CallConnected
)

func (s CallState) String() string {
	switch s {
	case CallRinging:
		return "ringing"
	case CallConnected:
		return "connected"
	}
	return "idle"
}

// ErrOutOfOrder reports a signaling event with no matching prior step.
var ErrOutOfOrder = errors.New("call event out of order")

type callKey struct {
	caller domain.UserID
	callee domain.UserID
}

type callEntry struct {
	state CallState
	since time.Time
}

// CallTracker materialises per (caller, callee) call state. Rejected and
// ended calls go straight back to idle. Ringing expires after RingTimeout.
type CallTracker struct {
	RingTimeout time.Duration
	Now         func() time.Time

	mu    sync.Mutex
	calls map[callKey]callEntry
}

func NewCallTracker(ringTimeout time.Duration) *CallTracker {
	return &CallTracker{
		RingTimeout: ringTimeout,
		Now:         time.Now,
		calls:       make(map[callKey]callEntry),
	}
}

// expired must be called with mu held.
func (t *CallTracker) expired(e callEntry) bool {
	return e.state == CallRinging && t.RingTimeout > 0 && t.Now().Sub(e.since) > t.RingTimeout
}

// lookup must be called with mu held.
func (t *CallTracker) lookup(k callKey) (callEntry, bool) {
	e, ok := t.calls[k]
	if !ok {
		return e, false
	}
	if t.expired(e) {
		delete(t.calls, k)
		return callEntry{}, false
	}
	return e, true
}

// Invite always succeeds; a repeated invite restarts ringing.
func (t *CallTracker) Invite(caller, callee domain.UserID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls[callKey{caller, callee}] = callEntry{state: CallRinging, since: t.Now()}
}

func (t *CallTracker) Accept(callee, caller domain.UserID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	k := callKey{caller, callee}
	e, ok := t.lookup(k)
	if !ok || e.state != CallRinging {
		return ErrOutOfOrder
	}
	t.calls[k] = callEntry{state: CallConnected, since: t.Now()}
	return nil
}

func (t *CallTracker) Reject(callee, caller domain.UserID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	k := callKey{caller, callee}
	e, ok := t.lookup(k)
	if !ok || e.state != CallRinging {
		return ErrOutOfOrder
	}
	delete(t.calls, k)
	return nil
}

// Candidate accepts ICE from either side of a ringing or connected call.
func (t *CallTracker) Candidate(from, to domain.UserID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.lookup(callKey{from, to}); ok {
		return nil
	}
	if _, ok := t.lookup(callKey{to, from}); ok {
		return nil
	}
	return ErrOutOfOrder
}

func (t *CallTracker) End(from, to domain.UserID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	found := false
	for _, k := range []callKey{{from, to}, {to, from}} {
		if _, ok := t.lookup(k); ok {
			delete(t.calls, k)
			found = true
		}
	}
	if !found {
		return ErrOutOfOrder
	}
	return nil
}

func (t *CallTracker) State(caller, callee domain.UserID) CallState {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.lookup(callKey{caller, callee})
	if !ok {
		return CallIdle
	}
	return e.state
}

// DropUser forgets every call uid takes part in. Returns the peers.
func (t *CallTracker) DropUser(uid domain.UserID) []domain.UserID {
	t.mu.Lock()
	defer t.mu.Unlock()
	var peers []domain.UserID
	for k := range t.calls {
		switch uid {
		case k.caller:
			peers = append(peers, k.callee)
		case k.callee:
			peers = append(peers, k.caller)
		default:
			continue
		}
		delete(t.calls, k)
	}
	return peers
}

func (t *CallTracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.calls)
}

// Sweep drops unanswered calls that rang past RingTimeout.
func (t *CallTracker) Sweep() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for k, e := range t.calls {
		if t.expired(e) {
			delete(t.calls, k)
			n++
		}
	}
	return n
}

// Run sweeps every interval until ctx is done.
func (t *CallTracker) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	tk := time.NewTicker(interval)
	defer tk.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tk.C:
			if n := t.Sweep(); n > 0 {
				log.Debug().Str("module", "app.calls").Int("expired", n).Msg("swept ringing calls")
			}
		}
	}
}
