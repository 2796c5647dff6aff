package app

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/dkeye/Pulse/internal/core"
	"github.com/dkeye/Pulse/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryStaleUnregisterKeepsNewer(t *testing.T) {
	r := NewRegistry(nil)
	r.BindSession("A", nil, nil)
	r.BindSession("B", nil, nil)

	_, replaced := r.Register("u", "A")
	assert.False(t, replaced)
	prev, replaced := r.Register("u", "B")
	assert.True(t, replaced)
	assert.Equal(t, core.SessionID("A"), prev)

	uid, current, ok := r.Unregister("A")
	require.True(t, ok)
	assert.Equal(t, domain.UserID("u"), uid)
	assert.False(t, current)

	sid, ok := r.Lookup("u")
	require.True(t, ok)
	assert.Equal(t, core.SessionID("B"), sid)
}

func TestRegistryUnregisterIsIdempotent(t *testing.T) {
	r := NewRegistry(nil)
	r.BindSession("A", nil, nil)
	r.Register("u", "A")

	_, current, ok := r.Unregister("A")
	assert.True(t, ok)
	assert.True(t, current)

	_, current, ok = r.Unregister("A")
	assert.False(t, ok)
	assert.False(t, current)
	assert.False(t, r.IsOnline("u"))
}

// Replays random register/unregister sequences against a trivial model.
func TestRegistryLookupFollowsLatestActiveRegister(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 200; round++ {
		r := NewRegistry(nil)
		model := map[domain.UserID]core.SessionID{}
		live := map[core.SessionID]domain.UserID{}
		users := []domain.UserID{"a", "b"}
		next := 0

		for step := 0; step < 30; step++ {
			if rng.Intn(2) == 0 || len(live) == 0 {
				uid := users[rng.Intn(len(users))]
				sid := core.SessionID(fmt.Sprintf("s%d", next))
				next++
				r.BindSession(sid, nil, nil)
				r.Register(uid, sid)
				model[uid] = sid
				live[sid] = uid
			} else {
				var sid core.SessionID
				for s := range live {
					sid = s
					break
				}
				uid := live[sid]
				delete(live, sid)
				r.Unregister(sid)
				if model[uid] == sid {
					delete(model, uid)
				}
			}
			for _, uid := range users {
				want, wantOK := model[uid]
				got, ok := r.Lookup(uid)
				require.Equal(t, wantOK, ok, "round %d step %d user %s", round, step, uid)
				require.Equal(t, want, got)
			}
		}
	}
}

func TestRegistryConcurrentChurn(t *testing.T) {
	r := NewRegistry(nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sid := core.SessionID(fmt.Sprintf("s%d", i))
			uid := domain.UserID(fmt.Sprintf("u%d", i%5))
			r.BindSession(sid, nil, nil)
			r.Register(uid, sid)
			if i%2 == 0 {
				r.Unregister(sid)
			}
		}(i)
	}
	wg.Wait()

	for _, uid := range r.OnlineUsers() {
		sid, ok := r.Lookup(uid)
		require.True(t, ok)
		assert.Equal(t, uid, r.sessions[sid].UserID)
	}
	assert.Equal(t, 25, r.SessionCount())
}

func TestRegistryKickCancelsOwner(t *testing.T) {
	h := newHarness(t)
	h.connect(t, "s1", "alice")
	sess, ok := h.reg.GetSession("s1")
	require.True(t, ok)

	assert.True(t, h.reg.Kick(sess))
	assert.True(t, h.wasKicked("s1"))
}

func TestRouterLeaveAllDropsEmptyRooms(t *testing.T) {
	h := newHarness(t)
	h.connect(t, "s1", "alice")
	require.True(t, h.router.Join("s1", domain.PairingRoom("123456")))
	assert.Len(t, h.router.Resolve(domain.PairingRoom("123456")), 1)

	h.router.LeaveAll("s1")

	_, ok := h.rooms.Get(domain.UserRoom("alice"))
	assert.False(t, ok)
	_, ok = h.rooms.Get(domain.PairingRoom("123456"))
	assert.False(t, ok)
	assert.Empty(t, h.reg.RoomsOf("s1"))
}

func TestRouterJoinUnknownSession(t *testing.T) {
	h := newHarness(t)
	assert.False(t, h.router.Join("ghost", domain.UserRoom("x")))
	assert.Empty(t, h.router.ResolveUser("x"))
}

func TestEmitterKicksSlowMember(t *testing.T) {
	h := newHarness(t)
	h.connect(t, "s1", "alice")
	slow := h.connect(t, "s2", "bob")
	slow.full = true

	sent := h.emit.ToAll(OnlineUsersEvent{Head: Head{Type: EventOnlineUsers}})
	assert.Equal(t, 1, sent)
	assert.True(t, h.wasKicked("s2"))
	assert.False(t, h.wasKicked("s1"))
}

func TestEmitterTolerantPolicyKeepsMember(t *testing.T) {
	h := newHarness(t)
	h.emit.Policy = TolerantPolicy{}
	slow := h.connect(t, "s1", "alice")
	slow.full = true

	assert.Equal(t, 0, h.emit.ToUser("alice", TypingEvent{Head: Head{Type: EventTyping}}))
	assert.False(t, h.wasKicked("s1"))
}
