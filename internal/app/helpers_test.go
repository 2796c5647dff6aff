package app

import (
	"sync"
	"testing"
	"time"

	"github.com/dkeye/Pulse/internal/core"
	"github.com/dkeye/Pulse/internal/domain"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

type fakeConn struct {
	mu     sync.Mutex
	frames []core.Frame
	full   bool
	closed bool
}

func (c *fakeConn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return core.ErrConnClosed
	}
	if c.full {
		return core.ErrConnClosed
	}
	c.frames = append(c.frames, f)
	return nil
}

func (c *fakeConn) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

// types returns the envelope type of every frame received so far.
func (c *fakeConn) types() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.frames))
	for _, f := range c.frames {
		out = append(out, gjson.GetBytes(f, "type").String())
	}
	return out
}

func (c *fakeConn) ofType(typ string) []gjson.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []gjson.Result
	for _, f := range c.frames {
		if gjson.GetBytes(f, "type").String() == typ {
			out = append(out, gjson.ParseBytes(f))
		}
	}
	return out
}

func (c *fakeConn) last() gjson.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.frames) == 0 {
		return gjson.Result{}
	}
	return gjson.ParseBytes(c.frames[len(c.frames)-1])
}

type harness struct {
	reg    *Registry
	rooms  *RoomManagerImpl
	router *Router
	emit   *Emitter
	conns  map[core.SessionID]*fakeConn
	kicked map[core.SessionID]bool
	mu     sync.Mutex
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	reg := NewRegistry(nil)
	rooms := NewRoomManager()
	router := NewRouter(reg, rooms)
	return &harness{
		reg:    reg,
		rooms:  rooms,
		router: router,
		emit:   NewEmitter(router, SimplePolicy{}, nil),
		conns:  make(map[core.SessionID]*fakeConn),
		kicked: make(map[core.SessionID]bool),
	}
}

// connect binds sid, registers uid on it when given and joins the user room.
func (h *harness) connect(t *testing.T, sid core.SessionID, uid domain.UserID) *fakeConn {
	t.Helper()
	conn := &fakeConn{}
	sess := core.NewMemberSession(domain.NewMember(uid, time.Now(), false), conn)
	h.reg.BindSession(sid, sess, func() {
		h.mu.Lock()
		h.kicked[sid] = true
		h.mu.Unlock()
	})
	if uid != "" {
		h.reg.Register(uid, sid)
		require.True(t, h.router.Join(sid, domain.UserRoom(uid)))
	}
	h.conns[sid] = conn
	return conn
}

func (h *harness) disconnect(sid core.SessionID) {
	h.router.LeaveAll(sid)
	h.reg.Unregister(sid)
}

func (h *harness) wasKicked(sid core.SessionID) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.kicked[sid]
}
