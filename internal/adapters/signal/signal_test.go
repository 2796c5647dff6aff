package signal

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dkeye/Pulse/internal/app/orch"
	"github.com/dkeye/Pulse/internal/core"
	"github.com/dkeye/Pulse/internal/core/mocks"
	"github.com/dkeye/Pulse/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/mock/gomock"
)

type queryIdentity struct{}

func (queryIdentity) Identify(r *http.Request) (domain.UserID, string, error) {
	uid := r.URL.Query().Get("uid")
	if uid == "" {
		return "", "", errors.New("anonymous")
	}
	return domain.UserID(uid), "", nil
}

func newTestServer(t *testing.T, opts Options) (*httptest.Server, *orch.Orchestrator) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	push := mocks.NewMockPushGateway(ctrl)
	store.EXPECT().UpdateUser(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	store.EXPECT().FindUser(gomock.Any(), gomock.Any()).Return(nil, core.ErrNotFound).AnyTimes()
	store.EXPECT().FindGroup(gomock.Any(), gomock.Any()).Return(nil, core.ErrNotFound).AnyTimes()

	o := orch.New(orch.Options{
		Store:       store,
		Push:        push,
		PairingTTL:  time.Minute,
		CodeDigits:  6,
		RingTimeout: time.Minute,
	})
	ctl := NewSignalWSController(o, queryIdentity{}, opts)

	ctx, cancel := context.WithCancel(context.Background())
	r := gin.New()
	r.GET("/api/ws", func(c *gin.Context) { ctl.HandleSignal(ctx, c) })
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		o.Shutdown()
		cancel()
		srv.Close()
	})
	return srv, o
}

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws"
	if query != "" {
		url += "?" + query
	}
	ws, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = ws.Close() })
	return ws
}

// readUntil skips frames until one of type typ arrives.
func readUntil(t *testing.T, ws *websocket.Conn, typ string) gjson.Result {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		_, data, err := ws.ReadMessage()
		require.NoError(t, err, "waiting for %q", typ)
		if gjson.GetBytes(data, "type").String() == typ {
			return gjson.ParseBytes(data)
		}
	}
}

func send(t *testing.T, ws *websocket.Conn, raw string) {
	t.Helper()
	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte(raw)))
}

func TestPingPong(t *testing.T) {
	srv, _ := newTestServer(t, Options{})
	ws := dial(t, srv, "uid=alice")

	send(t, ws, `{"type":"ping"}`)
	pong := readUntil(t, ws, "pong")
	assert.Greater(t, pong.Get("ts").Int(), int64(0))
}

func TestConnectSendsOnlineSnapshot(t *testing.T) {
	srv, _ := newTestServer(t, Options{})
	alice := dial(t, srv, "uid=alice")
	readUntil(t, alice, "getOnlineUsers")

	dial(t, srv, "uid=bob")
	for {
		ev := readUntil(t, alice, "getOnlineUsers")
		if len(ev.Get("users").Array()) == 2 {
			assert.ElementsMatch(t, []string{"alice", "bob"}, []string{ev.Get("users.0").String(), ev.Get("users.1").String()})
			return
		}
	}
}

func TestTypingRelayed(t *testing.T) {
	srv, o := newTestServer(t, Options{})
	alice := dial(t, srv, "uid=alice")
	bob := dial(t, srv, "uid=bob")
	require.Eventually(t, func() bool { return o.Registry.IsOnline("bob") }, time.Second, 10*time.Millisecond)

	send(t, alice, `{"type":"typing","receiverId":"bob"}`)
	ev := readUntil(t, bob, "typing")
	assert.Equal(t, "alice", ev.Get("senderId").String())

	send(t, alice, `{"type":"stopTyping","receiverId":"bob"}`)
	ev = readUntil(t, bob, "stopTyping")
	assert.Equal(t, "alice", ev.Get("senderId").String())
}

func TestAnonymousCannotSignal(t *testing.T) {
	srv, _ := newTestServer(t, Options{})
	ws := dial(t, srv, "")

	send(t, ws, `{"type":"typing","receiverId":"bob"}`)
	ev := readUntil(t, ws, "error")
	assert.Equal(t, errUnauthenticated, ev.Get("error").String())
}

func TestBadPayloads(t *testing.T) {
	srv, _ := newTestServer(t, Options{})
	ws := dial(t, srv, "uid=alice")

	send(t, ws, `not json`)
	assert.Equal(t, errBadPayload, readUntil(t, ws, "error").Get("error").String())

	send(t, ws, `{"type":"typing"}`)
	assert.Equal(t, errBadPayload, readUntil(t, ws, "error").Get("error").String())

	send(t, ws, `{"type":"call:user","to":"bob","offer":{"type":"answer","sdp":"v=0"}}`)
	assert.Equal(t, errBadPayload, readUntil(t, ws, "error").Get("error").String())

	send(t, ws, `{"type":"call:user","to":"bob","offer":{"type":"offer","sdp":"v=0"},"callType":"hologram"}`)
	assert.Equal(t, errBadPayload, readUntil(t, ws, "error").Get("error").String())
}

func TestCallFlow(t *testing.T) {
	srv, o := newTestServer(t, Options{})
	alice := dial(t, srv, "uid=alice")
	bob := dial(t, srv, "uid=bob")
	require.Eventually(t, func() bool { return o.Registry.IsOnline("bob") }, time.Second, 10*time.Millisecond)

	send(t, alice, `{"type":"call:user","to":"bob","offer":{"type":"offer","sdp":"v=0"},"callType":"audio"}`)
	inc := readUntil(t, bob, "call:incoming")
	assert.Equal(t, "alice", inc.Get("from").String())
	assert.Equal(t, "offer", inc.Get("offer.type").String())
	assert.Equal(t, "audio", inc.Get("callType").String())

	send(t, bob, `{"type":"call:accepted","to":"alice","ans":{"type":"answer","sdp":"v=0"}}`)
	conn := readUntil(t, alice, "call:connected")
	assert.Equal(t, "bob", conn.Get("from").String())
	assert.Equal(t, "answer", conn.Get("ans.type").String())

	send(t, alice, `{"type":"ice:candidate","to":"bob","candidate":{"candidate":"candidate:1 1 udp 1 10.0.0.1 5000 typ host"}}`)
	ice := readUntil(t, bob, "ice:candidate")
	assert.Equal(t, "alice", ice.Get("from").String())

	send(t, bob, `{"type":"call:ended","to":"alice"}`)
	assert.Equal(t, "bob", readUntil(t, alice, "call:ended").Get("from").String())
}

func TestPairingSessionGetsCode(t *testing.T) {
	srv, o := newTestServer(t, Options{})
	ws := dial(t, srv, "isPairing=true")

	code := readUntil(t, ws, "pairing:code").Get("pairingCode").String()
	assert.Len(t, code, 6)

	send(t, ws, `{"type":"pairing:request"}`)
	again := readUntil(t, ws, "pairing:code").Get("pairingCode").String()
	assert.Len(t, again, 6)

	token, err := o.Pairing.Authorize(context.Background(), again, "alice")
	require.NoError(t, err)
	assert.Equal(t, token, readUntil(t, ws, "pairing:authorized").Get("pairingToken").String())
}

func TestRateLimited(t *testing.T) {
	srv, _ := newTestServer(t, Options{RateEvents: 2, RateInterval: time.Minute})
	ws := dial(t, srv, "uid=alice")

	for i := 0; i < 2; i++ {
		send(t, ws, `{"type":"typing","receiverId":"bob"}`)
	}
	send(t, ws, `{"type":"typing","receiverId":"bob"}`)
	assert.Equal(t, errRateLimited, readUntil(t, ws, "error").Get("error").String())

	send(t, ws, `{"type":"ping"}`)
	readUntil(t, ws, "pong")
}

func TestShutdownClosesSockets(t *testing.T) {
	srv, o := newTestServer(t, Options{})
	ws := dial(t, srv, "uid=alice")
	require.Eventually(t, func() bool { return o.Registry.IsOnline("alice") }, time.Second, 10*time.Millisecond)

	assert.Equal(t, 1, o.Shutdown())
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}
	assert.Eventually(t, func() bool { return !o.Registry.IsOnline("alice") }, time.Second, 10*time.Millisecond)
}
