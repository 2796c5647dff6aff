package push

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/dkeye/Pulse/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestSendPerTokenResults(t *testing.T) {
	var (
		mu     sync.Mutex
		bodies = map[string][]byte{}
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/projects/demo/messages:send", r.URL.Path)
		raw, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		token := gjson.GetBytes(raw, "message.token").String()
		mu.Lock()
		bodies[token] = raw
		mu.Unlock()
		if token == "bad" {
			http.Error(w, `{"error":"UNREGISTERED"}`, http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"name":"projects/demo/messages/1"}`))
	}))
	defer srv.Close()

	f, err := NewFCM(Config{ProjectID: "demo", Endpoint: srv.URL, Concurrency: 2}, srv.Client())
	require.NoError(t, err)

	res, err := f.Send(context.Background(), []string{"good", "bad", "also-good"}, core.PushPayload{
		Title:    "Incoming video call from Alice",
		Body:     "Tap to answer",
		Priority: core.PushHigh,
		Tag:      "incoming-call",
		Data:     map[string]string{"type": "call"},
	})
	require.NoError(t, err)
	require.Len(t, res, 3)
	assert.Equal(t, "good", res[0].Token)
	assert.NoError(t, res[0].Err)
	assert.Error(t, res[1].Err)
	assert.NoError(t, res[2].Err)

	body := bodies["good"]
	assert.Equal(t, "high", gjson.GetBytes(body, "message.android.priority").String())
	assert.Equal(t, "high", gjson.GetBytes(body, "message.webpush.headers.Urgency").String())
	assert.Equal(t, "incoming-call", gjson.GetBytes(body, "message.webpush.notification.tag").String())
	assert.Equal(t, "call", gjson.GetBytes(body, "message.data.type").String())
}

func TestNewFCMNeedsProject(t *testing.T) {
	_, err := NewFCM(Config{}, http.DefaultClient)
	assert.ErrorIs(t, err, ErrNoProject)
}

func TestLogGatewayAcceptsAll(t *testing.T) {
	res, err := LogGateway{}.Send(context.Background(), []string{"a", "b"}, core.PushPayload{Title: "x"})
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.NoError(t, res[1].Err)
}
