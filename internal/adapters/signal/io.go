package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dkeye/Pulse/internal/app"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
)

const writeWait = 10 * time.Second

// Error codes sent back to the originating session.
const (
	errBadPayload      = "bad_payload"
	errUnauthenticated = "unauthenticated"
	errRateLimited     = "rate_limited"
	errOutOfOrder      = "out_of_order"
	errInternal        = "internal"
)

func (ctl *SignalWSController) writePump(ctx context.Context, c *WsSignalConn) {
	ticker := time.NewTicker(ctl.opts.PingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				log.Warn().Err(err).Str("module", "signal").Msg("writePump ping")
				return
			}
		}
	}
}

func (ctl *SignalWSController) readPump(ctx context.Context, s *session, kick context.CancelFunc) {
	defer func() {
		log.Info().Str("module", "signal").Str("sid", string(s.sid)).Msg("readPump closing")
		kick()
		ctl.Orch.Disconnect(context.WithoutCancel(ctx), s.sid)
		if ctl.limiter != nil {
			ctl.limiter.Forget(string(s.sid))
		}
	}()

	pongWait := ctl.opts.PingPeriod * 10 / 9
	_ = s.conn.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.conn.SetPongHandler(func(string) error {
		return s.conn.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := s.conn.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("module", "signal").Str("sid", string(s.sid)).Msg("readPump read error")
			}
			return
		}
		if ctx.Err() != nil {
			return
		}
		_ = s.conn.conn.SetReadDeadline(time.Now().Add(pongWait))
		ctl.handleSignal(ctx, s, data)
	}
}

func (ctl *SignalWSController) handleSignal(ctx context.Context, s *session, data []byte) {
	if !gjson.ValidBytes(data) {
		log.Warn().Str("module", "signal").Str("sid", string(s.sid)).Msg("bad json")
		ctl.sendError(s, errBadPayload)
		return
	}
	typ := gjson.GetBytes(data, "type").String()

	if typ != "ping" && ctl.limiter != nil && !ctl.limiter.Allow(string(s.sid)) {
		ctl.sendError(s, errRateLimited)
		return
	}

	switch typ {
	case "ping":
		ctl.handlePing(s)
	case "pairing:request":
		ctl.handlePairingRequest(s)
	case "typing":
		ctl.handleTyping(s, data, true)
	case "stopTyping":
		ctl.handleTyping(s, data, false)
	case "markMessagesAsSeen":
		ctl.handleMarkSeen(ctx, s, data)
	case "call:user":
		ctl.handleCallUser(ctx, s, data)
	case "call:accepted":
		ctl.handleCallAccepted(s, data)
	case "call:rejected":
		ctl.handleCallRejected(s, data)
	case "ice:candidate":
		ctl.handleICECandidate(s, data)
	case "call:ended":
		ctl.handleCallEnded(ctx, s, data)
	default:
		log.Warn().Str("module", "signal").Str("type", typ).Msg("unknown signal")
	}
}

// decode unmarshals and validates an inbound payload, answering with an
// error event when either step fails.
func (ctl *SignalWSController) decode(s *session, data []byte, v any) bool {
	if err := json.Unmarshal(data, v); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("sid", string(s.sid)).Msg("decode payload")
		ctl.sendError(s, errBadPayload)
		return false
	}
	if err := ctl.validate.Struct(v); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("sid", string(s.sid)).Msg("invalid payload")
		ctl.sendError(s, errBadPayload)
		return false
	}
	return true
}

// identified reports whether the session may send user-scoped events.
func (ctl *SignalWSController) identified(s *session) bool {
	if s.uid != "" {
		return true
	}
	ctl.sendError(s, errUnauthenticated)
	return false
}

func (ctl *SignalWSController) sendError(s *session, code string) {
	ctl.sendJSON(s.conn, app.NewErrorEvent(code))
}

func (ctl *SignalWSController) sendJSON(c *WsSignalConn, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	_ = c.TrySend(b)
}
