package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/dkeye/Pulse/internal/app/orch"
	"github.com/dkeye/Pulse/internal/core"
	"github.com/dkeye/Pulse/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var ErrBackpressure = errors.New("backpressure")

// Identifier resolves who is connecting. A failure leaves the session anonymous.
type Identifier interface {
	Identify(r *http.Request) (domain.UserID, string, error)
}

type Options struct {
	ReadLimit      int64
	PingPeriod     time.Duration
	SendBuffer     int
	AllowedOrigins []string
	RateEvents     int
	RateInterval   time.Duration
}

type SignalWSController struct {
	Orch     *orch.Orchestrator
	Auth     Identifier
	opts     Options
	limiter  *RateLimiter
	validate *validator.Validate
	upgrader websocket.Upgrader
}

func NewSignalWSController(o *orch.Orchestrator, auth Identifier, opts Options) *SignalWSController {
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = 32
	}
	if opts.PingPeriod <= 0 {
		opts.PingPeriod = 54 * time.Second
	}
	ctl := &SignalWSController{
		Orch:     o,
		Auth:     auth,
		opts:     opts,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	if opts.RateEvents > 0 && opts.RateInterval > 0 {
		ctl.limiter = NewRateLimiter(opts.RateEvents, opts.RateInterval)
	}
	origins := NewOriginChecker(opts.AllowedOrigins)
	ctl.upgrader = websocket.Upgrader{CheckOrigin: origins.Check}
	return ctl
}

type WsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return core.ErrConnClosed
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *WsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

// session is the per-connection state the handlers see.
type session struct {
	sid  core.SessionID
	uid  domain.UserID
	conn *WsSignalConn
}

func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	sid := core.SessionID(uuid.NewString())
	var uid domain.UserID
	if ctl.Auth != nil {
		if id, _, err := ctl.Auth.Identify(c.Request); err == nil {
			uid = id
		}
	}
	pairing := c.Query("isPairing") == "true"
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("user", string(uid)).Bool("pairing", pairing).Msg("new WS connection")

	ws, err := ctl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	if ctl.opts.ReadLimit > 0 {
		ws.SetReadLimit(ctl.opts.ReadLimit)
	}

	conn := &WsSignalConn{
		conn: ws,
		send: make(chan core.Frame, ctl.opts.SendBuffer),
	}
	meta := domain.NewMember(uid, time.Now().UTC(), pairing)
	sess := core.NewMemberSession(meta, conn)

	ctx, cancel := context.WithCancel(ctx)
	kick := func() {
		cancel()
		conn.Close()
	}
	ctl.Orch.Connect(ctx, sid, sess, kick)

	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, &session{sid: sid, uid: uid, conn: conn}, kick)
}
