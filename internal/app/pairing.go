package app

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/dkeye/Pulse/internal/core"
	"github.com/dkeye/Pulse/internal/domain"
	"github.com/dkeye/Pulse/internal/metrics"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	ErrTokenNotFound      = errors.New("pairing token not found")
	ErrPairingCodeUnknown = errors.New("pairing code unknown")
	ErrSessionGone        = errors.New("session gone")
)

type DeviceLinker interface {
	UpsertLinkedDevice(ctx context.Context, id domain.UserID, dev domain.LinkedDevice) (*domain.User, error)
}

type pairingToken struct {
	owner     domain.UserID
	createdAt time.Time
}

// PairingBroker links a new device to an account approved from an already
// signed-in device. The new device waits in the pairing:<code> room.
type PairingBroker struct {
	Router     *Router
	Emit       *Emitter
	Devices    DeviceLinker
	Metrics    *metrics.Metrics
	TTL        time.Duration
	CodeDigits int
	Now        func() time.Time

	mu     sync.Mutex
	tokens map[string]pairingToken
}

func NewPairingBroker(router *Router, emit *Emitter, devices DeviceLinker, m *metrics.Metrics, ttl time.Duration, digits int) *PairingBroker {
	if digits < 4 {
		digits = 6
	}
	return &PairingBroker{
		Router:     router,
		Emit:       emit,
		Devices:    devices,
		Metrics:    m,
		TTL:        ttl,
		CodeDigits: digits,
		Now:        time.Now,
		tokens:     make(map[string]pairingToken),
	}
}

// newCode returns a CodeDigits-long decimal code without a leading zero.
func (p *PairingBroker) newCode() (string, error) {
	floor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(p.CodeDigits-1)), nil)
	span := new(big.Int).Mul(floor, big.NewInt(9))
	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return "", err
	}
	return n.Add(n, floor).String(), nil
}

// RequestCode puts sid into a fresh pairing room and sends it the code.
func (p *PairingBroker) RequestCode(sid core.SessionID) (string, error) {
	var code string
	for i := 0; i < 5; i++ {
		c, err := p.newCode()
		if err != nil {
			return "", fmt.Errorf("pairing code: %w", err)
		}
		if _, taken := p.Router.Rooms.Get(domain.PairingRoom(c)); !taken {
			code = c
			break
		}
	}
	if code == "" {
		return "", errors.New("pairing code: no free code")
	}
	if !p.Router.Join(sid, domain.PairingRoom(code)) {
		return "", ErrSessionGone
	}
	p.Emit.ToSession(sid, PairingCodeEvent{Head: Head{Type: EventPairingCode}, Code: code})
	p.Metrics.Pairing("code")
	log.Info().Str("module", "app.pairing").Str("sid", string(sid)).Str("code", code).Msg("pairing code issued")
	return code, nil
}

// Authorize mints a single-use token for uid and hands it to the device
// waiting on code.
func (p *PairingBroker) Authorize(ctx context.Context, code string, uid domain.UserID) (string, error) {
	room := domain.PairingRoom(code)
	rs, ok := p.Router.Rooms.Get(room)
	if !ok || rs.MemberCount() == 0 {
		return "", ErrPairingCodeUnknown
	}
	token := uuid.NewString()
	p.mu.Lock()
	p.tokens[token] = pairingToken{owner: uid, createdAt: p.Now()}
	p.mu.Unlock()

	sent := p.Emit.ToRoom(room, "", PairingAuthorizedEvent{Head: Head{Type: EventPairingAuthorized}, Token: token})
	p.Metrics.Pairing("authorized")
	log.Info().Str("module", "app.pairing").Str("user", string(uid)).Str("code", code).Int("sent", sent).Msg("pairing authorized")
	return token, nil
}

// take removes and returns the token in one step. Expired tokens are gone.
func (p *PairingBroker) take(token string) (pairingToken, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	t, ok := p.tokens[token]
	if !ok {
		return t, false
	}
	delete(p.tokens, token)
	if p.expired(t) {
		return pairingToken{}, false
	}
	return t, true
}

func (p *PairingBroker) expired(t pairingToken) bool {
	return p.TTL > 0 && p.Now().Sub(t.createdAt) > p.TTL
}

// Redeem consumes token and links the device to its owner. The token is
// spent even if linking fails afterwards.
func (p *PairingBroker) Redeem(ctx context.Context, token string, info domain.DeviceInfo) (*domain.User, domain.LinkedDevice, error) {
	dev, err := domain.NewLinkedDevice(info, p.Now().UTC())
	if err != nil {
		return nil, domain.LinkedDevice{}, err
	}
	t, ok := p.take(token)
	if !ok {
		p.Metrics.Pairing("miss")
		return nil, domain.LinkedDevice{}, ErrTokenNotFound
	}
	p.Metrics.Pairing("redeemed")
	user, err := p.Devices.UpsertLinkedDevice(ctx, t.owner, dev)
	if err != nil {
		return nil, domain.LinkedDevice{}, fmt.Errorf("link device: %w", err)
	}
	log.Info().Str("module", "app.pairing").Str("user", string(t.owner)).Str("device", dev.DeviceID).Msg("device linked")
	return user, dev, nil
}

// Sweep drops expired tokens and reports how many went.
func (p *PairingBroker) Sweep() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for tok, t := range p.tokens {
		if p.expired(t) {
			delete(p.tokens, tok)
			n++
		}
	}
	for i := 0; i < n; i++ {
		p.Metrics.Pairing("expired")
	}
	return n
}

func (p *PairingBroker) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.tokens)
}

// Run sweeps every interval until ctx is done.
func (p *PairingBroker) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := p.Sweep(); n > 0 {
				log.Debug().Str("module", "app.pairing").Int("expired", n).Msg("swept pairing tokens")
			}
		}
	}
}
