package app

import (
	"context"
	"errors"
	"time"

	"github.com/dkeye/Pulse/internal/core"
	"github.com/dkeye/Pulse/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"
)

const defaultPushTimeout = 30 * time.Second

// Dispatcher relays new messages to live sessions and falls back to push
// for recipients the registry does not know. Relaying is synchronous; the
// push fallback runs in the background, detached from the caller's context.
type Dispatcher struct {
	Emit        *Emitter
	Registry    *Registry
	Users       UserFinder
	Pusher      *Pusher
	PushTimeout time.Duration

	wg conc.WaitGroup
}

type UserFinder interface {
	FindUser(ctx context.Context, id domain.UserID) (*domain.User, error)
}

func NewDispatcher(emit *Emitter, reg *Registry, users UserFinder, p *Pusher) *Dispatcher {
	return &Dispatcher{Emit: emit, Registry: reg, Users: users, Pusher: p, PushTimeout: defaultPushTimeout}
}

// DeliverDirect relays msg to the receiver and to the sender's other
// sessions. It reports whether a push fallback was scheduled.
func (d *Dispatcher) DeliverDirect(ctx context.Context, msg *domain.Message) bool {
	ev := NewMessageEvent{Head: Head{Type: EventNewMessage}, Message: msg}
	d.Emit.ToUser(msg.ReceiverID, ev)
	d.Emit.ToUser(msg.SenderID, ev)

	if d.Registry.IsOnline(msg.ReceiverID) {
		return false
	}
	d.background(ctx, func(ctx context.Context) {
		d.pushTo(ctx, msg, msg.ReceiverID)
	})
	return true
}

// DeliverGroup relays msg to every member but the sender and schedules a
// push for each offline member. It returns how many were scheduled.
func (d *Dispatcher) DeliverGroup(ctx context.Context, msg *domain.Message, g *domain.Group) int {
	ev := NewMessageEvent{Head: Head{Type: EventNewMessage}, Message: msg}
	var offline []domain.UserID
	for _, member := range g.Members {
		if member == msg.SenderID {
			continue
		}
		d.Emit.ToUser(member, ev)
		if !d.Registry.IsOnline(member) {
			offline = append(offline, member)
		}
	}
	if len(offline) > 0 {
		d.background(ctx, func(ctx context.Context) {
			for _, member := range offline {
				d.pushTo(ctx, msg, member)
			}
		})
	}
	return len(offline)
}

// Wait blocks until every scheduled push has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) background(ctx context.Context, fn func(context.Context)) {
	ctx = context.WithoutCancel(ctx)
	timeout := d.PushTimeout
	if timeout <= 0 {
		timeout = defaultPushTimeout
	}
	d.wg.Go(func() {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		fn(ctx)
	})
}

func (d *Dispatcher) pushTo(ctx context.Context, msg *domain.Message, to domain.UserID) bool {
	receiver, err := d.Users.FindUser(ctx, to)
	if err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			log.Error().Err(err).Str("module", "app.fallback").Str("user", string(to)).Msg("load push tokens")
		}
		return false
	}
	if len(receiver.PushTokens) == 0 {
		return false
	}
	sender, err := d.Users.FindUser(ctx, msg.SenderID)
	if err != nil {
		log.Warn().Err(err).Str("module", "app.fallback").Str("user", string(msg.SenderID)).Msg("load sender")
		sender = nil
	}
	d.Pusher.Notify(ctx, PushKindMessage, receiver.PushTokens, MessagePush(sender, msg))
	return true
}
