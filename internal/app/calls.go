package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dkeye/Pulse/internal/core"
	"github.com/dkeye/Pulse/internal/domain"
	"github.com/google/uuid"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// CallStore is what the broker needs from persistence.
type CallStore interface {
	FindUser(ctx context.Context, id domain.UserID) (*domain.User, error)
	FindGroup(ctx context.Context, id domain.GroupID) (*domain.Group, error)
	InsertCall(ctx context.Context, rec *domain.CallRecord) error
	ListCalls(ctx context.Context, uid domain.UserID) ([]domain.CallRecord, error)
}

// CallBroker relays call signaling between peers. It trusts the client's
// target unless Strict is set, in which case events that do not follow the
// tracked call state are refused with ErrOutOfOrder.
type CallBroker struct {
	Emit    *Emitter
	Store   CallStore
	Pusher  *Pusher
	Tracker *CallTracker
	Strict  bool
	Now     func() time.Time
}

func NewCallBroker(emit *Emitter, store CallStore, p *Pusher, tracker *CallTracker, strict bool) *CallBroker {
	return &CallBroker{Emit: emit, Store: store, Pusher: p, Tracker: tracker, Strict: strict, Now: time.Now}
}

// InviteResult tells the caller what happened to an invite.
type InviteResult struct {
	Group   bool
	Relayed int
	Pushed  bool
}

// resolveGroup treats any lookup failure as "not a group".
func (b *CallBroker) resolveGroup(ctx context.Context, target string) *domain.Group {
	g, err := b.Store.FindGroup(ctx, domain.GroupID(target))
	if err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			log.Warn().Err(err).Str("module", "app.calls").Str("target", target).Msg("group lookup failed, relaying direct")
		}
		return nil
	}
	return g
}

func (b *CallBroker) check(err error, event string, from domain.UserID, to string) error {
	if err == nil {
		return nil
	}
	l := log.Debug()
	if b.Strict {
		l = log.Warn()
	}
	l.Str("module", "app.calls").Str("event", event).Str("from", string(from)).Str("to", to).Msg("out of order call event")
	if b.Strict {
		return err
	}
	return nil
}

// Invite rings target. A group target rings every member but the caller.
// A direct target also gets a push, whether or not it is online.
func (b *CallBroker) Invite(ctx context.Context, caller domain.UserID, target string, offer webrtc.SessionDescription, media domain.CallType) InviteResult {
	if g := b.resolveGroup(ctx, target); g != nil {
		res := InviteResult{Group: true}
		for _, member := range lo.Without(g.Members, caller) {
			b.Tracker.Invite(caller, member)
			res.Relayed += b.Emit.ToUser(member, CallIncomingEvent{
				Head:     Head{Type: EventCallIncoming},
				From:     caller,
				Offer:    offer,
				CallType: media,
				IsGroup:  true,
				GroupID:  g.ID,
			})
		}
		log.Info().Str("module", "app.calls").Str("caller", string(caller)).Str("group", string(g.ID)).Int("relayed", res.Relayed).Msg("group call invite")
		return res
	}

	callee := domain.UserID(target)
	b.Tracker.Invite(caller, callee)
	res := InviteResult{
		Relayed: b.Emit.ToUser(callee, CallIncomingEvent{
			Head:     Head{Type: EventCallIncoming},
			From:     caller,
			Offer:    offer,
			CallType: media,
		}),
	}
	res.Pushed = b.pushInvite(ctx, caller, callee, media, offer)
	log.Info().Str("module", "app.calls").Str("caller", string(caller)).Str("callee", target).Int("relayed", res.Relayed).Bool("pushed", res.Pushed).Msg("call invite")
	return res
}

func (b *CallBroker) pushInvite(ctx context.Context, caller, callee domain.UserID, media domain.CallType, offer webrtc.SessionDescription) bool {
	receiver, err := b.Store.FindUser(ctx, callee)
	if err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			log.Error().Err(err).Str("module", "app.calls").Str("user", string(callee)).Msg("load push tokens")
		}
		return false
	}
	if len(receiver.PushTokens) == 0 {
		return false
	}
	callerUser, err := b.Store.FindUser(ctx, caller)
	if err != nil {
		callerUser = nil
	}
	b.Pusher.Notify(ctx, PushKindCall, receiver.PushTokens, CallPush(callerUser, caller, media, offer))
	return true
}

func (b *CallBroker) Accept(from, to domain.UserID, answer webrtc.SessionDescription) (int, error) {
	if err := b.check(b.Tracker.Accept(from, to), EventCallConnected, from, string(to)); err != nil {
		return 0, err
	}
	return b.Emit.ToUser(to, CallConnectedEvent{Head: Head{Type: EventCallConnected}, From: from, Answer: answer}), nil
}

func (b *CallBroker) Reject(from, to domain.UserID) (int, error) {
	if err := b.check(b.Tracker.Reject(from, to), EventCallRejected, from, string(to)); err != nil {
		return 0, err
	}
	return b.Emit.ToUser(to, CallPeerEvent{Head: Head{Type: EventCallRejected}, From: from}), nil
}

func (b *CallBroker) ICECandidate(from, to domain.UserID, cand webrtc.ICECandidateInit) (int, error) {
	if err := b.check(b.Tracker.Candidate(from, to), EventICECandidate, from, string(to)); err != nil {
		return 0, err
	}
	return b.Emit.ToUser(to, ICECandidateEvent{Head: Head{Type: EventICECandidate}, From: from, Candidate: cand}), nil
}

// End hangs up. A group target notifies every other member.
func (b *CallBroker) End(ctx context.Context, from domain.UserID, target string) (int, error) {
	ev := CallPeerEvent{Head: Head{Type: EventCallEnded}, From: from}
	if g := b.resolveGroup(ctx, target); g != nil {
		sent := 0
		for _, member := range lo.Without(g.Members, from) {
			_ = b.Tracker.End(from, member)
			sent += b.Emit.ToUser(member, ev)
		}
		return sent, nil
	}
	to := domain.UserID(target)
	if err := b.check(b.Tracker.End(from, to), EventCallEnded, from, target); err != nil {
		return 0, err
	}
	return b.Emit.ToUser(to, ev), nil
}

// LogCallRequest is what a client reports after tearing a call down.
type LogCallRequest struct {
	ReceiverID domain.UserID
	Type       domain.CallType
	Status     domain.CallStatus
	Duration   int
}

// LogCall writes a call record. StartedAt is back-dated by the duration.
func (b *CallBroker) LogCall(ctx context.Context, caller domain.UserID, req LogCallRequest) (*domain.CallRecord, error) {
	if req.ReceiverID == "" {
		return nil, fmt.Errorf("log call: %w", ErrNotParticipant)
	}
	if req.Duration < 0 {
		req.Duration = 0
	}
	ended := b.Now().UTC()
	rec := &domain.CallRecord{
		ID:         domain.CallID(uuid.NewString()),
		CallerID:   caller,
		ReceiverID: req.ReceiverID,
		Type:       req.Type,
		Status:     req.Status,
		Duration:   req.Duration,
		StartedAt:  ended.Add(-time.Duration(req.Duration) * time.Second),
		EndedAt:    &ended,
	}
	if err := b.Store.InsertCall(ctx, rec); err != nil {
		return nil, fmt.Errorf("insert call: %w", err)
	}
	return rec, nil
}

func (b *CallBroker) History(ctx context.Context, uid domain.UserID) ([]domain.CallRecord, error) {
	recs, err := b.Store.ListCalls(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("list calls: %w", err)
	}
	return recs, nil
}
