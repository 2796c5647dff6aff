package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/dkeye/Pulse/internal/core"
	"github.com/dkeye/Pulse/internal/domain"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

var ErrNotParticipant = errors.New("not a participant")

// RelayStore is what the event relay reads and writes.
type RelayStore interface {
	FindUser(ctx context.Context, id domain.UserID) (*domain.User, error)
	FindMessage(ctx context.Context, id domain.MessageID) (*domain.Message, error)
	UpdateManyMessages(ctx context.Context, filter core.MessageFilter, patch core.MessagePatch) (int64, error)
	SetReaction(ctx context.Context, id domain.MessageID, r domain.Reaction) (*domain.Message, error)
}

// Relay forwards ephemeral events to the addressed user's room.
type Relay struct {
	Emit  *Emitter
	Store RelayStore
}

func NewRelay(emit *Emitter, store RelayStore) *Relay {
	return &Relay{Emit: emit, Store: store}
}

func (r *Relay) Typing(from, to domain.UserID) int {
	return r.Emit.ToUser(to, TypingEvent{Head: Head{Type: EventTyping}, SenderID: from})
}

func (r *Relay) StopTyping(from, to domain.UserID) int {
	return r.Emit.ToUser(to, TypingEvent{Head: Head{Type: EventStopTyping}, SenderID: from})
}

// MarkSeen marks every unseen message sender sent to reader as seen and tells
// the sender. Both parties must have read receipts on; otherwise nothing is
// written and nothing is sent. A failed user lookup does not veto.
func (r *Relay) MarkSeen(ctx context.Context, reader, sender domain.UserID) (bool, error) {
	if reader == "" || sender == "" {
		return false, nil
	}
	var readerUser, senderUser *domain.User
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		readerUser = r.findUser(gctx, reader)
		return nil
	})
	g.Go(func() error {
		senderUser = r.findUser(gctx, sender)
		return nil
	})
	_ = g.Wait()

	if !readerUser.ReadReceiptsEnabled() || !senderUser.ReadReceiptsEnabled() {
		log.Debug().Str("module", "app.relay").Str("reader", string(reader)).Str("sender", string(sender)).Msg("read receipts disabled")
		return false, nil
	}

	n, err := r.Store.UpdateManyMessages(ctx, core.MessageFilter{
		SenderID:   sender,
		ReceiverID: reader,
		StatusNot:  domain.StatusSeen,
	}, core.MessagePatch{Status: domain.StatusSeen})
	if err != nil {
		return false, fmt.Errorf("mark seen: %w", err)
	}
	log.Debug().Str("module", "app.relay").Str("reader", string(reader)).Str("sender", string(sender)).Int64("updated", n).Msg("messages seen")
	r.Emit.ToUser(sender, MessagesSeenEvent{Head: Head{Type: EventMessagesSeen}, ReceiverID: reader})
	return true, nil
}

func (r *Relay) findUser(ctx context.Context, id domain.UserID) *domain.User {
	u, err := r.Store.FindUser(ctx, id)
	if err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			log.Warn().Err(err).Str("module", "app.relay").Str("user", string(id)).Msg("privacy lookup failed")
		}
		return nil
	}
	return u
}

// React stores uid's reaction on a direct message and relays the new
// reaction list to the other participant.
func (r *Relay) React(ctx context.Context, uid domain.UserID, id domain.MessageID, emoji string) (*domain.Message, error) {
	msg, err := r.Store.FindMessage(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find message: %w", err)
	}
	if msg.GroupID == "" && msg.SenderID != uid && msg.ReceiverID != uid {
		return nil, ErrNotParticipant
	}
	updated, err := r.Store.SetReaction(ctx, id, domain.Reaction{UserID: uid, Emoji: emoji})
	if err != nil {
		return nil, fmt.Errorf("set reaction: %w", err)
	}
	ev := ReactionEvent{Head: Head{Type: EventMessageReaction}, MessageID: id, Reactions: updated.Reactions}
	if updated.GroupID == "" {
		r.Emit.ToUser(updated.Counterpart(uid), ev)
	}
	return updated, nil
}
