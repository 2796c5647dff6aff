package app

import (
	"context"
	"errors"
	"testing"

	"github.com/dkeye/Pulse/internal/core"
	"github.com/dkeye/Pulse/internal/core/mocks"
	"github.com/dkeye/Pulse/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func userWithReceipts(id domain.UserID, on bool) *domain.User {
	return &domain.User{ID: id, FullName: string(id), Privacy: domain.Privacy{ReadReceipts: on}}
}

func TestTypingReachesReceiverOnly(t *testing.T) {
	h := newHarness(t)
	alice := h.connect(t, "s1", "alice")
	bob := h.connect(t, "s2", "bob")
	r := NewRelay(h.emit, nil)

	assert.Equal(t, 1, r.Typing("alice", "bob"))
	assert.Equal(t, 1, r.StopTyping("alice", "bob"))
	assert.Equal(t, 0, r.Typing("alice", "nobody"))

	assert.Equal(t, []string{EventTyping, EventStopTyping}, bob.types())
	assert.Equal(t, "alice", bob.last().Get("senderId").String())
	assert.Empty(t, alice.types())
}

func TestMarkSeenSuppressedWhenEitherSideOptsOut(t *testing.T) {
	cases := map[string]struct{ reader, sender bool }{
		"sender off": {reader: true, sender: false},
		"reader off": {reader: false, sender: true},
		"both off":   {reader: false, sender: false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := mocks.NewMockStore(ctrl)
			h := newHarness(t)
			sender := h.connect(t, "s1", "alice")
			h.connect(t, "s2", "bob")
			r := NewRelay(h.emit, store)

			store.EXPECT().FindUser(gomock.Any(), domain.UserID("bob")).Return(userWithReceipts("bob", tc.reader), nil)
			store.EXPECT().FindUser(gomock.Any(), domain.UserID("alice")).Return(userWithReceipts("alice", tc.sender), nil)
			store.EXPECT().UpdateManyMessages(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

			ok, err := r.MarkSeen(context.Background(), "bob", "alice")
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Empty(t, sender.ofType(EventMessagesSeen))
		})
	}
}

func TestMarkSeenUpdatesThenNotifies(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	h := newHarness(t)
	sender := h.connect(t, "s1", "alice")
	r := NewRelay(h.emit, store)

	store.EXPECT().FindUser(gomock.Any(), domain.UserID("bob")).Return(userWithReceipts("bob", true), nil)
	store.EXPECT().FindUser(gomock.Any(), domain.UserID("alice")).Return(nil, errors.New("timeout"))
	store.EXPECT().UpdateManyMessages(gomock.Any(), core.MessageFilter{
		SenderID:   "alice",
		ReceiverID: "bob",
		StatusNot:  domain.StatusSeen,
	}, core.MessagePatch{Status: domain.StatusSeen}).
		DoAndReturn(func(context.Context, core.MessageFilter, core.MessagePatch) (int64, error) {
			assert.Empty(t, sender.ofType(EventMessagesSeen))
			return 3, nil
		})

	ok, err := r.MarkSeen(context.Background(), "bob", "alice")
	require.NoError(t, err)
	assert.True(t, ok)
	evs := sender.ofType(EventMessagesSeen)
	require.Len(t, evs, 1)
	assert.Equal(t, "bob", evs[0].Get("receiverId").String())
}

func TestMarkSeenUpdateFailureSendsNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	h := newHarness(t)
	sender := h.connect(t, "s1", "alice")
	r := NewRelay(h.emit, store)

	store.EXPECT().FindUser(gomock.Any(), gomock.Any()).Return(nil, core.ErrNotFound).Times(2)
	store.EXPECT().UpdateManyMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), errors.New("write conflict"))

	ok, err := r.MarkSeen(context.Background(), "bob", "alice")
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Empty(t, sender.types())
}

func TestReactRelaysToCounterpart(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	h := newHarness(t)
	alice := h.connect(t, "s1", "alice")
	bob := h.connect(t, "s2", "bob")
	r := NewRelay(h.emit, store)

	msg := &domain.Message{ID: "m1", SenderID: "alice", ReceiverID: "bob"}
	updated := &domain.Message{ID: "m1", SenderID: "alice", ReceiverID: "bob",
		Reactions: []domain.Reaction{{UserID: "bob", Emoji: "🔥"}}}
	store.EXPECT().FindMessage(gomock.Any(), domain.MessageID("m1")).Return(msg, nil)
	store.EXPECT().SetReaction(gomock.Any(), domain.MessageID("m1"), domain.Reaction{UserID: "bob", Emoji: "🔥"}).Return(updated, nil)

	_, err := r.React(context.Background(), "bob", "m1", "🔥")
	require.NoError(t, err)

	evs := alice.ofType(EventMessageReaction)
	require.Len(t, evs, 1)
	assert.Equal(t, "🔥", evs[0].Get("reactions.0.emoji").String())
	assert.Empty(t, bob.types())
}

func TestReactRejectsOutsider(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	h := newHarness(t)
	r := NewRelay(h.emit, store)

	store.EXPECT().FindMessage(gomock.Any(), domain.MessageID("m1")).
		Return(&domain.Message{ID: "m1", SenderID: "alice", ReceiverID: "bob"}, nil)

	_, err := r.React(context.Background(), "eve", "m1", "👍")
	assert.ErrorIs(t, err, ErrNotParticipant)
}
