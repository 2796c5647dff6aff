package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dkeye/Pulse/internal/core"
	"github.com/dkeye/Pulse/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "pulse.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedUser(t *testing.T, s *Store, id domain.UserID, receipts bool) {
	t.Helper()
	require.NoError(t, s.SaveUser(context.Background(), &domain.User{
		ID:       id,
		FullName: string(id),
		Privacy:  domain.Privacy{ReadReceipts: receipts},
	}))
}

func TestReopenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pulse.db")
	s, err := Open(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, s.Close())
	s, err = Open(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, s.Close())
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	_, err := s.FindUser(ctx, "ghost")
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.ErrorIs(t, s.UpdateUser(ctx, "ghost", core.UserPatch{LastSeen: ptr(time.Now())}), core.ErrNotFound)

	seedUser(t, s, "alice", false)
	seen := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, s.UpdateUser(ctx, "alice", core.UserPatch{LastSeen: &seen}))

	require.NoError(t, s.AddPushToken(ctx, "alice", "t1"))
	require.NoError(t, s.AddPushToken(ctx, "alice", "t1"))
	require.NoError(t, s.AddPushToken(ctx, "alice", "t2"))
	require.NoError(t, s.RemovePushToken(ctx, "alice", "t1"))

	u, err := s.FindUser(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, u.Privacy.ReadReceipts)
	assert.True(t, u.LastSeen.Equal(seen))
	assert.Equal(t, []string{"t2"}, u.PushTokens)
}

func TestUserPrivacyAndListing(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)
	require.NoError(t, s.SaveUser(ctx, &domain.User{
		ID:       "zoe",
		FullName: "Zoe",
		About:    "hiking",
		Privacy:  domain.Privacy{ProfilePic: domain.VisibleNobody, About: domain.VisibleNobody},
	}))
	seedUser(t, s, "adam", true)
	seedUser(t, s, "me", true)

	u, err := s.FindUser(ctx, "zoe")
	require.NoError(t, err)
	assert.Equal(t, "hiking", u.About)
	assert.Equal(t, domain.VisibleNobody, u.Privacy.ProfilePic)
	assert.Equal(t, domain.VisibleNobody, u.Privacy.About)

	u, err = s.FindUser(ctx, "adam")
	require.NoError(t, err)
	assert.Equal(t, domain.VisibleEveryone, u.Privacy.ProfilePic)

	users, err := s.ListUsers(ctx, "me")
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, domain.UserID("adam"), users[0].ID, "sorted by name ignoring case")
	assert.Equal(t, domain.UserID("zoe"), users[1].ID)
}

func TestLastDirectMessages(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	for _, m := range []*domain.Message{
		{ID: "a1", SenderID: "me", ReceiverID: "ann", Text: "first", Status: domain.StatusSent, CreatedAt: now},
		{ID: "a2", SenderID: "ann", ReceiverID: "me", Text: "second", Status: domain.StatusSent, CreatedAt: now.Add(time.Minute)},
		{ID: "b1", SenderID: "bo", ReceiverID: "me", Text: "later", Status: domain.StatusSent, CreatedAt: now.Add(2 * time.Minute)},
		{ID: "x1", SenderID: "ann", ReceiverID: "bo", Text: "not mine", Status: domain.StatusSent, CreatedAt: now.Add(3 * time.Minute)},
		{ID: "g1", SenderID: "me", GroupID: "g", Text: "group", Status: domain.StatusSent, CreatedAt: now.Add(4 * time.Minute)},
	} {
		m.Type = domain.MessageText
		require.NoError(t, s.InsertMessage(ctx, m))
	}

	last, err := s.LastDirectMessages(ctx, "me")
	require.NoError(t, err)
	require.Len(t, last, 2)
	assert.Equal(t, domain.MessageID("b1"), last[0].ID)
	assert.Equal(t, domain.MessageID("a2"), last[1].ID)
}

func TestLinkedDevices(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)
	seedUser(t, s, "alice", true)

	t0 := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	dev, err := domain.NewLinkedDevice(domain.DeviceInfo{DeviceID: "d1", DeviceName: "Laptop"}, t0)
	require.NoError(t, err)
	u, err := s.UpsertLinkedDevice(ctx, "alice", dev)
	require.NoError(t, err)
	require.Len(t, u.LinkedDevices, 1)

	dev2, _ := domain.NewLinkedDevice(domain.DeviceInfo{DeviceID: "d1", DeviceName: "Work laptop"}, t0.Add(time.Hour))
	u, err = s.UpsertLinkedDevice(ctx, "alice", dev2)
	require.NoError(t, err)
	require.Len(t, u.LinkedDevices, 1)
	assert.Equal(t, "Work laptop", u.LinkedDevices[0].DeviceName)
	assert.True(t, u.LinkedDevices[0].LoginAt.Equal(t0))

	t1 := t0.Add(2 * time.Hour)
	require.NoError(t, s.TouchLinkedDevice(ctx, "alice", "d1", t1))
	u, _ = s.FindUser(ctx, "alice")
	assert.True(t, u.LinkedDevices[0].LastActiveAt.Equal(t1))

	require.NoError(t, s.RemoveLinkedDevice(ctx, "alice", "d1"))
	u, _ = s.FindUser(ctx, "alice")
	assert.Empty(t, u.LinkedDevices)

	_, err = s.UpsertLinkedDevice(ctx, "ghost", dev)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestMessagesSeenAndReactions(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	msgs := []*domain.Message{
		{ID: "m1", SenderID: "alice", ReceiverID: "bob", Type: domain.MessageText, Text: "hi", Status: domain.StatusSent, CreatedAt: now},
		{ID: "m2", SenderID: "alice", ReceiverID: "bob", Type: domain.MessageLocation, Location: &domain.Location{Latitude: 1, Longitude: 2}, Status: domain.StatusSeen, CreatedAt: now.Add(time.Second)},
		{ID: "m3", SenderID: "bob", ReceiverID: "alice", Type: domain.MessageText, Text: "yo", Status: domain.StatusSent, CreatedAt: now.Add(2 * time.Second)},
		{ID: "m4", SenderID: "alice", GroupID: "g1", Type: domain.MessageText, Text: "all", Status: domain.StatusSent, CreatedAt: now},
	}
	for _, m := range msgs {
		require.NoError(t, s.InsertMessage(ctx, m))
	}

	n, err := s.UpdateManyMessages(ctx, core.MessageFilter{SenderID: "alice", ReceiverID: "bob", StatusNot: domain.StatusSeen},
		core.MessagePatch{Status: domain.StatusSeen})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	conv, err := s.ListConversation(ctx, "bob", "alice")
	require.NoError(t, err)
	require.Len(t, conv, 3)
	assert.Equal(t, domain.MessageID("m1"), conv[0].ID)
	assert.Equal(t, domain.StatusSeen, conv[0].Status)
	require.NotNil(t, conv[1].Location)
	assert.Equal(t, 2.0, conv[1].Location.Longitude)
	assert.Equal(t, domain.StatusSent, conv[2].Status)

	_, err = s.SetReaction(ctx, "m1", domain.Reaction{UserID: "bob", Emoji: "👍"})
	require.NoError(t, err)
	m, err := s.SetReaction(ctx, "m1", domain.Reaction{UserID: "bob", Emoji: "❤️"})
	require.NoError(t, err)
	assert.Equal(t, []domain.Reaction{{UserID: "bob", Emoji: "❤️"}}, m.Reactions)

	group, err := s.ListGroupMessages(ctx, "g1")
	require.NoError(t, err)
	assert.Len(t, group, 1)

	_, err = s.SetReaction(ctx, "nope", domain.Reaction{UserID: "bob", Emoji: "x"})
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestGroupsAndCalls(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, s.InsertGroup(ctx, &domain.Group{ID: "g1", Name: "one", Admin: "a", Members: []domain.UserID{"a", "b"}, CreatedAt: now}))
	require.NoError(t, s.InsertGroup(ctx, &domain.Group{ID: "g2", Name: "two", Admin: "c", Members: []domain.UserID{"c", "b"}, CreatedAt: now.Add(time.Minute)}))

	g, err := s.FindGroup(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, []domain.UserID{"a", "b"}, g.Members)
	_, err = s.FindGroup(ctx, "bob")
	assert.ErrorIs(t, err, core.ErrNotFound)

	groups, err := s.ListGroupsForUser(ctx, "b")
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, domain.GroupID("g2"), groups[0].ID)

	ended := now.Add(time.Minute)
	require.NoError(t, s.InsertCall(ctx, &domain.CallRecord{ID: "c1", CallerID: "a", ReceiverID: "b", Type: domain.CallAudio,
		Status: domain.CallCompleted, Duration: 60, StartedAt: now, EndedAt: &ended}))
	calls, err := s.ListCalls(ctx, "b")
	require.NoError(t, err)
	require.Len(t, calls, 1)
	require.NotNil(t, calls[0].EndedAt)
	assert.True(t, calls[0].EndedAt.Equal(ended))
	assert.Equal(t, 60, calls[0].Duration)
}

func ptr[T any](v T) *T { return &v }
