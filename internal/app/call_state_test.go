package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallTrackerTransitions(t *testing.T) {
	tr := NewCallTracker(time.Minute)

	assert.ErrorIs(t, tr.Accept("bob", "alice"), ErrOutOfOrder)
	assert.ErrorIs(t, tr.Candidate("bob", "alice"), ErrOutOfOrder)

	tr.Invite("alice", "bob")
	assert.Equal(t, CallRinging, tr.State("alice", "bob"))
	require.NoError(t, tr.Candidate("alice", "bob"))
	require.NoError(t, tr.Candidate("bob", "alice"))
	require.NoError(t, tr.Accept("bob", "alice"))
	assert.Equal(t, CallConnected, tr.State("alice", "bob"))
	assert.ErrorIs(t, tr.Reject("bob", "alice"), ErrOutOfOrder)

	require.NoError(t, tr.End("bob", "alice"))
	assert.Equal(t, CallIdle, tr.State("alice", "bob"))
	assert.ErrorIs(t, tr.End("bob", "alice"), ErrOutOfOrder)
}

func TestCallTrackerRingTimeout(t *testing.T) {
	now := time.Now()
	tr := NewCallTracker(30 * time.Second)
	tr.Now = func() time.Time { return now }
	tr.Invite("alice", "bob")

	now = now.Add(31 * time.Second)
	assert.ErrorIs(t, tr.Accept("bob", "alice"), ErrOutOfOrder)
	assert.Equal(t, 0, tr.Len())
}

func TestCallTrackerDropUser(t *testing.T) {
	tr := NewCallTracker(time.Minute)
	tr.Invite("alice", "bob")
	tr.Invite("carol", "alice")
	tr.Invite("carol", "dave")

	peers := tr.DropUser("alice")
	assert.ElementsMatch(t, []string{"bob", "carol"}, []string{string(peers[0]), string(peers[1])})
	assert.Equal(t, 1, tr.Len())
}

func TestCallTrackerSweep(t *testing.T) {
	now := time.Now()
	tr := NewCallTracker(30 * time.Second)
	tr.Now = func() time.Time { return now }
	tr.Invite("alice", "bob")
	tr.Invite("carol", "dave")
	require.NoError(t, tr.Accept("dave", "carol"))

	assert.Equal(t, 0, tr.Sweep())
	now = now.Add(time.Minute)
	assert.Equal(t, 1, tr.Sweep(), "only the unanswered call expires")
	assert.Equal(t, 1, tr.Len())
	assert.Equal(t, CallConnected, tr.State("carol", "dave"))
}

func TestCallTrackerRunSweeps(t *testing.T) {
	tr := NewCallTracker(time.Millisecond)
	tr.Invite("alice", "bob")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		tr.Run(ctx, 5*time.Millisecond)
		close(done)
	}()
	assert.Eventually(t, func() bool { return tr.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}
