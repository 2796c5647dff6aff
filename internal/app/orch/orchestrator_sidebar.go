package orch

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/dkeye/Pulse/internal/app"
	"github.com/dkeye/Pulse/internal/domain"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// SidebarEntry is another user as the chat list shows them, with a preview
// of the latest direct message exchanged, if any.
type SidebarEntry struct {
	domain.User
	LastMessage     *string    `json:"lastMessage"`
	LastMessageTime *time.Time `json:"lastMessageTime"`
}

// Sidebar lists every other user, most recent conversation first. Users
// never talked to follow in name order. Profile fields hidden by privacy
// settings are blanked.
func (o *Orchestrator) Sidebar(ctx context.Context, uid domain.UserID) ([]SidebarEntry, error) {
	var (
		users []domain.User
		last  []domain.Message
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		users, err = o.Store.ListUsers(gctx, uid)
		return err
	})
	g.Go(func() (err error) {
		last, err = o.Store.LastDirectMessages(gctx, uid)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byPeer := lo.KeyBy(last, func(m domain.Message) domain.UserID { return m.Counterpart(uid) })
	out := make([]SidebarEntry, 0, len(users))
	for _, u := range users {
		e := SidebarEntry{User: u.Public()}
		if m, ok := byPeer[u.ID]; ok {
			preview, at := app.Preview(&m), m.CreatedAt
			e.LastMessage, e.LastMessageTime = &preview, &at
		}
		out = append(out, e)
	}
	slices.SortStableFunc(out, func(a, b SidebarEntry) int {
		switch {
		case a.LastMessageTime == nil && b.LastMessageTime == nil:
			return 0
		case a.LastMessageTime == nil:
			return 1
		case b.LastMessageTime == nil:
			return -1
		}
		return cmp.Compare(b.LastMessageTime.UnixNano(), a.LastMessageTime.UnixNano())
	})
	return out, nil
}
