package core

import (
	"context"
	"errors"
	"time"

	"github.com/dkeye/Pulse/internal/domain"
)

//go:generate mockgen -destination=mocks/mock_store.go -package=mocks github.com/dkeye/Pulse/internal/core Store

// ErrNotFound is returned by every store lookup that finds no document.
var ErrNotFound = errors.New("not found")

// UserPatch lists the user fields the realtime layer is allowed to write.
// Nil fields are left untouched.
type UserPatch struct {
	LastSeen *time.Time
}

// MessageFilter selects direct messages by sender/receiver pair.
// StatusNot excludes messages already in that status.
type MessageFilter struct {
	SenderID   domain.UserID
	ReceiverID domain.UserID
	StatusNot  domain.MessageStatus
}

type MessagePatch struct {
	Status domain.MessageStatus
}

type UserStore interface {
	FindUser(ctx context.Context, id domain.UserID) (*domain.User, error)
	ListUsers(ctx context.Context, except domain.UserID) ([]domain.User, error)
	// SaveUser creates or replaces profile fields and privacy settings.
	SaveUser(ctx context.Context, u *domain.User) error
	UpdateUser(ctx context.Context, id domain.UserID, patch UserPatch) error
	UpsertLinkedDevice(ctx context.Context, id domain.UserID, dev domain.LinkedDevice) (*domain.User, error)
	TouchLinkedDevice(ctx context.Context, id domain.UserID, deviceID string, at time.Time) error
	RemoveLinkedDevice(ctx context.Context, id domain.UserID, deviceID string) error
	AddPushToken(ctx context.Context, id domain.UserID, token string) error
	RemovePushToken(ctx context.Context, id domain.UserID, token string) error
}

type MessageStore interface {
	InsertMessage(ctx context.Context, msg *domain.Message) error
	FindMessage(ctx context.Context, id domain.MessageID) (*domain.Message, error)
	ListConversation(ctx context.Context, a, b domain.UserID) ([]domain.Message, error)
	ListGroupMessages(ctx context.Context, id domain.GroupID) ([]domain.Message, error)
	// LastDirectMessages returns one message per counterpart, newest first.
	LastDirectMessages(ctx context.Context, uid domain.UserID) ([]domain.Message, error)
	UpdateManyMessages(ctx context.Context, filter MessageFilter, patch MessagePatch) (int64, error)
	// SetReaction replaces any earlier reaction by the same user.
	SetReaction(ctx context.Context, id domain.MessageID, r domain.Reaction) (*domain.Message, error)
}

type GroupStore interface {
	FindGroup(ctx context.Context, id domain.GroupID) (*domain.Group, error)
	InsertGroup(ctx context.Context, g *domain.Group) error
	ListGroupsForUser(ctx context.Context, uid domain.UserID) ([]domain.Group, error)
}

type CallStore interface {
	InsertCall(ctx context.Context, rec *domain.CallRecord) error
	ListCalls(ctx context.Context, uid domain.UserID) ([]domain.CallRecord, error)
}

// Store is the document store collaborator. Only per-document atomicity is assumed.
type Store interface {
	UserStore
	MessageStore
	GroupStore
	CallStore
	Close() error
}
