package core

import "errors"

// Frame is a raw encoded event.
type Frame []byte

type SessionID string

var ErrConnClosed = errors.New("connection closed")

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}
