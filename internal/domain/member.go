package domain

import "time"

// Member represents a live connection's participation meta.
// No transport or lifecycle logic here.
type Member struct {
	UserID      UserID
	ConnectedAt time.Time
	Pairing     bool
}

// NewMember avoids raw literals in adapters and keeps construction obvious.
// An empty user id marks a connection that has not been identified yet.
func NewMember(id UserID, connectedAt time.Time, pairing bool) *Member {
	return &Member{UserID: id, ConnectedAt: connectedAt, Pairing: pairing}
}

func (m *Member) Identified() bool { return m != nil && m.UserID != "" }
