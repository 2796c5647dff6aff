package core

import (
	"github.com/dkeye/Pulse/internal/domain"
)

// PublishResult reports delivery stats/backpressure to orchestrator.
type PublishResult struct {
	SendTo  int
	Dropped []MemberSession
}

// MemberDTO is a read-only view for APIs (no transport fields).
type MemberDTO struct {
	SID    SessionID     `json:"sid"`
	UserID domain.UserID `json:"userId,omitempty"`
}

// RoomService is the core-facing API of a room.
// It owns the membership set but never touches transport resources.
type RoomService interface {
	Room() *domain.Room
	MemberCount() int
	MembersSnapshot() []MemberDTO
	Sessions() []MemberSession

	AddMember(sid SessionID, ms MemberSession)
	// RemoveMember reports how many members are left.
	RemoveMember(sid SessionID) int
	Broadcast(from SessionID, data Frame) PublishResult
}

type RoomInfo struct {
	Name        domain.RoomName `json:"name"`
	MemberCount int             `json:"client_count"`
	Pairing     bool            `json:"pairing"`
}

type RoomManager interface {
	Get(name domain.RoomName) (RoomService, bool)
	Join(name domain.RoomName, sid SessionID, ms MemberSession)
	// Leave drops the room once its last member is gone.
	Leave(name domain.RoomName, sid SessionID)
	List() []RoomInfo
}
