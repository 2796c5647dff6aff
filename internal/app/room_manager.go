package app

import (
	"sync"

	"github.com/dkeye/Pulse/internal/core"
	"github.com/dkeye/Pulse/internal/domain"
)

// RoomManagerImpl owns the room table. Rooms are created on first join and
// dropped when their last member leaves.
type RoomManagerImpl struct {
	mu    sync.RWMutex
	rooms map[domain.RoomName]core.RoomService
}

func NewRoomManager() *RoomManagerImpl {
	return &RoomManagerImpl{rooms: make(map[domain.RoomName]core.RoomService)}
}

var _ core.RoomManager = (*RoomManagerImpl)(nil)

func (f *RoomManagerImpl) Get(name domain.RoomName) (core.RoomService, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	room, ok := f.rooms[name]
	return room, ok
}

// Join adds a member under the table lock so a concurrent Leave cannot drop
// the room between lookup and insert.
func (f *RoomManagerImpl) Join(name domain.RoomName, sid core.SessionID, ms core.MemberSession) {
	f.mu.Lock()
	defer f.mu.Unlock()
	room, ok := f.rooms[name]
	if !ok {
		room = core.NewRoomService(&domain.Room{Name: name})
		f.rooms[name] = room
	}
	room.AddMember(sid, ms)
}

func (f *RoomManagerImpl) Leave(name domain.RoomName, sid core.SessionID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	room, ok := f.rooms[name]
	if !ok {
		return
	}
	if room.RemoveMember(sid) == 0 {
		delete(f.rooms, name)
	}
}

func (f *RoomManagerImpl) List() []core.RoomInfo {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]core.RoomInfo, 0, len(f.rooms))
	for name, r := range f.rooms {
		out = append(out, core.RoomInfo{Name: name, MemberCount: r.MemberCount(), Pairing: name.IsPairing()})
	}
	return out
}
