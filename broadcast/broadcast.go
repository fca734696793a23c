package broadcast

import (
	"errors"

	"github.com/openparty/charades/room"
)

var ErrRoomNotFound = errors.New("room not found")

// Broadcaster fans messages out to connections.
type Broadcaster interface {
	BroadcastToRoom(roomCode string, msgType string, payload interface{}) error
	BroadcastToRoomExcept(roomCode, sessionID, msgType string, payload interface{}) error
}

// RoomBroadcaster sends to every open session of a room. Sends are
// fire-and-forget per connection: one dead channel never blocks or fails the
// rest, and whoever missed a broadcast is made whole by the next full
// snapshot anyway.
type RoomBroadcaster struct {
	roomManager *room.Manager
}

func NewRoomBroadcaster(roomManager *room.Manager) *RoomBroadcaster {
	return &RoomBroadcaster{roomManager: roomManager}
}

func (b *RoomBroadcaster) BroadcastToRoom(roomCode string, msgType string, payload interface{}) error {
	return b.send(roomCode, "", msgType, payload)
}

func (b *RoomBroadcaster) BroadcastToRoomExcept(roomCode, sessionID, msgType string, payload interface{}) error {
	return b.send(roomCode, sessionID, msgType, payload)
}

func (b *RoomBroadcaster) send(roomCode, skipSessionID, msgType string, payload interface{}) error {
	r, exists := b.roomManager.GetRoom(roomCode)
	if !exists {
		return ErrRoomNotFound
	}

	for _, s := range r.GetSessions() {
		if s.ID == skipSessionID {
			continue
		}
		if err := s.Send(msgType, payload); err != nil {
			// The connection's own read loop notices the failure and
			// detaches it; skipping here is enough.
			continue
		}
	}
	return nil
}
