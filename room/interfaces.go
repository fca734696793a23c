package room

import "github.com/openparty/charades/game"

// Broadcaster fans a message out to a room's open connections. Defined here
// to break the import cycle between room and broadcast.
type Broadcaster interface {
	BroadcastToRoom(roomCode string, msgType string, payload interface{}) error
	BroadcastToRoomExcept(roomCode, sessionID, msgType string, payload interface{}) error
}

// SnapshotStore persists the canonical state after every mutation so a host
// restart can recover an in-progress game.
type SnapshotStore interface {
	SaveRoomState(roomCode string, state game.GameState) error
	LoadRoomState(roomCode string) (game.GameState, bool, error)
	DeleteRoomState(roomCode string) error
}

// Recorder archives the final scores of a finished game.
type Recorder interface {
	RecordFinishedGame(state game.GameState) error
}
