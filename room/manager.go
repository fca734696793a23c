package room

import (
	"errors"
	"sync"

	"github.com/openparty/charades/game"
	"github.com/openparty/charades/logger"
	"github.com/openparty/charades/timer"
)

var ErrRoomNotFound = errors.New("room not found")
var ErrRoomExists = errors.New("room already exists")
var ErrRoomClosed = errors.New("room closed")

// Manager is the per-process room registry. Rooms share nothing with each
// other; the manager only hands out lifecycle.
type Manager struct {
	rooms    map[string]*Room
	mutex    sync.RWMutex
	store    SnapshotStore
	recorder Recorder
	timers   *timer.Manager
}

func NewManager(store SnapshotStore, recorder Recorder, timers *timer.Manager) *Manager {
	return &Manager{
		rooms:    make(map[string]*Room),
		store:    store,
		recorder: recorder,
		timers:   timers,
	}
}

// CreateRoom registers a room under code. If the store still holds a
// snapshot for that code the game is recovered from it: the snapshot is
// hydrated against fresh defaults so fields added since it was written come
// back defined.
func (m *Manager) CreateRoom(code string, mode game.Mode, broadcaster Broadcaster) (*Room, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.rooms[code]; exists {
		return nil, ErrRoomExists
	}

	initial := game.NewGameState(code, mode)
	if snapshot, found, err := m.store.LoadRoomState(code); err != nil {
		logger.Log.Errorf("Room %s snapshot load failed, starting fresh: %v", code, err)
	} else if found {
		logger.Log.Infof("Room %s recovered from durable snapshot", code)
		initial = game.Hydrate(snapshot)
	}

	r := newRoom(code, initial, broadcaster, m.store, m.recorder, m.timers)
	m.rooms[code] = r
	return r, nil
}

// GetRoom looks a room up by code.
func (m *Manager) GetRoom(code string) (*Room, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	r, exists := m.rooms[code]
	return r, exists
}

// RemoveRoom closes a room explicitly: GAME_ENDED goes out and the durable
// snapshot is discarded.
func (m *Manager) RemoveRoom(code string) {
	m.mutex.Lock()
	r, exists := m.rooms[code]
	if exists {
		delete(m.rooms, code)
	}
	m.mutex.Unlock()

	if exists {
		r.Close(true)
	}
}

// Shutdown stops every room without the GAME_ENDED notice, keeping the
// snapshots for recovery.
func (m *Manager) Shutdown() {
	m.mutex.Lock()
	rooms := make([]*Room, 0, len(m.rooms))
	for code, r := range m.rooms {
		rooms = append(rooms, r)
		delete(m.rooms, code)
	}
	m.mutex.Unlock()

	for _, r := range rooms {
		r.Close(false)
	}
}

// Codes lists the active room codes.
func (m *Manager) Codes() []string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	codes := make([]string, 0, len(m.rooms))
	for code := range m.rooms {
		codes = append(codes, code)
	}
	return codes
}

// Count reports the number of active rooms.
func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.rooms)
}
