// persistence/memory.go
package persistence

import (
	"sync"

	"github.com/openparty/charades/game"
	"github.com/openparty/charades/models"
)

// Memory keeps everything in-process. Used by LOCAL rooms, tests, and
// deployments that don't care about surviving a restart.
type Memory struct {
	mutex     sync.RWMutex
	snapshots map[string]game.GameState
	records   []models.GameRecord
}

func NewMemory() *Memory {
	return &Memory{
		snapshots: make(map[string]game.GameState),
	}
}

func (m *Memory) SaveRoomState(roomCode string, state game.GameState) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.snapshots[roomCode] = state.Clone()
	return nil
}

func (m *Memory) LoadRoomState(roomCode string) (game.GameState, bool, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	state, found := m.snapshots[roomCode]
	if !found {
		return game.GameState{}, false, nil
	}
	return state.Clone(), true, nil
}

func (m *Memory) DeleteRoomState(roomCode string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.snapshots, roomCode)
	return nil
}

func (m *Memory) SaveGameRecord(record models.GameRecord) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.records = append(m.records, record)
	return nil
}

func (m *Memory) ListGameRecords(roomCode string, limit int) ([]models.GameRecord, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	var records []models.GameRecord
	for i := len(m.records) - 1; i >= 0; i-- {
		if roomCode != "" && m.records[i].RoomCode != roomCode {
			continue
		}
		records = append(records, m.records[i])
		if limit > 0 && len(records) == limit {
			break
		}
	}
	return records, nil
}

func (m *Memory) Close() error {
	return nil
}
