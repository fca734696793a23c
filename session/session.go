package session

import (
	"sync"
	"time"

	"github.com/openparty/charades/network"
)

// Session is one accepted connection. PlayerID is empty until the first
// PLAYER_JOIN arrives on it; a reconnecting player gets a brand new session
// bound to the same player id.
type Session struct {
	ID        string
	Conn      network.Connection
	RoomCode  string
	CreatedAt time.Time

	mutex      sync.RWMutex
	playerID   string
	lastActive time.Time
}

func NewSession(id string, conn network.Connection) *Session {
	now := time.Now()
	return &Session{
		ID:         id,
		Conn:       conn,
		CreatedAt:  now,
		lastActive: now,
	}
}

func (s *Session) GetID() string {
	return s.ID
}

func (s *Session) SetPlayerID(playerID string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.playerID = playerID
}

func (s *Session) PlayerID() string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.playerID
}

// Touch records activity on the session. Called from both the read loop and
// the send path, hence the lock.
func (s *Session) Touch() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.lastActive = time.Now()
}

func (s *Session) LastActive() time.Time {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.lastActive
}

func (s *Session) Send(msgType string, payload interface{}) error {
	s.Touch()
	return s.Conn.Send(msgType, payload)
}

func (s *Session) Close() error {
	return s.Conn.Close()
}

// Manager tracks every live session across all rooms.
type Manager struct {
	sessions map[string]*Session
	mutex    sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
	}
}

func (m *Manager) Add(session *Session) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.sessions[session.ID] = session
}

func (m *Manager) Remove(sessionID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.sessions, sessionID)
}

func (m *Manager) Get(sessionID string) (*Session, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	session, exists := m.sessions[sessionID]
	return session, exists
}

// GetByPlayerID returns every session currently bound to a player id. More
// than one can exist briefly when a client reconnects before its old channel
// times out.
func (m *Manager) GetByPlayerID(playerID string) []*Session {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	var result []*Session
	for _, session := range m.sessions {
		if session.PlayerID() == playerID {
			result = append(result, session)
		}
	}
	return result
}

func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.sessions)
}
