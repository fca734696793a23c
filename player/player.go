package player

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/openparty/charades/game"
	"github.com/openparty/charades/logger"
	"github.com/openparty/charades/network"
)

// Terminal errors. Once Err returns one of these the synchronizer has given
// up and will not reconnect.
var (
	ErrRoomLocked = errors.New("room is locked")
	ErrRoomEnded  = errors.New("the host has ended the game")
)

// ErrNotConnected is returned by SendAction while there is no live channel.
var ErrNotConnected = errors.New("not connected to host")

// ErrHostUnreachable wraps dial failures. Usually the room code is wrong or
// the host is gone; the synchronizer keeps retrying regardless.
var ErrHostUnreachable = errors.New("host unreachable")

type Status int

const (
	StatusSearching Status = iota // dialing or waiting to redial
	StatusConnected               // channel open, waiting for first snapshot
	StatusSynced                  // at least one STATE_UPDATE applied
	StatusClosed                  // Stop called or terminal error
)

// ConnectFunc dials the host and returns an open channel. Injected so tests
// can wire a pipe instead of a real WebSocket.
type ConnectFunc func() (network.Connection, error)

// DialWebSocket returns a ConnectFunc for a ws:// or wss:// URL, typically
// "ws://host:8080/ws?code=ROOM".
func DialWebSocket(url string) ConnectFunc {
	return func() (network.Connection, error) {
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrHostUnreachable, err)
		}
		return network.NewWSConnection(conn), nil
	}
}

// Synchronizer keeps one player's view of the game converged with the host.
// It joins, applies every snapshot it receives, and silently redials whenever
// the channel drops. The host never pushes deltas, so a reconnect needs no
// handshake beyond re-sending PLAYER_JOIN.
type Synchronizer struct {
	self          game.Player
	connect       ConnectFunc
	retryInterval time.Duration

	mutex   sync.RWMutex
	conn    network.Connection
	state   *game.GameState
	status  Status
	err     error // terminal
	lastErr error // most recent transport error, recoverable

	updates  chan game.GameState
	retry    chan struct{}
	stopChan chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

func NewSynchronizer(self game.Player, connect ConnectFunc) *Synchronizer {
	return &Synchronizer{
		self:          self,
		connect:       connect,
		retryInterval: 3 * time.Second,
		updates:       make(chan game.GameState, 16),
		retry:         make(chan struct{}, 1),
		stopChan:      make(chan struct{}),
		done:          make(chan struct{}),
	}
}

// SetRetryInterval must be called before Start.
func (s *Synchronizer) SetRetryInterval(d time.Duration) {
	s.retryInterval = d
}

func (s *Synchronizer) Start() {
	go s.run()
}

// Stop tears the synchronizer down. Safe to call more than once.
func (s *Synchronizer) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
		s.mutex.Lock()
		if s.conn != nil {
			s.conn.Close()
		}
		if s.status != StatusClosed {
			s.status = StatusClosed
		}
		s.mutex.Unlock()
	})
}

// Retry clears the transient error and redials now instead of waiting out
// the backoff. The UI calls this on a manual retry or when the app comes
// back to the foreground.
func (s *Synchronizer) Retry() {
	s.mutex.Lock()
	s.lastErr = nil
	s.mutex.Unlock()
	select {
	case s.retry <- struct{}{}:
	default:
	}
}

// Updates delivers every applied snapshot. The channel is buffered; if the
// consumer lags, intermediate snapshots are dropped in favour of newer ones.
func (s *Synchronizer) Updates() <-chan game.GameState {
	return s.updates
}

// State returns the last applied snapshot, or nil before the first one.
// Kept across disconnects so the UI can keep rendering while redialing.
func (s *Synchronizer) State() *game.GameState {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.state == nil {
		return nil
	}
	clone := s.state.Clone()
	return &clone
}

func (s *Synchronizer) Status() Status {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.status
}

// Err returns the terminal error, if any.
func (s *Synchronizer) Err() error {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.err
}

// LastError returns the most recent recoverable transport error.
func (s *Synchronizer) LastError() error {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.lastErr
}

// Done closes when the run loop has exited.
func (s *Synchronizer) Done() <-chan struct{} {
	return s.done
}

// SendAction submits a turn action to the host. The host is the one that
// decides whether the action is allowed; an unauthorized action is simply
// ignored there.
func (s *Synchronizer) SendAction(action string, success bool) error {
	s.mutex.RLock()
	conn := s.conn
	s.mutex.RUnlock()
	if conn == nil {
		return ErrNotConnected
	}
	return conn.Send(network.MsgPlayerAction, network.PlayerActionPayload{
		Action:   action,
		PlayerID: s.self.ID,
		Data:     network.ActionData{Success: success},
	})
}

// RequestState asks the host for a fresh snapshot immediately.
func (s *Synchronizer) RequestState() error {
	s.mutex.RLock()
	conn := s.conn
	s.mutex.RUnlock()
	if conn == nil {
		return ErrNotConnected
	}
	return conn.Send(network.MsgRequestState, network.RequestStatePayload{PlayerID: s.self.ID})
}

func (s *Synchronizer) run() {
	defer close(s.done)

	for {
		if s.stopped() {
			return
		}

		conn, err := s.connect()
		if err != nil {
			s.setLastErr(err)
			logger.Log.Infof("Dial failed: %v, retrying in %s", err, s.retryInterval)
			if !s.wait() {
				return
			}
			continue
		}

		if terminal := s.serve(conn); terminal {
			s.Stop()
			return
		}
		if !s.wait() {
			return
		}
	}
}

// serve owns one channel until it dies. Returns true on a terminal message.
func (s *Synchronizer) serve(conn network.Connection) bool {
	s.mutex.Lock()
	s.conn = conn
	s.status = StatusConnected
	s.mutex.Unlock()

	defer func() {
		s.mutex.Lock()
		if s.conn == conn {
			s.conn = nil
			if s.status != StatusClosed {
				s.status = StatusSearching
			}
		}
		s.mutex.Unlock()
		conn.Close()
	}()

	// Join, then request the state anyway: if the host's join reply is lost
	// the explicit request covers for it.
	if err := conn.Send(network.MsgPlayerJoin, s.self); err != nil {
		s.setLastErr(err)
		return false
	}
	conn.Send(network.MsgRequestState, network.RequestStatePayload{PlayerID: s.self.ID})

	stopHeartbeat := s.startHeartbeat(conn)
	defer stopHeartbeat()

	for {
		env, err := conn.ReadEnvelope()
		if err != nil {
			if s.stopped() {
				return false
			}
			s.setLastErr(err)
			logger.Log.Infof("Channel lost: %v", err)
			return false
		}

		switch env.Type {
		case network.MsgStateUpdate:
			state, err := network.DecodeState(env)
			if err != nil {
				logger.Log.Warnf("Malformed state update: %v", err)
				continue
			}
			s.applyState(state)

		case network.MsgJoinError:
			var payload network.JoinErrorPayload
			network.DecodePayload(env, &payload)
			logger.Log.Infof("Join rejected: %s", payload.Message)
			s.setTerminal(fmt.Errorf("%w: %s", ErrRoomLocked, payload.Message))
			return true

		case network.MsgGameEnded:
			// The mirror flips to FINISHED so the UI renders the end state
			// rather than the last mid-game snapshot.
			s.mutex.Lock()
			if s.state != nil {
				s.state.Phase = game.PhaseFinished
			}
			s.mutex.Unlock()
			s.setTerminal(ErrRoomEnded)
			return true
		}
	}
}

// startHeartbeat re-requests the snapshot until the first one lands. Covers
// the race where PLAYER_JOIN arrived before the host finished hydrating.
func (s *Synchronizer) startHeartbeat(conn network.Connection) func() {
	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(s.retryInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				if s.State() != nil {
					return
				}
				conn.Send(network.MsgRequestState, network.RequestStatePayload{PlayerID: s.self.ID})
			}
		}
	}()
	var once sync.Once
	return func() { once.Do(func() { close(stop) }) }
}

func (s *Synchronizer) applyState(state game.GameState) {
	s.mutex.Lock()
	clone := state.Clone()
	s.state = &clone
	if s.status != StatusClosed {
		s.status = StatusSynced
	}
	s.mutex.Unlock()

	for {
		select {
		case s.updates <- state:
			return
		default:
			// drop the oldest queued snapshot
			select {
			case <-s.updates:
			default:
			}
		}
	}
}

func (s *Synchronizer) setTerminal(err error) {
	s.mutex.Lock()
	s.err = err
	s.status = StatusClosed
	s.mutex.Unlock()
}

func (s *Synchronizer) setLastErr(err error) {
	s.mutex.Lock()
	s.lastErr = err
	s.mutex.Unlock()
}

func (s *Synchronizer) stopped() bool {
	select {
	case <-s.stopChan:
		return true
	default:
		return false
	}
}

// wait sleeps one retry interval, returning early on Retry or false on stop.
func (s *Synchronizer) wait() bool {
	timer := time.NewTimer(s.retryInterval)
	defer timer.Stop()
	select {
	case <-s.stopChan:
		return false
	case <-s.retry:
		return true
	case <-timer.C:
		return true
	}
}
