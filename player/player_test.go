package player

import (
	"encoding/json"
	"errors"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/openparty/charades/game"
	"github.com/openparty/charades/network"
)

// fakeConn is the host side of a scripted channel: the test pushes envelopes
// the synchronizer will read, and inspects what it sent.
type fakeConn struct {
	in        chan *network.Envelope
	mutex     sync.Mutex
	sent      []string
	closed    chan struct{}
	closeOnce sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		in:     make(chan *network.Envelope, 16),
		closed: make(chan struct{}),
	}
}

func (c *fakeConn) Send(msgType string, payload interface{}) error {
	select {
	case <-c.closed:
		return io.ErrClosedPipe
	default:
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.sent = append(c.sent, msgType)
	return nil
}

func (c *fakeConn) ReadEnvelope() (*network.Envelope, error) {
	select {
	case env := <-c.in:
		return env, nil
	case <-c.closed:
		return nil, io.EOF
	}
}

func (c *fakeConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

func (c *fakeConn) RemoteAddr() net.Addr { return &net.TCPAddr{} }

func (c *fakeConn) sentCount(msgType string) int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	n := 0
	for _, m := range c.sent {
		if m == msgType {
			n++
		}
	}
	return n
}

func (c *fakeConn) push(t *testing.T, msgType string, payload interface{}) {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal %s payload: %v", msgType, err)
	}
	c.in <- &network.Envelope{Type: msgType, Payload: raw}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for !cond() {
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for %s", what)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func testPlayer() game.Player {
	return game.Player{ID: "p1", Name: "Alice"}
}

func TestSynchronizerJoinsAndAppliesSnapshot(t *testing.T) {
	conn := newFakeConn()
	s := NewSynchronizer(testPlayer(), func() (network.Connection, error) { return conn, nil })
	s.SetRetryInterval(20 * time.Millisecond)
	s.Start()
	defer s.Stop()

	waitFor(t, "PLAYER_JOIN", func() bool { return conn.sentCount(network.MsgPlayerJoin) == 1 })

	state := game.NewGameState("TEST01", game.ModeOnline)
	conn.push(t, network.MsgStateUpdate, state)

	waitFor(t, "synced status", func() bool { return s.Status() == StatusSynced })
	got := s.State()
	if got == nil || got.RoomCode != "TEST01" {
		t.Fatalf("State() = %+v, want snapshot for TEST01", got)
	}

	select {
	case update := <-s.Updates():
		if update.RoomCode != "TEST01" {
			t.Errorf("update room = %s, want TEST01", update.RoomCode)
		}
	case <-time.After(time.Second):
		t.Error("No update delivered")
	}
}

func TestSynchronizerHeartbeatsUntilFirstSnapshot(t *testing.T) {
	conn := newFakeConn()
	s := NewSynchronizer(testPlayer(), func() (network.Connection, error) { return conn, nil })
	s.SetRetryInterval(20 * time.Millisecond)
	s.Start()
	defer s.Stop()

	// With no snapshot arriving, REQUEST_STATE keeps going out.
	waitFor(t, "heartbeat", func() bool { return conn.sentCount(network.MsgRequestState) >= 2 })

	conn.push(t, network.MsgStateUpdate, game.NewGameState("TEST01", game.ModeOnline))
	waitFor(t, "synced status", func() bool { return s.Status() == StatusSynced })

	// After the first snapshot the heartbeat stops.
	time.Sleep(60 * time.Millisecond)
	count := conn.sentCount(network.MsgRequestState)
	time.Sleep(100 * time.Millisecond)
	if got := conn.sentCount(network.MsgRequestState); got != count {
		t.Errorf("Heartbeat still running after sync: %d -> %d", count, got)
	}
}

func TestSynchronizerJoinErrorIsTerminal(t *testing.T) {
	conn := newFakeConn()
	dials := 0
	s := NewSynchronizer(testPlayer(), func() (network.Connection, error) {
		dials++
		return conn, nil
	})
	s.SetRetryInterval(10 * time.Millisecond)
	s.Start()

	conn.push(t, network.MsgJoinError, network.JoinErrorPayload{Message: "room is locked"})

	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("Synchronizer did not stop on JOIN_ERROR")
	}
	if !errors.Is(s.Err(), ErrRoomLocked) {
		t.Errorf("Err() = %v, want ErrRoomLocked", s.Err())
	}
	if s.Status() != StatusClosed {
		t.Errorf("Status = %v, want closed", s.Status())
	}
	if dials != 1 {
		t.Errorf("Redialed %d times after a terminal error, want 1 dial total", dials)
	}
}

func TestSynchronizerGameEndedIsTerminal(t *testing.T) {
	conn := newFakeConn()
	s := NewSynchronizer(testPlayer(), func() (network.Connection, error) { return conn, nil })
	s.SetRetryInterval(10 * time.Millisecond)
	s.Start()

	conn.push(t, network.MsgStateUpdate, game.NewGameState("TEST01", game.ModeOnline))
	waitFor(t, "synced status", func() bool { return s.Status() == StatusSynced })

	conn.push(t, network.MsgGameEnded, struct{}{})

	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("Synchronizer did not stop on GAME_ENDED")
	}
	if !errors.Is(s.Err(), ErrRoomEnded) {
		t.Errorf("Err() = %v, want ErrRoomEnded", s.Err())
	}
	if got := s.State(); got == nil || got.Phase != game.PhaseFinished {
		t.Error("Local mirror not marked FINISHED on GAME_ENDED")
	}
}

func TestSynchronizerReconnectsAfterDrop(t *testing.T) {
	var mutex sync.Mutex
	conns := []*fakeConn{}
	connect := func() (network.Connection, error) {
		mutex.Lock()
		defer mutex.Unlock()
		c := newFakeConn()
		conns = append(conns, c)
		return c, nil
	}
	nthConn := func(i int) *fakeConn {
		mutex.Lock()
		defer mutex.Unlock()
		if len(conns) <= i {
			return nil
		}
		return conns[i]
	}

	s := NewSynchronizer(testPlayer(), connect)
	s.SetRetryInterval(10 * time.Millisecond)
	s.Start()
	defer s.Stop()

	waitFor(t, "first dial", func() bool { return nthConn(0) != nil })
	first := nthConn(0)
	first.push(t, network.MsgStateUpdate, game.NewGameState("TEST01", game.ModeOnline))
	waitFor(t, "synced status", func() bool { return s.Status() == StatusSynced })

	// Kill the channel; the synchronizer must redial and re-join on its own.
	first.Close()
	waitFor(t, "redial", func() bool { return nthConn(1) != nil })
	second := nthConn(1)
	waitFor(t, "re-join", func() bool { return second.sentCount(network.MsgPlayerJoin) == 1 })

	// The stale snapshot is kept for display while the new one is pending.
	if got := s.State(); got == nil || got.RoomCode != "TEST01" {
		t.Error("Snapshot dropped across a reconnect")
	}
}

func TestSynchronizerKeepsRetryingFailedDials(t *testing.T) {
	var mutex sync.Mutex
	attempts := 0
	conn := newFakeConn()
	connect := func() (network.Connection, error) {
		mutex.Lock()
		defer mutex.Unlock()
		attempts++
		if attempts < 3 {
			return nil, ErrHostUnreachable
		}
		return conn, nil
	}

	s := NewSynchronizer(testPlayer(), connect)
	s.SetRetryInterval(10 * time.Millisecond)
	s.Start()
	defer s.Stop()

	waitFor(t, "join after failed dials", func() bool { return conn.sentCount(network.MsgPlayerJoin) == 1 })
	if !errors.Is(s.LastError(), ErrHostUnreachable) {
		t.Errorf("LastError() = %v, want ErrHostUnreachable", s.LastError())
	}
	if s.Err() != nil {
		t.Errorf("Err() = %v, dial failures must not be terminal", s.Err())
	}
}

func TestSendActionWhileDisconnected(t *testing.T) {
	s := NewSynchronizer(testPlayer(), func() (network.Connection, error) {
		return nil, ErrHostUnreachable
	})
	s.SetRetryInterval(10 * time.Millisecond)
	s.Start()
	defer s.Stop()

	if err := s.SendAction(network.ActionRevealClue, false); err != ErrNotConnected {
		t.Errorf("SendAction while disconnected: err = %v, want ErrNotConnected", err)
	}
}

func TestRetrySkipsBackoff(t *testing.T) {
	var mutex sync.Mutex
	attempts := 0
	connect := func() (network.Connection, error) {
		mutex.Lock()
		defer mutex.Unlock()
		attempts++
		return nil, ErrHostUnreachable
	}

	s := NewSynchronizer(testPlayer(), connect)
	s.SetRetryInterval(time.Hour) // never fires on its own
	s.Start()
	defer s.Stop()

	waitFor(t, "first dial", func() bool {
		mutex.Lock()
		defer mutex.Unlock()
		return attempts == 1
	})

	s.Retry()
	waitFor(t, "manual retry dial", func() bool {
		mutex.Lock()
		defer mutex.Unlock()
		return attempts == 2
	})
}
