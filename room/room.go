package room

import (
	"sync"
	"time"

	"github.com/openparty/charades/game"
	"github.com/openparty/charades/logger"
	"github.com/openparty/charades/network"
	"github.com/openparty/charades/session"
	"github.com/openparty/charades/timer"
)

// Room owns the canonical GameState of one game. Every mutation funnels
// through the inbox and is handled by a single goroutine, so concurrent
// messages from different connections are applied one at a time. Each
// accepted mutation runs the same pipeline: apply the engine transition,
// persist the snapshot, broadcast it.
type Room struct {
	Code      string
	CreatedAt time.Time

	inbox chan roomMsg
	state game.GameState

	sessions     map[string]*session.Session
	sessionMutex sync.RWMutex

	broadcaster Broadcaster
	store       SnapshotStore
	recorder    Recorder
	timers      *timer.Manager

	tickTaskID int64
	recorded   bool

	closeOnce sync.Once
	done      chan struct{}
}

type roomMsg interface{ isRoomMsg() }

type joinMsg struct {
	sess   *session.Session
	player game.Player
}

type stateRequestMsg struct {
	sess *session.Session
}

type playerActionMsg struct {
	payload network.PlayerActionPayload
}

type tickMsg struct{}

// hostCommandMsg carries a host-side mutation as a command; reply reports
// precondition failures (for example BeginPlaying with no clues).
type hostCommandMsg struct {
	apply func(game.GameState) (game.GameState, error)
	reply chan error
}

type getStateMsg struct {
	reply chan game.GameState
}

type shutdownMsg struct {
	notifyEnded bool
}

func (joinMsg) isRoomMsg()         {}
func (stateRequestMsg) isRoomMsg() {}
func (playerActionMsg) isRoomMsg() {}
func (tickMsg) isRoomMsg()         {}
func (hostCommandMsg) isRoomMsg()  {}
func (getStateMsg) isRoomMsg()     {}
func (shutdownMsg) isRoomMsg()     {}

func newRoom(code string, initial game.GameState, broadcaster Broadcaster, store SnapshotStore, recorder Recorder, timers *timer.Manager) *Room {
	r := &Room{
		Code:        code,
		CreatedAt:   time.Now(),
		inbox:       make(chan roomMsg, 64),
		state:       initial,
		sessions:    make(map[string]*session.Session),
		broadcaster: broadcaster,
		store:       store,
		recorder:    recorder,
		timers:      timers,
		done:        make(chan struct{}),
	}
	go r.loop()
	return r
}

func (r *Room) loop() {
	for {
		select {
		case <-r.done:
			return

		case m := <-r.inbox:
			switch msg := m.(type) {
			case joinMsg:
				r.handleJoin(msg.sess, msg.player)

			case stateRequestMsg:
				r.handleStateRequest(msg.sess)

			case playerActionMsg:
				r.handlePlayerAction(msg.payload)

			case tickMsg:
				r.commit(game.Tick(r.state))

			case hostCommandMsg:
				next, err := msg.apply(r.state)
				if err == nil {
					r.commit(next)
				}
				msg.reply <- err

			case getStateMsg:
				msg.reply <- r.state.Clone()

			case shutdownMsg:
				r.shutdown(msg.notifyEnded)
				return
			}
		}
	}
}

// --- inbound message handlers ---

// handleJoin admits or refreshes a player. A lock rejection is answered with
// a distinguished error on that connection only and the connection is closed
// shortly after; the canonical state is untouched. A successful join replies
// with the full snapshot immediately so the joiner does not wait for the
// next unrelated broadcast.
func (r *Room) handleJoin(sess *session.Session, player game.Player) {
	next, err := game.JoinOrUpdatePlayer(r.state, player)
	if err != nil {
		logger.Log.Infof("Room %s rejected join from %s: %v", r.Code, player.ID, err)
		sess.Send(network.MsgJoinError, network.JoinErrorPayload{Message: "room is locked"})
		r.timers.Add(250*time.Millisecond, 0, func() { sess.Close() })
		return
	}

	sess.SetPlayerID(player.ID)
	r.AttachSession(sess)

	r.state = next
	r.persist()
	sess.Send(network.MsgStateUpdate, r.state)
	r.broadcaster.BroadcastToRoomExcept(r.Code, sess.ID, network.MsgStateUpdate, r.state)
	r.syncTickTask()
}

// handleStateRequest replies to the requesting connection only. Doubles as
// the heartbeat fallback for players that missed the join reply.
func (r *Room) handleStateRequest(sess *session.Session) {
	sess.Send(network.MsgStateUpdate, r.state)
}

// handlePlayerAction applies one of the three recognized player actions.
// Anything from a player who is not the current actor is dropped without a
// reply: late messages after a turn already advanced are normal, not errors.
func (r *Room) handlePlayerAction(payload network.PlayerActionPayload) {
	turn := r.state.CurrentTurn
	if turn == nil || turn.ActorID != payload.PlayerID {
		return
	}

	switch payload.Action {
	case network.ActionRevealClue:
		r.commit(game.SelectRandomClue(r.state))

	case network.ActionStartTimer:
		r.commit(game.StartTimer(r.state))

	case network.ActionMarkResult:
		// Only the host's own controls advance the turn unless the room
		// explicitly allows actor control.
		if !r.state.Settings.AllowPlayerControl {
			return
		}
		r.commit(game.AdvanceTurn(r.state, payload.Data.Success))

	default:
		logger.Log.Debugf("Room %s ignoring unknown action %q", r.Code, payload.Action)
	}
}

// commit is the mutate-then-persist-then-broadcast pipeline. The two side
// effects are coupled: no accepted mutation may skip either.
func (r *Room) commit(next game.GameState) {
	r.state = next
	r.persist()
	r.broadcaster.BroadcastToRoom(r.Code, network.MsgStateUpdate, r.state)
	r.syncTickTask()

	if r.state.Phase == game.PhaseFinished && !r.recorded && r.recorder != nil {
		r.recorded = true
		if err := r.recorder.RecordFinishedGame(r.state); err != nil {
			logger.Log.Errorf("Room %s failed to record finished game: %v", r.Code, err)
		}
	}
}

func (r *Room) persist() {
	if err := r.store.SaveRoomState(r.Code, r.state); err != nil {
		logger.Log.Errorf("Room %s failed to persist snapshot: %v", r.Code, err)
	}
}

// syncTickTask keeps exactly one repeating countdown task alive while a turn
// timer is running, and none otherwise. Clearing it whenever the phase or
// the active flag flips is what prevents an orphaned timer from mutating a
// stale turn.
func (r *Room) syncTickTask() {
	active := r.state.Phase == game.PhasePlaying &&
		r.state.CurrentTurn != nil && r.state.CurrentTurn.IsActive

	if active && r.tickTaskID == 0 {
		r.tickTaskID = r.timers.Add(time.Second, time.Second, func() {
			select {
			case r.inbox <- tickMsg{}:
			case <-r.done:
			}
		})
	}
	if !active && r.tickTaskID != 0 {
		r.timers.Remove(r.tickTaskID)
		r.tickTaskID = 0
	}
}

func (r *Room) shutdown(notifyEnded bool) {
	if r.tickTaskID != 0 {
		r.timers.Remove(r.tickTaskID)
		r.tickTaskID = 0
	}
	if notifyEnded {
		// Sent over the room's own sessions, not the broadcaster: by the
		// time a room closes it may already be gone from the registry the
		// broadcaster resolves against, and the ended notice must still
		// reach every connection so players stop redialing.
		for _, sess := range r.GetSessions() {
			sess.Send(network.MsgGameEnded, struct{}{})
		}
		// Only an explicit closure discards the durable snapshot; a plain
		// process shutdown keeps it so the host can recover the game.
		if err := r.store.DeleteRoomState(r.Code); err != nil {
			logger.Log.Errorf("Room %s failed to discard snapshot: %v", r.Code, err)
		}
	}

	r.sessionMutex.Lock()
	for id, sess := range r.sessions {
		sess.Close()
		delete(r.sessions, id)
	}
	r.sessionMutex.Unlock()

	r.closeOnce.Do(func() { close(r.done) })
}

// --- public API (posts into the actor) ---

// HandleJoin runs the join/reconnect flow for an inbound PLAYER_JOIN.
func (r *Room) HandleJoin(sess *session.Session, player game.Player) {
	r.post(joinMsg{sess: sess, player: player})
}

// HandleStateRequest answers a REQUEST_STATE with the current snapshot.
func (r *Room) HandleStateRequest(sess *session.Session) {
	r.post(stateRequestMsg{sess: sess})
}

// HandlePlayerAction validates and applies an inbound PLAYER_ACTION.
func (r *Room) HandlePlayerAction(payload network.PlayerActionPayload) {
	r.post(playerActionMsg{payload: payload})
}

// GetState returns a copy of the canonical state.
func (r *Room) GetState() game.GameState {
	reply := make(chan game.GameState, 1)
	if !r.post(getStateMsg{reply: reply}) {
		return game.GameState{}
	}
	select {
	case s := <-reply:
		return s
	case <-r.done:
		return game.GameState{}
	}
}

// Close tears the room down and blocks until the loop has exited. With
// notifyEnded the GAME_ENDED notice goes out first, which is the explicit
// "host closed the room" path; without it the room just stops (process
// shutdown, snapshot kept for recovery).
func (r *Room) Close(notifyEnded bool) {
	select {
	case r.inbox <- shutdownMsg{notifyEnded: notifyEnded}:
		<-r.done
	case <-r.done:
	}
}

func (r *Room) post(m roomMsg) bool {
	select {
	case r.inbox <- m:
		return true
	case <-r.done:
		return false
	}
}

func (r *Room) apply(fn func(game.GameState) (game.GameState, error)) error {
	reply := make(chan error, 1)
	if !r.post(hostCommandMsg{apply: fn, reply: reply}) {
		return ErrRoomClosed
	}
	select {
	case err := <-reply:
		return err
	case <-r.done:
		return ErrRoomClosed
	}
}

func (r *Room) applyPure(fn func(game.GameState) game.GameState) {
	r.apply(func(s game.GameState) (game.GameState, error) {
		return fn(s), nil
	})
}

// --- host controls ---

// StartSetup locks the room and moves LOBBY -> SETUP.
func (r *Room) StartSetup() { r.applyPure(game.StartSetup) }

// BeginPlaying moves SETUP -> PLAYING and seats the opening turn.
func (r *Room) BeginPlaying() error {
	return r.apply(game.BeginPlaying)
}

// RevealClue assigns a random pending clue to the current turn.
func (r *Room) RevealClue() { r.applyPure(game.SelectRandomClue) }

// StartTurnTimer activates the countdown for the current turn.
func (r *Room) StartTurnTimer() { r.applyPure(game.StartTimer) }

// MarkResult closes the turn from the host's controls.
func (r *Room) MarkResult(success bool) {
	r.applyPure(func(s game.GameState) game.GameState { return game.AdvanceTurn(s, success) })
}

// ForceNextTurn skips to the next turn with no score awarded.
func (r *Room) ForceNextTurn() { r.MarkResult(false) }

// EndGame finishes the game immediately.
func (r *Room) EndGame() { r.applyPure(game.EndGame) }

// JoinHost seats the host's own moderator record (LOCAL mode and the host's
// device in ONLINE mode).
func (r *Room) JoinHost(host game.Player) {
	host.IsHost = true
	r.applyPure(func(s game.GameState) game.GameState {
		next, err := game.JoinOrUpdatePlayer(s, host)
		if err != nil {
			return s
		}
		return next
	})
}

// JoinLocalPlayer seats a player directly, bypassing the transport. Only
// sensible for LOCAL rooms.
func (r *Room) JoinLocalPlayer(player game.Player) error {
	return r.apply(func(s game.GameState) (game.GameState, error) {
		return game.JoinOrUpdatePlayer(s, player)
	})
}

func (r *Room) AddTeam()        { r.applyPure(game.AddTeam) }
func (r *Room) RemoveLastTeam() { r.applyPure(game.RemoveLastTeam) }
func (r *Room) ShuffleTeams()   { r.applyPure(game.ShuffleTeams) }

func (r *Room) RenameTeam(teamID, name string) {
	r.applyPure(func(s game.GameState) game.GameState { return game.RenameTeam(s, teamID, name) })
}

func (r *Room) MovePlayer(playerID string) {
	r.applyPure(func(s game.GameState) game.GameState { return game.MovePlayer(s, playerID) })
}

func (r *Room) KickPlayer(playerID string) {
	r.applyPure(func(s game.GameState) game.GameState { return game.KickPlayer(s, playerID) })
}

func (r *Room) AddClues(clues []game.Clue) {
	r.applyPure(func(s game.GameState) game.GameState { return game.AddClues(s, clues) })
}

func (r *Room) RemoveClue(clueID string) {
	r.applyPure(func(s game.GameState) game.GameState { return game.RemoveClue(s, clueID) })
}

func (r *Room) SetLocked(locked bool) {
	r.applyPure(func(s game.GameState) game.GameState { return game.SetLocked(s, locked) })
}

func (r *Room) SetRoundTime(seconds int) {
	r.applyPure(func(s game.GameState) game.GameState { return game.SetRoundTime(s, seconds) })
}

func (r *Room) SetAllowPlayerControl(allow bool) {
	r.applyPure(func(s game.GameState) game.GameState { return game.SetAllowPlayerControl(s, allow) })
}

func (r *Room) SetMessages(guessing, opposing string) {
	r.applyPure(func(s game.GameState) game.GameState { return game.SetMessages(s, guessing, opposing) })
}

// --- session bookkeeping ---

// AttachSession registers an open connection with the room.
func (r *Room) AttachSession(sess *session.Session) {
	r.sessionMutex.Lock()
	defer r.sessionMutex.Unlock()
	sess.RoomCode = r.Code
	r.sessions[sess.ID] = sess
}

// DetachSession drops a connection. The player record stays in the state so
// a reconnect keeps its identity and team.
func (r *Room) DetachSession(sessionID string) {
	r.sessionMutex.Lock()
	defer r.sessionMutex.Unlock()
	delete(r.sessions, sessionID)
}

// GetSessions returns a snapshot of the open connections (thread-safe).
func (r *Room) GetSessions() []*session.Session {
	r.sessionMutex.RLock()
	defer r.sessionMutex.RUnlock()

	sessions := make([]*session.Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	return sessions
}
