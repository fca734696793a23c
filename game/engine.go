package game

import (
	"errors"
	"math/rand"
)

var ErrRoomLocked = errors.New("room is locked")
var ErrNoClues = errors.New("no pending clues")
var ErrTeamEmpty = errors.New("first team has no players")
var ErrWrongPhase = errors.New("operation not valid in this phase")

// The transition functions below are pure: they take a state value, return a
// new one, and never touch anything outside it. Preconditions degrade to
// no-ops rather than errors, because stale messages from a reconnecting
// player can legitimately arrive after the state they refer to is gone.

// AdvanceTurn closes the current turn and rotates to the next team/actor.
// If success is true the acting team scores one point. The consumed clue is
// marked used. Rotation over teams is strict round-robin in display order;
// teams with an empty roster are skipped so a mid-game kick cannot select a
// turn with no actor.
func AdvanceTurn(s GameState, success bool) GameState {
	if s.CurrentTurn == nil {
		return s
	}
	next := s.Clone()
	turn := next.CurrentTurn

	if success {
		if idx := next.TeamIndex(turn.TeamID); idx >= 0 {
			next.Teams[idx].Score++
		}
	}

	if turn.Clue != nil {
		for i, c := range next.Clues {
			if c.ID == turn.Clue.ID {
				next.Clues[i].Status = ClueUsed
				break
			}
		}
	}

	currentIdx := next.TeamIndex(turn.TeamID)
	if currentIdx == -1 {
		// Unreachable while invariant 1 holds, absorb anyway.
		return s
	}

	nextIdx, ok := nextTeamWithPlayers(next.Teams, currentIdx)
	if !ok {
		return s
	}
	nextTeam := &next.Teams[nextIdx]

	playerIdx := nextTeam.NextPlayerIndex
	if playerIdx < 0 || playerIdx >= len(nextTeam.PlayerIDs) {
		playerIdx = 0
	}
	actorID := nextTeam.PlayerIDs[playerIdx]
	nextTeam.NextPlayerIndex = (playerIdx + 1) % len(nextTeam.PlayerIDs)

	next.CurrentTurn = &Turn{
		TeamID:      nextTeam.ID,
		ActorID:     actorID,
		Clue:        nil, // forces the "next up" beat before the clue reveal
		TimeLeft:    next.Settings.RoundTime,
		IsActive:    false,
		RoundNumber: turn.RoundNumber + 1,
	}
	return next
}

// nextTeamWithPlayers scans forward round-robin from currentIdx for a team
// that can field an actor. Reports false when every roster is empty.
func nextTeamWithPlayers(teams []Team, currentIdx int) (int, bool) {
	for step := 1; step <= len(teams); step++ {
		idx := (currentIdx + step) % len(teams)
		if len(teams[idx].PlayerIDs) > 0 {
			return idx, true
		}
	}
	return 0, false
}

// SelectRandomClue assigns a uniformly random pending clue to the current
// turn. Exhausting the clue bank is the game's normal terminal condition, so
// an empty pool finishes the game instead of erroring. Re-selecting while a
// clue is already assigned is a no-op, which makes duplicate REVEAL_CLUE
// messages harmless.
func SelectRandomClue(s GameState) GameState {
	if s.CurrentTurn != nil && s.CurrentTurn.Clue != nil {
		return s
	}

	pending := s.PendingClues()
	if len(pending) == 0 {
		next := s.Clone()
		next.Phase = PhaseFinished
		return next
	}
	if s.CurrentTurn == nil {
		return s
	}

	next := s.Clone()
	picked := pending[rand.Intn(len(pending))]
	next.CurrentTurn.Clue = &picked
	return next
}

// StartTimer activates the current turn's countdown. Idempotent.
func StartTimer(s GameState) GameState {
	if s.CurrentTurn == nil || s.CurrentTurn.IsActive {
		return s
	}
	next := s.Clone()
	next.CurrentTurn.IsActive = true
	return next
}

// Tick decrements the countdown by one second. Hitting zero is equivalent to
// a failed guess: the turn advances with no score.
func Tick(s GameState) GameState {
	if s.Phase != PhasePlaying || s.CurrentTurn == nil || !s.CurrentTurn.IsActive {
		return s
	}
	if s.CurrentTurn.TimeLeft <= 1 {
		next := s.Clone()
		next.CurrentTurn.TimeLeft = 0
		return AdvanceTurn(next, false)
	}
	next := s.Clone()
	next.CurrentTurn.TimeLeft--
	return next
}

// StartSetup moves the lobby into setup and locks the room against further
// joins.
func StartSetup(s GameState) GameState {
	if s.Phase != PhaseLobby {
		return s
	}
	next := s.Clone()
	next.Phase = PhaseSetup
	next.Settings.IsLocked = true
	return next
}

// BeginPlaying starts the first turn. Team 0 always opens; its rotation
// cursor is consumed and advanced exactly the way AdvanceTurn does it, so
// the opening turn and every later one share the same fairness math.
func BeginPlaying(s GameState) (GameState, error) {
	if s.Phase != PhaseSetup {
		return s, ErrWrongPhase
	}
	if len(s.PendingClues()) == 0 {
		return s, ErrNoClues
	}
	if len(s.Teams) == 0 || len(s.Teams[0].PlayerIDs) == 0 {
		return s, ErrTeamEmpty
	}

	next := s.Clone()
	first := &next.Teams[0]

	playerIdx := first.NextPlayerIndex
	if playerIdx < 0 || playerIdx >= len(first.PlayerIDs) {
		playerIdx = 0
	}
	actorID := first.PlayerIDs[playerIdx]
	first.NextPlayerIndex = (playerIdx + 1) % len(first.PlayerIDs)

	next.Phase = PhasePlaying
	next.CurrentTurn = &Turn{
		TeamID:      first.ID,
		ActorID:     actorID,
		Clue:        nil,
		TimeLeft:    next.Settings.RoundTime,
		IsActive:    false,
		RoundNumber: 1,
	}
	return next, nil
}

// EndGame finishes the room immediately. FINISHED is terminal.
func EndGame(s GameState) GameState {
	if s.Phase == PhaseFinished {
		return s
	}
	next := s.Clone()
	next.Phase = PhaseFinished
	return next
}

// AddClues appends clues to the bank.
func AddClues(s GameState, clues []Clue) GameState {
	next := s.Clone()
	next.Clues = append(next.Clues, clues...)
	return next
}

// RemoveClue drops a clue by id.
func RemoveClue(s GameState, clueID string) GameState {
	next := s.Clone()
	kept := next.Clues[:0]
	for _, c := range next.Clues {
		if c.ID != clueID {
			kept = append(kept, c)
		}
	}
	next.Clues = kept
	return next
}
