package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/openparty/charades/clues"
	"github.com/openparty/charades/game"
	"github.com/openparty/charades/logger"
	"github.com/openparty/charades/room"
)

var errUnknownOp = errors.New("unknown host op")

// hostCommand is the JSON body for POST /host?code=ROOM. Only the fields
// relevant to the op need to be set.
type hostCommand struct {
	Op string `json:"op"`

	PlayerID string `json:"playerId,omitempty"`
	TeamID   string `json:"teamId,omitempty"`
	Name     string `json:"name,omitempty"`
	Success  bool   `json:"success,omitempty"`
	Locked   bool   `json:"locked,omitempty"`
	Allow    bool   `json:"allow,omitempty"`
	Seconds  int    `json:"seconds,omitempty"`

	GuessingMessage string `json:"guessingMessage,omitempty"`
	OpposingMessage string `json:"opposingMessage,omitempty"`

	// clue management
	ClueID     string `json:"clueId,omitempty"`
	ClueText   string `json:"clueText,omitempty"`
	Category   string `json:"category,omitempty"`
	Count      int    `json:"count,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`

	// join_host / join_local
	Player game.Player `json:"player,omitempty"`
}

// handleHostCommand is the control surface for the device that owns the
// room. The host process and the room run side by side, so there is no
// auth beyond knowing the room code and being able to reach this address,
// which is expected to be bound to loopback or a trusted network.
func (s *GameServer) handleHostCommand(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	code := r.URL.Query().Get("code")
	rm, exists := s.roomManager.GetRoom(code)
	if !exists {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}

	var cmd hostCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, "malformed command", http.StatusBadRequest)
		return
	}

	if err := s.dispatchHostCommand(rm, cmd); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rm.GetState())
}

func (s *GameServer) dispatchHostCommand(rm *room.Room, cmd hostCommand) error {
	switch cmd.Op {
	case "start_setup":
		rm.StartSetup()
	case "begin_playing":
		return rm.BeginPlaying()
	case "reveal_clue":
		rm.RevealClue()
	case "start_timer":
		rm.StartTurnTimer()
	case "mark_result":
		rm.MarkResult(cmd.Success)
	case "force_next_turn":
		rm.ForceNextTurn()
	case "end_game":
		rm.EndGame()

	case "join_host":
		rm.JoinHost(cmd.Player)
	case "join_local":
		return rm.JoinLocalPlayer(cmd.Player)

	case "add_team":
		rm.AddTeam()
	case "remove_team":
		rm.RemoveLastTeam()
	case "shuffle_teams":
		rm.ShuffleTeams()
	case "rename_team":
		rm.RenameTeam(cmd.TeamID, cmd.Name)
	case "move_player":
		rm.MovePlayer(cmd.PlayerID)
	case "kick_player":
		rm.KickPlayer(cmd.PlayerID)

	case "generate_clues":
		state := rm.GetState()
		avoid := make([]string, 0, len(state.Clues))
		for _, c := range state.Clues {
			avoid = append(avoid, c.Text)
		}
		generated := clues.Generate(cmd.Category, cmd.Count, clues.Difficulty(cmd.Difficulty), avoid)
		rm.AddClues(generated)
	case "import_clues":
		rm.AddClues(clues.Parse(cmd.ClueText))
	case "add_clue":
		rm.AddClues([]game.Clue{clues.New(cmd.ClueText)})
	case "remove_clue":
		rm.RemoveClue(cmd.ClueID)

	case "set_locked":
		rm.SetLocked(cmd.Locked)
	case "set_round_time":
		rm.SetRoundTime(cmd.Seconds)
	case "set_player_control":
		rm.SetAllowPlayerControl(cmd.Allow)
	case "set_messages":
		rm.SetMessages(cmd.GuessingMessage, cmd.OpposingMessage)

	default:
		logger.Log.Warnf("Unknown host op: %s", cmd.Op)
		return errUnknownOp
	}
	return nil
}
