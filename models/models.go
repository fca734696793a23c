package models

import (
	"time"

	"github.com/openparty/charades/game"
)

// TeamResult is one team's final line in a game record.
type TeamResult struct {
	TeamID  string `json:"team_id"`
	Name    string `json:"name"`
	Score   int    `json:"score"`
	Players int    `json:"players"`
	Won     bool   `json:"won"`
}

// GameRecord archives a finished game.
type GameRecord struct {
	RoomCode   string       `json:"room_code"`
	Mode       game.Mode    `json:"mode"`
	Rounds     int          `json:"rounds"`
	CluesUsed  int          `json:"clues_used"`
	Teams      []TeamResult `json:"teams"`
	FinishedAt time.Time    `json:"finished_at"`
}

// NewGameRecord derives a record from a FINISHED state. Every team with the
// top score is marked as a winner, so ties produce multiple winners.
func NewGameRecord(state game.GameState) GameRecord {
	record := GameRecord{
		RoomCode:   state.RoomCode,
		Mode:       state.Mode,
		FinishedAt: time.Now(),
	}
	if state.CurrentTurn != nil {
		record.Rounds = state.CurrentTurn.RoundNumber
	}
	for _, c := range state.Clues {
		if c.Status == game.ClueUsed {
			record.CluesUsed++
		}
	}

	top := 0
	for _, t := range state.Teams {
		if t.Score > top {
			top = t.Score
		}
	}
	for _, t := range state.Teams {
		record.Teams = append(record.Teams, TeamResult{
			TeamID:  t.ID,
			Name:    t.Name,
			Score:   t.Score,
			Players: len(t.PlayerIDs),
			Won:     top > 0 && t.Score == top,
		})
	}
	return record
}
