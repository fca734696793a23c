package game

import (
	"fmt"

	"github.com/google/uuid"
)

// Mode 表示房间的运行模式：联机或单机
type Mode string

const (
	ModeOnline Mode = "ONLINE"
	ModeLocal  Mode = "LOCAL"
)

// Phase 游戏阶段
type Phase string

const (
	PhaseLobby    Phase = "LOBBY"
	PhaseSetup    Phase = "SETUP"
	PhasePlaying  Phase = "PLAYING"
	PhaseFinished Phase = "FINISHED"
)

// ClueStatus transitions one-way: pending -> used, or pending -> skipped.
type ClueStatus string

const (
	CluePending ClueStatus = "pending"
	ClueUsed    ClueStatus = "used"
	ClueSkipped ClueStatus = "skipped"
)

type Player struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	AvatarSeed  string `json:"avatarSeed"`
	AvatarStyle string `json:"avatarStyle"`
	TeamID      string `json:"teamId,omitempty"`
	IsHost      bool   `json:"isHost"`
}

type Team struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Color           string   `json:"color"`
	Score           int      `json:"score"`
	PlayerIDs       []string `json:"playerIds"`
	NextPlayerIndex int      `json:"nextPlayerIndex"`
}

type Clue struct {
	ID     string     `json:"id"`
	Text   string     `json:"text"`
	Status ClueStatus `json:"status"`
}

// Turn 当前回合
type Turn struct {
	TeamID      string `json:"teamId"`
	ActorID     string `json:"actorId"`
	Clue        *Clue  `json:"clue"`
	TimeLeft    int    `json:"timeLeft"`
	IsActive    bool   `json:"isActive"`
	RoundNumber int    `json:"roundNumber"`
}

type Settings struct {
	IsLocked           bool   `json:"isLocked"`
	RoundTime          int    `json:"roundTime"`
	RoundsToWin        int    `json:"roundsToWin"`
	AllowPlayerControl bool   `json:"allowPlayerControl"`
	GuessingMessage    string `json:"guessingMessage"`
	OpposingTeamMsg    string `json:"opposingTeamMessage"`
}

// GameState is the canonical snapshot of a room. The room coordinator owns
// the single authoritative copy; everything a player holds is disposable.
type GameState struct {
	RoomCode    string   `json:"roomCode"`
	Mode        Mode     `json:"mode"`
	Phase       Phase    `json:"phase"`
	Players     []Player `json:"players"`
	Teams       []Team   `json:"teams"`
	Clues       []Clue   `json:"clues"`
	CurrentTurn *Turn    `json:"currentTurn"`
	Settings    Settings `json:"settings"`
}

// TeamColor 队伍配色
type TeamColor struct {
	Name string
	Hex  string
}

var TeamColors = []TeamColor{
	{Name: "Red", Hex: "bg-red-500"},
	{Name: "Blue", Hex: "bg-blue-500"},
	{Name: "Green", Hex: "bg-green-500"},
	{Name: "Yellow", Hex: "bg-yellow-500"},
	{Name: "Purple", Hex: "bg-purple-500"},
	{Name: "Orange", Hex: "bg-orange-500"},
	{Name: "Teal", Hex: "bg-teal-500"},
	{Name: "Pink", Hex: "bg-pink-500"},
	{Name: "Cyan", Hex: "bg-cyan-500"},
	{Name: "Lime", Hex: "bg-lime-500"},
}

const (
	DefaultRoundTime   = 60
	DefaultRoundsToWin = 5
	MinTeams           = 2
)

// NewGameState creates the LOBBY-phase state for a fresh room: two default
// teams, no players, no clues.
func NewGameState(roomCode string, mode Mode) GameState {
	s := GameState{
		RoomCode: roomCode,
		Mode:     mode,
		Phase:    PhaseLobby,
		Players:  []Player{},
		Clues:    []Clue{},
		Settings: Settings{
			RoundTime:       DefaultRoundTime,
			RoundsToWin:     DefaultRoundsToWin,
			GuessingMessage: "GUESS NOW!",
			OpposingTeamMsg: "Opposing Team Guessing",
		},
	}
	for i := 0; i < MinTeams; i++ {
		s.Teams = append(s.Teams, newTeam(i))
	}
	return s
}

func newTeam(colorIdx int) Team {
	color := TeamColors[colorIdx%len(TeamColors)]
	return Team{
		ID:        uuid.New().String(),
		Name:      fmt.Sprintf("Team %s", color.Name),
		Color:     color.Hex,
		PlayerIDs: []string{},
	}
}

// Clone deep-copies the state so a caller can hand it out without aliasing
// the canonical slices.
func (s GameState) Clone() GameState {
	c := s
	c.Players = append([]Player(nil), s.Players...)
	c.Clues = append([]Clue(nil), s.Clues...)
	c.Teams = make([]Team, len(s.Teams))
	for i, t := range s.Teams {
		t.PlayerIDs = append([]string(nil), t.PlayerIDs...)
		c.Teams[i] = t
	}
	if s.CurrentTurn != nil {
		turn := *s.CurrentTurn
		if turn.Clue != nil {
			clue := *turn.Clue
			turn.Clue = &clue
		}
		c.CurrentTurn = &turn
	}
	return c
}

// TeamIndex returns the position of a team in display order, or -1.
func (s GameState) TeamIndex(teamID string) int {
	for i, t := range s.Teams {
		if t.ID == teamID {
			return i
		}
	}
	return -1
}

// PlayerIndex returns the position of a player in arrival order, or -1.
func (s GameState) PlayerIndex(playerID string) int {
	for i, p := range s.Players {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}

// PendingClues returns the clues still available for selection.
func (s GameState) PendingClues() []Clue {
	var pending []Clue
	for _, c := range s.Clues {
		if c.Status == CluePending {
			pending = append(pending, c)
		}
	}
	return pending
}

// ActivePlayers returns the non-host participants.
func (s GameState) ActivePlayers() []Player {
	var active []Player
	for _, p := range s.Players {
		if !p.IsHost {
			active = append(active, p)
		}
	}
	return active
}

// Hydrate merges a decoded snapshot over freshly constructed defaults so
// schema fields added after the snapshot was written come back with defined
// values instead of zero ones. Explicit step, not an implicit fallback.
func Hydrate(snapshot GameState) GameState {
	fresh := NewGameState(snapshot.RoomCode, snapshot.Mode)

	merged := snapshot.Clone()
	if merged.Mode == "" {
		merged.Mode = ModeOnline
	}
	if merged.Phase == "" {
		merged.Phase = fresh.Phase
	}
	if merged.Players == nil {
		merged.Players = fresh.Players
	}
	if len(merged.Teams) == 0 {
		merged.Teams = fresh.Teams
	}
	if merged.Clues == nil {
		merged.Clues = fresh.Clues
	}
	if merged.Settings.RoundTime == 0 {
		merged.Settings.RoundTime = fresh.Settings.RoundTime
	}
	if merged.Settings.RoundsToWin == 0 {
		merged.Settings.RoundsToWin = fresh.Settings.RoundsToWin
	}
	if merged.Settings.GuessingMessage == "" {
		merged.Settings.GuessingMessage = fresh.Settings.GuessingMessage
	}
	if merged.Settings.OpposingTeamMsg == "" {
		merged.Settings.OpposingTeamMsg = fresh.Settings.OpposingTeamMsg
	}
	return merged
}
