package game

import "math/rand"

// AddTeam appends a team in the next palette color. Capped by the palette.
func AddTeam(s GameState) GameState {
	if len(s.Teams) >= len(TeamColors) {
		return s
	}
	next := s.Clone()
	next.Teams = append(next.Teams, newTeam(len(next.Teams)))
	return next
}

// RemoveLastTeam drops the last team and redistributes its players
// round-robin over the kept teams. At least MinTeams teams remain.
func RemoveLastTeam(s GameState) GameState {
	if len(s.Teams) <= MinTeams {
		return s
	}
	next := s.Clone()

	removed := next.Teams[len(next.Teams)-1]
	next.Teams = next.Teams[:len(next.Teams)-1]

	for i, playerID := range removed.PlayerIDs {
		targetIdx := i % len(next.Teams)
		next.Teams[targetIdx].PlayerIDs = append(next.Teams[targetIdx].PlayerIDs, playerID)
		if pIdx := next.PlayerIndex(playerID); pIdx >= 0 {
			next.Players[pIdx].TeamID = next.Teams[targetIdx].ID
		}
	}
	return next
}

// RenameTeam sets a team's display name.
func RenameTeam(s GameState, teamID, name string) GameState {
	idx := s.TeamIndex(teamID)
	if idx == -1 {
		return s
	}
	next := s.Clone()
	next.Teams[idx].Name = name
	return next
}

// ShuffleTeams deals every non-host player across the teams in random order
// and resets all rotation cursors.
func ShuffleTeams(s GameState) GameState {
	next := s.Clone()

	var pool []int
	for i, p := range next.Players {
		if !p.IsHost {
			pool = append(pool, i)
		}
	}
	rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	for i := range next.Teams {
		next.Teams[i].PlayerIDs = []string{}
		next.Teams[i].NextPlayerIndex = 0
	}
	for i, playerIdx := range pool {
		teamIdx := i % len(next.Teams)
		next.Teams[teamIdx].PlayerIDs = append(next.Teams[teamIdx].PlayerIDs, next.Players[playerIdx].ID)
		next.Players[playerIdx].TeamID = next.Teams[teamIdx].ID
	}
	return next
}

// SetLocked toggles whether new players may join.
func SetLocked(s GameState, locked bool) GameState {
	next := s.Clone()
	next.Settings.IsLocked = locked
	return next
}

// SetRoundTime updates the per-turn countdown used by future turns.
func SetRoundTime(s GameState, seconds int) GameState {
	if seconds <= 0 {
		return s
	}
	next := s.Clone()
	next.Settings.RoundTime = seconds
	return next
}

// SetAllowPlayerControl toggles whether the actor may mark their own result.
func SetAllowPlayerControl(s GameState, allow bool) GameState {
	next := s.Clone()
	next.Settings.AllowPlayerControl = allow
	return next
}

// SetMessages updates the guessing prompts shown to the two sides.
func SetMessages(s GameState, guessing, opposing string) GameState {
	next := s.Clone()
	if guessing != "" {
		next.Settings.GuessingMessage = guessing
	}
	if opposing != "" {
		next.Settings.OpposingTeamMsg = opposing
	}
	return next
}
