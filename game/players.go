package game

// JoinOrUpdatePlayer admits a new player or refreshes a reconnecting one.
//
// A player reconnecting under a known id keeps its team assignment and host
// flag no matter what the incoming record claims; only the cosmetic fields
// (name, avatar) are taken from the wire. An unknown id on a locked room is
// rejected with ErrRoomLocked. An unknown id on an open room is assigned to
// the team with the fewest members, ties broken by display order. Hosts are
// moderators and never join a team.
func JoinOrUpdatePlayer(s GameState, incoming Player) (GameState, error) {
	if idx := s.PlayerIndex(incoming.ID); idx >= 0 {
		next := s.Clone()
		existing := next.Players[idx]
		existing.Name = incoming.Name
		existing.AvatarSeed = incoming.AvatarSeed
		existing.AvatarStyle = incoming.AvatarStyle
		next.Players[idx] = existing
		return next, nil
	}

	if s.Settings.IsLocked {
		return s, ErrRoomLocked
	}

	next := s.Clone()
	if incoming.IsHost {
		incoming.TeamID = ""
		next.Players = append(next.Players, incoming)
		return next, nil
	}

	target := 0
	for i, t := range next.Teams {
		if len(t.PlayerIDs) < len(next.Teams[target].PlayerIDs) {
			target = i
		}
	}
	incoming.TeamID = next.Teams[target].ID
	next.Teams[target].PlayerIDs = append(next.Teams[target].PlayerIDs, incoming.ID)
	next.Players = append(next.Players, incoming)
	return next, nil
}

// KickPlayer removes a player from the room and every roster. If the kicked
// player is the current actor the turn is parked (inactive, no time left) so
// the host can force the next turn.
func KickPlayer(s GameState, playerID string) GameState {
	idx := s.PlayerIndex(playerID)
	if idx == -1 {
		return s
	}

	next := s.Clone()
	next.Players = append(next.Players[:idx], next.Players[idx+1:]...)
	for i := range next.Teams {
		next.Teams[i].PlayerIDs = removeID(next.Teams[i].PlayerIDs, playerID)
		if next.Teams[i].NextPlayerIndex >= len(next.Teams[i].PlayerIDs) {
			next.Teams[i].NextPlayerIndex = 0
		}
	}
	if next.CurrentTurn != nil && next.CurrentTurn.ActorID == playerID {
		next.CurrentTurn.IsActive = false
		next.CurrentTurn.TimeLeft = 0
	}
	return next
}

// MovePlayer cycles a player to the next team in display order.
func MovePlayer(s GameState, playerID string) GameState {
	idx := s.PlayerIndex(playerID)
	if idx == -1 || s.Players[idx].IsHost {
		return s
	}

	next := s.Clone()
	player := &next.Players[idx]

	currentIdx := next.TeamIndex(player.TeamID)
	targetIdx := 0
	if currentIdx != -1 {
		targetIdx = (currentIdx + 1) % len(next.Teams)
	}

	if currentIdx != -1 {
		next.Teams[currentIdx].PlayerIDs = removeID(next.Teams[currentIdx].PlayerIDs, playerID)
		if next.Teams[currentIdx].NextPlayerIndex >= len(next.Teams[currentIdx].PlayerIDs) {
			next.Teams[currentIdx].NextPlayerIndex = 0
		}
	}
	next.Teams[targetIdx].PlayerIDs = append(next.Teams[targetIdx].PlayerIDs, playerID)
	player.TeamID = next.Teams[targetIdx].ID
	return next
}

func removeID(ids []string, id string) []string {
	kept := ids[:0]
	for _, v := range ids {
		if v != id {
			kept = append(kept, v)
		}
	}
	return kept
}
