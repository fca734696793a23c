package game

import "testing"

func join(t *testing.T, s GameState, p Player) GameState {
	t.Helper()
	next, err := JoinOrUpdatePlayer(s, p)
	if err != nil {
		t.Fatalf("JoinOrUpdatePlayer(%s): %v", p.ID, err)
	}
	return next
}

func TestJoinAssignsFewestMemberTeam(t *testing.T) {
	s := NewGameState("TEST01", ModeOnline)

	s = join(t, s, Player{ID: "p1", Name: "Alice"})
	s = join(t, s, Player{ID: "p2", Name: "Bob"})
	s = join(t, s, Player{ID: "p3", Name: "Carol"})

	if got := len(s.Teams[0].PlayerIDs); got != 2 {
		t.Errorf("Team 0 has %d players, want 2", got)
	}
	if got := len(s.Teams[1].PlayerIDs); got != 1 {
		t.Errorf("Team 1 has %d players, want 1", got)
	}
	if s.Players[0].TeamID != s.Teams[0].ID {
		t.Error("First joiner not on team 0")
	}
	if s.Players[1].TeamID != s.Teams[1].ID {
		t.Error("Second joiner should balance onto team 1")
	}
}

func TestReconnectPreservesTeamAndHostFlag(t *testing.T) {
	s := NewGameState("TEST01", ModeOnline)
	s = join(t, s, Player{ID: "p1", Name: "Alice"})
	team := s.Players[0].TeamID

	// The wire record on reconnect may claim anything; only cosmetics stick.
	s = join(t, s, Player{ID: "p1", Name: "Alicia", AvatarSeed: "new-seed", TeamID: "bogus", IsHost: true})

	if got := len(s.Players); got != 1 {
		t.Fatalf("len(Players) = %d after reconnect, want 1", got)
	}
	p := s.Players[0]
	if p.Name != "Alicia" || p.AvatarSeed != "new-seed" {
		t.Error("Reconnect should refresh name and avatar")
	}
	if p.TeamID != team {
		t.Errorf("TeamID = %s after reconnect, want %s", p.TeamID, team)
	}
	if p.IsHost {
		t.Error("Reconnect must not grant the host flag")
	}
}

func TestJoinLockedRoomRejectsUnknownAllowsKnown(t *testing.T) {
	s := NewGameState("TEST01", ModeOnline)
	s = join(t, s, Player{ID: "p1", Name: "Alice"})
	s = SetLocked(s, true)

	if _, err := JoinOrUpdatePlayer(s, Player{ID: "p2", Name: "Bob"}); err != ErrRoomLocked {
		t.Errorf("Unknown join on locked room: err = %v, want ErrRoomLocked", err)
	}

	// A known id reconnecting is not a join and always passes.
	next, err := JoinOrUpdatePlayer(s, Player{ID: "p1", Name: "Alice"})
	if err != nil {
		t.Fatalf("Known id rejected on locked room: %v", err)
	}
	if len(next.Players) != 1 {
		t.Errorf("len(Players) = %d, want 1", len(next.Players))
	}
}

func TestHostJoinsWithoutTeam(t *testing.T) {
	s := NewGameState("TEST01", ModeOnline)
	s = join(t, s, Player{ID: "h1", Name: "Host", IsHost: true, TeamID: "bogus"})

	if s.Players[0].TeamID != "" {
		t.Error("Host must not carry a team id")
	}
	for _, team := range s.Teams {
		if len(team.PlayerIDs) != 0 {
			t.Error("Host must not appear on any roster")
		}
	}
	if got := len(s.ActivePlayers()); got != 0 {
		t.Errorf("ActivePlayers() = %d, want 0 (host is a moderator)", got)
	}
}

func TestKickPlayerParksTurnForActor(t *testing.T) {
	s := playingState(t)
	actor := s.CurrentTurn.ActorID
	s = StartTimer(s)

	s = KickPlayer(s, actor)

	if s.PlayerIndex(actor) != -1 {
		t.Error("Kicked player still present")
	}
	for _, team := range s.Teams {
		for _, id := range team.PlayerIDs {
			if id == actor {
				t.Error("Kicked player still on a roster")
			}
		}
	}
	if s.CurrentTurn.IsActive {
		t.Error("Turn should be parked after its actor is kicked")
	}
	if s.CurrentTurn.TimeLeft != 0 {
		t.Errorf("TimeLeft = %d after actor kick, want 0", s.CurrentTurn.TimeLeft)
	}
}

func TestKickPlayerClampsCursor(t *testing.T) {
	s := playingState(t)
	// Team 0 cursor sits at 1 after the opening turn; removing its second
	// member leaves a one-player roster that index 1 would overrun.
	second := s.Teams[0].PlayerIDs[1]
	s = KickPlayer(s, second)

	if got := s.Teams[0].NextPlayerIndex; got != 0 {
		t.Errorf("Team 0 cursor = %d after kick, want 0", got)
	}
	s = AdvanceTurn(s, false) // to team 1
	s = AdvanceTurn(s, false) // back to team 0, must not panic
	if s.CurrentTurn.ActorID != s.Teams[0].PlayerIDs[0] {
		t.Error("Turn actor not taken from the clamped cursor")
	}
}

func TestMovePlayerCyclesTeams(t *testing.T) {
	s := NewGameState("TEST01", ModeOnline)
	s = join(t, s, Player{ID: "p1", Name: "Alice"})
	teamA := s.Teams[0].ID
	teamB := s.Teams[1].ID

	s = MovePlayer(s, "p1")
	if s.Players[0].TeamID != teamB {
		t.Fatalf("TeamID = %s after move, want %s", s.Players[0].TeamID, teamB)
	}
	if len(s.Teams[0].PlayerIDs) != 0 || len(s.Teams[1].PlayerIDs) != 1 {
		t.Error("Rosters not updated by move")
	}

	s = MovePlayer(s, "p1")
	if s.Players[0].TeamID != teamA {
		t.Error("Second move should wrap back to team A")
	}
}

func TestRemoveLastTeamRedistributesPlayers(t *testing.T) {
	s := NewGameState("TEST01", ModeOnline)
	s = AddTeam(s)
	if len(s.Teams) != 3 {
		t.Fatalf("len(Teams) = %d, want 3", len(s.Teams))
	}

	s = join(t, s, Player{ID: "p1", Name: "Alice"}) // team 0
	s = join(t, s, Player{ID: "p2", Name: "Bob"})   // team 1
	s = join(t, s, Player{ID: "p3", Name: "Carol"}) // team 2
	s = join(t, s, Player{ID: "p4", Name: "Dave"})  // ties break to team 0
	lastTeam := s.Teams[2].ID

	s = RemoveLastTeam(s)
	if len(s.Teams) != 2 {
		t.Fatalf("len(Teams) = %d after removal, want 2", len(s.Teams))
	}
	for _, p := range s.Players {
		if p.TeamID == lastTeam {
			t.Errorf("Player %s still assigned to the removed team", p.ID)
		}
		if s.TeamIndex(p.TeamID) == -1 {
			t.Errorf("Player %s has a dangling team id", p.ID)
		}
	}
}

func TestRemoveLastTeamKeepsMinimum(t *testing.T) {
	s := NewGameState("TEST01", ModeOnline)
	s = RemoveLastTeam(s)
	if len(s.Teams) != MinTeams {
		t.Errorf("len(Teams) = %d, want floor of %d", len(s.Teams), MinTeams)
	}
}

func TestAddTeamCappedByPalette(t *testing.T) {
	s := NewGameState("TEST01", ModeOnline)
	for i := 0; i < len(TeamColors)+3; i++ {
		s = AddTeam(s)
	}
	if len(s.Teams) != len(TeamColors) {
		t.Errorf("len(Teams) = %d, want %d", len(s.Teams), len(TeamColors))
	}
}

func TestShuffleTeamsDealsEveryoneAndResetsCursors(t *testing.T) {
	s := playingState(t)
	s = ShuffleTeams(s)

	total := 0
	seen := map[string]bool{}
	for i, team := range s.Teams {
		total += len(team.PlayerIDs)
		if team.NextPlayerIndex != 0 {
			t.Errorf("Team %d cursor = %d after shuffle, want 0", i, team.NextPlayerIndex)
		}
		for _, id := range team.PlayerIDs {
			if seen[id] {
				t.Errorf("Player %s dealt twice", id)
			}
			seen[id] = true
		}
	}
	if total != 4 {
		t.Errorf("Shuffle dealt %d players, want 4", total)
	}
	// Deal is balanced: four players over two teams.
	if len(s.Teams[0].PlayerIDs) != 2 || len(s.Teams[1].PlayerIDs) != 2 {
		t.Error("Shuffle deal not balanced")
	}
}

func TestSetRoundTimeRejectsNonPositive(t *testing.T) {
	s := NewGameState("TEST01", ModeOnline)
	s = SetRoundTime(s, 0)
	if s.Settings.RoundTime != DefaultRoundTime {
		t.Error("SetRoundTime(0) should be a no-op")
	}
	s = SetRoundTime(s, -5)
	if s.Settings.RoundTime != DefaultRoundTime {
		t.Error("SetRoundTime(-5) should be a no-op")
	}
	s = SetRoundTime(s, 90)
	if s.Settings.RoundTime != 90 {
		t.Errorf("RoundTime = %d, want 90", s.Settings.RoundTime)
	}
}

func TestHydrateFillsMissingFields(t *testing.T) {
	snapshot := GameState{RoomCode: "TEST01"}
	s := Hydrate(snapshot)

	if s.Mode != ModeOnline {
		t.Errorf("Mode = %s, want ONLINE", s.Mode)
	}
	if s.Phase != PhaseLobby {
		t.Errorf("Phase = %s, want LOBBY", s.Phase)
	}
	if len(s.Teams) != MinTeams {
		t.Errorf("len(Teams) = %d, want %d", len(s.Teams), MinTeams)
	}
	if s.Settings.RoundTime != DefaultRoundTime {
		t.Errorf("RoundTime = %d, want default", s.Settings.RoundTime)
	}
	if s.Players == nil || s.Clues == nil {
		t.Error("Hydrate should materialize empty slices")
	}
}

func TestHydrateKeepsExistingData(t *testing.T) {
	orig := playingState(t)
	s := Hydrate(orig)

	if s.Phase != PhasePlaying {
		t.Errorf("Phase = %s, want PLAYING preserved", s.Phase)
	}
	if len(s.Players) != len(orig.Players) {
		t.Error("Hydrate dropped players")
	}
	if len(s.Clues) != len(orig.Clues) {
		t.Error("Hydrate dropped clues")
	}
	if s.CurrentTurn == nil {
		t.Error("Hydrate dropped the current turn")
	}
}
