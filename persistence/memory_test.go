package persistence

import (
	"testing"

	"github.com/openparty/charades/game"
	"github.com/openparty/charades/models"
)

func TestMemorySnapshotRoundTrip(t *testing.T) {
	m := NewMemory()

	if _, found, err := m.LoadRoomState("NOPE"); err != nil || found {
		t.Fatalf("LoadRoomState on empty store: found=%v err=%v", found, err)
	}

	state := game.NewGameState("TEST01", game.ModeOnline)
	state.Phase = game.PhaseSetup
	if err := m.SaveRoomState("TEST01", state); err != nil {
		t.Fatalf("SaveRoomState: %v", err)
	}

	loaded, found, err := m.LoadRoomState("TEST01")
	if err != nil || !found {
		t.Fatalf("LoadRoomState: found=%v err=%v", found, err)
	}
	if loaded.Phase != game.PhaseSetup {
		t.Errorf("Phase = %s, want SETUP", loaded.Phase)
	}

	// The store must hold its own copy, not alias the caller's slices.
	loaded.Teams[0].Score = 99
	again, _, _ := m.LoadRoomState("TEST01")
	if again.Teams[0].Score == 99 {
		t.Error("Loaded state aliases the stored one")
	}

	if err := m.DeleteRoomState("TEST01"); err != nil {
		t.Fatalf("DeleteRoomState: %v", err)
	}
	if _, found, _ := m.LoadRoomState("TEST01"); found {
		t.Error("Snapshot still present after delete")
	}
}

func TestMemoryRecordsNewestFirstWithFilter(t *testing.T) {
	m := NewMemory()
	m.SaveGameRecord(models.GameRecord{RoomCode: "AAAAAA", Rounds: 1})
	m.SaveGameRecord(models.GameRecord{RoomCode: "BBBBBB", Rounds: 2})
	m.SaveGameRecord(models.GameRecord{RoomCode: "AAAAAA", Rounds: 3})

	all, err := m.ListGameRecords("", 0)
	if err != nil {
		t.Fatalf("ListGameRecords: %v", err)
	}
	if len(all) != 3 || all[0].Rounds != 3 {
		t.Errorf("unfiltered list = %d records, newest rounds = %d; want 3 and 3", len(all), all[0].Rounds)
	}

	filtered, _ := m.ListGameRecords("AAAAAA", 0)
	if len(filtered) != 2 {
		t.Errorf("filtered list = %d records, want 2", len(filtered))
	}

	limited, _ := m.ListGameRecords("", 2)
	if len(limited) != 2 {
		t.Errorf("limited list = %d records, want 2", len(limited))
	}
}
