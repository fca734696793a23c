package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/openparty/charades/game"
	"github.com/openparty/charades/logger"
	"github.com/openparty/charades/network"
	"github.com/openparty/charades/player"
)

func main() {
	server := flag.String("server", "ws://localhost:8080", "game server address")
	code := flag.String("code", "", "room code")
	name := flag.String("name", "Player", "player name")
	flag.Parse()

	logger.InitDevelopment()
	defer logger.Log.Sync()

	if *code == "" {
		fmt.Println("Usage: client -code ROOMCODE [-name NAME] [-server ws://host:port]")
		os.Exit(1)
	}

	self := game.Player{
		ID:         uuid.New().String(),
		Name:       *name,
		AvatarSeed: uuid.New().String(),
	}

	url := fmt.Sprintf("%s/ws?code=%s", *server, *code)
	syncer := player.NewSynchronizer(self, player.DialWebSocket(url))
	syncer.Start()
	defer syncer.Stop()

	go func() {
		for state := range syncer.Updates() {
			printState(self.ID, state)
		}
	}()

	go func() {
		<-syncer.Done()
		if err := syncer.Err(); err != nil {
			fmt.Printf("\nDisconnected: %v\n", err)
			os.Exit(0)
		}
	}()

	fmt.Printf("Joining room %s as %s...\n", *code, *name)
	fmt.Println("Commands: reveal, timer, correct, skip, state, retry, quit")

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		var err error
		switch strings.TrimSpace(scanner.Text()) {
		case "reveal":
			err = syncer.SendAction(network.ActionRevealClue, false)
		case "timer":
			err = syncer.SendAction(network.ActionStartTimer, false)
		case "correct":
			err = syncer.SendAction(network.ActionMarkResult, true)
		case "skip":
			err = syncer.SendAction(network.ActionMarkResult, false)
		case "state":
			if state := syncer.State(); state != nil {
				printState(self.ID, *state)
			} else {
				fmt.Println("No state yet.")
			}
		case "retry":
			syncer.Retry()
		case "quit":
			return
		case "":
		default:
			fmt.Println("Unknown command.")
		}
		if err != nil {
			fmt.Printf("Action failed: %v\n", err)
		}
	}
}

func printState(selfID string, state game.GameState) {
	fmt.Printf("\n--- %s [%s] ---\n", state.RoomCode, state.Phase)
	for _, team := range state.Teams {
		fmt.Printf("  %s: %d points, %d players\n", team.Name, team.Score, len(team.PlayerIDs))
	}
	if turn := state.CurrentTurn; turn != nil {
		actor := turn.ActorID
		if idx := state.PlayerIndex(actor); idx >= 0 {
			actor = state.Players[idx].Name
		}
		fmt.Printf("  Round %d, actor: %s, time left: %ds\n", turn.RoundNumber, actor, turn.TimeLeft)
		if turn.Clue != nil && turn.ActorID == selfID {
			fmt.Printf("  Your clue: %s\n", turn.Clue.Text)
		}
	}
	fmt.Print("> ")
}
