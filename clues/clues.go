// Package clues supplies the clue-content generator consumed by the host.
// It draws from the built-in word bank; callers get back fresh pending clues
// that do not collide (case-insensitively) with anything in avoidList.
package clues

import (
	"math/rand"
	"strings"

	"github.com/google/uuid"

	"github.com/openparty/charades/game"
)

type Difficulty string

const (
	Easy   Difficulty = "Easy"
	Medium Difficulty = "Medium"
	Hard   Difficulty = "Hard"
)

// CategoryRandom mixes every category in the bank.
const CategoryRandom = "Random"

// Categories lists the selectable clue categories.
func Categories() []string {
	names := make([]string, 0, len(wordBank)+1)
	names = append(names, CategoryRandom)
	for name := range wordBank {
		names = append(names, name)
	}
	return names
}

// Generate returns up to count pending clues for a category. It may return
// fewer when the bank is exhausted after filtering, never more. Difficulty is
// accepted for interface compatibility with remote generators; the local
// bank does not grade its entries.
func Generate(category string, count int, _ Difficulty, avoidList []string) []game.Clue {
	avoid := make(map[string]bool, len(avoidList))
	for _, text := range avoidList {
		avoid[strings.ToLower(text)] = true
	}

	var pool []string
	if category == CategoryRandom {
		for _, list := range wordBank {
			pool = append(pool, list...)
		}
	} else {
		pool = append(pool, wordBank[category]...)
	}

	filtered := pool[:0]
	for _, text := range pool {
		if !avoid[strings.ToLower(text)] {
			filtered = append(filtered, text)
		}
	}
	rand.Shuffle(len(filtered), func(i, j int) { filtered[i], filtered[j] = filtered[j], filtered[i] })

	if count > len(filtered) {
		count = len(filtered)
	}

	out := make([]game.Clue, 0, count)
	seen := make(map[string]bool)
	for _, text := range filtered {
		if len(out) == count {
			break
		}
		key := strings.ToLower(text)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, game.Clue{
			ID:     uuid.New().String(),
			Text:   text,
			Status: game.CluePending,
		})
	}
	return out
}

// Parse turns newline-separated text into pending clues, one per non-blank
// line. Used for bulk import from a file or pasted list.
func Parse(text string) []game.Clue {
	var out []game.Clue
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" {
			continue
		}
		out = append(out, game.Clue{
			ID:     uuid.New().String(),
			Text:   line,
			Status: game.CluePending,
		})
	}
	return out
}

// New wraps a single custom clue text.
func New(text string) game.Clue {
	return game.Clue{
		ID:     uuid.New().String(),
		Text:   text,
		Status: game.CluePending,
	}
}
