package clues

import (
	"strings"
	"testing"

	"github.com/openparty/charades/game"
)

func TestGenerateReturnsRequestedCount(t *testing.T) {
	out := Generate(CategoryRandom, 10, Medium, nil)
	if len(out) != 10 {
		t.Fatalf("len = %d, want 10", len(out))
	}
	for _, c := range out {
		if c.Status != game.CluePending {
			t.Errorf("clue %q status = %s, want pending", c.Text, c.Status)
		}
		if c.ID == "" {
			t.Errorf("clue %q has no id", c.Text)
		}
	}
}

func TestGenerateNoDuplicatesInBatch(t *testing.T) {
	out := Generate(CategoryRandom, 50, Medium, nil)
	seen := map[string]bool{}
	for _, c := range out {
		key := strings.ToLower(c.Text)
		if seen[key] {
			t.Errorf("duplicate clue %q in one batch", c.Text)
		}
		seen[key] = true
	}
}

func TestGenerateRespectsAvoidList(t *testing.T) {
	category := Categories()[1] // any concrete category
	all := Generate(category, 1000, Medium, nil)
	if len(all) == 0 {
		t.Fatalf("category %q is empty", category)
	}

	// Avoid everything but one entry, with mismatched case.
	var keep string
	avoid := make([]string, 0, len(all)-1)
	for i, c := range all {
		if i == 0 {
			keep = c.Text
			continue
		}
		avoid = append(avoid, strings.ToUpper(c.Text))
	}

	out := Generate(category, 10, Medium, avoid)
	if len(out) != 1 {
		t.Fatalf("len = %d with everything else avoided, want 1", len(out))
	}
	if out[0].Text != keep {
		t.Errorf("got %q, want %q", out[0].Text, keep)
	}
}

func TestGenerateMayReturnFewer(t *testing.T) {
	category := Categories()[1]
	all := Generate(category, 1000, Medium, nil)

	out := Generate(category, len(all)+50, Medium, nil)
	if len(out) != len(all) {
		t.Errorf("len = %d, want the full bank (%d)", len(out), len(all))
	}
}

func TestGenerateUnknownCategoryIsEmpty(t *testing.T) {
	if out := Generate("Nonexistent", 5, Medium, nil); len(out) != 0 {
		t.Errorf("len = %d for unknown category, want 0", len(out))
	}
}

func TestParse(t *testing.T) {
	out := Parse("Penguin\r\n\n  Moonwalk  \n\nJuggling\n")
	if len(out) != 3 {
		t.Fatalf("len = %d, want 3", len(out))
	}
	want := []string{"Penguin", "Moonwalk", "Juggling"}
	for i, c := range out {
		if c.Text != want[i] {
			t.Errorf("clue %d = %q, want %q", i, c.Text, want[i])
		}
		if c.Status != game.CluePending {
			t.Errorf("clue %q status = %s, want pending", c.Text, c.Status)
		}
	}
}

func TestCategoriesIncludesRandom(t *testing.T) {
	cats := Categories()
	if len(cats) < 2 {
		t.Fatalf("only %d categories", len(cats))
	}
	if cats[0] != CategoryRandom {
		t.Errorf("first category = %q, want %q", cats[0], CategoryRandom)
	}
}
