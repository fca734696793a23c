package server

import (
	"strings"
	"testing"
)

func TestGenerateCode(t *testing.T) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		code, err := GenerateCode()
		if err != nil {
			t.Fatalf("GenerateCode: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("len(%q) = %d, want 6", code, len(code))
		}
		for _, c := range code {
			if !strings.ContainsRune(charset, c) {
				t.Fatalf("code %q contains %q outside the charset", code, c)
			}
		}
		seen[code] = true
	}
	// 100 draws from a 36^6 space colliding would mean a broken generator.
	if len(seen) < 90 {
		t.Errorf("only %d distinct codes out of 100", len(seen))
	}
}
