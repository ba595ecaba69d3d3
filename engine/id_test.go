package engine

import (
	"math/rand"
	"sort"
	"strings"
	"testing"
)

func TestNewID(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewID(rng)
		if len(id) != idLength {
			t.Fatalf("expected id of length %d, got %q", idLength, id)
		}
		for _, r := range id {
			if !strings.ContainsRune(idAlphabet, r) {
				t.Fatalf("id %q contains invalid rune %q", id, r)
			}
		}
		if seen[id] {
			t.Fatalf("duplicate id %q after %d generations", id, i)
		}
		seen[id] = true
	}
}

func TestShuffle(t *testing.T) {
	original := []string{"a", "b", "c", "d", "e", "f"}
	input := append([]string{}, original...)

	shuffled := Shuffle(rand.New(rand.NewSource(3)), input)

	for i, v := range original {
		if input[i] != v {
			t.Fatal("Shuffle must not mutate its input")
		}
	}

	sortedShuffled := append([]string{}, shuffled...)
	sort.Strings(sortedShuffled)
	if strings.Join(sortedShuffled, "") != "abcdef" {
		t.Fatalf("Shuffle changed the multiset: %v", shuffled)
	}

	again := Shuffle(rand.New(rand.NewSource(3)), input)
	for i := range shuffled {
		if shuffled[i] != again[i] {
			t.Fatal("Shuffle with the same seed must be deterministic")
		}
	}
}
