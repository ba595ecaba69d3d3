package engine

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/padelpoint/torneo-system/models"
)

func teamList(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("team-%d", i+1)
	}
	return ids
}

func TestGenerateSchedule_Completeness(t *testing.T) {
	for n := 2; n <= 8; n++ {
		t.Run(fmt.Sprintf("teams=%d", n), func(t *testing.T) {
			rng := rand.New(rand.NewSource(int64(n)))
			matches, err := GenerateSchedule(rng, teamList(n))
			if err != nil {
				t.Fatal(err)
			}

			want := n * (n - 1) / 2
			if len(matches) != want {
				t.Fatalf("expected %d matches, got %d", want, len(matches))
			}

			seen := make(map[string]bool)
			for _, m := range matches {
				if m.Status != models.MatchStatusPending {
					t.Errorf("match %s: expected status pending, got %s", m.ID, m.Status)
				}
				if m.Result != nil {
					t.Errorf("match %s: expected no result", m.ID)
				}
				if m.Team1ID == m.Team2ID {
					t.Errorf("match %s: self-match %s", m.ID, m.Team1ID)
				}
				key := m.Team1ID + "|" + m.Team2ID
				if m.Team2ID < m.Team1ID {
					key = m.Team2ID + "|" + m.Team1ID
				}
				if seen[key] {
					t.Errorf("pair %s appears more than once", key)
				}
				seen[key] = true
			}
			if len(seen) != want {
				t.Errorf("expected %d unique pairs, got %d", want, len(seen))
			}
		})
	}
}

func TestGenerateSchedule_TooFewTeams(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, ids := range [][]string{nil, {}, {"only-one"}} {
		if _, err := GenerateSchedule(rng, ids); err == nil {
			t.Errorf("expected error for %d teams", len(ids))
		}
	}
}

func sharesTeam(a, b models.Match) bool {
	return a.Team1ID == b.Team1ID || a.Team1ID == b.Team2ID ||
		a.Team2ID == b.Team1ID || a.Team2ID == b.Team2ID
}

// Команда не должна играть два матча подряд, если на момент выбора в пуле
// оставался хоть один матч без такого пересечения.
func TestGenerateSchedule_RestAwareOrdering(t *testing.T) {
	for n := 4; n <= 8; n++ {
		for seed := int64(0); seed < 20; seed++ {
			rng := rand.New(rand.NewSource(seed))
			matches, err := GenerateSchedule(rng, teamList(n))
			if err != nil {
				t.Fatal(err)
			}

			for i := 0; i+1 < len(matches); i++ {
				if !sharesTeam(matches[i], matches[i+1]) {
					continue
				}
				// На момент выбора matches[i+1] пул состоял из matches[i+1:].
				for _, alternative := range matches[i+2:] {
					if !sharesTeam(matches[i], alternative) {
						t.Fatalf("teams=%d seed=%d: match %d (%s vs %s) follows %d (%s vs %s) although a rested alternative (%s vs %s) was available",
							n, seed, i+1, matches[i+1].Team1ID, matches[i+1].Team2ID,
							i, matches[i].Team1ID, matches[i].Team2ID,
							alternative.Team1ID, alternative.Team2ID)
					}
				}
			}
		}
	}
}

func TestGenerateSchedule_DeterministicWithSeed(t *testing.T) {
	first, err := GenerateSchedule(rand.New(rand.NewSource(42)), teamList(5))
	if err != nil {
		t.Fatal(err)
	}
	second, err := GenerateSchedule(rand.New(rand.NewSource(42)), teamList(5))
	if err != nil {
		t.Fatal(err)
	}

	if len(first) != len(second) {
		t.Fatalf("schedules differ in length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Team1ID != second[i].Team1ID || first[i].Team2ID != second[i].Team2ID || first[i].ID != second[i].ID {
			t.Fatalf("schedules diverge at index %d with the same seed", i)
		}
	}
}
