package engine

import (
	"math/rand"
	"testing"

	"github.com/padelpoint/torneo-system/models"
)

func finishedMatch(id, team1, team2 string, sets ...models.SetScore) models.Match {
	result := models.MatchResult{Sets: sets}
	result.Winner = DetermineWinner(result, team1, team2)
	return models.Match{
		ID:      id,
		Team1ID: team1,
		Team2ID: team2,
		Result:  &result,
		Status:  models.MatchStatusFinished,
	}
}

func set(a, b int) models.SetScore {
	return models.SetScore{Team1: a, Team2: b}
}

func TestDetermineWinner(t *testing.T) {
	tests := []struct {
		name   string
		sets   []models.SetScore
		winner string
	}{
		{"straight sets", []models.SetScore{set(6, 2), set(6, 3)}, "t1"},
		{"comeback", []models.SetScore{set(2, 6), set(6, 4), set(7, 5)}, "t1"},
		{"team2 wins", []models.SetScore{set(3, 6), set(4, 6)}, "t2"},
		{"tied set ignored", []models.SetScore{set(5, 5), set(4, 6)}, "t2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetermineWinner(models.MatchResult{Sets: tt.sets}, "t1", "t2")
			if got != tt.winner {
				t.Errorf("expected winner %s, got %s", tt.winner, got)
			}
		})
	}
}

func TestValidateResult(t *testing.T) {
	valid := models.MatchResult{Sets: []models.SetScore{set(6, 2), set(6, 3)}, Winner: "t1"}
	if err := ValidateResult(valid, "t1", "t2"); err != nil {
		t.Errorf("expected valid result, got %v", err)
	}

	tests := []struct {
		name   string
		result models.MatchResult
		want   error
	}{
		{"no sets", models.MatchResult{Winner: "t1"}, ErrResultNoSets},
		{"negative games", models.MatchResult{Sets: []models.SetScore{set(-1, 6)}, Winner: "t2"}, ErrResultNegativeGames},
		{"all sets tied", models.MatchResult{Sets: []models.SetScore{set(4, 4)}, Winner: "t1"}, ErrResultAllSetsTied},
		{"authored winner", models.MatchResult{Sets: []models.SetScore{set(6, 2)}, Winner: "t2"}, ErrResultWinnerInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateResult(tt.result, "t1", "t2"); err != tt.want {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestComputeStandings_SkipsUnfinishedMatches(t *testing.T) {
	teams := []string{"t1", "t2", "t3"}

	pendingWithResult := finishedMatch("m1", "t1", "t2", set(6, 0), set(6, 0))
	pendingWithResult.Status = models.MatchStatusPending // inconsistent on purpose

	finishedWithoutResult := models.Match{ID: "m2", Team1ID: "t2", Team2ID: "t3", Status: models.MatchStatusFinished}

	standings := ComputeStandings(teams, []models.Match{pendingWithResult, finishedWithoutResult})
	for _, s := range standings {
		if s.Played != 0 || s.Won != 0 || s.Lost != 0 || s.GamesFor != 0 || s.GamesAgainst != 0 || s.GamesDiff != 0 {
			t.Errorf("team %s: expected zeroed counters, got %+v", s.TeamID, s)
		}
	}
	if len(standings) != 3 {
		t.Fatalf("expected 3 standings, got %d", len(standings))
	}
	for i, s := range standings {
		if s.Position != i+1 {
			t.Errorf("expected position %d, got %d", i+1, s.Position)
		}
	}
}

func TestComputeStandings_OrderInvariant(t *testing.T) {
	teams := []string{"t1", "t2", "t3", "t4"}
	matches := []models.Match{
		finishedMatch("m1", "t1", "t2", set(6, 2), set(6, 3)),
		finishedMatch("m2", "t3", "t4", set(6, 5), set(7, 5)),
		finishedMatch("m3", "t1", "t3", set(6, 0), set(6, 0)),
		finishedMatch("m4", "t2", "t4", set(6, 2), set(6, 2)),
	}

	base := ComputeStandings(teams, matches)

	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 10; trial++ {
		permuted := Shuffle(rng, matches)
		got := ComputeStandings(teams, permuted)
		for i := range base {
			if got[i] != base[i] {
				t.Fatalf("trial %d: standings differ at %d: %+v vs %+v", trial, i, got[i], base[i])
			}
		}
	}
}

// Сценарий из четырех команд: полная круговая группа с известными
// результатами и ожидаемыми местами.
func TestComputeStandings_FullGroupScenario(t *testing.T) {
	teams := []string{"T1", "T2", "T3", "T4"}
	matches := []models.Match{
		finishedMatch("m1", "T1", "T2", set(6, 2), set(6, 3)),
		finishedMatch("m2", "T1", "T3", set(6, 0), set(6, 0)),
		finishedMatch("m3", "T1", "T4", set(6, 1), set(6, 1)),
		finishedMatch("m4", "T2", "T3", set(6, 4), set(6, 4)),
		finishedMatch("m5", "T2", "T4", set(6, 2), set(6, 2)),
		finishedMatch("m6", "T3", "T4", set(6, 5), set(7, 5)),
	}

	standings := ComputeStandings(teams, matches)

	expected := []struct {
		teamID string
		won    int
		lost   int
		pos    int
	}{
		{"T1", 3, 0, 1},
		{"T2", 2, 1, 2},
		{"T3", 1, 2, 3},
		{"T4", 0, 3, 4},
	}
	for i, want := range expected {
		got := standings[i]
		if got.TeamID != want.teamID || got.Won != want.won || got.Lost != want.lost || got.Position != want.pos {
			t.Errorf("row %d: expected %s %dW/%dL pos %d, got %s %dW/%dL pos %d",
				i, want.teamID, want.won, want.lost, want.pos,
				got.TeamID, got.Won, got.Lost, got.Position)
		}
		if got.GamesDiff != got.GamesFor-got.GamesAgainst {
			t.Errorf("row %d: gamesDiff %d != gamesFor-gamesAgainst %d", i, got.GamesDiff, got.GamesFor-got.GamesAgainst)
		}
		if got.Played != 3 {
			t.Errorf("row %d: expected 3 played, got %d", i, got.Played)
		}
	}
}

func TestTotalGames(t *testing.T) {
	result := models.MatchResult{Sets: []models.SetScore{set(6, 2), set(3, 6), set(7, 5)}}
	team1, team2 := TotalGames(result)
	if team1 != 16 || team2 != 13 {
		t.Errorf("expected 16/13, got %d/%d", team1, team2)
	}
}

func TestFormatMatchScore(t *testing.T) {
	result := models.MatchResult{Sets: []models.SetScore{set(6, 2), set(6, 3)}}
	if got := FormatMatchScore(result); got != "6-2 / 6-3" {
		t.Errorf("expected %q, got %q", "6-2 / 6-3", got)
	}
}
