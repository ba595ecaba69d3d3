package engine

import (
	"testing"

	"github.com/padelpoint/torneo-system/models"
)

// standingsGroup собирает группу с уже посчитанной таблицей; Matches не
// нужны, RankQualifiers читает только Standings.
func standingsGroup(id string, rows ...models.GroupStanding) models.Group {
	teamIDs := make([]string, len(rows))
	for i := range rows {
		rows[i].Position = i + 1
		teamIDs[i] = rows[i].TeamID
	}
	return models.Group{ID: id, Name: "Grupo " + id, TeamIDs: teamIDs, Standings: rows}
}

func row(teamID string, won, diff int) models.GroupStanding {
	return models.GroupStanding{TeamID: teamID, Won: won, GamesDiff: diff}
}

func fourGroupsOfFour() []models.Group {
	return []models.Group{
		standingsGroup("A", row("A1", 3, 20), row("A2", 2, 10), row("A3", 1, -5), row("A4", 0, -25)),
		standingsGroup("B", row("B1", 3, 15), row("B2", 2, 8), row("B3", 1, -2), row("B4", 0, -21)),
		standingsGroup("C", row("C1", 3, 18), row("C2", 2, 5), row("C3", 2, 1), row("C4", 0, -24)),
		standingsGroup("D", row("D1", 3, 12), row("D2", 2, 7), row("D3", 1, 3), row("D4", 0, -22)),
	}
}

func TestRankQualifiers_DirectPlusBestThirds(t *testing.T) {
	ranked := RankQualifiers(fourGroupsOfFour(), 2, 2)

	if len(ranked) != 10 {
		t.Fatalf("expected 10 qualifiers (8 direct + 2 thirds), got %d", len(ranked))
	}

	// Первые восемь — прямые квалификанты в порядке обхода групп.
	wantDirect := []string{"A1", "A2", "B1", "B2", "C1", "C2", "D1", "D2"}
	for i, want := range wantDirect {
		if ranked[i].TeamID != want {
			t.Errorf("direct qualifier %d: expected %s, got %s", i, want, ranked[i].TeamID)
		}
	}

	// Лучшие третьи: C3 (2 победы) и D3 (1 победа, +3) обходят A3 (1, -5) и B3 (1, -2).
	if ranked[8].TeamID != "C3" {
		t.Errorf("expected best third C3, got %s", ranked[8].TeamID)
	}
	if ranked[9].TeamID != "D3" {
		t.Errorf("expected second best third D3, got %s", ranked[9].TeamID)
	}
	for _, r := range ranked[8:] {
		if r.Position != 3 {
			t.Errorf("wildcard %s: expected position 3, got %d", r.TeamID, r.Position)
		}
	}
}

func TestRankQualifiers_NoThirds(t *testing.T) {
	ranked := RankQualifiers(fourGroupsOfFour(), 2, 0)
	if len(ranked) != 8 {
		t.Fatalf("expected 8 direct qualifiers, got %d", len(ranked))
	}
	for _, r := range ranked {
		if r.Position > 2 {
			t.Errorf("unexpected wildcard %s at position %d", r.TeamID, r.Position)
		}
	}
}

func TestRankQualifiers_SmallGroupContributesFewer(t *testing.T) {
	groups := []models.Group{
		standingsGroup("A", row("A1", 2, 10), row("A2", 1, 0), row("A3", 0, -10)),
		standingsGroup("B", row("B1", 1, 4), row("B2", 0, -4)),
	}

	ranked := RankQualifiers(groups, 3, 0)
	if len(ranked) != 5 {
		t.Fatalf("expected 5 qualifiers (3 + 2), got %d", len(ranked))
	}
}

func TestRankQualifiers_FewerThirdsThanRequested(t *testing.T) {
	groups := []models.Group{
		standingsGroup("A", row("A1", 2, 10), row("A2", 1, 0), row("A3", 0, -10)),
		standingsGroup("B", row("B1", 1, 4), row("B2", 0, -4)),
	}

	ranked := RankQualifiers(groups, 2, 4)
	// Только группа A имеет третье место.
	if len(ranked) != 5 {
		t.Fatalf("expected 5 qualifiers (4 direct + 1 third), got %d", len(ranked))
	}
	if ranked[4].TeamID != "A3" {
		t.Errorf("expected wildcard A3, got %s", ranked[4].TeamID)
	}
}

func TestRankQualifiers_CarriesGroupAndMetrics(t *testing.T) {
	ranked := RankQualifiers(fourGroupsOfFour(), 1, 0)
	for _, r := range ranked {
		if r.GroupID == "" || r.Position != 1 {
			t.Errorf("ranked team %s: missing group or wrong position: %+v", r.TeamID, r)
		}
		if r.Won != 3 {
			t.Errorf("ranked team %s: expected carried won=3, got %d", r.TeamID, r.Won)
		}
	}
}
