package engine

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/padelpoint/torneo-system/models"
)

func approvedTeams(n int, category string) []models.Team {
	teams := make([]models.Team, n)
	for i := range teams {
		teams[i] = models.Team{
			ID:      fmt.Sprintf("%s-team-%d", strings.ToLower(strings.ReplaceAll(category, " ", "-")), i+1),
			Player1: models.Player{Name: fmt.Sprintf("Jugador %dA", i+1)},
			Player2: models.Player{Name: fmt.Sprintf("Jugador %dB", i+1)},
			Status:  models.TeamStatusApproved,
		}
		if category != "" {
			cat := category
			teams[i].Category = &cat
		}
	}
	return teams
}

func TestPartitionIntoGroups_Balance(t *testing.T) {
	tests := []struct {
		teams  int
		groups int
	}{
		{8, 2},
		{9, 2},
		{10, 3},
		{16, 4},
		{7, 3},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_teams_%d_groups", tt.teams, tt.groups), func(t *testing.T) {
			rng := rand.New(rand.NewSource(int64(tt.teams*10 + tt.groups)))
			teams := approvedTeams(tt.teams, "")

			groups, err := PartitionIntoGroups(rng, teams, tt.groups)
			if err != nil {
				t.Fatal(err)
			}
			if len(groups) != tt.groups {
				t.Fatalf("expected %d groups, got %d", tt.groups, len(groups))
			}

			floor := tt.teams / tt.groups
			ceil := floor
			if tt.teams%tt.groups != 0 {
				ceil++
			}

			assigned := make(map[string]int)
			for _, group := range groups {
				if len(group.TeamIDs) != floor && len(group.TeamIDs) != ceil {
					t.Errorf("group %s has %d teams, expected %d or %d", group.Name, len(group.TeamIDs), floor, ceil)
				}
				for _, id := range group.TeamIDs {
					assigned[id]++
				}
			}
			if len(assigned) != tt.teams {
				t.Errorf("expected %d distinct assigned teams, got %d", tt.teams, len(assigned))
			}
			for id, count := range assigned {
				if count != 1 {
					t.Errorf("team %s assigned %d times", id, count)
				}
			}
		})
	}
}

func TestPartitionIntoGroups_SingleCategoryNaming(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	groups, err := PartitionIntoGroups(rng, approvedTeams(8, ""), 2)
	if err != nil {
		t.Fatal(err)
	}
	if groups[0].Name != "Grupo A" || groups[1].Name != "Grupo B" {
		t.Errorf("expected Grupo A / Grupo B, got %q / %q", groups[0].Name, groups[1].Name)
	}
}

func TestPartitionIntoGroups_MultiCategoryNaming(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	teams := append(approvedTeams(4, "Nivel Medio"), approvedTeams(4, "Nivel Alto")...)

	groups, err := PartitionIntoGroups(rng, teams, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Name != "Nivel Medio - A" {
		t.Errorf("expected %q, got %q", "Nivel Medio - A", groups[0].Name)
	}
	if groups[1].Name != "Nivel Alto - A" {
		t.Errorf("expected %q, got %q", "Nivel Alto - A", groups[1].Name)
	}

	// Команды не должны пересекать границу категории.
	for gi, category := range []string{"nivel-medio", "nivel-alto"} {
		for _, id := range groups[gi].TeamIDs {
			if !strings.HasPrefix(id, category) {
				t.Errorf("group %s contains foreign team %s", groups[gi].Name, id)
			}
		}
	}
}

func TestPartitionIntoGroups_RemainderGroupsGoToLastCategory(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	teams := append(approvedTeams(4, "Nivel Medio"), approvedTeams(8, "Nivel Alto")...)

	groups, err := PartitionIntoGroups(rng, teams, 3)
	if err != nil {
		t.Fatal(err)
	}
	// 3 группы на 2 категории: одна первой, остаток (две) — последней.
	var medio, alto int
	for _, g := range groups {
		switch {
		case strings.HasPrefix(g.Name, "Nivel Medio"):
			medio++
		case strings.HasPrefix(g.Name, "Nivel Alto"):
			alto++
		}
	}
	if medio != 1 || alto != 2 {
		t.Errorf("expected 1 Nivel Medio and 2 Nivel Alto groups, got %d and %d", medio, alto)
	}
}

func TestPartitionIntoGroups_DropsEmptyGroups(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	groups, err := PartitionIntoGroups(rng, approvedTeams(2, ""), 4)
	if err != nil {
		t.Fatal(err)
	}
	for _, g := range groups {
		if len(g.TeamIDs) == 0 {
			t.Errorf("empty group %s should have been dropped", g.Name)
		}
	}
	if len(groups) != 2 {
		t.Errorf("expected 2 non-empty groups, got %d", len(groups))
	}
}

func TestPartitionIntoGroups_OnlyApprovedParticipate(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	teams := approvedTeams(6, "")
	teams[1].Status = models.TeamStatusPending
	teams[4].Status = models.TeamStatusRejected

	groups, err := PartitionIntoGroups(rng, teams, 2)
	if err != nil {
		t.Fatal(err)
	}
	total := 0
	for _, g := range groups {
		total += len(g.TeamIDs)
		for _, id := range g.TeamIDs {
			if id == teams[1].ID || id == teams[4].ID {
				t.Errorf("non-approved team %s was assigned to group %s", id, g.Name)
			}
		}
	}
	if total != 4 {
		t.Errorf("expected 4 assigned teams, got %d", total)
	}
}

func TestPartitionIntoGroups_SchedulesAndStandingsInitialized(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	groups, err := PartitionIntoGroups(rng, approvedTeams(8, ""), 2)
	if err != nil {
		t.Fatal(err)
	}
	for _, g := range groups {
		n := len(g.TeamIDs)
		if len(g.Matches) != n*(n-1)/2 {
			t.Errorf("group %s: expected %d matches, got %d", g.Name, n*(n-1)/2, len(g.Matches))
		}
		if len(g.Standings) != n {
			t.Errorf("group %s: expected %d standings, got %d", g.Name, n, len(g.Standings))
		}
		for _, s := range g.Standings {
			if s.Played != 0 || s.Won != 0 || s.GamesFor != 0 {
				t.Errorf("group %s: standings not zeroed: %+v", g.Name, s)
			}
		}
	}
}

func TestPartitionIntoGroups_InvalidInput(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	if _, err := PartitionIntoGroups(rng, nil, 2); err != ErrNoApprovedTeams {
		t.Errorf("expected ErrNoApprovedTeams, got %v", err)
	}

	pending := approvedTeams(4, "")
	for i := range pending {
		pending[i].Status = models.TeamStatusPending
	}
	if _, err := PartitionIntoGroups(rng, pending, 2); err != ErrNoApprovedTeams {
		t.Errorf("expected ErrNoApprovedTeams for all-pending teams, got %v", err)
	}

	if _, err := PartitionIntoGroups(rng, approvedTeams(4, ""), 0); err != ErrInvalidGroupCount {
		t.Errorf("expected ErrInvalidGroupCount, got %v", err)
	}
}
