package engine

import (
	"errors"
	"math/rand"

	"github.com/padelpoint/torneo-system/models"
)

var ErrNotEnoughTeams = errors.New("at least 2 teams are required to generate a schedule")

// Веса эвристики отдыха: команда, не игравшая в предыдущем матче, получает
// больший бонус, чем не игравшая два матча назад.
const (
	restBonusLast       = 10.0
	restBonusSecondLast = 5.0
	tiebreakJitter      = 2.0
)

// GenerateSchedule строит полное круговое расписание для группы: по одному
// матчу на каждую неупорядоченную пару команд, всего C(n,2) матчей со
// статусом pending.
//
// Порядок матчей подбирается жадной эвристикой: кандидаты оцениваются по
// тому, отдыхали ли обе команды в последних двух сыгранных матчах, со
// случайной добавкой [0,2) для разрешения ничьих. Это эвристика, а не
// оптимальный планировщик: точные интервалы отдыха не гарантируются, и
// результат меняется от запуска к запуску, если rng не зафиксирован.
func GenerateSchedule(rng *rand.Rand, teamIDs []string) ([]models.Match, error) {
	if len(teamIDs) < 2 {
		return nil, ErrNotEnoughTeams
	}

	pool := make([]models.Match, 0, len(teamIDs)*(len(teamIDs)-1)/2)
	for i := 0; i < len(teamIDs); i++ {
		for j := i + 1; j < len(teamIDs); j++ {
			pool = append(pool, models.Match{
				ID:      NewID(rng),
				Team1ID: teamIDs[i],
				Team2ID: teamIDs[j],
				Status:  models.MatchStatusPending,
			})
		}
	}

	ordered := make([]models.Match, 0, len(pool))
	var lastTeams, secondLastTeams []string

	for len(pool) > 0 {
		bestIdx := 0
		highest := -1.0

		for i, match := range pool {
			score := 0.0
			if !containsTeam(lastTeams, match.Team1ID) {
				score += restBonusLast
			}
			if !containsTeam(lastTeams, match.Team2ID) {
				score += restBonusLast
			}
			if !containsTeam(secondLastTeams, match.Team1ID) {
				score += restBonusSecondLast
			}
			if !containsTeam(secondLastTeams, match.Team2ID) {
				score += restBonusSecondLast
			}
			score += rng.Float64() * tiebreakJitter

			if score > highest {
				highest = score
				bestIdx = i
			}
		}

		selected := pool[bestIdx]
		pool = append(pool[:bestIdx], pool[bestIdx+1:]...)
		ordered = append(ordered, selected)

		secondLastTeams = lastTeams
		lastTeams = []string{selected.Team1ID, selected.Team2ID}
	}

	return ordered, nil
}

func containsTeam(teams []string, id string) bool {
	for _, t := range teams {
		if t == id {
			return true
		}
	}
	return false
}
