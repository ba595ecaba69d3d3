package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/padelpoint/torneo-system/models"
)

// TotalGames суммирует геймы обеих сторон по всем сетам результата.
func TotalGames(result models.MatchResult) (team1, team2 int) {
	for _, set := range result.Sets {
		team1 += set.Team1
		team2 += set.Team2
	}
	return team1, team2
}

// DetermineWinner возвращает идентификатор команды, выигравшей больше сетов.
// Сеты с равным счетом не учитываются. Поле Winner в MatchResult обязано
// совпадать с результатом этой функции.
func DetermineWinner(result models.MatchResult, team1ID, team2ID string) string {
	team1Sets := 0
	team2Sets := 0
	for _, set := range result.Sets {
		if set.Team1 > set.Team2 {
			team1Sets++
		} else if set.Team2 > set.Team1 {
			team2Sets++
		}
	}
	if team1Sets > team2Sets {
		return team1ID
	}
	return team2ID
}

// ComputeStandings пересчитывает турнирную таблицу группы целиком по списку
// матчей. Учитываются только матчи, у которых одновременно Status == finished
// и присутствует Result; остальные пропускаются молча — незавершенные матчи
// это нормальное состояние идущего турнира, а не ошибка.
//
// Сортировка: по победам, затем по разнице геймов, обе по убыванию. Ничьи по
// обоим показателям сохраняют относительный порядок входного списка.
func ComputeStandings(teamIDs []string, matches []models.Match) []models.GroupStanding {
	byTeam := make(map[string]*models.GroupStanding, len(teamIDs))
	order := make([]*models.GroupStanding, 0, len(teamIDs))
	for _, teamID := range teamIDs {
		s := &models.GroupStanding{TeamID: teamID}
		byTeam[teamID] = s
		order = append(order, s)
	}

	for _, match := range matches {
		if match.Status != models.MatchStatusFinished || match.Result == nil {
			continue
		}
		s1, ok1 := byTeam[match.Team1ID]
		s2, ok2 := byTeam[match.Team2ID]
		if !ok1 || !ok2 {
			continue
		}

		games1, games2 := TotalGames(*match.Result)

		s1.Played++
		s2.Played++
		s1.GamesFor += games1
		s1.GamesAgainst += games2
		s2.GamesFor += games2
		s2.GamesAgainst += games1

		if match.Result.Winner == match.Team1ID {
			s1.Won++
			s2.Lost++
		} else {
			s2.Won++
			s1.Lost++
		}

		s1.GamesDiff = s1.GamesFor - s1.GamesAgainst
		s2.GamesDiff = s2.GamesFor - s2.GamesAgainst
	}

	sort.SliceStable(order, func(i, j int) bool {
		if order[i].Won != order[j].Won {
			return order[i].Won > order[j].Won
		}
		return order[i].GamesDiff > order[j].GamesDiff
	})

	standings := make([]models.GroupStanding, len(order))
	for i, s := range order {
		s.Position = i + 1
		standings[i] = *s
	}
	return standings
}

// FormatMatchScore форматирует счет матча в виде "6-2 / 6-3".
func FormatMatchScore(result models.MatchResult) string {
	parts := make([]string, len(result.Sets))
	for i, set := range result.Sets {
		parts[i] = fmt.Sprintf("%d-%d", set.Team1, set.Team2)
	}
	return strings.Join(parts, " / ")
}
