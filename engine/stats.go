package engine

import (
	"math"

	"github.com/padelpoint/torneo-system/models"
)

// ComputePlayerStats собирает сводную статистику игрока по всем турнирам:
// учитываются завершенные матчи групп и сетки тех команд, где игрок заявлен
// как первый или второй.
func ComputePlayerStats(tournaments []models.Tournament, playerID string) models.PlayerStats {
	var stats models.PlayerStats

	for _, tournament := range tournaments {
		team := findPlayerTeam(tournament.Teams, playerID)
		if team == nil {
			continue
		}
		stats.TournamentsPlayed++

		matches := make([]models.Match, 0, len(tournament.Bracket))
		for _, group := range tournament.Groups {
			matches = append(matches, group.Matches...)
		}
		for _, bm := range tournament.Bracket {
			matches = append(matches, models.Match{
				ID:      bm.ID,
				Team1ID: bm.Team1ID,
				Team2ID: bm.Team2ID,
				Result:  bm.Result,
				Status:  bm.Status,
			})
		}

		for _, match := range matches {
			isTeam1 := match.Team1ID == team.ID
			isTeam2 := match.Team2ID == team.ID
			if (!isTeam1 && !isTeam2) || match.Status != models.MatchStatusFinished || match.Result == nil {
				continue
			}

			stats.MatchesPlayed++
			if match.Result.Winner == team.ID {
				stats.MatchesWon++
			}

			for _, set := range match.Result.Sets {
				stats.TotalSets++
				playerGames, opponentGames := set.Team1, set.Team2
				if isTeam2 {
					playerGames, opponentGames = set.Team2, set.Team1
				}
				if playerGames > opponentGames {
					stats.SetsWon++
				}
				stats.GamesWon += playerGames
				stats.TotalGames += playerGames + opponentGames
			}
		}
	}

	if stats.MatchesPlayed > 0 {
		stats.WinRate = int(math.Round(float64(stats.MatchesWon) / float64(stats.MatchesPlayed) * 100))
	}
	level := 1 + float64(stats.WinRate)/25 + float64(stats.TournamentsPlayed)*0.2
	if level > 5 {
		level = 5
	}
	stats.Level = math.Round(level*10) / 10

	return stats
}

func findPlayerTeam(teams []models.Team, playerID string) *models.Team {
	for i := range teams {
		t := &teams[i]
		if (t.Player1.PlayerID != nil && *t.Player1.PlayerID == playerID) ||
			(t.Player2.PlayerID != nil && *t.Player2.PlayerID == playerID) {
			return t
		}
	}
	return nil
}
