package engine

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/padelpoint/torneo-system/models"
)

var ErrNoQualifiers = errors.New("no ranked teams to build a bracket from")

// RoundName возвращает испанское название раунда по числу матчей в нем.
func RoundName(matchesInRound int) string {
	switch matchesInRound {
	case 1:
		return "Final"
	case 2:
		return "Semifinal"
	case 4:
		return "Cuartos"
	case 8:
		return "Octavos"
	case 16:
		return "Dieciseisavos"
	default:
		return fmt.Sprintf("Ronda de %d", matchesInRound*2)
	}
}

const roundNameFinal = "Final"

// BuildBracket строит сетку single elimination из списка квалификантов.
// rng используется только для генерации идентификаторов матчей; сама
// раскладка детерминирована при фиксированном порядке rankedTeams.
//
// Посев первого раунда: победители групп играют против худших из лучших
// третьих (firsts[i] против thirds[last-i]), оставшиеся первые — против
// вторых из чужой группы (чтобы избежать повтора групповой пары), остаток
// вторых делится между собой по порядку. Последующие раунды — пустые матчи
// с обратными ссылками PreviousMatchIDs и прямыми NextMatchID, вплоть до
// единственного финала. Слоты команд заполняются позже, по мере прогресса
// (ApplyBracketResult).
func BuildBracket(rng *rand.Rand, rankedTeams []RankedTeam) ([]models.BracketMatch, error) {
	if len(rankedTeams) == 0 {
		return nil, ErrNoQualifiers
	}

	firsts := filterByPosition(rankedTeams, func(p int) bool { return p == 1 })
	seconds := filterByPosition(rankedTeams, func(p int) bool { return p == 2 })
	thirds := filterByPosition(rankedTeams, func(p int) bool { return p > 2 })

	firstRoundName := RoundName(len(rankedTeams) / 2)
	firstRound := make([]models.BracketMatch, 0, len(rankedTeams)/2)
	position := 0

	appendMatch := func(team1ID, team2ID string) {
		firstRound = append(firstRound, models.BracketMatch{
			ID:       NewID(rng),
			Team1ID:  team1ID,
			Team2ID:  team2ID,
			Status:   models.MatchStatusPending,
			Round:    firstRoundName,
			Position: position,
		})
		position++
	}

	// 1. Лучшие первые против худших третьих.
	pairCount := len(firsts)
	if len(thirds) < pairCount {
		pairCount = len(thirds)
	}
	for i := 0; i < pairCount; i++ {
		appendMatch(firsts[i].TeamID, thirds[len(thirds)-1-i].TeamID)
	}

	// 2. Оставшиеся первые против вторых, по возможности из другой группы.
	usedSeconds := make(map[string]bool, len(seconds))
	for _, first := range firsts[pairCount:] {
		opponent := pickSecond(seconds, usedSeconds, first.GroupID)
		if opponent == nil {
			continue
		}
		usedSeconds[opponent.TeamID] = true
		appendMatch(first.TeamID, opponent.TeamID)
	}

	// 3. Непарные вторые играют между собой.
	leftover := make([]RankedTeam, 0, len(seconds))
	for _, second := range seconds {
		if !usedSeconds[second.TeamID] {
			leftover = append(leftover, second)
		}
	}
	for i := 0; i+1 < len(leftover); i += 2 {
		appendMatch(leftover[i].TeamID, leftover[i+1].TeamID)
	}

	bracket := append([]models.BracketMatch{}, firstRound...)

	// Последующие раунды: соседние матчи сводятся попарно в пустые узлы,
	// пока не останется единственный финал.
	current := firstRound
	for len(current) > 1 {
		nextCount := (len(current) + 1) / 2
		roundName := RoundName(nextCount)
		next := make([]models.BracketMatch, 0, nextCount)

		for i := 0; i < len(current); i += 2 {
			matchID := NewID(rng)
			previous := []string{current[i].ID}
			if i+1 < len(current) {
				previous = append(previous, current[i+1].ID)
			}
			match := models.BracketMatch{
				ID:               matchID,
				Status:           models.MatchStatusPending,
				Round:            roundName,
				Position:         i / 2,
				PreviousMatchIDs: previous,
			}

			linkNext(bracket, current[i].ID, matchID)
			if i+1 < len(current) {
				linkNext(bracket, current[i+1].ID, matchID)
			}
			next = append(next, match)
		}

		bracket = append(bracket, next...)
		current = next
	}

	return bracket, nil
}

// ApplyBracketResult записывает результат матча сетки и продвигает победителя
// в соответствующий слот следующего матча. Возвращает обновленную копию
// сетки и чемпиона — победителя завершенного финала, либо nil, пока финал
// не сыгран. Несуществующий matchID — no-op: сетка возвращается без
// изменений.
//
// Повторная запись результата перезаписывает матч и его слот в следующем
// раунде, но не откатывает более глубокое продвижение старого победителя.
func ApplyBracketResult(bracket []models.BracketMatch, matchID string, result models.MatchResult) ([]models.BracketMatch, *string) {
	updated := make([]models.BracketMatch, len(bracket))
	copy(updated, bracket)

	var completed *models.BracketMatch
	for i := range updated {
		if updated[i].ID == matchID {
			res := result
			updated[i].Result = &res
			updated[i].Status = models.MatchStatusFinished
			completed = &updated[i]
			break
		}
	}

	if completed != nil && completed.Result.Winner != "" && completed.NextMatchID != nil {
		advanceWinner(updated, completed)
	}

	return updated, FindChampion(updated)
}

// BracketComplete сообщает, сыграны ли все финалы сетки. Сетка с
// несколькими категориями содержит финал на категорию; турнир завершается
// только после последнего из них.
func BracketComplete(bracket []models.BracketMatch) bool {
	for _, match := range bracket {
		if match.NextMatchID == nil && match.Status != models.MatchStatusFinished {
			return false
		}
	}
	return len(bracket) > 0
}

// FindChampion возвращает победителя финала, если финал завершен.
func FindChampion(bracket []models.BracketMatch) *string {
	for _, match := range bracket {
		if match.Round == roundNameFinal && match.Status == models.MatchStatusFinished && match.Result != nil && match.Result.Winner != "" {
			winner := match.Result.Winner
			return &winner
		}
	}
	return nil
}

func advanceWinner(bracket []models.BracketMatch, completed *models.BracketMatch) {
	nextID := *completed.NextMatchID

	// Индекс завершенного матча среди матчей, питающих следующий, задает
	// слот (0 — team1, 1 — team2).
	winnerIndex := -1
	feederCount := 0
	for _, match := range bracket {
		if match.NextMatchID != nil && *match.NextMatchID == nextID {
			if match.ID == completed.ID {
				winnerIndex = feederCount
			}
			feederCount++
		}
	}
	if winnerIndex < 0 {
		return
	}

	for i := range bracket {
		if bracket[i].ID != nextID {
			continue
		}
		if winnerIndex == 0 {
			bracket[i].Team1ID = completed.Result.Winner
		} else {
			bracket[i].Team2ID = completed.Result.Winner
		}
		return
	}
}

func filterByPosition(teams []RankedTeam, keep func(int) bool) []RankedTeam {
	filtered := make([]RankedTeam, 0, len(teams))
	for _, team := range teams {
		if keep(team.Position) {
			filtered = append(filtered, team)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].GamesDiff > filtered[j].GamesDiff
	})
	return filtered
}

func pickSecond(seconds []RankedTeam, used map[string]bool, avoidGroupID string) *RankedTeam {
	for i := range seconds {
		if !used[seconds[i].TeamID] && seconds[i].GroupID != avoidGroupID {
			return &seconds[i]
		}
	}
	for i := range seconds {
		if !used[seconds[i].TeamID] {
			return &seconds[i]
		}
	}
	return nil
}

func linkNext(bracket []models.BracketMatch, matchID, nextID string) {
	for i := range bracket {
		if bracket[i].ID == matchID {
			id := nextID
			bracket[i].NextMatchID = &id
			return
		}
	}
}
