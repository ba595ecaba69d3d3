package engine

import (
	"errors"

	"github.com/padelpoint/torneo-system/models"
)

var (
	ErrResultNoSets        = errors.New("match result must contain at least one set")
	ErrResultNegativeGames = errors.New("set scores must be non-negative")
	ErrResultAllSetsTied   = errors.New("match result must contain at least one decided set")
	ErrResultWinnerInvalid = errors.New("result winner does not match the set scores")
)

// ValidateResult проверяет, что результат структурно корректен и что поле
// Winner выводится из счета по сетам, а не задано произвольно.
func ValidateResult(result models.MatchResult, team1ID, team2ID string) error {
	if len(result.Sets) == 0 {
		return ErrResultNoSets
	}
	decided := false
	for _, set := range result.Sets {
		if set.Team1 < 0 || set.Team2 < 0 {
			return ErrResultNegativeGames
		}
		if set.Team1 != set.Team2 {
			decided = true
		}
	}
	if !decided {
		return ErrResultAllSetsTied
	}
	if result.Winner != DetermineWinner(result, team1ID, team2ID) {
		return ErrResultWinnerInvalid
	}
	return nil
}
