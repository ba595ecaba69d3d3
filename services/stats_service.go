package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/padelpoint/torneo-system/engine"
	"github.com/padelpoint/torneo-system/models"
	"github.com/padelpoint/torneo-system/repositories"
)

type StatsService interface {
	GetPlayerStats(ctx context.Context, playerID string) (*models.PlayerStats, error)
}

type statsService struct {
	tournamentRepo   repositories.TournamentRepository
	registrationRepo repositories.RegistrationRepository
}

func NewStatsService(tournamentRepo repositories.TournamentRepository, registrationRepo repositories.RegistrationRepository) StatsService {
	return &statsService{tournamentRepo: tournamentRepo, registrationRepo: registrationRepo}
}

// GetPlayerStats агрегирует статистику игрока по завершенным турнирам.
func (s *statsService) GetPlayerStats(ctx context.Context, playerID string) (*models.PlayerStats, error) {
	if strings.TrimSpace(playerID) == "" {
		return nil, fmt.Errorf("%w: player id is required", ErrValidationFailed)
	}

	phase := models.PhaseFinished
	tournaments, err := s.tournamentRepo.List(ctx, repositories.ListTournamentsFilter{Phase: &phase})
	if err != nil {
		return nil, fmt.Errorf("failed to list finished tournaments: %w", err)
	}

	for i := range tournaments {
		teams, err := s.registrationRepo.ListByTournament(ctx, tournaments[i].ID, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to load teams for tournament %s: %w", tournaments[i].ID, err)
		}
		tournaments[i].Teams = teams
	}

	stats := engine.ComputePlayerStats(tournaments, playerID)
	return &stats, nil
}
