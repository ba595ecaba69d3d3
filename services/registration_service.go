package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/padelpoint/torneo-system/engine"
	"github.com/padelpoint/torneo-system/models"
	"github.com/padelpoint/torneo-system/repositories"
)

type RegistrationService interface {
	RegisterTeam(ctx context.Context, tournamentID string, input RegisterTeamInput) (*models.Team, error)
	ListTeams(ctx context.Context, tournamentID string, status *models.TeamStatus) ([]models.Team, error)
	SetTeamStatus(ctx context.Context, organizerID int, tournamentID, teamID string, status models.TeamStatus) (*models.Team, error)
	RemoveTeam(ctx context.Context, organizerID int, tournamentID, teamID string) error
}

type RegisterTeamInput struct {
	Player1  PlayerInput `json:"player1"`
	Player2  PlayerInput `json:"player2"`
	Category *string     `json:"category,omitempty"`
	Email    *string     `json:"email,omitempty"`
}

type PlayerInput struct {
	Name     string  `json:"name"`
	Phone    *string `json:"phone,omitempty"`
	PlayerID *string `json:"player_id,omitempty"`
}

type registrationService struct {
	registrationRepo repositories.RegistrationRepository
	tournamentRepo   repositories.TournamentRepository
	newRNG           func() *rand.Rand
}

func NewRegistrationService(
	registrationRepo repositories.RegistrationRepository,
	tournamentRepo repositories.TournamentRepository,
	newRNG func() *rand.Rand,
) RegistrationService {
	return &registrationService{
		registrationRepo: registrationRepo,
		tournamentRepo:   tournamentRepo,
		newRNG:           newRNG,
	}
}

// RegisterTeam — публичная регистрация пары. Заявка создается в статусе
// pending и попадает в жеребьёвку только после подтверждения организатором.
func (s *registrationService) RegisterTeam(ctx context.Context, tournamentID string, input RegisterTeamInput) (*models.Team, error) {
	player1 := strings.TrimSpace(input.Player1.Name)
	player2 := strings.TrimSpace(input.Player2.Name)
	if player1 == "" || player2 == "" {
		return nil, ErrPlayerNamesRequired
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament %s: %w", tournamentID, err)
	}

	if tournament.Phase != models.PhaseRegistration || tournament.Config.RegistrationClosed {
		return nil, ErrRegistrationClosed
	}

	if tournament.Config.TotalTeams > 0 {
		count, err := s.registrationRepo.CountByTournament(ctx, tournamentID)
		if err != nil {
			return nil, fmt.Errorf("failed to count registrations: %w", err)
		}
		if count >= tournament.Config.TotalTeams {
			return nil, ErrTournamentFull
		}
	}

	team := &models.Team{
		ID:       engine.NewID(s.newRNG()),
		Player1:  models.Player{Name: player1, Phone: input.Player1.Phone, PlayerID: input.Player1.PlayerID},
		Player2:  models.Player{Name: player2, Phone: input.Player2.Phone, PlayerID: input.Player2.PlayerID},
		Category: input.Category,
		Email:    input.Email,
		Status:   models.TeamStatusPending,
	}

	if err := s.registrationRepo.Create(ctx, tournamentID, team); err != nil {
		return nil, fmt.Errorf("failed to register team: %w", err)
	}
	return team, nil
}

func (s *registrationService) ListTeams(ctx context.Context, tournamentID string, status *models.TeamStatus) ([]models.Team, error) {
	teams, err := s.registrationRepo.ListByTournament(ctx, tournamentID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for tournament %s: %w", tournamentID, err)
	}
	return teams, nil
}

// SetTeamStatus выполняет подтверждение или отклонение заявки организатором.
func (s *registrationService) SetTeamStatus(ctx context.Context, organizerID int, tournamentID, teamID string, status models.TeamStatus) (*models.Team, error) {
	if status != models.TeamStatusApproved && status != models.TeamStatusRejected && status != models.TeamStatusPending {
		return nil, fmt.Errorf("%w: unknown team status %q", ErrValidationFailed, status)
	}

	if err := s.checkOrganizer(ctx, organizerID, tournamentID); err != nil {
		return nil, err
	}

	if err := s.registrationRepo.UpdateStatus(ctx, tournamentID, teamID, status); err != nil {
		if errors.Is(err, repositories.ErrRegistrationNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to update team status: %w", err)
	}
	return s.registrationRepo.GetByID(ctx, tournamentID, teamID)
}

func (s *registrationService) RemoveTeam(ctx context.Context, organizerID int, tournamentID, teamID string) error {
	if err := s.checkOrganizer(ctx, organizerID, tournamentID); err != nil {
		return err
	}
	if err := s.registrationRepo.Delete(ctx, tournamentID, teamID); err != nil {
		if errors.Is(err, repositories.ErrRegistrationNotFound) {
			return ErrRegistrationNotFound
		}
		return fmt.Errorf("failed to remove team: %w", err)
	}
	return nil
}

func (s *registrationService) checkOrganizer(ctx context.Context, organizerID int, tournamentID string) error {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return fmt.Errorf("failed to load tournament %s: %w", tournamentID, err)
	}
	if tournament.OrganizerID != organizerID {
		return ErrForbiddenOperation
	}
	return nil
}
