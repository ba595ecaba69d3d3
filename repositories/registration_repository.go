package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/padelpoint/torneo-system/models"
)

var ErrRegistrationNotFound = errors.New("team registration not found")

// RegistrationRepository хранит заявки команд. Список команд турнира — это
// его заявки; в расписание попадают только approved.
type RegistrationRepository interface {
	Create(ctx context.Context, tournamentID string, team *models.Team) error
	GetByID(ctx context.Context, tournamentID, teamID string) (*models.Team, error)
	ListByTournament(ctx context.Context, tournamentID string, status *models.TeamStatus) ([]models.Team, error)
	UpdateStatus(ctx context.Context, tournamentID, teamID string, status models.TeamStatus) error
	Delete(ctx context.Context, tournamentID, teamID string) error
	CountByTournament(ctx context.Context, tournamentID string) (int, error)
}

type postgresRegistrationRepository struct {
	db *sql.DB
}

func NewPostgresRegistrationRepository(db *sql.DB) RegistrationRepository {
	return &postgresRegistrationRepository{db: db}
}

func (r *postgresRegistrationRepository) Create(ctx context.Context, tournamentID string, team *models.Team) error {
	query := `
		INSERT INTO registrations (
			id, tournament_id,
			player1_name, player1_phone, player1_id,
			player2_name, player2_phone, player2_id,
			category, email, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.ExecContext(ctx, query,
		team.ID, tournamentID,
		team.Player1.Name, team.Player1.Phone, team.Player1.PlayerID,
		team.Player2.Name, team.Player2.Phone, team.Player2.PlayerID,
		team.Category, team.Email, team.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to create registration: %w", err)
	}
	return nil
}

const registrationColumns = `
	id, player1_name, player1_phone, player1_id,
	player2_name, player2_phone, player2_id,
	category, email, status`

func (r *postgresRegistrationRepository) GetByID(ctx context.Context, tournamentID, teamID string) (*models.Team, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE tournament_id = $1 AND id = $2`

	team, err := scanRegistration(r.db.QueryRowContext(ctx, query, tournamentID, teamID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRegistrationNotFound
		}
		return nil, err
	}
	return team, nil
}

func (r *postgresRegistrationRepository) ListByTournament(ctx context.Context, tournamentID string, status *models.TeamStatus) ([]models.Team, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE tournament_id = $1`
	args := []interface{}{tournamentID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		team, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, *team)
	}
	return teams, rows.Err()
}

func (r *postgresRegistrationRepository) UpdateStatus(ctx context.Context, tournamentID, teamID string, status models.TeamStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE registrations SET status = $1 WHERE tournament_id = $2 AND id = $3`,
		status, tournamentID, teamID)
	if err != nil {
		return fmt.Errorf("failed to update registration status: %w", err)
	}
	return checkAffectedRows(result, ErrRegistrationNotFound)
}

func (r *postgresRegistrationRepository) Delete(ctx context.Context, tournamentID, teamID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM registrations WHERE tournament_id = $1 AND id = $2`,
		tournamentID, teamID)
	if err != nil {
		return fmt.Errorf("failed to delete registration: %w", err)
	}
	return checkAffectedRows(result, ErrRegistrationNotFound)
}

func (r *postgresRegistrationRepository) CountByTournament(ctx context.Context, tournamentID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM registrations WHERE tournament_id = $1`,
		tournamentID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count registrations: %w", err)
	}
	return count, nil
}

func scanRegistration(row rowScanner) (*models.Team, error) {
	team := &models.Team{}
	err := row.Scan(
		&team.ID,
		&team.Player1.Name, &team.Player1.Phone, &team.Player1.PlayerID,
		&team.Player2.Name, &team.Player2.Phone, &team.Player2.PlayerID,
		&team.Category, &team.Email, &team.Status,
	)
	if err != nil {
		return nil, err
	}
	return team, nil
}
