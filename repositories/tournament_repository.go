package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/padelpoint/torneo-system/models"
)

var (
	ErrTournamentNotFound     = errors.New("tournament not found")
	ErrTournamentNameConflict = errors.New("tournament name conflict for this organizer")
)

type ListTournamentsFilter struct {
	OrganizerID *int
	Phase       *models.TournamentPhase
	Limit       int
	Offset      int
}

// TournamentRepository хранит турнир как строку с JSONB-документами для
// групп и сетки: движок возвращает целые структуры, и они всегда
// записываются атомарно, целиком.
type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, id string) (*models.Tournament, error)
	List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error)
	UpdateConfig(ctx context.Context, id string, config models.TournamentConfig) error
	ReplaceGroups(ctx context.Context, exec SQLExecutor, id string, groups []models.Group, phase models.TournamentPhase) error
	UpdateGroups(ctx context.Context, exec SQLExecutor, id string, groups []models.Group) error
	ReplaceBracket(ctx context.Context, exec SQLExecutor, id string, bracket []models.BracketMatch, phase models.TournamentPhase) error
	UpdateBracketProgress(ctx context.Context, exec SQLExecutor, id string, bracket []models.BracketMatch, champion *string, phase models.TournamentPhase, finishedAt *time.Time) error
	UpdatePosterKey(ctx context.Context, id string, posterKey *string) error
	Delete(ctx context.Context, id string) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	configJSON, err := json.Marshal(t.Config)
	if err != nil {
		return fmt.Errorf("failed to marshal tournament config: %w", err)
	}

	query := `
		INSERT INTO tournaments (id, organizer_id, config, groups, bracket, phase)
		VALUES ($1, $2, $3, '[]', '[]', $4)
		RETURNING created_at`

	err = r.db.QueryRowContext(ctx, query, t.ID, t.OrganizerID, configJSON, t.Phase).Scan(&t.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return ErrTournamentNameConflict
		}
		return fmt.Errorf("failed to create tournament: %w", err)
	}
	return nil
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id string) (*models.Tournament, error) {
	query := `
		SELECT id, organizer_id, config, groups, bracket, phase, champion, finished_at, poster_key, created_at
		FROM tournaments
		WHERE id = $1`

	return scanTournament(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresTournamentRepository) List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error) {
	query := `
		SELECT id, organizer_id, config, groups, bracket, phase, champion, finished_at, poster_key, created_at
		FROM tournaments
		WHERE 1=1`

	args := []interface{}{}
	argID := 1

	if filter.OrganizerID != nil {
		query += fmt.Sprintf(" AND organizer_id = $%d", argID)
		args = append(args, *filter.OrganizerID)
		argID++
	}
	if filter.Phase != nil {
		query += fmt.Sprintf(" AND phase = $%d", argID)
		args = append(args, *filter.Phase)
		argID++
	}

	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argID)
		args = append(args, filter.Limit)
		argID++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argID)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		t, err := scanTournament(rows)
		if err != nil {
			return nil, err
		}
		tournaments = append(tournaments, *t)
	}
	return tournaments, rows.Err()
}

func (r *postgresTournamentRepository) UpdateConfig(ctx context.Context, id string, config models.TournamentConfig) error {
	configJSON, err := json.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal tournament config: %w", err)
	}
	result, err := r.db.ExecContext(ctx, `UPDATE tournaments SET config = $1 WHERE id = $2`, configJSON, id)
	if err != nil {
		return fmt.Errorf("failed to update tournament config: %w", err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

// ReplaceGroups перезаписывает все группы турнира одним запросом — частичное
// слияние группового состояния не поддерживается.
func (r *postgresTournamentRepository) ReplaceGroups(ctx context.Context, exec SQLExecutor, id string, groups []models.Group, phase models.TournamentPhase) error {
	groupsJSON, err := json.Marshal(groups)
	if err != nil {
		return fmt.Errorf("failed to marshal groups: %w", err)
	}
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`UPDATE tournaments SET groups = $1, phase = $2, bracket = '[]', champion = NULL, finished_at = NULL WHERE id = $3`,
		groupsJSON, phase, id)
	if err != nil {
		return fmt.Errorf("failed to replace tournament groups: %w", err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

// UpdateGroups сохраняет групповое состояние после внесения результата,
// не трогая сетку и фазу.
func (r *postgresTournamentRepository) UpdateGroups(ctx context.Context, exec SQLExecutor, id string, groups []models.Group) error {
	groupsJSON, err := json.Marshal(groups)
	if err != nil {
		return fmt.Errorf("failed to marshal groups: %w", err)
	}
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`UPDATE tournaments SET groups = $1 WHERE id = $2`, groupsJSON, id)
	if err != nil {
		return fmt.Errorf("failed to update tournament groups: %w", err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) ReplaceBracket(ctx context.Context, exec SQLExecutor, id string, bracket []models.BracketMatch, phase models.TournamentPhase) error {
	bracketJSON, err := json.Marshal(bracket)
	if err != nil {
		return fmt.Errorf("failed to marshal bracket: %w", err)
	}
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`UPDATE tournaments SET bracket = $1, phase = $2, champion = NULL, finished_at = NULL WHERE id = $3`,
		bracketJSON, phase, id)
	if err != nil {
		return fmt.Errorf("failed to replace tournament bracket: %w", err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) UpdateBracketProgress(ctx context.Context, exec SQLExecutor, id string, bracket []models.BracketMatch, champion *string, phase models.TournamentPhase, finishedAt *time.Time) error {
	bracketJSON, err := json.Marshal(bracket)
	if err != nil {
		return fmt.Errorf("failed to marshal bracket: %w", err)
	}
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`UPDATE tournaments SET bracket = $1, champion = $2, phase = $3, finished_at = $4 WHERE id = $5`,
		bracketJSON, champion, phase, finishedAt, id)
	if err != nil {
		return fmt.Errorf("failed to update tournament bracket: %w", err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) UpdatePosterKey(ctx context.Context, id string, posterKey *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE tournaments SET poster_key = $1 WHERE id = $2`, posterKey, id)
	if err != nil {
		return fmt.Errorf("failed to update tournament poster key: %w", err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tournaments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete tournament: %w", err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTournament(row rowScanner) (*models.Tournament, error) {
	t := &models.Tournament{}
	var configJSON, groupsJSON, bracketJSON []byte

	err := row.Scan(
		&t.ID, &t.OrganizerID, &configJSON, &groupsJSON, &bracketJSON,
		&t.Phase, &t.Champion, &t.FinishedAt, &t.PosterKey, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal(configJSON, &t.Config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tournament config: %w", err)
	}
	if err := json.Unmarshal(groupsJSON, &t.Groups); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tournament groups: %w", err)
	}
	if err := json.Unmarshal(bracketJSON, &t.Bracket); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tournament bracket: %w", err)
	}
	return t, nil
}
