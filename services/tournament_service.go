package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/padelpoint/torneo-system/engine"
	"github.com/padelpoint/torneo-system/models"
	"github.com/padelpoint/torneo-system/realtime"
	"github.com/padelpoint/torneo-system/repositories"
	"github.com/padelpoint/torneo-system/storage"
)

type TournamentService interface {
	CreateTournament(ctx context.Context, organizerID int, input CreateTournamentInput) (*models.Tournament, error)
	GetTournament(ctx context.Context, id string) (*models.Tournament, error)
	ListTournaments(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error)
	UpdateConfig(ctx context.Context, organizerID int, id string, input UpdateConfigInput) (*models.Tournament, error)
	DeleteTournament(ctx context.Context, organizerID int, id string) error

	GenerateGroups(ctx context.Context, organizerID int, id string) ([]models.Group, error)
	UpdateMatchResult(ctx context.Context, organizerID int, id, groupID, matchID string, result models.MatchResult) (*models.Group, error)
	GenerateFinalBracket(ctx context.Context, organizerID int, id string) ([]models.BracketMatch, error)
	UpdateBracketMatch(ctx context.Context, organizerID int, id, matchID string, result models.MatchResult) (*models.Tournament, error)

	UploadPoster(ctx context.Context, organizerID int, id string, contentType string, file io.Reader) (*models.Tournament, error)
}

type CreateTournamentInput struct {
	Name                    string `json:"name"`
	Description             string `json:"description"`
	Date                    string `json:"date"`
	Time                    string `json:"time"`
	TotalTeams              int    `json:"totalTeams"`
	NumberOfGroups          int    `json:"numberOfGroups"`
	QualifyFirst            int    `json:"qualifyFirst"`
	QualifyThird            bool   `json:"qualifyThird"`
	NumberOfThirdQualifiers int    `json:"numberOfThirdQualifiers"`
}

// Все поля указатели: обновляются только переданные.
type UpdateConfigInput struct {
	Name                    *string `json:"name,omitempty"`
	Description             *string `json:"description,omitempty"`
	Date                    *string `json:"date,omitempty"`
	Time                    *string `json:"time,omitempty"`
	TotalTeams              *int    `json:"totalTeams,omitempty"`
	NumberOfGroups          *int    `json:"numberOfGroups,omitempty"`
	QualifyFirst            *int    `json:"qualifyFirst,omitempty"`
	QualifyThird            *bool   `json:"qualifyThird,omitempty"`
	NumberOfThirdQualifiers *int    `json:"numberOfThirdQualifiers,omitempty"`
	RegistrationClosed      *bool   `json:"registrationClosed,omitempty"`
}

type tournamentService struct {
	tournamentRepo   repositories.TournamentRepository
	registrationRepo repositories.RegistrationRepository
	uploader         storage.FileUploader
	hub              *realtime.Hub
	logger           *slog.Logger
	newRNG           func() *rand.Rand
}

func NewTournamentService(
	tournamentRepo repositories.TournamentRepository,
	registrationRepo repositories.RegistrationRepository,
	uploader storage.FileUploader,
	hub *realtime.Hub,
	logger *slog.Logger,
	newRNG func() *rand.Rand,
) TournamentService {
	return &tournamentService{
		tournamentRepo:   tournamentRepo,
		registrationRepo: registrationRepo,
		uploader:         uploader,
		hub:              hub,
		logger:           logger,
		newRNG:           newRNG,
	}
}

func (s *tournamentService) CreateTournament(ctx context.Context, organizerID int, input CreateTournamentInput) (*models.Tournament, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTournamentNameRequired
	}
	if input.NumberOfGroups < 1 {
		return nil, fmt.Errorf("%w: numberOfGroups must be at least 1", ErrInvalidGroupConfig)
	}
	if input.QualifyFirst < 1 {
		return nil, fmt.Errorf("%w: qualifyFirst must be at least 1", ErrInvalidQualifierConfig)
	}
	if input.QualifyThird && input.NumberOfThirdQualifiers < 1 {
		return nil, fmt.Errorf("%w: numberOfThirdQualifiers must be at least 1 when qualifyThird is set", ErrInvalidQualifierConfig)
	}

	tournament := &models.Tournament{
		ID:          engine.NewID(s.newRNG()),
		OrganizerID: organizerID,
		Config: models.TournamentConfig{
			Name:                    name,
			Description:             input.Description,
			Date:                    input.Date,
			Time:                    input.Time,
			TotalTeams:              input.TotalTeams,
			NumberOfGroups:          input.NumberOfGroups,
			QualifyFirst:            input.QualifyFirst,
			QualifyThird:            input.QualifyThird,
			NumberOfThirdQualifiers: input.NumberOfThirdQualifiers,
		},
		Teams:   []models.Team{},
		Groups:  []models.Group{},
		Bracket: []models.BracketMatch{},
		Phase:   models.PhaseRegistration,
	}

	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		if errors.Is(err, repositories.ErrTournamentNameConflict) {
			return nil, ErrTournamentNameConflict
		}
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}

	s.logger.Info("tournament created", slog.String("tournament_id", tournament.ID), slog.Int("organizer_id", organizerID))
	return tournament, nil
}

// GetTournament загружает агрегат целиком: строку турнира и заявки команд
// параллельно.
func (s *tournamentService) GetTournament(ctx context.Context, id string) (*models.Tournament, error) {
	var (
		tournament *models.Tournament
		teams      []models.Team
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := s.tournamentRepo.GetByID(gCtx, id)
		if err != nil {
			if errors.Is(err, repositories.ErrTournamentNotFound) {
				return ErrTournamentNotFound
			}
			return fmt.Errorf("failed to load tournament %s: %w", id, err)
		}
		tournament = t
		return nil
	})
	g.Go(func() error {
		list, err := s.registrationRepo.ListByTournament(gCtx, id, nil)
		if err != nil {
			return fmt.Errorf("failed to load teams for tournament %s: %w", id, err)
		}
		teams = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	tournament.Teams = teams
	s.attachPosterURL(tournament)
	return tournament, nil
}

func (s *tournamentService) ListTournaments(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	tournaments, err := s.tournamentRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	for i := range tournaments {
		s.attachPosterURL(&tournaments[i])
	}
	return tournaments, nil
}

func (s *tournamentService) UpdateConfig(ctx context.Context, organizerID int, id string, input UpdateConfigInput) (*models.Tournament, error) {
	tournament, err := s.loadOwned(ctx, organizerID, id)
	if err != nil {
		return nil, err
	}

	cfg := &tournament.Config
	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		if trimmed == "" {
			return nil, ErrTournamentNameRequired
		}
		cfg.Name = trimmed
	}
	if input.Description != nil {
		cfg.Description = *input.Description
	}
	if input.Date != nil {
		cfg.Date = *input.Date
	}
	if input.Time != nil {
		cfg.Time = *input.Time
	}
	if input.TotalTeams != nil {
		cfg.TotalTeams = *input.TotalTeams
	}
	if input.NumberOfGroups != nil {
		if *input.NumberOfGroups < 1 {
			return nil, fmt.Errorf("%w: numberOfGroups must be at least 1", ErrInvalidGroupConfig)
		}
		cfg.NumberOfGroups = *input.NumberOfGroups
	}
	if input.QualifyFirst != nil {
		if *input.QualifyFirst < 1 {
			return nil, fmt.Errorf("%w: qualifyFirst must be at least 1", ErrInvalidQualifierConfig)
		}
		cfg.QualifyFirst = *input.QualifyFirst
	}
	if input.QualifyThird != nil {
		cfg.QualifyThird = *input.QualifyThird
	}
	if input.NumberOfThirdQualifiers != nil {
		cfg.NumberOfThirdQualifiers = *input.NumberOfThirdQualifiers
	}
	if input.RegistrationClosed != nil {
		cfg.RegistrationClosed = *input.RegistrationClosed
	}

	if err := s.tournamentRepo.UpdateConfig(ctx, id, *cfg); err != nil {
		return nil, fmt.Errorf("failed to update tournament config: %w", err)
	}
	return tournament, nil
}

func (s *tournamentService) DeleteTournament(ctx context.Context, organizerID int, id string) error {
	if _, err := s.loadOwned(ctx, organizerID, id); err != nil {
		return err
	}
	if err := s.tournamentRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete tournament: %w", err)
	}
	s.logger.Info("tournament deleted", slog.String("tournament_id", id))
	return nil
}

// GenerateGroups создает группы заново из подтвержденных заявок. Прежнее
// групповое состояние (и сетка, если была) сбрасываются целиком: это
// атомарная замена всего поддерева, а не слияние.
func (s *tournamentService) GenerateGroups(ctx context.Context, organizerID int, id string) ([]models.Group, error) {
	tournament, err := s.loadOwned(ctx, organizerID, id)
	if err != nil {
		return nil, err
	}
	if tournament.Phase == models.PhaseFinished {
		return nil, ErrInvalidPhase
	}

	approved := models.TeamStatusApproved
	teams, err := s.registrationRepo.ListByTournament(ctx, id, &approved)
	if err != nil {
		return nil, fmt.Errorf("failed to load approved teams: %w", err)
	}

	groups, err := engine.PartitionIntoGroups(s.newRNG(), teams, tournament.Config.NumberOfGroups)
	if err != nil {
		if errors.Is(err, engine.ErrNoApprovedTeams) || errors.Is(err, engine.ErrInvalidGroupCount) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidGroupConfig, err)
		}
		return nil, fmt.Errorf("failed to partition teams into groups: %w", err)
	}

	if err := s.tournamentRepo.ReplaceGroups(ctx, nil, id, groups, models.PhaseGroups); err != nil {
		return nil, fmt.Errorf("failed to save groups: %w", err)
	}

	s.logger.Info("groups generated",
		slog.String("tournament_id", id),
		slog.Int("teams", len(teams)),
		slog.Int("groups", len(groups)))
	s.broadcast(id, realtime.EventGroupsUpdated, groups)
	return groups, nil
}

// UpdateMatchResult записывает результат матча группы и пересчитывает ее
// таблицу целиком по всем матчам.
func (s *tournamentService) UpdateMatchResult(ctx context.Context, organizerID int, id, groupID, matchID string, result models.MatchResult) (*models.Group, error) {
	tournament, err := s.loadOwned(ctx, organizerID, id)
	if err != nil {
		return nil, err
	}
	if tournament.Phase != models.PhaseGroups && tournament.Phase != models.PhaseBracket {
		return nil, ErrInvalidPhase
	}

	var group *models.Group
	for i := range tournament.Groups {
		if tournament.Groups[i].ID == groupID {
			group = &tournament.Groups[i]
			break
		}
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}

	var match *models.Match
	for i := range group.Matches {
		if group.Matches[i].ID == matchID {
			match = &group.Matches[i]
			break
		}
	}
	if match == nil {
		return nil, ErrMatchNotFound
	}

	if err := engine.ValidateResult(result, match.Team1ID, match.Team2ID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	match.Result = &result
	match.Status = models.MatchStatusFinished
	group.Standings = engine.ComputeStandings(group.TeamIDs, group.Matches)

	if err := s.tournamentRepo.UpdateGroups(ctx, nil, id, tournament.Groups); err != nil {
		return nil, fmt.Errorf("failed to save group result: %w", err)
	}

	s.broadcast(id, realtime.EventMatchUpdated, group)
	return group, nil
}

// GenerateFinalBracket собирает квалификантов по категориям и строит сетку.
// Категории разыгрываются независимо; их сетки конкатенируются.
func (s *tournamentService) GenerateFinalBracket(ctx context.Context, organizerID int, id string) ([]models.BracketMatch, error) {
	tournament, err := s.loadOwned(ctx, organizerID, id)
	if err != nil {
		return nil, err
	}
	if tournament.Phase != models.PhaseGroups {
		return nil, ErrInvalidPhase
	}
	if len(tournament.Groups) == 0 {
		return nil, ErrInvalidPhase
	}
	for _, group := range tournament.Groups {
		for _, match := range group.Matches {
			if match.Status != models.MatchStatusFinished {
				return nil, ErrGroupsNotFinished
			}
		}
	}

	teams, err := s.registrationRepo.ListByTournament(ctx, id, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load teams: %w", err)
	}

	cfg := tournament.Config
	thirdQualifiers := 0
	if cfg.QualifyThird {
		thirdQualifiers = cfg.NumberOfThirdQualifiers
	}

	rng := s.newRNG()
	bracket := make([]models.BracketMatch, 0)
	for _, categoryGroups := range groupsByCategory(tournament.Groups, teams) {
		ranked := engine.RankQualifiers(categoryGroups, cfg.QualifyFirst, thirdQualifiers)
		categoryBracket, err := engine.BuildBracket(rng, ranked)
		if err != nil {
			return nil, fmt.Errorf("failed to build bracket: %w", err)
		}
		bracket = append(bracket, categoryBracket...)
	}

	if err := s.tournamentRepo.ReplaceBracket(ctx, nil, id, bracket, models.PhaseBracket); err != nil {
		return nil, fmt.Errorf("failed to save bracket: %w", err)
	}

	s.logger.Info("final bracket generated",
		slog.String("tournament_id", id),
		slog.Int("matches", len(bracket)))
	s.broadcast(id, realtime.EventBracketUpdated, bracket)
	return bracket, nil
}

// UpdateBracketMatch записывает результат матча сетки и продвигает
// победителя. Несуществующий matchID — no-op. Когда финал сыгран, турнир
// переходит в фазу finished и фиксируется чемпион.
func (s *tournamentService) UpdateBracketMatch(ctx context.Context, organizerID int, id, matchID string, result models.MatchResult) (*models.Tournament, error) {
	tournament, err := s.loadOwned(ctx, organizerID, id)
	if err != nil {
		return nil, err
	}
	if tournament.Phase != models.PhaseBracket && tournament.Phase != models.PhaseFinished {
		return nil, ErrInvalidPhase
	}

	for _, match := range tournament.Bracket {
		if match.ID != matchID {
			continue
		}
		if match.Team1ID == "" || match.Team2ID == "" {
			return nil, ErrBracketSlotsNotResolved
		}
		// Переигровка закрыта, как только победитель уже сыграл и завершил
		// следующий матч: смена результата меняла бы состав сыгранной пары.
		if match.Status == models.MatchStatusFinished && match.NextMatchID != nil {
			if next := findBracketMatch(tournament.Bracket, *match.NextMatchID); next != nil && next.Status == models.MatchStatusFinished {
				return nil, ErrMatchTeamsImmutable
			}
		}
		if err := engine.ValidateResult(result, match.Team1ID, match.Team2ID); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
		}
		break
	}

	updated, champion := engine.ApplyBracketResult(tournament.Bracket, matchID, result)
	// Сетка с несколькими категориями несет финал на категорию: турнир
	// закрывается победителем только после последнего финала.
	if champion != nil && !engine.BracketComplete(updated) {
		champion = nil
	}
	tournament.Bracket = updated
	tournament.Champion = champion

	phase := models.PhaseBracket
	var finishedAt *time.Time
	if champion != nil {
		phase = models.PhaseFinished
		now := time.Now()
		finishedAt = &now
	}
	tournament.Phase = phase
	tournament.FinishedAt = finishedAt

	if err := s.tournamentRepo.UpdateBracketProgress(ctx, nil, id, updated, champion, phase, finishedAt); err != nil {
		return nil, fmt.Errorf("failed to save bracket progress: %w", err)
	}

	if champion != nil {
		s.logger.Info("champion decided", slog.String("tournament_id", id), slog.String("team_id", *champion))
		s.broadcast(id, realtime.EventChampion, *champion)
	} else {
		s.broadcast(id, realtime.EventBracketUpdated, updated)
	}
	return tournament, nil
}

var allowedPosterTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

func (s *tournamentService) UploadPoster(ctx context.Context, organizerID int, id string, contentType string, file io.Reader) (*models.Tournament, error) {
	tournament, err := s.loadOwned(ctx, organizerID, id)
	if err != nil {
		return nil, err
	}

	ext, ok := allowedPosterTypes[contentType]
	if !ok {
		return nil, ErrPosterContentTypeInvalid
	}

	key := fmt.Sprintf("tournaments/%s/poster.%s", id, ext)
	uploaded, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload poster: %w", err)
	}

	if tournament.PosterKey != nil && *tournament.PosterKey != uploaded.Key {
		if err := s.uploader.Delete(ctx, *tournament.PosterKey); err != nil {
			s.logger.Warn("failed to delete previous poster", slog.String("key", *tournament.PosterKey), slog.Any("error", err))
		}
	}

	if err := s.tournamentRepo.UpdatePosterKey(ctx, id, &uploaded.Key); err != nil {
		return nil, fmt.Errorf("failed to save poster key: %w", err)
	}

	tournament.PosterKey = &uploaded.Key
	s.attachPosterURL(tournament)
	return tournament, nil
}

func findBracketMatch(bracket []models.BracketMatch, id string) *models.BracketMatch {
	for i := range bracket {
		if bracket[i].ID == id {
			return &bracket[i]
		}
	}
	return nil
}

func (s *tournamentService) loadOwned(ctx context.Context, organizerID int, id string) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament %s: %w", id, err)
	}
	if tournament.OrganizerID != organizerID {
		return nil, ErrForbiddenOperation
	}
	return tournament, nil
}

func (s *tournamentService) attachPosterURL(t *models.Tournament) {
	if t.PosterKey != nil && s.uploader != nil {
		url := s.uploader.GetPublicURL(*t.PosterKey)
		t.PosterURL = &url
	}
}

func (s *tournamentService) broadcast(tournamentID, event string, payload interface{}) {
	if s.hub == nil {
		return
	}
	roomID := "tournament_" + tournamentID
	s.hub.BroadcastToRoom(roomID, realtime.Message{Type: event, Payload: payload, RoomID: roomID})
}

// groupsByCategory раскладывает группы по категориям. Категория читается из
// имени группы ("{категория} - {буква}"), для одиночной категории — из
// первой команды группы.
func groupsByCategory(groups []models.Group, teams []models.Team) [][]models.Group {
	teamCategory := make(map[string]string, len(teams))
	for _, team := range teams {
		teamCategory[team.ID] = team.ResolvedCategory()
	}

	ordered := make([]string, 0)
	byCategory := make(map[string][]models.Group)
	for _, group := range groups {
		category := models.CategoryGeneral
		if idx := strings.Index(group.Name, " - "); idx > 0 {
			category = group.Name[:idx]
		} else if len(group.TeamIDs) > 0 {
			if cat, ok := teamCategory[group.TeamIDs[0]]; ok {
				category = cat
			}
		}
		if _, seen := byCategory[category]; !seen {
			ordered = append(ordered, category)
		}
		byCategory[category] = append(byCategory[category], group)
	}

	result := make([][]models.Group, 0, len(ordered))
	for _, category := range ordered {
		result = append(result, byCategory[category])
	}
	return result
}
