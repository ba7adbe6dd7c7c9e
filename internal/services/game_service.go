package services

import (
	"context"

	"github.com/matchup/matchup/internal/errors"
	"github.com/matchup/matchup/internal/logger"
	"github.com/matchup/matchup/internal/models"
	"github.com/matchup/matchup/internal/query"
	"github.com/matchup/matchup/internal/repository"
)

// GameService is the boundary in front of the query engine and repository:
// it validates criteria and inputs, then delegates. Callers get AppErrors.
type GameService interface {
	CreateGame(ctx context.Context, input models.CreateGameInput) (*models.Game, error)
	GetGame(ctx context.Context, key models.GameKey) (*models.Game, error)
	// SearchGames runs the criteria and returns one page plus the total match
	// count. pageNumber is 1-indexed; a non-positive page falls back to the
	// criteria's own limit/offset.
	SearchGames(ctx context.Context, criteria models.GameCriteria, pageNumber int) ([]models.Game, int, error)
	GamesPlayedByUser(ctx context.Context, userID int64, side models.TeamSide) ([]models.Game, error)
	ModifyGame(ctx context.Context, oldKey models.GameKey, patch models.GamePatch) (*models.Game, error)
	RecordResult(ctx context.Context, key models.GameKey, result string) (*models.Game, error)
	RemoveGame(ctx context.Context, key models.GameKey) (bool, error)
	GetTeam(ctx context.Context, name string) (*models.Team, error)
}

type gameService struct {
	gameRepo repository.GameRepository
	teamRepo repository.TeamRepository
	pageSize int
}

// NewGameService creates a new GameService. pageSize governs page-number
// based search slicing.
func NewGameService(gameRepo repository.GameRepository, teamRepo repository.TeamRepository, pageSize int) GameService {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &gameService{
		gameRepo: gameRepo,
		teamRepo: teamRepo,
		pageSize: pageSize,
	}
}

func (s *gameService) CreateGame(ctx context.Context, input models.CreateGameInput) (*models.Game, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating game: team1=%s", input.Team1Name)

	if input.Team1Name == "" {
		return nil, errors.NewValidationError("team1Name", "must not be empty")
	}
	if !input.StartTime.Before(input.FinishTime) {
		return nil, errors.NewValidationError("startTime", "start time must be before finish time")
	}

	game, err := s.gameRepo.Create(ctx, input)
	if err != nil {
		return nil, wrap(err)
	}
	return game, nil
}

func (s *gameService) GetGame(ctx context.Context, key models.GameKey) (*models.Game, error) {
	game, err := s.gameRepo.FindByKey(ctx, key)
	if err != nil {
		return nil, wrap(err)
	}
	if game == nil {
		return nil, errors.NewNotFoundError("game", key.Team1Name)
	}
	return game, nil
}

func (s *gameService) SearchGames(ctx context.Context, criteria models.GameCriteria, pageNumber int) ([]models.Game, int, error) {
	log := logger.FromContext(ctx)

	// Social filters are rejected here, before any query is built.
	if criteria.NeedsCurrentUser() && criteria.CurrentUsername == nil {
		return nil, 0, errors.NewInvalidCriteriaError(
			"social filters require a current user")
	}

	if pageNumber > 0 {
		// Page-number search slices the full ordered result set, so the total
		// comes for free.
		all := criteria
		all.Limit = 0
		all.Offset = 0
		games, err := s.gameRepo.FindGames(ctx, all)
		if err != nil {
			log.Error("failed to search games: %v", err)
			return nil, 0, wrap(err)
		}
		return query.Page(games, pageNumber, s.pageSize), len(games), nil
	}

	games, err := s.gameRepo.FindGames(ctx, criteria)
	if err != nil {
		log.Error("failed to search games: %v", err)
		return nil, 0, wrap(err)
	}
	total, err := s.gameRepo.CountGames(ctx, criteria)
	if err != nil {
		log.Error("failed to count games: %v", err)
		return nil, 0, wrap(err)
	}
	return games, total, nil
}

func (s *gameService) GamesPlayedByUser(ctx context.Context, userID int64, side models.TeamSide) ([]models.Game, error) {
	if side != models.SideTeam1 && side != models.SideTeam2 {
		return nil, errors.NewValidationError("side", "must be team1 or team2")
	}
	games, err := s.gameRepo.GamesPlayedByUser(ctx, userID, side)
	if err != nil {
		return nil, wrap(err)
	}
	return games, nil
}

func (s *gameService) ModifyGame(ctx context.Context, oldKey models.GameKey, patch models.GamePatch) (*models.Game, error) {
	if patch.IsZero() {
		// Nothing to change; return the game as-is.
		return s.GetGame(ctx, oldKey)
	}
	if patch.StartTime != nil && patch.FinishTime != nil && !patch.StartTime.Before(*patch.FinishTime) {
		return nil, errors.NewValidationError("startTime", "start time must be before finish time")
	}
	game, err := s.gameRepo.Modify(ctx, oldKey, patch)
	if err != nil {
		return nil, wrap(err)
	}
	return game, nil
}

func (s *gameService) RecordResult(ctx context.Context, key models.GameKey, result string) (*models.Game, error) {
	if result == "" {
		return nil, errors.NewValidationError("result", "must not be empty")
	}
	game, err := s.gameRepo.RecordResult(ctx, key, result)
	if err != nil {
		return nil, wrap(err)
	}
	return game, nil
}

func (s *gameService) RemoveGame(ctx context.Context, key models.GameKey) (bool, error) {
	removed, err := s.gameRepo.Remove(ctx, key)
	if err != nil {
		return false, wrap(err)
	}
	return removed, nil
}

func (s *gameService) GetTeam(ctx context.Context, name string) (*models.Team, error) {
	team, err := s.teamRepo.FindByName(ctx, name)
	if err != nil {
		return nil, wrap(err)
	}
	if team == nil {
		return nil, errors.NewNotFoundError("team", name)
	}
	return team, nil
}

// wrap passes AppErrors through untouched and hides everything else behind an
// internal error.
func wrap(err error) error {
	if _, ok := err.(*errors.AppError); ok {
		return err
	}
	return errors.NewInternalError(err)
}
