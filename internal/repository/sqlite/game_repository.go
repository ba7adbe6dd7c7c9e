package sqlite

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"

	apperrors "github.com/matchup/matchup/internal/errors"
	"github.com/matchup/matchup/internal/logger"
	"github.com/matchup/matchup/internal/models"
	"github.com/matchup/matchup/internal/query"
	"github.com/matchup/matchup/internal/repository"
)

var sqlBuilder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

type gameRepository struct {
	db *sql.DB
}

// NewGameRepository creates a new GameRepository implementation
func NewGameRepository(db *sql.DB) repository.GameRepository {
	return &gameRepository{db: db}
}

func (r *gameRepository) Create(ctx context.Context, input models.CreateGameInput) (*models.Game, error) {
	log := logger.FromContext(ctx).WithPrefix("game_repo")
	log.Debug("creating game: team1=%s, start=%s, finish=%s",
		input.Team1Name, input.StartTime, input.FinishTime)

	key := models.GameKey{
		Team1Name:  input.Team1Name,
		StartTime:  input.StartTime.UTC(),
		FinishTime: input.FinishTime.UTC(),
	}

	var created *models.Game
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		team1, err := resolveTeam(ctx, tx, input.Team1Name)
		if err != nil {
			return err
		}
		if input.Team2Name != nil {
			team2, err := resolveTeam(ctx, tx, *input.Team2Name)
			if err != nil {
				return err
			}
			if team2.SportName != team1.SportName {
				return apperrors.NewValidationError("team2",
					"both teams must play the same sport")
			}
		}

		_, err = tx.ExecContext(ctx, `
INSERT INTO games (
    team1_name, start_time, finish_time, team2_name, type, competitive, result,
    country, state, city, street, tournament_name, description, title
) VALUES (?, ?, ?, ?, ?, ?, NULL, ?, ?, ?, ?, ?, ?, ?)
`, key.Team1Name, key.StartTime, key.FinishTime, input.Team2Name,
			input.Type, input.Competitive,
			input.Place.Country, input.Place.State, input.Place.City, input.Place.Street,
			input.TournamentName, input.Description, input.Title)
		if err != nil {
			if isConstraintErr(err) {
				log.Debug("game already exists: %s", keyString(key))
				return conflictErr(key)
			}
			log.Error("failed to insert game: %v", err)
			return err
		}

		created, err = getByKey(ctx, tx, key)
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Debug("game created: %s", keyString(key))
	return created, nil
}

func (r *gameRepository) FindByKey(ctx context.Context, key models.GameKey) (*models.Game, error) {
	log := logger.FromContext(ctx).WithPrefix("game_repo")
	log.Debug("finding game: %s", keyString(key))

	// A missing team1 is a NotFound; a missing game is not.
	if _, err := resolveTeam(ctx, r.db, key.Team1Name); err != nil {
		return nil, err
	}
	return getByKey(ctx, r.db, key)
}

func (r *gameRepository) FindGames(ctx context.Context, criteria models.GameCriteria) ([]models.Game, error) {
	log := logger.FromContext(ctx).WithPrefix("game_repo")

	sqlStr, args, err := query.ForCriteria(criteria).Build()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}
	log.Debug("finding games: %s (%d binds)", sqlStr, len(args))

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to find games: %v", err)
		return nil, err
	}
	defer rows.Close()

	games, err := collectGames(rows)
	if err != nil {
		log.Error("failed to scan game row: %v", err)
		return nil, err
	}
	log.Debug("found %d games", len(games))
	return games, nil
}

func (r *gameRepository) CountGames(ctx context.Context, criteria models.GameCriteria) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("game_repo")

	sqlStr, args, err := query.ForCriteria(criteria).BuildCount()
	if err != nil {
		log.Error("failed to build count query: %v", err)
		return 0, err
	}

	var count int
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		log.Error("failed to count games: %v", err)
		return 0, err
	}
	return count, nil
}

func (r *gameRepository) GamesPlayedByUser(ctx context.Context, userID int64, side models.TeamSide) ([]models.Game, error) {
	log := logger.FromContext(ctx).WithPrefix("game_repo")
	log.Debug("finding games played by user: user_id=%d, side=%d", userID, side)

	teamCol := "g.team1_name"
	if side == models.SideTeam2 {
		teamCol = "g.team2_name"
	}

	qb := baseGameSelect().
		Where("g.result IS NOT NULL").
		Where(sq.Expr(
			"EXISTS (SELECT 1 FROM team_players tp WHERE tp.team_name = "+teamCol+" AND tp.user_id = ?)",
			userID)).
		OrderBy(query.DefaultSort().OrderBy()...)
	sqlStr, args, err := qb.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to find games played by user: %v", err)
		return nil, err
	}
	defer rows.Close()

	games, err := collectGames(rows)
	if err != nil {
		log.Error("failed to scan game row: %v", err)
		return nil, err
	}
	log.Debug("found %d completed games for user %d", len(games), userID)
	return games, nil
}

func (r *gameRepository) Modify(ctx context.Context, oldKey models.GameKey, patch models.GamePatch) (*models.Game, error) {
	log := logger.FromContext(ctx).WithPrefix("game_repo")
	log.Debug("modifying game: %s", keyString(oldKey))

	var modified *models.Game
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		game, err := getByKey(ctx, tx, oldKey)
		if err != nil {
			return err
		}
		if game == nil {
			return apperrors.NewNotFoundError("game", keyString(oldKey))
		}

		merged := applyPatch(*game, patch)
		if !merged.Key.StartTime.Before(merged.Key.FinishTime) {
			return apperrors.NewValidationError("startTime",
				"start time must be before finish time")
		}

		// Team deltas are guarded independently; each resolves on its own.
		team1, err := resolveTeam(ctx, tx, merged.Key.Team1Name)
		if err != nil {
			return err
		}
		if merged.Team2Name != nil {
			team2, err := resolveTeam(ctx, tx, *merged.Team2Name)
			if err != nil {
				return err
			}
			if team2.SportName != team1.SportName {
				return apperrors.NewValidationError("team2",
					"both teams must play the same sport")
			}
		}

		if merged.Key == game.Key {
			return updateGame(ctx, tx, merged)
		}
		return rekeyGame(ctx, tx, game.Key, merged)
	})
	if err != nil {
		return nil, err
	}

	newKey := oldKey
	if patch.ChangesKey() {
		newKey = patchedKey(oldKey, patch)
	}
	modified, err = getByKey(ctx, r.db, newKey)
	if err != nil {
		return nil, err
	}
	log.Debug("game modified: %s", keyString(newKey))
	return modified, nil
}

func (r *gameRepository) RecordResult(ctx context.Context, key models.GameKey, result string) (*models.Game, error) {
	log := logger.FromContext(ctx).WithPrefix("game_repo")
	log.Debug("recording result for game: %s", keyString(key))

	res, err := r.db.ExecContext(ctx, `
UPDATE games SET result = ?
WHERE team1_name = ? AND start_time = ? AND finish_time = ?
`, result, key.Team1Name, key.StartTime.UTC(), key.FinishTime.UTC())
	if err != nil {
		log.Error("failed to record result: %v", err)
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, apperrors.NewNotFoundError("game", keyString(key))
	}
	return getByKey(ctx, r.db, key)
}

func (r *gameRepository) Remove(ctx context.Context, key models.GameKey) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("game_repo")
	log.Debug("removing game: %s", keyString(key))

	res, err := r.db.ExecContext(ctx, `
DELETE FROM games
WHERE team1_name = ? AND start_time = ? AND finish_time = ?
`, key.Team1Name, key.StartTime.UTC(), key.FinishTime.UTC())
	if err != nil {
		log.Error("failed to remove game: %v", err)
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	log.Debug("removed %d game(s): %s", affected, keyString(key))
	return affected > 0, nil
}

func baseGameSelect() sq.SelectBuilder {
	return sqlBuilder.
		Select(query.GameColumns...).
		From("games g").
		Join("teams t ON t.team_name = g.team1_name").
		Join("sports s ON s.sport_name = t.sport_name")
}

func getByKey(ctx context.Context, q querier, key models.GameKey) (*models.Game, error) {
	qb := baseGameSelect().
		Where(sq.Eq{"g.team1_name": key.Team1Name}).
		Where(sq.Eq{"g.start_time": key.StartTime.UTC()}).
		Where(sq.Eq{"g.finish_time": key.FinishTime.UTC()})
	sqlStr, args, err := qb.ToSql()
	if err != nil {
		return nil, err
	}
	game, err := scanGame(q.QueryRowContext(ctx, sqlStr, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return game, nil
}

// resolveTeam loads a team header row, failing with NotFound when the name
// does not resolve.
func resolveTeam(ctx context.Context, q querier, name string) (*models.Team, error) {
	var team models.Team
	err := q.QueryRowContext(ctx, `
SELECT team_name, sport_name, leader_name, leader_user_id
FROM teams
WHERE team_name = ?
`, name).Scan(&team.Name, &team.SportName, &team.LeaderName, &team.LeaderUserID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("team", name)
	}
	if err != nil {
		return nil, err
	}
	return &team, nil
}

func collectGames(rows *sql.Rows) ([]models.Game, error) {
	var games []models.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, *g)
	}
	return games, rows.Err()
}

// applyPatch merges the patch onto a copy of the game. Result and created_at
// are never touched here.
func applyPatch(game models.Game, patch models.GamePatch) models.Game {
	if patch.Team1Name != nil {
		game.Key.Team1Name = *patch.Team1Name
	}
	if patch.StartTime != nil {
		game.Key.StartTime = patch.StartTime.UTC()
	}
	if patch.FinishTime != nil {
		game.Key.FinishTime = patch.FinishTime.UTC()
	}
	if patch.Team2Name != nil {
		game.Team2Name = patch.Team2Name
	}
	if patch.Type != nil {
		game.Type = *patch.Type
	}
	if patch.Competitive != nil {
		game.Competitive = *patch.Competitive
	}
	if patch.Country != nil {
		game.Place.Country = patch.Country
	}
	if patch.State != nil {
		game.Place.State = patch.State
	}
	if patch.City != nil {
		game.Place.City = patch.City
	}
	if patch.Street != nil {
		game.Place.Street = patch.Street
	}
	if patch.TournamentName != nil {
		game.TournamentName = patch.TournamentName
	}
	if patch.Description != nil {
		game.Description = patch.Description
	}
	if patch.Title != nil {
		game.Title = patch.Title
	}
	return game
}

func patchedKey(key models.GameKey, patch models.GamePatch) models.GameKey {
	if patch.Team1Name != nil {
		key.Team1Name = *patch.Team1Name
	}
	if patch.StartTime != nil {
		key.StartTime = patch.StartTime.UTC()
	}
	if patch.FinishTime != nil {
		key.FinishTime = patch.FinishTime.UTC()
	}
	return key
}

func updateGame(ctx context.Context, tx *sql.Tx, game models.Game) error {
	_, err := tx.ExecContext(ctx, `
UPDATE games
SET team2_name = ?, type = ?, competitive = ?,
    country = ?, state = ?, city = ?, street = ?,
    tournament_name = ?, description = ?, title = ?
WHERE team1_name = ? AND start_time = ? AND finish_time = ?
`, game.Team2Name, game.Type, game.Competitive,
		game.Place.Country, game.Place.State, game.Place.City, game.Place.Street,
		game.TournamentName, game.Description, game.Title,
		game.Key.Team1Name, game.Key.StartTime.UTC(), game.Key.FinishTime.UTC())
	return err
}

// rekeyGame moves a game to a new composite key via delete+insert inside the
// enclosing transaction, carrying the result and creation time over.
func rekeyGame(ctx context.Context, tx *sql.Tx, oldKey models.GameKey, game models.Game) error {
	existing, err := getByKey(ctx, tx, game.Key)
	if err != nil {
		return err
	}
	if existing != nil {
		return conflictErr(game.Key)
	}

	if _, err := tx.ExecContext(ctx, `
DELETE FROM games
WHERE team1_name = ? AND start_time = ? AND finish_time = ?
`, oldKey.Team1Name, oldKey.StartTime.UTC(), oldKey.FinishTime.UTC()); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
INSERT INTO games (
    team1_name, start_time, finish_time, team2_name, type, competitive, result,
    country, state, city, street, tournament_name, description, title, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, game.Key.Team1Name, game.Key.StartTime.UTC(), game.Key.FinishTime.UTC(),
		game.Team2Name, game.Type, game.Competitive, game.Result,
		game.Place.Country, game.Place.State, game.Place.City, game.Place.Street,
		game.TournamentName, game.Description, game.Title, game.CreatedAt)
	if err != nil && isConstraintErr(err) {
		return conflictErr(game.Key)
	}
	return err
}
