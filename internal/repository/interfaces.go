package repository

import (
	"context"

	"github.com/matchup/matchup/internal/models"
)

// GameRepository handles game data access, keyed by the composite
// (team1, startTime, finishTime) identity.
type GameRepository interface {
	// Create resolves both teams by name and persists a new game with no
	// result. It fails with NotFound when a named team is missing and with
	// Conflict when the key is already taken.
	Create(ctx context.Context, input models.CreateGameInput) (*models.Game, error)

	// FindByKey returns the game for the key, or nil when no such game
	// exists. Absence is not an error; a missing team1 is.
	FindByKey(ctx context.Context, key models.GameKey) (*models.Game, error)

	// FindGames executes the criteria as one composed query and returns the
	// ordered result. It never mutates persisted state.
	FindGames(ctx context.Context, criteria models.GameCriteria) ([]models.Game, error)

	// CountGames counts the games matching the criteria, ignoring sort and
	// pagination directives.
	CountGames(ctx context.Context, criteria models.GameCriteria) (int, error)

	// GamesPlayedByUser returns completed games (result recorded) where the
	// user appears on the roster of the given side.
	GamesPlayedByUser(ctx context.Context, userID int64, side models.TeamSide) ([]models.Game, error)

	// Modify applies the patch to the game at oldKey. Key-field deltas re-key
	// the game atomically; a collision with an existing game fails with
	// Conflict and leaves the original untouched.
	Modify(ctx context.Context, oldKey models.GameKey, patch models.GamePatch) (*models.Game, error)

	// RecordResult sets the game's result. This is the only write path for
	// results.
	RecordResult(ctx context.Context, key models.GameKey, result string) (*models.Game, error)

	// Remove deletes the game if present and reports whether a deletion
	// occurred. A missing key is not an error.
	Remove(ctx context.Context, key models.GameKey) (bool, error)
}

// TeamRepository reads teams, which the core references but never owns.
type TeamRepository interface {
	// FindByName returns the team with its roster, or nil when absent.
	FindByName(ctx context.Context, name string) (*models.Team, error)
}
