package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"

	apperrors "github.com/matchup/matchup/internal/errors"
	"github.com/matchup/matchup/internal/logger"
	"github.com/matchup/matchup/internal/models"
)

// Helper functions shared across repository implementations

func tx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	log := logger.FromContext(ctx).WithPrefix("repo")
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction: %v", err)
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		log.Debug("transaction rolled back due to error: %v", err)
		return err
	}
	if err := tx.Commit(); err != nil {
		log.Error("failed to commit transaction: %v", err)
		return err
	}
	log.Debug("transaction committed")
	return nil
}

// querier is the subset of *sql.DB and *sql.Tx the repositories read through,
// so lookups can run inside or outside a transaction.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// isConstraintErr reports whether err is a sqlite uniqueness/constraint
// violation, which maps to a Conflict at the repository boundary.
func isConstraintErr(err error) bool {
	var serr sqlite3.Error
	return errors.As(err, &serr) && serr.Code == sqlite3.ErrConstraint
}

func conflictErr(key models.GameKey) *apperrors.AppError {
	return apperrors.NewConflictError("game", keyString(key))
}

func keyString(key models.GameKey) string {
	return key.Team1Name + "|" + key.StartTime.UTC().Format(time.RFC3339) +
		"|" + key.FinishTime.UTC().Format(time.RFC3339)
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanGame reads one row of the base game projection (query.GameColumns
// order) into a model.
func scanGame(row rowScanner) (*models.Game, error) {
	var (
		g            models.Game
		team2        sql.NullString
		result       sql.NullString
		country      sql.NullString
		state        sql.NullString
		city         sql.NullString
		street       sql.NullString
		tournament   sql.NullString
		description  sql.NullString
		title        sql.NullString
	)
	err := row.Scan(
		&g.Key.Team1Name, &g.Key.StartTime, &g.Key.FinishTime,
		&team2, &g.Type, &g.Competitive, &result,
		&country, &state, &city, &street,
		&tournament, &description, &title,
		&g.SportName, &g.PlayerQuantity, &g.FreeSlots, &g.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	g.Team2Name = nullableString(team2)
	g.Result = nullableString(result)
	g.Place = models.Place{
		Country: nullableString(country),
		State:   nullableString(state),
		City:    nullableString(city),
		Street:  nullableString(street),
	}
	g.TournamentName = nullableString(tournament)
	g.Description = nullableString(description)
	g.Title = nullableString(title)
	return &g, nil
}

func nullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
