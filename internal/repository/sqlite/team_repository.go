package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/matchup/matchup/internal/logger"
	"github.com/matchup/matchup/internal/models"
	"github.com/matchup/matchup/internal/repository"
)

type teamRepository struct {
	db *sql.DB
}

// NewTeamRepository creates a new TeamRepository implementation
func NewTeamRepository(db *sql.DB) repository.TeamRepository {
	return &teamRepository{db: db}
}

func (r *teamRepository) FindByName(ctx context.Context, name string) (*models.Team, error) {
	log := logger.FromContext(ctx).WithPrefix("team_repo")
	log.Debug("finding team: name=%s", name)

	var team models.Team
	err := r.db.QueryRowContext(ctx, `
SELECT team_name, sport_name, leader_name, leader_user_id
FROM teams
WHERE team_name = ?
`, name).Scan(&team.Name, &team.SportName, &team.LeaderName, &team.LeaderUserID)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("team not found: name=%s", name)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get team: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT user_id, user_name
FROM team_players
WHERE team_name = ?
ORDER BY user_name
`, name)
	if err != nil {
		log.Error("failed to list roster: %v", err)
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var p models.Player
		if err := rows.Scan(&p.UserID, &p.Username); err != nil {
			log.Error("failed to scan roster row: %v", err)
			return nil, err
		}
		team.Players = append(team.Players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	log.Debug("team found: name=%s, roster=%d", team.Name, len(team.Players))
	return &team, nil
}
