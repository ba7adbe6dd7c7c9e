package sqlite_test

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	apperrors "github.com/matchup/matchup/internal/errors"
	"github.com/matchup/matchup/internal/models"
	"github.com/matchup/matchup/internal/query"
	"github.com/matchup/matchup/internal/repository"
	"github.com/matchup/matchup/internal/repository/sqlite"
	"github.com/matchup/matchup/internal/testutil"
)

func strPtr(s string) *string        { return &s }
func intPtr(i int) *int              { return &i }
func boolPtr(b bool) *bool           { return &b }
func timePtr(t time.Time) *time.Time { return &t }

type GameRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.GameRepository
}

func TestGameRepositorySuite(t *testing.T) {
	suite.Run(t, new(GameRepositorySuite))
}

func (s *GameRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewGameRepository(s.db)
}

func (s *GameRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *GameRepositorySuite) seedSport(name string, quantity int) {
	_, err := s.db.Exec(`INSERT INTO sports (sport_name, display_title, player_quantity) VALUES (?, ?, ?)`,
		name, name, quantity)
	s.Require().NoError(err)
}

func (s *GameRepositorySuite) seedTeam(name, sport, leader string, leaderID int64) {
	_, err := s.db.Exec(`INSERT INTO teams (team_name, sport_name, leader_name, leader_user_id) VALUES (?, ?, ?, ?)`,
		name, sport, leader, leaderID)
	s.Require().NoError(err)
}

func (s *GameRepositorySuite) addPlayer(team string, userID int64, username string) {
	_, err := s.db.Exec(`INSERT INTO team_players (team_name, user_id, user_name) VALUES (?, ?, ?)`,
		team, userID, username)
	s.Require().NoError(err)
}

func (s *GameRepositorySuite) seedFriend(username string, friendID int64) {
	_, err := s.db.Exec(`INSERT INTO user_friends (username, friend_user_id) VALUES (?, ?)`,
		username, friendID)
	s.Require().NoError(err)
}

func (s *GameRepositorySuite) seedLikedSport(username, sport string) {
	_, err := s.db.Exec(`INSERT INTO user_liked_sports (username, sport_name) VALUES (?, ?)`,
		username, sport)
	s.Require().NoError(err)
}

var baseTime = time.Date(2030, 5, 1, 10, 0, 0, 0, time.UTC)

// seedFootball sets up a 5-a-side sport with two teams led by alice and bob.
func (s *GameRepositorySuite) seedFootball() {
	s.seedSport("football", 5)
	s.seedTeam("tigers", "football", "alice", 1)
	s.seedTeam("lions", "football", "bob", 2)
	s.addPlayer("tigers", 1, "alice")
	s.addPlayer("tigers", 3, "carol")
	s.addPlayer("lions", 2, "bob")
}

func (s *GameRepositorySuite) createGame(team1 string, start time.Time, hours int) *models.Game {
	game, err := s.repo.Create(context.Background(), models.CreateGameInput{
		Team1Name:  team1,
		StartTime:  start,
		FinishTime: start.Add(time.Duration(hours) * time.Hour),
		Type:       "friendly",
	})
	s.Require().NoError(err)
	return game
}

func (s *GameRepositorySuite) TestCreateAndFindByKey() {
	ctx := context.Background()
	s.seedFootball()

	input := models.CreateGameInput{
		Team1Name:   "tigers",
		Team2Name:   strPtr("lions"),
		StartTime:   baseTime,
		FinishTime:  baseTime.Add(2 * time.Hour),
		Type:        "friendly",
		Competitive: true,
		Place: models.Place{
			Country: strPtr("Argentina"),
			City:    strPtr("Buenos Aires"),
			Street:  strPtr("Av. Corrientes 1000"),
		},
		TournamentName: strPtr("Spring Cup"),
		Description:    strPtr("group stage"),
		Title:          strPtr("Tigers vs Lions"),
	}

	created, err := s.repo.Create(ctx, input)
	s.Require().NoError(err)
	s.Require().NotNil(created)
	s.Assert().Nil(created.Result, "new games have no result")
	s.Assert().Equal("football", created.SportName)
	s.Assert().Equal(5, created.PlayerQuantity)
	// 2*5 required minus tigers(2) and lions(1) rostered.
	s.Assert().Equal(7, created.FreeSlots)

	found, err := s.repo.FindByKey(ctx, created.Key)
	s.Require().NoError(err)
	s.Require().NotNil(found)
	s.Assert().Equal(created, found)
	s.Assert().Equal("friendly", found.Type)
	s.Assert().True(found.Competitive)
	s.Assert().Equal(input.Place, found.Place)
	s.Assert().Equal("Spring Cup", *found.TournamentName)
	s.Assert().True(found.Key.StartTime.Equal(baseTime))
	s.Assert().True(found.Key.FinishTime.Equal(baseTime.Add(2 * time.Hour)))
}

func (s *GameRepositorySuite) TestCreate_Team1NotFound() {
	s.seedFootball()

	_, err := s.repo.Create(context.Background(), models.CreateGameInput{
		Team1Name:  "ghosts",
		StartTime:  baseTime,
		FinishTime: baseTime.Add(time.Hour),
	})
	s.Require().Error(err)
	appErr, ok := err.(*apperrors.AppError)
	s.Require().True(ok)
	s.Assert().Equal(apperrors.ErrCodeNotFound, appErr.Code)
}

func (s *GameRepositorySuite) TestCreate_Team2SportMismatch() {
	s.seedFootball()
	s.seedSport("basketball", 5)
	s.seedTeam("hoopers", "basketball", "dan", 4)

	_, err := s.repo.Create(context.Background(), models.CreateGameInput{
		Team1Name:  "tigers",
		Team2Name:  strPtr("hoopers"),
		StartTime:  baseTime,
		FinishTime: baseTime.Add(time.Hour),
	})
	s.Require().Error(err)
	appErr, ok := err.(*apperrors.AppError)
	s.Require().True(ok)
	s.Assert().Equal(apperrors.ErrCodeValidation, appErr.Code)
}

func (s *GameRepositorySuite) TestCreate_DuplicateKeyConflicts() {
	s.seedFootball()
	s.createGame("tigers", baseTime, 2)

	_, err := s.repo.Create(context.Background(), models.CreateGameInput{
		Team1Name:  "tigers",
		StartTime:  baseTime,
		FinishTime: baseTime.Add(2 * time.Hour),
	})
	s.Require().Error(err)
	appErr, ok := err.(*apperrors.AppError)
	s.Require().True(ok)
	s.Assert().Equal(apperrors.ErrCodeConflict, appErr.Code)
}

func (s *GameRepositorySuite) TestCreate_ConcurrentSameKey() {
	s.seedFootball()
	input := models.CreateGameInput{
		Team1Name:  "tigers",
		StartTime:  baseTime,
		FinishTime: baseTime.Add(2 * time.Hour),
	}

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.repo.Create(context.Background(), input)
		}(i)
	}
	wg.Wait()

	var conflicts, successes int
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		appErr, ok := err.(*apperrors.AppError)
		s.Require().True(ok, "unexpected error kind: %v", err)
		s.Assert().Equal(apperrors.ErrCodeConflict, appErr.Code)
		conflicts++
	}
	s.Assert().Equal(1, successes)
	s.Assert().Equal(1, conflicts)
}

func (s *GameRepositorySuite) TestFindByKey_AbsentGameIsNotAnError() {
	s.seedFootball()

	game, err := s.repo.FindByKey(context.Background(), models.GameKey{
		Team1Name:  "tigers",
		StartTime:  baseTime,
		FinishTime: baseTime.Add(time.Hour),
	})
	s.Require().NoError(err)
	s.Assert().Nil(game)
}

func (s *GameRepositorySuite) TestFindGames_EmptyCriteriaReturnsAllOrdered() {
	ctx := context.Background()
	s.seedFootball()
	s.createGame("tigers", baseTime.Add(48*time.Hour), 2)
	s.createGame("lions", baseTime, 2)
	s.createGame("tigers", baseTime.Add(24*time.Hour), 2)

	games, err := s.repo.FindGames(ctx, models.GameCriteria{})
	s.Require().NoError(err)
	s.Require().Len(games, 3)
	s.Assert().Equal("lions", games[0].Key.Team1Name)
	s.Assert().True(games[0].Key.StartTime.Before(games[1].Key.StartTime))
	s.Assert().True(games[1].Key.StartTime.Before(games[2].Key.StartTime))
}

func (s *GameRepositorySuite) TestFindGames_RangeBoundaryIsIncluded() {
	ctx := context.Background()
	s.seedFootball()
	s.createGame("tigers", baseTime, 2)

	games, err := s.repo.FindGames(ctx, models.GameCriteria{
		MinStartTime: timePtr(baseTime),
		MaxStartTime: timePtr(baseTime),
	})
	s.Require().NoError(err)
	s.Assert().Len(games, 1)

	games, err = s.repo.FindGames(ctx, models.GameCriteria{
		MinStartTime: timePtr(baseTime.Add(time.Second)),
	})
	s.Require().NoError(err)
	s.Assert().Empty(games)
}

func (s *GameRepositorySuite) TestFindGames_FreeSlotsComputation() {
	ctx := context.Background()
	s.seedSport("rugby", 10)
	s.seedTeam("rhinos", "rugby", "erin", 10)
	for i := int64(11); i <= 16; i++ {
		s.addPlayer("rhinos", i, "player")
	}
	s.createGame("rhinos", baseTime, 2)

	// 2*10 - (6 + 0) = 14 free slots with team2 absent.
	games, err := s.repo.FindGames(ctx, models.GameCriteria{
		MinFreePlaces: intPtr(14),
		MaxFreePlaces: intPtr(14),
	})
	s.Require().NoError(err)
	s.Require().Len(games, 1)
	s.Assert().Equal(14, games[0].FreeSlots)

	games, err = s.repo.FindGames(ctx, models.GameCriteria{MinFreePlaces: intPtr(15)})
	s.Require().NoError(err)
	s.Assert().Empty(games)
}

func (s *GameRepositorySuite) TestFindGames_ResultPresence() {
	ctx := context.Background()
	s.seedFootball()
	finished := s.createGame("tigers", baseTime, 2)
	s.createGame("lions", baseTime.Add(24*time.Hour), 2)

	_, err := s.repo.RecordResult(ctx, finished.Key, "3-1")
	s.Require().NoError(err)

	games, err := s.repo.FindGames(ctx, models.GameCriteria{HasResult: boolPtr(true)})
	s.Require().NoError(err)
	s.Require().Len(games, 1)
	s.Assert().Equal("tigers", games[0].Key.Team1Name)

	games, err = s.repo.FindGames(ctx, models.GameCriteria{HasResult: boolPtr(false)})
	s.Require().NoError(err)
	s.Require().Len(games, 1)
	s.Assert().Equal("lions", games[0].Key.Team1Name)
}

func (s *GameRepositorySuite) TestFindGames_PlayerRosterFilters() {
	ctx := context.Background()
	s.seedFootball()
	s.createGame("tigers", baseTime, 2)
	s.createGame("lions", baseTime.Add(24*time.Hour), 2)

	games, err := s.repo.FindGames(ctx, models.GameCriteria{WithPlayers: []string{"carol"}})
	s.Require().NoError(err)
	s.Require().Len(games, 1)
	s.Assert().Equal("tigers", games[0].Key.Team1Name)

	games, err = s.repo.FindGames(ctx, models.GameCriteria{WithoutPlayers: []string{"carol"}})
	s.Require().NoError(err)
	s.Require().Len(games, 1)
	s.Assert().Equal("lions", games[0].Key.Team1Name)
}

func (s *GameRepositorySuite) TestFindGames_RosterFiltersSpanBothTeams() {
	ctx := context.Background()
	s.seedFootball()
	_, err := s.repo.Create(ctx, models.CreateGameInput{
		Team1Name:  "lions",
		Team2Name:  strPtr("tigers"),
		StartTime:  baseTime,
		FinishTime: baseTime.Add(2 * time.Hour),
	})
	s.Require().NoError(err)

	// carol plays for tigers, here on the team2 side.
	games, err := s.repo.FindGames(ctx, models.GameCriteria{WithPlayers: []string{"carol"}})
	s.Require().NoError(err)
	s.Assert().Len(games, 1)
}

func (s *GameRepositorySuite) TestFindGames_CreatorFilters() {
	ctx := context.Background()
	s.seedFootball()
	s.createGame("tigers", baseTime, 2)
	s.createGame("lions", baseTime.Add(24*time.Hour), 2)

	games, err := s.repo.FindGames(ctx, models.GameCriteria{CreatedBy: []string{"alice"}})
	s.Require().NoError(err)
	s.Require().Len(games, 1)
	s.Assert().Equal("tigers", games[0].Key.Team1Name)

	games, err = s.repo.FindGames(ctx, models.GameCriteria{NotCreatedBy: []string{"alice"}})
	s.Require().NoError(err)
	s.Require().Len(games, 1)
	s.Assert().Equal("lions", games[0].Key.Team1Name)
}

func (s *GameRepositorySuite) TestFindGames_OnlyLikedSports() {
	ctx := context.Background()
	s.seedFootball()
	s.seedSport("basketball", 5)
	s.seedTeam("hoopers", "basketball", "dan", 4)
	s.seedLikedSport("carol", "football")

	s.createGame("tigers", baseTime, 2)
	s.createGame("hoopers", baseTime.Add(24*time.Hour), 2)

	games, err := s.repo.FindGames(ctx, models.GameCriteria{
		OnlyLikedSports: true,
		CurrentUsername: strPtr("carol"),
	})
	s.Require().NoError(err)
	s.Require().Len(games, 1)
	s.Assert().Equal("football", games[0].SportName)
}

func (s *GameRepositorySuite) TestFindGames_OnlyLikedUsersPlay() {
	ctx := context.Background()
	s.seedFootball()
	// dave is friends with alice (user id 1), who plays for tigers.
	s.seedFriend("dave", 1)

	s.createGame("tigers", baseTime, 2)
	s.createGame("lions", baseTime.Add(24*time.Hour), 2)

	games, err := s.repo.FindGames(ctx, models.GameCriteria{
		OnlyLikedUsers:  true,
		CurrentUsername: strPtr("dave"),
	})
	s.Require().NoError(err)
	s.Require().Len(games, 1)
	s.Assert().Equal("tigers", games[0].Key.Team1Name)
}

func (s *GameRepositorySuite) TestFindGames_SortByFreeSlots() {
	ctx := context.Background()
	s.seedFootball()
	// tigers roster 2, lions roster 1: lions games have more free slots.
	s.createGame("tigers", baseTime, 2)
	s.createGame("lions", baseTime.Add(24*time.Hour), 2)

	games, err := s.repo.FindGames(ctx, models.GameCriteria{Sort: query.SortFreeSlotsDesc})
	s.Require().NoError(err)
	s.Require().Len(games, 2)
	s.Assert().Equal("lions", games[0].Key.Team1Name)
	s.Assert().GreaterOrEqual(games[0].FreeSlots, games[1].FreeSlots)
}

func (s *GameRepositorySuite) TestGamesPlayedByUser_OnlyCompletedCount() {
	ctx := context.Background()
	s.seedFootball()
	finished := s.createGame("tigers", baseTime, 2)
	s.createGame("tigers", baseTime.Add(24*time.Hour), 2) // no result yet

	_, err := s.repo.RecordResult(ctx, finished.Key, "2-0")
	s.Require().NoError(err)

	// carol (user 3) plays for tigers.
	games, err := s.repo.GamesPlayedByUser(ctx, 3, models.SideTeam1)
	s.Require().NoError(err)
	s.Require().Len(games, 1)
	s.Assert().NotNil(games[0].Result)

	games, err = s.repo.GamesPlayedByUser(ctx, 3, models.SideTeam2)
	s.Require().NoError(err)
	s.Assert().Empty(games)
}

func (s *GameRepositorySuite) TestGamesPlayedByUser_Team2Side() {
	ctx := context.Background()
	s.seedFootball()
	game, err := s.repo.Create(ctx, models.CreateGameInput{
		Team1Name:  "tigers",
		Team2Name:  strPtr("lions"),
		StartTime:  baseTime,
		FinishTime: baseTime.Add(2 * time.Hour),
	})
	s.Require().NoError(err)
	_, err = s.repo.RecordResult(ctx, game.Key, "1-1")
	s.Require().NoError(err)

	// bob (user 2) plays for lions, the team2 here.
	games, err := s.repo.GamesPlayedByUser(ctx, 2, models.SideTeam2)
	s.Require().NoError(err)
	s.Assert().Len(games, 1)
}

func (s *GameRepositorySuite) TestModify_DescriptionOnlyLeavesRestUntouched() {
	ctx := context.Background()
	s.seedFootball()
	created, err := s.repo.Create(ctx, models.CreateGameInput{
		Team1Name:   "tigers",
		Team2Name:   strPtr("lions"),
		StartTime:   baseTime,
		FinishTime:  baseTime.Add(2 * time.Hour),
		Type:        "friendly",
		Competitive: true,
		Place:       models.Place{City: strPtr("Buenos Aires")},
		Title:       strPtr("derby"),
	})
	s.Require().NoError(err)
	_, err = s.repo.RecordResult(ctx, created.Key, "0-0")
	s.Require().NoError(err)

	modified, err := s.repo.Modify(ctx, created.Key, models.GamePatch{
		Description: strPtr("rescheduled kickoff"),
	})
	s.Require().NoError(err)
	s.Require().NotNil(modified)

	s.Assert().Equal("rescheduled kickoff", *modified.Description)
	s.Assert().Equal(created.Key, modified.Key)
	s.Assert().Equal(created.Team2Name, modified.Team2Name)
	s.Assert().Equal(created.Place, modified.Place)
	s.Assert().Equal("friendly", modified.Type)
	s.Assert().True(modified.Competitive)
	s.Assert().Equal("derby", *modified.Title)
	s.Require().NotNil(modified.Result)
	s.Assert().Equal("0-0", *modified.Result)
}

func (s *GameRepositorySuite) TestModify_RekeyMovesGameAtomically() {
	ctx := context.Background()
	s.seedFootball()
	created := s.createGame("tigers", baseTime, 2)
	_, err := s.repo.RecordResult(ctx, created.Key, "4-2")
	s.Require().NoError(err)

	newStart := baseTime.Add(72 * time.Hour)
	modified, err := s.repo.Modify(ctx, created.Key, models.GamePatch{
		StartTime:  timePtr(newStart),
		FinishTime: timePtr(newStart.Add(2 * time.Hour)),
	})
	s.Require().NoError(err)
	s.Assert().True(modified.Key.StartTime.Equal(newStart))
	s.Require().NotNil(modified.Result)
	s.Assert().Equal("4-2", *modified.Result, "re-keying preserves the result")

	old, err := s.repo.FindByKey(ctx, created.Key)
	s.Require().NoError(err)
	s.Assert().Nil(old, "no orphaned duplicate under the old key")

	games, err := s.repo.FindGames(ctx, models.GameCriteria{})
	s.Require().NoError(err)
	s.Assert().Len(games, 1)
}

func (s *GameRepositorySuite) TestModify_RekeyCollisionConflicts() {
	ctx := context.Background()
	s.seedFootball()
	first := s.createGame("tigers", baseTime, 2)
	second := s.createGame("tigers", baseTime.Add(24*time.Hour), 2)

	_, err := s.repo.Modify(ctx, second.Key, models.GamePatch{
		StartTime:  timePtr(first.Key.StartTime),
		FinishTime: timePtr(first.Key.FinishTime),
	})
	s.Require().Error(err)
	appErr, ok := err.(*apperrors.AppError)
	s.Require().True(ok)
	s.Assert().Equal(apperrors.ErrCodeConflict, appErr.Code)

	// Both originals still exist.
	games, err := s.repo.FindGames(ctx, models.GameCriteria{})
	s.Require().NoError(err)
	s.Assert().Len(games, 2)
}

func (s *GameRepositorySuite) TestModify_NotFound() {
	s.seedFootball()

	_, err := s.repo.Modify(context.Background(), models.GameKey{
		Team1Name:  "tigers",
		StartTime:  baseTime,
		FinishTime: baseTime.Add(time.Hour),
	}, models.GamePatch{Description: strPtr("x")})
	s.Require().Error(err)
	appErr, ok := err.(*apperrors.AppError)
	s.Require().True(ok)
	s.Assert().Equal(apperrors.ErrCodeNotFound, appErr.Code)
}

func (s *GameRepositorySuite) TestModify_Team2GuardedIndependently() {
	ctx := context.Background()
	s.seedFootball()
	created := s.createGame("tigers", baseTime, 2)

	// Only team2 changes; team1 delta is absent and must not be required.
	modified, err := s.repo.Modify(ctx, created.Key, models.GamePatch{
		Team2Name: strPtr("lions"),
	})
	s.Require().NoError(err)
	s.Require().NotNil(modified.Team2Name)
	s.Assert().Equal("lions", *modified.Team2Name)
	s.Assert().Equal(created.Key, modified.Key)
}

func (s *GameRepositorySuite) TestRecordResult_NotFound() {
	s.seedFootball()

	_, err := s.repo.RecordResult(context.Background(), models.GameKey{
		Team1Name:  "tigers",
		StartTime:  baseTime,
		FinishTime: baseTime.Add(time.Hour),
	}, "1-0")
	s.Require().Error(err)
	appErr, ok := err.(*apperrors.AppError)
	s.Require().True(ok)
	s.Assert().Equal(apperrors.ErrCodeNotFound, appErr.Code)
}

func (s *GameRepositorySuite) TestRemove() {
	ctx := context.Background()
	s.seedFootball()
	created := s.createGame("tigers", baseTime, 2)

	removed, err := s.repo.Remove(ctx, created.Key)
	s.Require().NoError(err)
	s.Assert().True(removed)

	removed, err = s.repo.Remove(ctx, created.Key)
	s.Require().NoError(err)
	s.Assert().False(removed, "removing a missing key is not an error")
}
