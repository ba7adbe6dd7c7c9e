package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/matchup/matchup/internal/models"
)

// MockGameRepository is a mock implementation of repository.GameRepository
type MockGameRepository struct {
	mock.Mock
}

func (m *MockGameRepository) Create(ctx context.Context, input models.CreateGameInput) (*models.Game, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Game), args.Error(1)
}

func (m *MockGameRepository) FindByKey(ctx context.Context, key models.GameKey) (*models.Game, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Game), args.Error(1)
}

func (m *MockGameRepository) FindGames(ctx context.Context, criteria models.GameCriteria) ([]models.Game, error) {
	args := m.Called(ctx, criteria)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Game), args.Error(1)
}

func (m *MockGameRepository) CountGames(ctx context.Context, criteria models.GameCriteria) (int, error) {
	args := m.Called(ctx, criteria)
	return args.Int(0), args.Error(1)
}

func (m *MockGameRepository) GamesPlayedByUser(ctx context.Context, userID int64, side models.TeamSide) ([]models.Game, error) {
	args := m.Called(ctx, userID, side)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Game), args.Error(1)
}

func (m *MockGameRepository) Modify(ctx context.Context, oldKey models.GameKey, patch models.GamePatch) (*models.Game, error) {
	args := m.Called(ctx, oldKey, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Game), args.Error(1)
}

func (m *MockGameRepository) RecordResult(ctx context.Context, key models.GameKey, result string) (*models.Game, error) {
	args := m.Called(ctx, key, result)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Game), args.Error(1)
}

func (m *MockGameRepository) Remove(ctx context.Context, key models.GameKey) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}
