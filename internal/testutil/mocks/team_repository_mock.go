package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/matchup/matchup/internal/models"
)

// MockTeamRepository is a mock implementation of repository.TeamRepository
type MockTeamRepository struct {
	mock.Mock
}

func (m *MockTeamRepository) FindByName(ctx context.Context, name string) (*models.Team, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
}
