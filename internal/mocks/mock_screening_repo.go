package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/oyurekten/theatre-ticketing-system/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockScreeningRepo struct {
	mock.Mock
	domain.ScreeningRepository
}

func (m *MockScreeningRepo) Create(ctx context.Context, screening *domain.Screening) error {
	args := m.Called(ctx, screening)
	return args.Error(0)
}

func (m *MockScreeningRepo) Update(ctx context.Context, screening *domain.Screening) error {
	args := m.Called(ctx, screening)
	return args.Error(0)
}

func (m *MockScreeningRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockScreeningRepo) GetById(ctx context.Context, id uuid.UUID) (*domain.Screening, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Screening), args.Error(1)
}

func (m *MockScreeningRepo) ListUpcomingByMovie(
	ctx context.Context,
	movieID uuid.UUID,
	now time.Time) ([]*domain.Screening, error) {

	args := m.Called(ctx, movieID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Screening), args.Error(1)
}
