package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/oyurekten/theatre-ticketing-system/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockAuditoriumRepo struct {
	mock.Mock
	domain.AuditoriumRepository
}

func (m *MockAuditoriumRepo) GetById(ctx context.Context, id uuid.UUID) (*domain.Auditorium, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Auditorium), args.Error(1)
}

func (m *MockAuditoriumRepo) GetLayout(ctx context.Context, auditoriumID uuid.UUID) ([]domain.Seat, error) {
	args := m.Called(ctx, auditoriumID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Seat), args.Error(1)
}
