package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/oyurekten/theatre-ticketing-system/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockReservationRepo struct {
	mock.Mock
	domain.ReservationRepository
}

func (m *MockReservationRepo) Reserve(
	ctx context.Context,
	screeningID uuid.UUID,
	seatIDs []uuid.UUID,
	holdFor time.Duration) error {

	args := m.Called(ctx, screeningID, seatIDs, holdFor)
	return args.Error(0)
}

func (m *MockReservationRepo) Release(ctx context.Context, screeningID uuid.UUID, seatIDs []uuid.UUID) error {
	args := m.Called(ctx, screeningID, seatIDs)
	return args.Error(0)
}

func (m *MockReservationRepo) GetActiveByScreening(
	ctx context.Context,
	screeningID uuid.UUID) ([]domain.SeatReservation, error) {

	args := m.Called(ctx, screeningID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SeatReservation), args.Error(1)
}

func (m *MockReservationRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}
