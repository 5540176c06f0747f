package mocks

import (
	"github.com/oyurekten/theatre-ticketing-system/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockPaymentProvider struct {
	mock.Mock
	domain.PaymentProvider
}

func (m *MockPaymentProvider) CreateOrder(booking *domain.Booking, user *domain.User) (*domain.PaymentOrder, error) {
	args := m.Called(booking, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentOrder), args.Error(1)
}
