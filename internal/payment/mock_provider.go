package payment

import (
	"fmt"

	"github.com/oyurekten/theatre-ticketing-system/internal/domain"
)

// MockPaymentProvider hands out deterministic orders without calling out,
// used in development and tests.
type MockPaymentProvider struct {
	Currency string
}

func NewMockPaymentProvider(currency string) *MockPaymentProvider {
	return &MockPaymentProvider{Currency: currency}
}

func (m *MockPaymentProvider) CreateOrder(booking *domain.Booking, user *domain.User) (*domain.PaymentOrder, error) {
	return &domain.PaymentOrder{
		Reference:   "order_" + booking.BookingCode,
		BookingID:   booking.ID,
		BookingCode: booking.BookingCode,
		Amount:      booking.TotalAmount,
		Currency:    m.Currency,
		RedirectUrl: fmt.Sprintf("https://pay.example.com/checkout/%s", booking.BookingCode),
	}, nil
}
