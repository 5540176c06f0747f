package payment

import (
	"fmt"

	"github.com/oyurekten/theatre-ticketing-system/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
)

type StripePaymentProvider struct {
	successUrl string
	failureUrl string
	currency   string
}

func NewStripePaymentProvider(successUrl, failureUrl, currency string) *StripePaymentProvider {
	return &StripePaymentProvider{
		successUrl: successUrl,
		failureUrl: failureUrl,
		currency:   currency,
	}
}

func (s *StripePaymentProvider) CreateOrder(booking *domain.Booking, user *domain.User) (*domain.PaymentOrder, error) {
	var lineItems []*stripe.CheckoutSessionLineItemParams

	for _, seat := range booking.Seats {
		priceCents := seat.Price.Mul(decimal.NewFromInt(100)).IntPart()

		lineItem := &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(s.currency),
				UnitAmount: stripe.Int64(priceCents),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(fmt.Sprintf("Seat %s%d (%s)", seat.RowLabel, seat.SeatNumber, seat.Class)),
					Description: stripe.String(fmt.Sprintf(
						"Booking %s • %d seat(s)",
						booking.BookingCode,
						booking.NumberOfSeats,
					)),
				},
			},
			Quantity: stripe.Int64(1),
		}

		lineItems = append(lineItems, lineItem)
	}

	params := &stripe.CheckoutSessionParams{
		LineItems:  lineItems,
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(s.successUrl),
		CancelURL:  stripe.String(s.failureUrl),
		Metadata: map[string]string{
			"booking_id":   booking.ID.String(),
			"booking_code": booking.BookingCode,
			"customer_id":  booking.CustomerID.String(),
		},
		CustomerEmail:     &user.Email,
		ClientReferenceID: stripe.String(booking.ID.String()),
	}

	sess, err := session.New(params)
	if err != nil {
		return nil, err
	}

	return &domain.PaymentOrder{
		Reference:   sess.ID,
		BookingID:   booking.ID,
		BookingCode: booking.BookingCode,
		Amount:      booking.TotalAmount,
		Currency:    s.currency,
		RedirectUrl: sess.URL,
	}, nil
}
