package domain

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentSuccess  PaymentStatus = "SUCCESS"
	PaymentFailed   PaymentStatus = "FAILED"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

type PaymentMethod string

const (
	PaymentMethodCard       PaymentMethod = "CARD"
	PaymentMethodUPI        PaymentMethod = "UPI"
	PaymentMethodNetBanking PaymentMethod = "NET_BANKING"
	PaymentMethodWallet     PaymentMethod = "WALLET"
)

// NewTransactionID builds the internal transaction reference recorded with a
// payment, distinct from the provider's own references.
func NewTransactionID() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000))
	if err != nil {
		panic(err)
	}

	return fmt.Sprintf("TXN%d%03d", time.Now().UnixMilli(), n.Int64())
}

type Payment struct {
	ID            uuid.UUID
	BookingID     uuid.UUID
	Amount        decimal.Decimal
	Currency      string
	Method        PaymentMethod
	TransactionID string
	Status        PaymentStatus
	PaymentDate   *time.Time
	CreatedAt     time.Time

	// references handed back by the external payment provider
	ProviderOrderID   *string
	ProviderPaymentID *string
	ProviderSignature *string
}

// PaymentOrder is the opaque handle given to the external payment collaborator.
// Creating one changes no local state.
type PaymentOrder struct {
	Reference   string
	BookingID   uuid.UUID
	BookingCode string
	Amount      decimal.Decimal
	Currency    string
	RedirectUrl string
}

type PaymentRepository interface {
	// RecordSuccess inserts a SUCCESS payment and confirms its booking in one
	// transaction. Duplicate delivery of the same provider payment reference is
	// absorbed: the stored payment is loaded into p and no state changes.
	RecordSuccess(ctx context.Context, p *Payment) error
	// RecordFailure inserts a FAILED payment and cancels the still-pending
	// booking, releasing its seats.
	RecordFailure(ctx context.Context, p *Payment) error
	GetById(ctx context.Context, id uuid.UUID) (*Payment, error)
	GetByBookingId(ctx context.Context, bookingID uuid.UUID) (*Payment, error)
}
