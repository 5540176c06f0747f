package domain

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
)

type Ticket struct {
	ID           uuid.UUID
	BookingID    uuid.UUID
	TicketNumber string
	QRPayload    []byte
	IsUsed       bool
	CreatedAt    time.Time
}

func NewTicketNumber() string {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		panic(err)
	}

	return fmt.Sprintf("TKT%d%04d", time.Now().UnixMilli(), n.Int64())
}

type TicketRepository interface {
	// GetOrCreate returns the booking's ticket, creating it on first request.
	// Idempotent: the unique booking constraint guarantees re-requesting yields
	// the same ticket identity even under concurrent calls.
	GetOrCreate(ctx context.Context, ticket *Ticket) error
	GetById(ctx context.Context, id uuid.UUID) (*Ticket, error)
	// MarkUsed flips the usage flag exactly once; a second call fails with
	// ErrTicketUsed.
	MarkUsed(ctx context.Context, id uuid.UUID) error
}
