package app

import (
	"context"
	"log/slog"
	"time"
)

// startExpirySweeper reclaims elapsed seat holds in the background. Expiry is
// also enforced lazily at reservation time, the sweeper just keeps counters and
// seat maps from lagging behind when nobody contests the seats.
func (app *Application) startExpirySweeper(ctx context.Context) {
	logger := app.logger.With("component", "expiry_sweeper")

	app.background(logger, func() {
		ticker := time.NewTicker(app.config.Booking.SweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				logger.Info("stopping expiry sweeper")
				return
			case <-ticker.C:
				app.sweepExpired(ctx, logger)
			}
		}
	})
}

func (app *Application) sweepExpired(ctx context.Context, logger *slog.Logger) {
	now := time.Now()

	reclaimed, err := app.bookingRepo.CancelExpired(ctx, now)
	if err != nil {
		logger.Error("failed to cancel expired bookings", "error", err)
	}

	released, err := app.reservationRepo.DeleteExpired(ctx, now)
	if err != nil {
		logger.Error("failed to release expired orphan holds", "error", err)
	}

	if reclaimed > 0 || released > 0 {
		logger.Info("reclaimed expired seat holds", "bookings", reclaimed, "orphan_holds", released)
	}
}
