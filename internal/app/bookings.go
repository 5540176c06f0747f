package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/oyurekten/theatre-ticketing-system/api"
	"github.com/oyurekten/theatre-ticketing-system/internal/domain"
	"github.com/redis/go-redis/v9"
)

var lockSeatsScript = redis.NewScript(`
    -- KEYS = seat lock keys (e.g., seat_lock:<screeningId>:<seatId>)
    -- ARGV = [customerID, ttl]

    for i=1, #KEYS do
        if redis.call("EXISTS", KEYS[i]) == 1 then
            return {err = "seat already locked"}
        end
    end

    for i=1, #KEYS do
        redis.call("SET", KEYS[i], ARGV[1], "EX", ARGV[2])
    end

    return "OK"
`)

func (app *Application) CreateBooking(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)
	user := app.contextGetUser(r)

	var input api.CreateBookingRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	// Redis fast path: screens out seats already held by in-flight checkouts
	// before touching the database. The reservation rows still decide.
	err = app.tryLockSeats(r.Context(), input.ScreeningId, input.SeatIds, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSeatUnavailable):
			logger.Warn("booking conflict: requested seat is locked by another checkout")
			app.editConflictResponseWithErr(w, r, fmt.Errorf("some of the selected seats are already taken"))
		default:
			app.serverErrorResponse(w, r, fmt.Errorf("seats couldn't be acquired: %w", err))
		}

		return
	}

	booking := domain.Booking{
		CustomerID:  user.ID,
		ScreeningID: input.ScreeningId,
	}

	err = app.bookingRepo.Create(r.Context(), &booking, input.SeatIds, app.config.Booking.HoldDuration)
	if err != nil {
		app.rollbackSeatLocks(r.Context(), input.ScreeningId, input.SeatIds)

		var seatErr *domain.SeatUnavailableError
		if errors.As(err, &seatErr) {
			logger.Warn("booking conflict: seat already reserved", "seat_id", seatErr.SeatID)
		}

		app.domainErrorResponse(w, r, err)
		return
	}

	app.trackSeatLocks(r.Context(), input.ScreeningId, input.SeatIds)

	holdExpiresAt := booking.CreatedAt.Add(app.config.Booking.HoldDuration)

	resp := toBookingResponse(&booking)
	resp.HoldExpiresAt = &holdExpiresAt

	logger.Info("booking created",
		"booking_id", booking.ID, "booking_code", booking.BookingCode, "seats", booking.NumberOfSeats)

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) tryLockSeats(
	ctx context.Context,
	screeningID uuid.UUID,
	seatIDs []uuid.UUID,
	customerID uuid.UUID) error {

	keys := make([]string, len(seatIDs))
	for i, seatID := range seatIDs {
		keys[i] = seatLockKey(screeningID, seatID)
	}

	ttl := int(app.config.Booking.HoldDuration.Seconds())

	err := lockSeatsScript.Run(ctx, app.redis, keys, customerID.String(), ttl).Err()
	if err != nil {
		if redis.HasErrorPrefix(err, "seat already locked") {
			return domain.ErrSeatUnavailable
		}

		return err
	}

	return nil
}

func (app *Application) trackSeatLocks(ctx context.Context, screeningID uuid.UUID, seatIDs []uuid.UUID) {
	members := make([]any, len(seatIDs))
	for i, seatID := range seatIDs {
		members[i] = seatID.String()
	}

	err := app.redis.SAdd(ctx, seatSetKey(screeningID), members...).Err()
	if err != nil {
		// availability merge degrades gracefully, the lock keys still exist
		app.logger.Error("failed to track seat locks", "error", err)
	}
}

func (app *Application) rollbackSeatLocks(ctx context.Context, screeningID uuid.UUID, seatIDs []uuid.UUID) {
	keys := make([]string, len(seatIDs))
	for i, seatID := range seatIDs {
		keys[i] = seatLockKey(screeningID, seatID)
	}

	err := app.redis.Del(ctx, keys...).Err()
	if err != nil {
		app.logger.Error("failed to rollback seat locks", "error", err)
	}

	members := make([]any, len(seatIDs))
	for i, seatID := range seatIDs {
		members[i] = seatID.String()
	}

	err = app.redis.SRem(ctx, seatSetKey(screeningID), members...).Err()
	if err != nil {
		app.logger.Error("failed to remove seats from lock set", "error", err)
	}
}

func (app *Application) GetBooking(w http.ResponseWriter, r *http.Request) {
	booking, ok := app.loadOwnedBooking(w, r)
	if !ok {
		return
	}

	err := app.writeJSON(w, http.StatusOK, toBookingResponse(booking), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CancelBooking(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	booking, ok := app.loadOwnedBooking(w, r)
	if !ok {
		return
	}

	err := app.bookingRepo.Cancel(r.Context(), booking.ID)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	seatIDs := make([]uuid.UUID, len(booking.Seats))
	for i, seat := range booking.Seats {
		seatIDs[i] = seat.SeatID
	}
	app.rollbackSeatLocks(r.Context(), booking.ScreeningID, seatIDs)

	app.sendBookingCancellationEmail(r, booking)

	logger.Info("booking cancelled", "booking_id", booking.ID, "booking_code", booking.BookingCode)

	w.WriteHeader(http.StatusNoContent)
}

// loadOwnedBooking fetches the booking and enforces that the caller owns it or
// is an administrator. Foreign bookings read as not found, not forbidden, so
// booking ids can't be probed.
func (app *Application) loadOwnedBooking(w http.ResponseWriter, r *http.Request) (*domain.Booking, bool) {
	user := app.contextGetUser(r)

	bookingId, err := app.readUUIDParam(r, "bookingId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return nil, false
	}

	booking, err := app.bookingRepo.GetById(r.Context(), bookingId)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return nil, false
	}

	if booking.CustomerID != user.ID && !user.IsAdministrator() {
		app.notFoundResponse(w, r)
		return nil, false
	}

	return booking, true
}

func (app *Application) ListMyBookings(w http.ResponseWriter, r *http.Request) {
	user := app.contextGetUser(r)

	summaries, err := app.bookingRepo.ListByCustomer(r.Context(), user.ID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.writeBookingList(w, r, summaries)
}

func (app *Application) ListAllBookings(w http.ResponseWriter, r *http.Request) {
	summaries, err := app.bookingRepo.ListAll(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.writeBookingList(w, r, summaries)
}

func (app *Application) writeBookingList(w http.ResponseWriter, r *http.Request, summaries []domain.BookingSummary) {
	resp := api.BookingListResponse{
		Bookings: make([]api.BookingSummary, len(summaries)),
	}

	for i, s := range summaries {
		resp.Bookings[i] = api.BookingSummary{
			Id:             s.ID,
			BookingCode:    s.BookingCode,
			Status:         string(s.Status),
			TotalAmount:    s.TotalAmount,
			NumberOfSeats:  s.NumberOfSeats,
			MovieTitle:     s.MovieTitle,
			AuditoriumName: s.AuditoriumName,
			ScreeningStart: s.ScreeningStart,
			CreatedAt:      s.CreatedAt,
		}
	}

	err := app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toBookingResponse(booking *domain.Booking) api.BookingResponse {
	seats := make([]api.BookedSeat, len(booking.Seats))
	for i, seat := range booking.Seats {
		seats[i] = api.BookedSeat{
			SeatId: seat.SeatID,
			Row:    seat.RowLabel,
			Number: seat.SeatNumber,
			Class:  string(seat.Class),
			Price:  seat.Price,
		}
	}

	return api.BookingResponse{
		Id:            booking.ID,
		BookingCode:   booking.BookingCode,
		ScreeningId:   booking.ScreeningID,
		Status:        string(booking.Status),
		TotalAmount:   booking.TotalAmount,
		NumberOfSeats: booking.NumberOfSeats,
		Seats:         seats,
		CreatedAt:     booking.CreatedAt,
	}
}
