package app

import (
	"context"
	"net/http"
	"strings"

	"github.com/oyurekten/theatre-ticketing-system/api"
	"github.com/oyurekten/theatre-ticketing-system/internal/domain"
)

func (app *Application) InitiatePayment(w http.ResponseWriter, r *http.Request) {
	user := app.contextGetUser(r)

	var input api.InitiatePaymentRequest

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

	booking, err := app.bookingRepo.GetById(r.Context(), input.BookingId)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	if booking.CustomerID != user.ID {
		app.notFoundResponse(w, r)
		return
	}

	switch booking.Status {
	case domain.BookingConfirmed:
		app.domainErrorResponse(w, r, domain.ErrBookingAlreadyPaid)
		return
	case domain.BookingCancelled:
		app.domainErrorResponse(w, r, domain.ErrBookingCancelled)
		return
	}

	order, err := app.paymentProvider.CreateOrder(booking, user)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.PaymentOrderResponse{
		Reference:   order.Reference,
		BookingCode: order.BookingCode,
		Amount:      order.Amount,
		Currency:    order.Currency,
		RedirectUrl: order.RedirectUrl,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)
	user := app.contextGetUser(r)

	var input api.ConfirmPaymentRequest

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

	booking, err := app.bookingRepo.GetById(r.Context(), input.BookingId)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	if booking.CustomerID != user.ID && !user.IsAdministrator() {
		app.notFoundResponse(w, r)
		return
	}

	payment := domain.Payment{
		BookingID:         booking.ID,
		Amount:            booking.TotalAmount,
		Currency:          app.config.Currency,
		Method:            domain.PaymentMethod(input.Method),
		ProviderOrderID:   input.ProviderOrderId,
		ProviderPaymentID: input.ProviderPaymentId,
		ProviderSignature: input.ProviderSignature,
	}

	if input.Success {
		err = app.paymentRepo.RecordSuccess(r.Context(), &payment)
	} else {
		err = app.paymentRepo.RecordFailure(r.Context(), &payment)
	}

	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	if input.Success {
		logger.Info("payment recorded, booking confirmed",
			"booking_id", booking.ID, "transaction_id", payment.TransactionID)

		app.sendBookingConfirmationEmail(r, user, booking)
	} else {
		logger.Info("payment failure recorded, booking cancelled", "booking_id", booking.ID)

		app.sendBookingCancellationEmail(r, booking)
	}

	err = app.writeJSON(w, http.StatusOK, toPaymentResponse(&payment), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) sendBookingConfirmationEmail(r *http.Request, user *domain.User, booking *domain.Booking) {
	logger := app.contextGetLogger(r)
	ctx := context.WithoutCancel(r.Context())

	app.background(logger, func() {
		screening, err := app.screeningRepo.GetById(ctx, booking.ScreeningID)
		if err != nil {
			logger.Error("failed to load screening for confirmation email", "error", err)
			return
		}

		data := map[string]any{
			"Name":           user.Name,
			"BookingCode":    booking.BookingCode,
			"MovieTitle":     screening.MovieTitle,
			"AuditoriumName": screening.AuditoriumName,
			"Showtime":       screening.StartTime.Format("Jan 2, 2006 15:04"),
			"Seats":          strings.Join(booking.SeatLabels(), ", "),
			"TotalAmount":    booking.TotalAmount.StringFixed(2),
			"Currency":       app.config.Currency,
		}

		err = app.mailer.Send(user.Email, "booking_confirmation.tmpl", data)
		if err != nil {
			logger.Error("failed to send booking confirmation email", "error", err)
		} else {
			logger.Info("booking confirmation email sent", "booking_code", booking.BookingCode)
		}
	})
}

// sendBookingCancellationEmail notifies the booking owner, who is not
// necessarily the caller when an administrator cancels on their behalf.
func (app *Application) sendBookingCancellationEmail(r *http.Request, booking *domain.Booking) {
	logger := app.contextGetLogger(r)
	ctx := context.WithoutCancel(r.Context())

	app.background(logger, func() {
		owner, err := app.userRepo.GetById(ctx, booking.CustomerID)
		if err != nil {
			logger.Error("failed to load booking owner for cancellation email", "error", err)
			return
		}

		screening, err := app.screeningRepo.GetById(ctx, booking.ScreeningID)
		if err != nil {
			logger.Error("failed to load screening for cancellation email", "error", err)
			return
		}

		data := map[string]any{
			"Name":        owner.Name,
			"BookingCode": booking.BookingCode,
			"MovieTitle":  screening.MovieTitle,
		}

		err = app.mailer.Send(owner.Email, "booking_cancelled.tmpl", data)
		if err != nil {
			logger.Error("failed to send booking cancellation email", "error", err)
		} else {
			logger.Info("booking cancellation email sent", "booking_code", booking.BookingCode)
		}
	})
}

func (app *Application) GetPayment(w http.ResponseWriter, r *http.Request) {
	user := app.contextGetUser(r)

	paymentId, err := app.readUUIDParam(r, "paymentId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	payment, err := app.paymentRepo.GetById(r.Context(), paymentId)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	booking, err := app.bookingRepo.GetById(r.Context(), payment.BookingID)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	if booking.CustomerID != user.ID && !user.IsAdministrator() {
		app.notFoundResponse(w, r)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toPaymentResponse(payment), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetBookingPayment(w http.ResponseWriter, r *http.Request) {
	booking, ok := app.loadOwnedBooking(w, r)
	if !ok {
		return
	}

	payment, err := app.paymentRepo.GetByBookingId(r.Context(), booking.ID)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toPaymentResponse(payment), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toPaymentResponse(payment *domain.Payment) api.PaymentResponse {
	return api.PaymentResponse{
		Id:            payment.ID,
		BookingId:     payment.BookingID,
		Amount:        payment.Amount,
		Currency:      payment.Currency,
		Method:        string(payment.Method),
		TransactionId: payment.TransactionID,
		Status:        string(payment.Status),
		PaymentDate:   payment.PaymentDate,
		CreatedAt:     payment.CreatedAt,
	}
}
