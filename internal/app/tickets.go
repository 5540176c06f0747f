package app

import (
	"encoding/json"
	"net/http"

	"github.com/oyurekten/theatre-ticketing-system/api"
	"github.com/oyurekten/theatre-ticketing-system/internal/domain"
)

// GetBookingTicket lazily issues the ticket of a confirmed booking. Repeated
// requests always come back with the same ticket.
func (app *Application) GetBookingTicket(w http.ResponseWriter, r *http.Request) {
	booking, ok := app.loadOwnedBooking(w, r)
	if !ok {
		return
	}

	if booking.Status != domain.BookingConfirmed {
		app.domainErrorResponse(w, r, domain.ErrInvalidBookingState)
		return
	}

	qrPayload, err := json.Marshal(map[string]any{
		"bookingCode": booking.BookingCode,
		"screeningId": booking.ScreeningID,
		"seats":       booking.SeatLabels(),
	})
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	ticket := domain.Ticket{
		BookingID: booking.ID,
		QRPayload: qrPayload,
	}

	err = app.ticketRepo.GetOrCreate(r.Context(), &ticket)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toTicketResponse(&ticket), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// UseTicket marks the ticket as used at entry. A second scan fails.
func (app *Application) UseTicket(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	ticketId, err := app.readUUIDParam(r, "ticketId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.ticketRepo.MarkUsed(r.Context(), ticketId)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	ticket, err := app.ticketRepo.GetById(r.Context(), ticketId)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	logger.Info("ticket used", "ticket_number", ticket.TicketNumber)

	err = app.writeJSON(w, http.StatusOK, toTicketResponse(ticket), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toTicketResponse(ticket *domain.Ticket) api.TicketResponse {
	return api.TicketResponse{
		Id:           ticket.ID,
		BookingId:    ticket.BookingID,
		TicketNumber: ticket.TicketNumber,
		QRPayload:    string(ticket.QRPayload),
		IsUsed:       ticket.IsUsed,
		CreatedAt:    ticket.CreatedAt,
	}
}
