package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/riandyrn/otelchi"
)

func (app *Application) Routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(app.notFoundResponse)

	r.Use(middleware.RequestID)
	r.Use(otelchi.Middleware("theatre-ticketing-api", otelchi.WithChiRoutes(r)))
	r.Use(app.requestLogger)
	r.Use(middleware.Logger)
	r.Use(app.recoverPanic)

	r.Get("/health", app.GetHealth)

	r.Post("/users", app.RegisterUser)
	r.Post("/auth/login", app.Login)

	r.Route("/movies", func(r chi.Router) {
		r.Get("/", app.ListMovies)
		r.Get("/{movieId}", app.GetMovie)
		r.Get("/{movieId}/screenings", app.ListUpcomingScreenings)

		r.Group(func(r chi.Router) {
			r.Use(app.requireAuthentication, app.requireAdministrator)

			r.Post("/", app.CreateMovie)
			r.Patch("/{movieId}", app.UpdateMovie)
			r.Delete("/{movieId}", app.DeactivateMovie)
		})
	})

	r.Route("/screenings", func(r chi.Router) {
		r.Get("/{screeningId}", app.GetScreening)
		r.Get("/{screeningId}/seats", app.GetSeatMap)

		r.Group(func(r chi.Router) {
			r.Use(app.requireAuthentication, app.requireAdministrator)

			r.Post("/", app.CreateScreening)
			r.Patch("/{screeningId}", app.UpdateScreening)
			r.Delete("/{screeningId}", app.CancelScreening)
		})
	})

	r.Route("/bookings", func(r chi.Router) {
		r.Use(app.requireAuthentication)

		r.Post("/", app.CreateBooking)
		r.Get("/{bookingId}", app.GetBooking)
		r.Delete("/{bookingId}", app.CancelBooking)
		r.Get("/{bookingId}/payment", app.GetBookingPayment)
		r.Get("/{bookingId}/ticket", app.GetBookingTicket)

		r.With(app.requireAdministrator).Get("/", app.ListAllBookings)
	})

	r.With(app.requireAuthentication).Get("/users/me", app.GetCurrentUser)
	r.With(app.requireAuthentication).Get("/users/me/bookings", app.ListMyBookings)

	r.Route("/payments", func(r chi.Router) {
		r.Use(app.requireAuthentication)

		r.Post("/", app.InitiatePayment)
		r.Post("/confirm", app.ConfirmPayment)
		r.Get("/{paymentId}", app.GetPayment)
	})

	r.With(app.requireAuthentication, app.requireAdministrator).
		Post("/tickets/{ticketId}/use", app.UseTicket)

	return r
}
