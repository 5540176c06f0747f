package app

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/oyurekten/theatre-ticketing-system/api"
	"github.com/oyurekten/theatre-ticketing-system/internal/domain"
)

func (app *Application) CreateScreening(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	var input api.CreateScreeningRequest

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

	if !input.StartTime.After(time.Now()) {
		app.badRequestResponse(w, r, domain.ErrInvalidScreeningTime)
		return
	}

	movie, err := app.movieRepo.GetById(r.Context(), input.MovieId)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	auditorium, err := app.auditoriumRepo.GetById(r.Context(), input.AuditoriumId)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	screening := domain.Screening{
		MovieID:        movie.ID,
		AuditoriumID:   auditorium.ID,
		StartTime:      input.StartTime,
		EndTime:        input.StartTime.Add(movie.Duration()),
		BasePrice:      input.BasePrice,
		AvailableSeats: auditorium.Capacity,
		CreatedBy:      app.contextGetUser(r).ID,
	}

	err = app.screeningRepo.Create(r.Context(), &screening)
	if err != nil {
		if errors.Is(err, domain.ErrSchedulingConflict) {
			logger.Warn("screening creation rejected due to schedule overlap",
				"auditorium_id", auditorium.ID, "start_time", input.StartTime)
		}

		app.domainErrorResponse(w, r, err)
		return
	}

	screening.MovieTitle = movie.Title
	screening.AuditoriumName = auditorium.Name

	err = app.writeJSON(w, http.StatusCreated, toScreeningResponse(&screening), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) UpdateScreening(w http.ResponseWriter, r *http.Request) {
	screeningId, err := app.readUUIDParam(r, "screeningId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.UpdateScreeningRequest

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	update := domain.ScreeningUpdate{
		MovieID:      input.MovieId,
		AuditoriumID: input.AuditoriumId,
		StartTime:    input.StartTime,
		BasePrice:    input.BasePrice,
	}

	if update.Empty() {
		app.badRequestResponse(w, r, fmt.Errorf("no fields to update"))
		return
	}

	screening, err := app.screeningRepo.GetById(r.Context(), screeningId)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	if !screening.IsActive || screening.Started(time.Now()) {
		app.domainErrorResponse(w, r, domain.ErrScreeningNotEditable)
		return
	}

	if update.MovieID != nil {
		screening.MovieID = *update.MovieID
	}
	auditoriumChanged := update.AuditoriumID != nil && *update.AuditoriumID != screening.AuditoriumID
	if update.AuditoriumID != nil {
		screening.AuditoriumID = *update.AuditoriumID
	}
	if update.StartTime != nil {
		if !update.StartTime.After(time.Now()) {
			app.badRequestResponse(w, r, domain.ErrInvalidScreeningTime)
			return
		}

		screening.StartTime = *update.StartTime
	}
	if update.BasePrice != nil {
		screening.BasePrice = *update.BasePrice
	}

	movie, err := app.movieRepo.GetById(r.Context(), screening.MovieID)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	auditorium, err := app.auditoriumRepo.GetById(r.Context(), screening.AuditoriumID)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	if auditoriumChanged {
		bookedSeats, err := app.bookedSeatCount(r, screening)
		if err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}

		if bookedSeats > 0 {
			app.domainErrorResponse(w, r, domain.ErrScreeningHasBookings)
			return
		}
	}

	screening.EndTime = screening.StartTime.Add(movie.Duration())

	err = app.screeningRepo.Update(r.Context(), screening)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	screening.MovieTitle = movie.Title
	screening.AuditoriumName = auditorium.Name

	err = app.writeJSON(w, http.StatusOK, toScreeningResponse(screening), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// bookedSeatCount derives how many seats are taken from the live reservation
// rows rather than the counter, since expired holds don't count.
func (app *Application) bookedSeatCount(r *http.Request, screening *domain.Screening) (int, error) {
	reservations, err := app.reservationRepo.GetActiveByScreening(r.Context(), screening.ID)
	if err != nil {
		return 0, err
	}

	return len(reservations), nil
}

func (app *Application) CancelScreening(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	screeningId, err := app.readUUIDParam(r, "screeningId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.screeningRepo.Deactivate(r.Context(), screeningId)
	if err != nil {
		if errors.Is(err, domain.ErrScreeningHasBookings) {
			logger.Warn("screening cancellation rejected, active bookings exist", "screening_id", screeningId)
		}

		app.domainErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (app *Application) GetScreening(w http.ResponseWriter, r *http.Request) {
	screeningId, err := app.readUUIDParam(r, "screeningId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	screening, err := app.screeningRepo.GetById(r.Context(), screeningId)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toScreeningResponse(screening), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) ListUpcomingScreenings(w http.ResponseWriter, r *http.Request) {
	movieId, err := app.readUUIDParam(r, "movieId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	_, err = app.movieRepo.GetById(r.Context(), movieId)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	screenings, err := app.screeningRepo.ListUpcomingByMovie(r.Context(), movieId, time.Now())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.ScreeningListResponse{
		Screenings: make([]api.ScreeningResponse, len(screenings)),
	}

	for i, screening := range screenings {
		resp.Screenings[i] = toScreeningResponse(screening)
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toScreeningResponse(screening *domain.Screening) api.ScreeningResponse {
	return api.ScreeningResponse{
		Id:             screening.ID,
		MovieId:        screening.MovieID,
		MovieTitle:     screening.MovieTitle,
		AuditoriumId:   screening.AuditoriumID,
		AuditoriumName: screening.AuditoriumName,
		StartTime:      screening.StartTime,
		EndTime:        screening.EndTime,
		BasePrice:      screening.BasePrice,
		AvailableSeats: screening.AvailableSeats,
	}
}
