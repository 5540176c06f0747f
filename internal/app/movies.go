package app

import (
	"net/http"

	"github.com/oyurekten/theatre-ticketing-system/api"
	"github.com/oyurekten/theatre-ticketing-system/internal/domain"
)

func (app *Application) CreateMovie(w http.ResponseWriter, r *http.Request) {
	var input api.CreateMovieRequest

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

	movie := domain.Movie{
		Title:           input.Title,
		Synopsis:        input.Synopsis,
		DurationMinutes: input.DurationMinutes,
		Genre:           input.Genre,
		Language:        input.Language,
		Rating:          input.Rating,
		PosterUrl:       input.PosterUrl,
		ReleaseDate:     input.ReleaseDate,
	}

	err = app.movieRepo.Create(r.Context(), &movie)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, toMovieResponse(&movie), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	movieId, err := app.readUUIDParam(r, "movieId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	movie, err := app.movieRepo.GetById(r.Context(), movieId)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	var input api.CreateMovieRequest

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	movie.Title = input.Title
	movie.Synopsis = input.Synopsis
	movie.DurationMinutes = input.DurationMinutes
	movie.Genre = input.Genre
	movie.Language = input.Language
	movie.Rating = input.Rating
	movie.PosterUrl = input.PosterUrl
	movie.ReleaseDate = input.ReleaseDate

	err = app.movieRepo.Update(r.Context(), movie)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toMovieResponse(movie), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) DeactivateMovie(w http.ResponseWriter, r *http.Request) {
	movieId, err := app.readUUIDParam(r, "movieId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.movieRepo.Deactivate(r.Context(), movieId)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (app *Application) GetMovie(w http.ResponseWriter, r *http.Request) {
	movieId, err := app.readUUIDParam(r, "movieId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	movie, err := app.movieRepo.GetById(r.Context(), movieId)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toMovieResponse(movie), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) ListMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := app.movieRepo.GetAll(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.MovieListResponse{
		Movies: make([]api.MovieResponse, len(movies)),
	}

	for i, movie := range movies {
		resp.Movies[i] = toMovieResponse(movie)
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toMovieResponse(movie *domain.Movie) api.MovieResponse {
	return api.MovieResponse{
		Id:              movie.ID,
		Title:           movie.Title,
		Synopsis:        movie.Synopsis,
		DurationMinutes: movie.DurationMinutes,
		Genre:           movie.Genre,
		Language:        movie.Language,
		Rating:          movie.Rating,
		PosterUrl:       movie.PosterUrl,
		ReleaseDate:     movie.ReleaseDate,
	}
}
