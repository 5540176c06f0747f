package app

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/oyurekten/theatre-ticketing-system/api"
	"github.com/oyurekten/theatre-ticketing-system/internal/domain"
	"github.com/oyurekten/theatre-ticketing-system/internal/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func TestCreateScreening(t *testing.T) {
	admin := testAdministrator()

	movie := &domain.Movie{
		ID:              uuid.New(),
		Title:           "The Seventh Seal",
		DurationMinutes: 120,
		IsActive:        true,
	}

	auditorium := &domain.Auditorium{
		ID:       uuid.New(),
		Name:     "Main Hall",
		Capacity: 50,
	}

	startTime := time.Now().Add(48 * time.Hour).Truncate(time.Second)

	tests := []struct {
		name           string
		input          api.CreateScreeningRequest
		setupMocks     func(*mocks.MockMovieRepo, *mocks.MockAuditoriumRepo, *mocks.MockScreeningRepo)
		wantStatus     int
		wantErrMessage string
		checkResponse  func(*testing.T, api.ScreeningResponse)
	}{
		{
			name: "derives end time from the movie duration",
			input: api.CreateScreeningRequest{
				MovieId:      movie.ID,
				AuditoriumId: auditorium.ID,
				StartTime:    startTime,
				BasePrice:    decimal.NewFromInt(200),
			},
			setupMocks: func(movieRepo *mocks.MockMovieRepo, auditoriumRepo *mocks.MockAuditoriumRepo, screeningRepo *mocks.MockScreeningRepo) {
				movieRepo.On("GetById", mock.Anything, movie.ID).Return(movie, nil)
				auditoriumRepo.On("GetById", mock.Anything, auditorium.ID).Return(auditorium, nil)
				screeningRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Screening")).
					Run(func(args mock.Arguments) {
						s := args.Get(1).(*domain.Screening)
						s.ID = uuid.New()
					}).
					Return(nil)
			},
			wantStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, resp api.ScreeningResponse) {
				wantEnd := startTime.Add(2 * time.Hour)
				if !resp.EndTime.Equal(wantEnd) {
					t.Errorf("EndTime = %v, want %v", resp.EndTime, wantEnd)
				}
				if resp.AvailableSeats != auditorium.Capacity {
					t.Errorf("AvailableSeats = %d, want %d", resp.AvailableSeats, auditorium.Capacity)
				}
			},
		},
		{
			name: "rejects an overlapping schedule",
			input: api.CreateScreeningRequest{
				MovieId:      movie.ID,
				AuditoriumId: auditorium.ID,
				StartTime:    startTime,
				BasePrice:    decimal.NewFromInt(200),
			},
			setupMocks: func(movieRepo *mocks.MockMovieRepo, auditoriumRepo *mocks.MockAuditoriumRepo, screeningRepo *mocks.MockScreeningRepo) {
				movieRepo.On("GetById", mock.Anything, movie.ID).Return(movie, nil)
				auditoriumRepo.On("GetById", mock.Anything, auditorium.ID).Return(auditorium, nil)
				screeningRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Screening")).
					Return(domain.ErrSchedulingConflict)
			},
			wantStatus: http.StatusConflict,
		},
		{
			name: "rejects a start time in the past",
			input: api.CreateScreeningRequest{
				MovieId:      movie.ID,
				AuditoriumId: auditorium.ID,
				StartTime:    time.Now().Add(-time.Hour),
				BasePrice:    decimal.NewFromInt(200),
			},
			setupMocks: func(*mocks.MockMovieRepo, *mocks.MockAuditoriumRepo, *mocks.MockScreeningRepo) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "rejects an unknown movie",
			input: api.CreateScreeningRequest{
				MovieId:      movie.ID,
				AuditoriumId: auditorium.ID,
				StartTime:    startTime,
				BasePrice:    decimal.NewFromInt(200),
			},
			setupMocks: func(movieRepo *mocks.MockMovieRepo, auditoriumRepo *mocks.MockAuditoriumRepo, screeningRepo *mocks.MockScreeningRepo) {
				movieRepo.On("GetById", mock.Anything, movie.ID).Return(nil, domain.ErrMovieNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			movieRepo := &mocks.MockMovieRepo{}
			auditoriumRepo := &mocks.MockAuditoriumRepo{}
			screeningRepo := &mocks.MockScreeningRepo{}
			tt.setupMocks(movieRepo, auditoriumRepo, screeningRepo)

			app := newTestApplication(func(app *Application) {
				app.movieRepo = movieRepo
				app.auditoriumRepo = auditoriumRepo
				app.screeningRepo = screeningRepo
			})

			w, r := executeRequest(t, http.MethodPost, "/screenings", tt.input)
			r = withUser(r, admin)

			app.CreateScreening(w, r)

			checkErrorResponse(t, w, tt.wantStatus, tt.wantErrMessage)

			if tt.checkResponse != nil {
				var resp api.ScreeningResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("Failed to decode response: %v", err)
				}
				tt.checkResponse(t, resp)
			}

			movieRepo.AssertExpectations(t)
			auditoriumRepo.AssertExpectations(t)
			screeningRepo.AssertExpectations(t)
		})
	}
}

func TestUpdateScreening(t *testing.T) {
	admin := testAdministrator()

	movie := &domain.Movie{
		ID:              uuid.New(),
		Title:           "Stalker",
		DurationMinutes: 160,
		IsActive:        true,
	}

	auditorium := &domain.Auditorium{
		ID:       uuid.New(),
		Name:     "Main Hall",
		Capacity: 50,
	}

	upcoming := func() *domain.Screening {
		start := time.Now().Add(72 * time.Hour)
		return &domain.Screening{
			ID:             uuid.New(),
			MovieID:        movie.ID,
			AuditoriumID:   auditorium.ID,
			StartTime:      start,
			EndTime:        start.Add(160 * time.Minute),
			BasePrice:      decimal.NewFromInt(180),
			AvailableSeats: 50,
			IsActive:       true,
		}
	}

	tests := []struct {
		name       string
		screening  *domain.Screening
		input      api.UpdateScreeningRequest
		setupMocks func(*mocks.MockMovieRepo, *mocks.MockAuditoriumRepo, *mocks.MockScreeningRepo, *domain.Screening)
		wantStatus int
	}{
		{
			name:      "moves the start time and recomputes the end",
			screening: upcoming(),
			input: api.UpdateScreeningRequest{
				StartTime: ptr(time.Now().Add(96 * time.Hour)),
			},
			setupMocks: func(movieRepo *mocks.MockMovieRepo, auditoriumRepo *mocks.MockAuditoriumRepo, screeningRepo *mocks.MockScreeningRepo, s *domain.Screening) {
				screeningRepo.On("GetById", mock.Anything, s.ID).Return(s, nil)
				movieRepo.On("GetById", mock.Anything, movie.ID).Return(movie, nil)
				auditoriumRepo.On("GetById", mock.Anything, auditorium.ID).Return(auditorium, nil)
				screeningRepo.On("Update", mock.Anything, mock.MatchedBy(func(updated *domain.Screening) bool {
					return updated.EndTime.Equal(updated.StartTime.Add(160 * time.Minute))
				})).Return(nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:      "rejects updates once the screening has started",
			screening: func() *domain.Screening {
				s := upcoming()
				s.StartTime = time.Now().Add(-time.Hour)
				return s
			}(),
			input: api.UpdateScreeningRequest{
				BasePrice: ptr(decimal.NewFromInt(250)),
			},
			setupMocks: func(movieRepo *mocks.MockMovieRepo, auditoriumRepo *mocks.MockAuditoriumRepo, screeningRepo *mocks.MockScreeningRepo, s *domain.Screening) {
				screeningRepo.On("GetById", mock.Anything, s.ID).Return(s, nil)
			},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "rejects an empty update",
			screening:  upcoming(),
			input:      api.UpdateScreeningRequest{},
			setupMocks: func(*mocks.MockMovieRepo, *mocks.MockAuditoriumRepo, *mocks.MockScreeningRepo, *domain.Screening) {},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			movieRepo := &mocks.MockMovieRepo{}
			auditoriumRepo := &mocks.MockAuditoriumRepo{}
			screeningRepo := &mocks.MockScreeningRepo{}
			tt.setupMocks(movieRepo, auditoriumRepo, screeningRepo, tt.screening)

			app := newTestApplication(func(app *Application) {
				app.movieRepo = movieRepo
				app.auditoriumRepo = auditoriumRepo
				app.screeningRepo = screeningRepo
			})

			router := newRouterFor(http.MethodPatch, "/screenings/{screeningId}", app.UpdateScreening)

			w, r := executeRequest(t, http.MethodPatch, "/screenings/"+tt.screening.ID.String(), tt.input)
			r = withUser(r, admin)

			router.ServeHTTP(w, r)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}

			screeningRepo.AssertExpectations(t)
		})
	}
}

func TestCancelScreening(t *testing.T) {
	admin := testAdministrator()
	screeningId := uuid.New()

	tests := []struct {
		name       string
		setupMocks func(*mocks.MockScreeningRepo)
		wantStatus int
	}{
		{
			name: "soft deletes an empty screening",
			setupMocks: func(screeningRepo *mocks.MockScreeningRepo) {
				screeningRepo.On("Deactivate", mock.Anything, screeningId).Return(nil)
			},
			wantStatus: http.StatusNoContent,
		},
		{
			name: "refuses while active bookings exist",
			setupMocks: func(screeningRepo *mocks.MockScreeningRepo) {
				screeningRepo.On("Deactivate", mock.Anything, screeningId).Return(domain.ErrScreeningHasBookings)
			},
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			screeningRepo := &mocks.MockScreeningRepo{}
			tt.setupMocks(screeningRepo)

			app := newTestApplication(func(app *Application) {
				app.screeningRepo = screeningRepo
			})

			router := newRouterFor(http.MethodDelete, "/screenings/{screeningId}", app.CancelScreening)

			w, r := executeRequest(t, http.MethodDelete, "/screenings/"+screeningId.String(), nil)
			r = withUser(r, admin)

			router.ServeHTTP(w, r)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}

			screeningRepo.AssertExpectations(t)
		})
	}
}
