package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oyurekten/theatre-ticketing-system/api"
	"github.com/oyurekten/theatre-ticketing-system/internal/domain"
	"github.com/oyurekten/theatre-ticketing-system/internal/mailer"
	"github.com/oyurekten/theatre-ticketing-system/internal/validator"
)

func newTestApplication(opts ...func(*Application)) *Application {
	app := &Application{
		validator: validator.NewValidator(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		mailer:    mailer.NewMockMailer(),
	}

	app.config.Currency = "USD"
	app.config.Booking.HoldDuration = 10 * time.Minute

	for _, opt := range opts {
		opt(app)
	}

	return app
}

func testCustomer() *domain.User {
	return &domain.User{
		ID:       uuid.New(),
		Name:     "Jordan Baker",
		Email:    "jordan@example.com",
		Role:     domain.RoleCustomer,
		IsActive: true,
	}
}

func testAdministrator() *domain.User {
	return &domain.User{
		ID:    uuid.New(),
		Name:  "Sam Ops",
		Email: "sam@example.com",
		Role:  domain.RoleAdministrator,
	}
}

// withUser plants an authenticated user into the request context, bypassing
// the JWT middleware.
func withUser(r *http.Request, user *domain.User) *http.Request {
	ctx := context.WithValue(r.Context(), userContextKey, user)
	return r.WithContext(ctx)
}

func executeRequest(t *testing.T, method, url string, body any) (*httptest.ResponseRecorder, *http.Request) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(jsonData)
	}

	r := httptest.NewRequest(method, url, reader)
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	return w, r
}

func checkErrorResponse(t *testing.T, w *httptest.ResponseRecorder, wantStatus int, wantErrMessage string) {
	t.Helper()

	if w.Code != wantStatus {
		t.Errorf("status = %d, want %d", w.Code, wantStatus)
	}

	if wantStatus >= 200 && wantStatus < 300 {
		return
	}

	var errorResp api.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&errorResp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}

	if wantErrMessage != "" && errorResp.Message != wantErrMessage {
		t.Errorf("Error message = %v, want %v", errorResp.Message, wantErrMessage)
	}
}

// newRouterFor mounts a single handler on a chi router, so URL parameters
// resolve the way they do in the real route tree.
func newRouterFor(method, pattern string, handler http.HandlerFunc) http.Handler {
	router := chi.NewRouter()
	router.Method(method, pattern, handler)
	return router
}

func ptr[T any](v T) *T {
	return &v
}
