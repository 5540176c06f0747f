package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oyurekten/theatre-ticketing-system/api"
	"github.com/stretchr/testify/require"
)

var keysToIgnore = map[string]struct{}{
	"id":        {},
	"requestId": {},
	"timestamp": {},
	"createdAt": {},
	"expiresAt": {},
	"token":     {},
}

func prepareRequest(method, path string, body io.Reader, headers map[string]string) (*http.Request, error) {
	req := httptest.NewRequest(method, path, body)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req, nil
}

func compareResponse(t *testing.T, body io.Reader, expectedResponse string) {
	var actual map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&actual))

	cleanMap(actual)

	var expected map[string]any
	require.NoError(t, json.Unmarshal([]byte(expectedResponse), &expected))

	// ignore indeterministic fields while comparing
	opts := cmpopts.IgnoreMapEntries(func(k string, _ any) bool {
		_, ok := keysToIgnore[k]
		return ok
	})

	if diff := cmp.Diff(expected, actual, opts); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func cleanMap(m map[string]any) {
	for k := range m {
		if _, ok := keysToIgnore[k]; ok {
			delete(m, k)
			continue
		}
		if nested, ok := m[k].(map[string]any); ok {
			cleanMap(nested)
		}
	}
}

func executeSQLFile(t testing.TB, db *pgxpool.Pool, path string) {
	t.Helper()

	stmts, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = db.Exec(context.Background(), string(stmts))
	require.NoError(t, err)
}

func resetState(t testing.TB, app *TestApp) {
	t.Helper()

	executeSQLFile(t, app.DB, "testdata/base_down.sql")
	executeSQLFile(t, app.DB, "testdata/base_up.sql")
	require.NoError(t, app.Redis.FlushAll(context.Background()).Err())
	app.Mailer.Reset()
}

// authenticatedUserHeaders registers the test customer if needed, logs in and
// returns the bearer token header for subsequent requests.
func (app *TestApp) authenticatedUserHeaders(t testing.TB) map[string]string {
	t.Helper()

	registerBody, err := json.Marshal(api.RegisterRequest{
		Name:     TestUserName,
		Email:    TestUserEmail,
		Password: TestUserPassword,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewReader(registerBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	app.App.Routes().ServeHTTP(rec, req)

	loginBody, err := json.Marshal(api.LoginRequest{
		Email:    TestUserEmail,
		Password: TestUserPassword,
	})
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(loginBody))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	app.App.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var token api.TokenResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&token))

	return map[string]string{"Authorization": "Bearer " + token.Token}
}
