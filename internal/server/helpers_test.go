package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"epicfails/internal/config"
	"epicfails/internal/models"
	"epicfails/internal/repository"
	"epicfails/internal/seed"
	"epicfails/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:       "0",
		Env:        "test",
		AdminEmail: "admin@epicfails.test",
	}
}

type testServer struct {
	*Server
	app   *fiber.App
	store *repository.Store
}

func newTestServer(t *testing.T, deps Deps) *testServer {
	t.Helper()
	if deps.Store == nil {
		deps.Store, _ = testutil.NewSQLiteStore(t)
	}
	s, err := NewServerWithDeps(testConfig(), deps)
	require.NoError(t, err)

	app := s.newApp()
	t.Cleanup(func() {
		if s.shutdownFn != nil {
			s.shutdownFn()
		}
	})
	return &testServer{Server: s, app: app, store: deps.Store}
}

func (ts *testServer) applyScenario(t *testing.T, name string) *seed.Fixture {
	t.Helper()
	sc, err := seed.LoadScenario(name)
	require.NoError(t, err)
	fx, err := seed.ApplyScenario(context.Background(), ts.store, sc)
	require.NoError(t, err)
	return fx
}

// do sends a request with an optional JSON body and bearer token.
func (ts *testServer) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func assertErrorResponse(t *testing.T, resp *http.Response, status int, code, reason string) {
	t.Helper()
	assert.Equal(t, status, resp.StatusCode)
	var body models.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, code, body.Code)
	if reason != "" {
		assert.Equal(t, reason, body.Reason)
	}
}

func TestStatusForCode(t *testing.T) {
	tests := []struct {
		code   string
		status int
	}{
		{models.CodeNotFound, fiber.StatusNotFound},
		{models.CodeForbidden, fiber.StatusForbidden},
		{models.CodeValidation, fiber.StatusBadRequest},
		{models.CodeConflict, fiber.StatusConflict},
		{models.CodeStoreUnavailable, fiber.StatusServiceUnavailable},
		{models.CodeUnauthorized, fiber.StatusUnauthorized},
		{models.CodeInternal, fiber.StatusInternalServerError},
		{"SOMETHING_ELSE", fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.status, statusForCode(tt.code))
		})
	}
}

func TestRespondServiceError(t *testing.T) {
	app := fiber.New()
	app.Get("/store", func(c *fiber.Ctx) error {
		return respondServiceError(c, models.NewStoreError("cascade:likes", assert.AnError))
	})
	app.Get("/plain", func(c *fiber.Ctx) error {
		return respondServiceError(c, assert.AnError)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/store", nil))
	require.NoError(t, err)
	assertErrorResponse(t, resp, fiber.StatusServiceUnavailable, models.CodeStoreUnavailable, "cascade:likes")

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/plain", nil))
	require.NoError(t, err)
	assertErrorResponse(t, resp, fiber.StatusInternalServerError, models.CodeInternal, "")
}

func TestHumanizeParam(t *testing.T) {
	assert.Equal(t, "ID", humanizeParam("id"))
	assert.Equal(t, "post ID", humanizeParam("postId"))
	assert.Equal(t, "winner post ID", humanizeParam("winnerPostId"))
	assert.Equal(t, "photoType", humanizeParam("photoType"))
}
