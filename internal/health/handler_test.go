// AngelaMos | 2026
// handler_test.go

package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func serve(t *testing.T, h *Handler, path string) (*httptest.ResponseRecorder, ReadinessResponse) {
	t.Helper()

	r := chi.NewRouter()
	h.RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var body ReadinessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestReadinessAllHealthy(t *testing.T) {
	ok := pingFunc(func(context.Context) error { return nil })
	h := NewHandler(Probe{Name: "database", Checker: ok}, Probe{Name: "redis"})

	rec, body := serve(t, h, "/readyz")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body.Status)
	require.Len(t, body.Checks, 2)
	assert.Equal(t, "database", body.Checks[0].Name)
	assert.Equal(t, "disabled", body.Checks[1].Message)
	assert.True(t, body.Checks[1].Healthy)
}

func TestReadinessDegraded(t *testing.T) {
	failing := pingFunc(func(context.Context) error { return errors.New("connection refused") })
	h := NewHandler(Probe{Name: "database", Checker: failing})

	rec, body := serve(t, h, "/readyz")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "degraded", body.Status)
	assert.False(t, body.Checks[0].Healthy)
}

func TestShutdownFailsLiveness(t *testing.T) {
	h := NewHandler()
	h.SetShutdown(true)

	rec, body := serve(t, h, "/healthz")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "shutting_down", body.Status)
}
