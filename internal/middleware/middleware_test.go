// AngelaMos | 2026
// middleware_test.go

package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/homemgmt/internal/config"
	"github.com/carterperez-dev/homemgmt/internal/core"
)

type stubVerifier struct {
	claims *SessionClaims
	err    error
}

func (s stubVerifier) VerifySessionToken(
	_ context.Context,
	_ string,
) (*SessionClaims, error) {
	return s.claims, s.err
}

func echoIdentity() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "%d:%s:%d",
			GetUserID(r.Context()),
			GetUserRole(r.Context()),
			GetSessionID(r.Context()),
		)
	})
}

func TestAuthenticatorRejectsMissingToken(t *testing.T) {
	handler := Authenticator(stubVerifier{})(echoIdentity())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/rooms", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing authorization token")
}

func TestAuthenticatorStoresClaims(t *testing.T) {
	verifier := stubVerifier{claims: &SessionClaims{
		UserID:    7,
		SessionID: 42,
		Role:      core.RoleAdmin,
	}}
	handler := Authenticator(verifier)(echoIdentity())

	req := httptest.NewRequest(http.MethodGet, "/v1/rooms", nil)
	req.Header.Set("Authorization", "Bearer abc.def.ghi")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "7:ADMIN:42", rec.Body.String())
}

func TestAuthenticatorMapsRevokedSession(t *testing.T) {
	verifier := stubVerifier{err: fmt.Errorf("verify: %w", core.ErrTokenRevoked)}
	handler := Authenticator(verifier)(echoIdentity())

	req := httptest.NewRequest(http.MethodGet, "/v1/rooms", nil)
	req.Header.Set("Authorization", "Bearer revoked")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "TOKEN_REVOKED")
}

func TestAuthenticatorFaultIsServerError(t *testing.T) {
	verifier := stubVerifier{err: errors.New("connection reset")}
	handler := Authenticator(verifier)(echoIdentity())

	req := httptest.NewRequest(http.MethodGet, "/v1/rooms", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name string
		role core.Role
		want int
	}{
		{name: "admin", role: core.RoleAdmin, want: http.StatusOK},
		{name: "user", role: core.RoleUser, want: http.StatusForbidden},
		{name: "anonymous", role: "", want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, "/v1/rooms/1", nil)
			if tt.role != "" {
				req = req.WithContext(WithClaims(req.Context(), &SessionClaims{
					UserID: 1,
					Role:   tt.role,
				}))
			}

			rec := httptest.NewRecorder()
			RequireAdmin(echoIdentity()).ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestExtractToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, ExtractToken(req))

	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	assert.Empty(t, ExtractToken(req))

	req.Header.Set("Authorization", "bearer   tok ")
	assert.Equal(t, "tok", ExtractToken(req))
}

func TestRateLimiterLocalFallback(t *testing.T) {
	limiter := NewRateLimiter(nil, RateLimitConfig{
		Limit: PerMinute(1, 2),
	})
	handler := limiter.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", nil)
		req.RemoteAddr = "192.0.2.10:5555"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimiterBypass(t *testing.T) {
	limiter := NewRateLimiter(nil, RateLimitConfig{
		Limit:      PerMinute(1, 1),
		BypassFunc: func(r *http.Request) bool { return r.URL.Path == "/healthz" },
	})
	handler := limiter.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for range 3 {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestKeyByIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "198.51.100.4:1234"
	assert.Equal(t, "ratelimit:ip:198.51.100.4", KeyByIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.1, 10.0.0.2")
	assert.Equal(t, "ratelimit:ip:10.0.0.2", KeyByIP(req))
	assert.Equal(t, "ratelimit:ip:10.0.0.2:path:/", KeyByIPAndPath(req))
}

func TestRequestIDPropagation(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "req-123", seen)
	assert.Equal(t, "req-123", rec.Header().Get(RequestIDHeader))

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)
}

func TestCORSPreflight(t *testing.T) {
	handler := CORS(config.CORSConfig{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST"},
		AllowedHeaders:   []string{"Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/v1/rooms", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, "GET, POST", rec.Header().Get("Access-Control-Allow-Methods"))

	req = httptest.NewRequest(http.MethodGet, "/v1/rooms", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestSecurityHeaders(t *testing.T) {
	handler := SecurityHeaders(true)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("Strict-Transport-Security"))
}
