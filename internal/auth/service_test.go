// AngelaMos | 2026
// service_test.go

package auth_test

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/homemgmt/internal/auth"
	"github.com/carterperez-dev/homemgmt/internal/config"
	"github.com/carterperez-dev/homemgmt/internal/core"
	"github.com/carterperez-dev/homemgmt/internal/store/memory"
	"github.com/carterperez-dev/homemgmt/internal/user"
)

func newTokenManager(t *testing.T) *auth.TokenManager {
	t.Helper()

	dir := t.TempDir()
	cfg := config.SessionConfig{
		PrivateKeyPath: filepath.Join(dir, "private.pem"),
		PublicKeyPath:  filepath.Join(dir, "public.pem"),
		Issuer:         "homemgmt",
		Audience:       "homemgmt-api",
	}
	require.NoError(t, auth.GenerateKeyPair(cfg.PrivateKeyPath, cfg.PublicKeyPath))

	tokens, err := auth.NewTokenManager(cfg)
	require.NoError(t, err)
	return tokens
}

type fixture struct {
	svc   *auth.Service
	users *user.Service
	store *memory.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	users := user.NewService(store.Users(), store.UserTransactor(), logger)

	_, err := users.CreateUser(context.Background(), user.CreateUserRequest{
		Email:    "resident@home.io",
		Password: "hunter22-hunter",
		Role:     core.RoleUser,
	})
	require.NoError(t, err)

	return &fixture{
		svc:   auth.NewService(store.Sessions(), newTokenManager(t), users, logger),
		users: users,
		store: store,
	}
}

func TestTokenRoundTrip(t *testing.T) {
	tokens := newTokenManager(t)

	token, err := tokens.CreateSessionToken(&auth.Session{ID: 12, UserID: 3})
	require.NoError(t, err)

	identity, err := tokens.ParseSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(3), identity.UserID)
	assert.Equal(t, int64(12), identity.SessionID)
	assert.NotEmpty(t, tokens.GetKeyID())
}

func TestTokenRejectsForeignSignature(t *testing.T) {
	token, err := newTokenManager(t).CreateSessionToken(&auth.Session{ID: 1, UserID: 1})
	require.NoError(t, err)

	_, err = newTokenManager(t).ParseSessionToken(token)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestTokenRejectsTampering(t *testing.T) {
	tokens := newTokenManager(t)
	token, err := tokens.CreateSessionToken(&auth.Session{ID: 1, UserID: 1})
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	parts[1] = parts[1] + "x"

	_, err = tokens.ParseSessionToken(strings.Join(parts, "."))
	assert.ErrorIs(t, err, core.ErrTokenInvalid)

	_, err = tokens.ParseSessionToken("not-a-token")
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestLoginCreatesSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	resp, err := f.svc.Login(ctx, auth.LoginRequest{
		Email:    "Resident@Home.io",
		Password: "hunter22-hunter",
	})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "resident@home.io", resp.User.Email)

	claims, err := f.svc.VerifySessionToken(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.SessionID, claims.SessionID)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, core.RoleUser, claims.Role)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Login(ctx, auth.LoginRequest{Email: "resident@home.io", Password: "wrong"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = f.svc.Login(ctx, auth.LoginRequest{Email: "nobody@home.io", Password: "wrong"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	valid, err := f.store.Sessions().CountValid(ctx)
	require.NoError(t, err)
	assert.Zero(t, valid)
}

func TestLogoutSucceedsOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	resp, err := f.svc.Login(ctx, auth.LoginRequest{
		Email:    "resident@home.io",
		Password: "hunter22-hunter",
	})
	require.NoError(t, err)

	out, err := f.svc.Logout(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "success", out.Status)
	assert.Equal(t, "Session invalidated successfully.", out.Message)

	_, err = f.svc.Logout(ctx, resp.Token)
	assert.ErrorIs(t, err, auth.ErrSessionInvalid)

	_, err = f.svc.VerifySessionToken(ctx, resp.Token)
	assert.ErrorIs(t, err, core.ErrTokenRevoked)

	_, err = f.svc.Logout(ctx, "garbage")
	assert.ErrorIs(t, err, auth.ErrSessionInvalid)
}

func TestVerifyUsesCurrentRole(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	resp, err := f.svc.Login(ctx, auth.LoginRequest{
		Email:    "resident@home.io",
		Password: "hunter22-hunter",
	})
	require.NoError(t, err)

	admin := core.RoleAdmin
	_, err = f.users.UpdateUser(ctx, resp.User.ID, user.UpdateUserRequest{Role: &admin})
	require.NoError(t, err)

	claims, err := f.svc.VerifySessionToken(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, core.RoleAdmin, claims.Role)
}

func TestPurgeSessions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for range 2 {
		_, err := f.svc.Login(ctx, auth.LoginRequest{
			Email:    "resident@home.io",
			Password: "hunter22-hunter",
		})
		require.NoError(t, err)
	}

	me, err := f.users.GetByEmail(ctx, "resident@home.io")
	require.NoError(t, err)

	sessions, err := f.svc.ListSessions(ctx, me.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Greater(t, sessions[0].ID, sessions[1].ID)

	deleted, err := f.svc.PurgeSessions(ctx, me.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	_, err = f.svc.PurgeSessions(ctx, 404)
	assert.ErrorIs(t, err, auth.ErrUserNotFound)
}
