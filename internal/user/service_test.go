// AngelaMos | 2026
// service_test.go

package user_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/homemgmt/internal/auth"
	"github.com/carterperez-dev/homemgmt/internal/core"
	"github.com/carterperez-dev/homemgmt/internal/room"
	"github.com/carterperez-dev/homemgmt/internal/store/memory"
	"github.com/carterperez-dev/homemgmt/internal/user"
)

func newService(t *testing.T) (*user.Service, *memory.Store) {
	t.Helper()

	store := memory.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return user.NewService(store.Users(), store.UserTransactor(), logger), store
}

func TestCreateUserNormalizesEmail(t *testing.T) {
	svc, _ := newService(t)

	created, err := svc.CreateUser(context.Background(), user.CreateUserRequest{
		Email:    "  Resident@Home.IO ",
		Password: "correct-horse",
		Role:     core.RoleUser,
	})
	require.NoError(t, err)
	assert.Equal(t, "resident@home.io", created.Email)
	assert.NotEqual(t, "correct-horse", created.PasswordHash)
	assert.Equal(t, core.RoleUser, created.Role)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	first, err := svc.CreateUser(ctx, user.CreateUserRequest{
		Email: "dup@home.io", Password: "password1", Role: core.RoleUser,
	})
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, user.CreateUserRequest{
		Email: "DUP@home.io", Password: "password2", Role: core.RoleAdmin,
	})
	assert.ErrorIs(t, err, user.ErrDuplicateUsername)

	count, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	stored, err := svc.GetByEmail(ctx, "dup@home.io")
	require.NoError(t, err)
	assert.Equal(t, first.ID, stored.ID)
	assert.Equal(t, core.RoleUser, stored.Role)
}

func TestCreateUserInvalidRole(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.CreateUser(context.Background(), user.CreateUserRequest{
		Email: "r@home.io", Password: "password1", Role: "OWNER",
	})
	assert.True(t, core.IsAppError(err))
}

func TestUpdateUserPartial(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	created, err := svc.CreateUser(ctx, user.CreateUserRequest{
		Email: "u@home.io", Password: "password1", Role: core.RoleUser,
	})
	require.NoError(t, err)
	originalHash := created.PasswordHash

	admin := core.RoleAdmin
	updated, err := svc.UpdateUser(ctx, created.ID, user.UpdateUserRequest{Role: &admin})
	require.NoError(t, err)
	assert.Equal(t, core.RoleAdmin, updated.Role)
	assert.Equal(t, originalHash, updated.PasswordHash)

	password := "password2"
	updated, err = svc.UpdateUser(ctx, created.ID, user.UpdateUserRequest{Password: &password})
	require.NoError(t, err)
	assert.NotEqual(t, originalHash, updated.PasswordHash)
	assert.Equal(t, core.RoleAdmin, updated.Role)

	_, err = svc.UpdateUser(ctx, 404, user.UpdateUserRequest{Role: &admin})
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestDeleteUserGuards(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t)

	created, err := svc.CreateUser(ctx, user.CreateUserRequest{
		Email: "owner@home.io", Password: "password1", Role: core.RoleAdmin,
	})
	require.NoError(t, err)

	require.NoError(t, store.Sessions().Create(ctx, &auth.Session{UserID: created.ID}))
	rm := &room.Room{Name: "Den", OwnerID: &created.ID}
	require.NoError(t, store.Rooms().Create(ctx, rm))

	assert.ErrorIs(t, svc.DeleteUser(ctx, created.ID), user.ErrUserHasSessions)

	_, err = store.Sessions().DeleteByUser(ctx, created.ID)
	require.NoError(t, err)
	assert.ErrorIs(t, svc.DeleteUser(ctx, created.ID), user.ErrUserHasRooms)

	require.NoError(t, store.Rooms().Delete(ctx, rm.ID))
	require.NoError(t, svc.DeleteUser(ctx, created.ID))
	assert.ErrorIs(t, svc.DeleteUser(ctx, created.ID), user.ErrUserNotFound)
}

func TestGetUserProfile(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t)

	created, err := svc.CreateUser(ctx, user.CreateUserRequest{
		Email: "p@home.io", Password: "password1", Role: core.RoleAdmin,
	})
	require.NoError(t, err)
	require.NoError(t, store.Sessions().Create(ctx, &auth.Session{UserID: created.ID}))

	profile, err := svc.GetUser(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Email, profile.User.Email)
	assert.Len(t, profile.Sessions, 1)
	assert.Empty(t, profile.Rooms)

	resp := user.ToProfileResponse(profile)
	assert.Equal(t, created.ID, resp.ID)

	_, err = svc.GetUser(ctx, 999)
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	created, err := svc.EnsureAdmin(ctx, "root@home.io", "bootstrap-pass")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.EnsureAdmin(ctx, "root@home.io", "other-pass")
	require.NoError(t, err)
	assert.False(t, created)

	info, err := svc.GetByEmail(ctx, "ROOT@home.io")
	require.NoError(t, err)
	assert.Equal(t, core.RoleAdmin, info.Role)
}
