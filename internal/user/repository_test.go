// AngelaMos | 2026
// repository_test.go

package user

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/homemgmt/internal/core"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() }) //nolint:errcheck // test cleanup

	return NewRepository(sqlx.NewDb(mockDB, "pgx")), mock
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("a@home.io", "hash", "USER").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), &User{
		Email:        "a@home.io",
		PasswordHash: "hash",
		Role:         core.RoleUser,
	})
	assert.ErrorIs(t, err, core.ErrDuplicateKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProfileWithoutRoomsSkipsEntityQuery(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery("SELECT id, email, password_hash, role").
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "email", "password_hash", "role", "created_at", "updated_at",
		}).AddRow(int64(2), "u@home.io", "hash", "USER", now, now))
	mock.ExpectQuery("FROM sessions").
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "valid"}).
			AddRow(int64(5), now, false))
	mock.ExpectQuery("FROM rooms").
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	profile, err := repo.GetProfile(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, core.RoleUser, profile.User.Role)
	require.Len(t, profile.Sessions, 1)
	assert.False(t, profile.Sessions[0].Valid)
	assert.NotNil(t, profile.Rooms)
	assert.Empty(t, profile.Rooms)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProfileGroupsEntitiesByRoom(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery("SELECT id, email, password_hash, role").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "email", "password_hash", "role", "created_at", "updated_at",
		}).AddRow(int64(1), "admin@home.io", "hash", "ADMIN", now, now))
	mock.ExpectQuery("FROM sessions").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "valid"}))
	mock.ExpectQuery("FROM rooms").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(int64(10), "Kitchen").
			AddRow(int64(11), "Garage"))
	mock.ExpectQuery(`FROM entities\s+WHERE room_id IN \(\$1, \$2\)`).
		WithArgs(int64(10), int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "entity_type", "room_id"}).
			AddRow(int64(100), "lamp", "light", int64(10)))

	profile, err := repo.GetProfile(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, profile.Rooms, 2)
	assert.Len(t, profile.Rooms[0].Entities, 1)
	assert.NotNil(t, profile.Rooms[1].Entities)
	assert.Empty(t, profile.Rooms[1].Entities)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountDependents(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT\s+\(SELECT COUNT\(\*\) FROM sessions`).
		WithArgs(int64(6)).
		WillReturnRows(sqlmock.NewRows([]string{"sessions", "rooms"}).AddRow(int64(2), int64(0)))

	deps, err := repo.CountDependents(context.Background(), 6)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deps.Sessions)
	assert.Zero(t, deps.Rooms)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteUserMissing(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("DELETE FROM users").
		WithArgs(int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), 8), core.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
