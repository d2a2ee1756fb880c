// AngelaMos | 2026
// repository_test.go

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
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

func TestCreateSessionScansDefaults(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery("INSERT INTO sessions").
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "valid"}).
			AddRow(int64(9), now, true))

	session := &Session{UserID: 4}
	require.NoError(t, repo.Create(context.Background(), session))

	assert.Equal(t, int64(9), session.ID)
	assert.Equal(t, int64(4), session.UserID)
	assert.True(t, session.Valid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvalidateOnlyFlipsValidSessions(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE sessions\s+SET valid = FALSE\s+WHERE id = \$1 AND valid = TRUE`).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE sessions").
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Invalidate(context.Background(), 3))
	assert.ErrorIs(t, repo.Invalidate(context.Background(), 3), core.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSessionMissing(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT id, user_id, created_at, valid").
		WithArgs(int64(77)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "created_at", "valid"}))

	_, err := repo.GetByID(context.Background(), 77)
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
