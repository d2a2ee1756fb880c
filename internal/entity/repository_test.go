// AngelaMos | 2026
// repository_test.go

package entity

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

func TestCreateEntityMapsConstraintErrors(t *testing.T) {
	tests := []struct {
		name string
		code string
		want error
	}{
		{name: "unique name in room", code: "23505", want: core.ErrDuplicateKey},
		{name: "room foreign key", code: "23503", want: core.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepo(t)

			mock.ExpectQuery("INSERT INTO entities").
				WillReturnError(&pgconn.PgError{Code: tt.code})

			err := repo.Create(context.Background(), &Entity{
				Name: "lamp", EntityType: "light", RoomID: RoomRef(1),
			})
			assert.ErrorIs(t, err, tt.want)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCreateManyInsertsWithIDsAndSyncsSequence(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`INSERT INTO entities \(id, name, entity_type, room_id\)\s+VALUES \(\$1, \$2, \$3, \$4\), \(\$5, \$6, \$7, \$8\)\s+ON CONFLICT DO NOTHING`).
		WithArgs(
			int64(7), "entity-7", "unknown", sqlmock.AnyArg(),
			int64(8), "entity-8", "unknown", sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`SELECT setval\(\s*pg_get_serial_sequence\('entities', 'id'\),\s*\(SELECT COALESCE\(MAX\(id\), 0\) \+ 1 FROM entities\),\s*false\s*\)`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	inserted, err := repo.CreateMany(context.Background(), []Entity{
		{ID: 7, Name: "entity-7", EntityType: "unknown", RoomID: RoomRef(2)},
		{ID: 8, Name: "entity-8", EntityType: "unknown", RoomID: RoomRef(2)},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateManyEmptyIsNoop(t *testing.T) {
	repo, mock := newMockRepo(t)

	inserted, err := repo.CreateMany(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteManyInRoomScopesToRoom(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`DELETE FROM entities WHERE room_id = \$1 AND id IN \(\$2, \$3\)`).
		WithArgs(int64(4), int64(1), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	deleted, err := repo.DeleteManyInRoom(context.Background(), 4, []int64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByRoomDecodesAttributes(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery("FROM entities").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "entity_type", "room_id", "attributes", "created_at", "updated_at",
		}).AddRow(int64(1), "thermostat", "climate", int64(3), []byte(`{"unit":"C"}`), now, now))

	entities, err := repo.ListByRoom(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, entities, 1)
	assert.Equal(t, "C", entities[0].Attributes["unit"])
	assert.True(t, entities[0].InRoom(3))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignRoomMissingEntity(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE entities").
		WithArgs(int64(5), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.AssignRoom(context.Background(), 5, 1), core.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
