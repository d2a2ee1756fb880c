// AngelaMos | 2026
// repository.go

package entity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/homemgmt/internal/core"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

type Repository interface {
	Create(ctx context.Context, entity *Entity) error
	CreateMany(ctx context.Context, entities []Entity) (int64, error)
	GetByID(ctx context.Context, id int64) (*Entity, error)
	FindInRoomByName(ctx context.Context, roomID int64, name string) (*Entity, error)
	ListByRoom(ctx context.Context, roomID int64) ([]Entity, error)
	ListByRooms(ctx context.Context, roomIDs []int64) ([]Entity, error)
	RoomExists(ctx context.Context, roomID int64) (bool, error)
	AssignRoom(ctx context.Context, id, roomID int64) error
	Update(ctx context.Context, entity *Entity) error
	Delete(ctx context.Context, id int64) error
	DeleteManyInRoom(ctx context.Context, roomID int64, ids []int64) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const entityColumns = `id, name, entity_type, room_id, attributes, created_at, updated_at`

func (r *repository) Create(ctx context.Context, entity *Entity) error {
	query := `
		INSERT INTO entities (name, entity_type, room_id, attributes)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	if entity.Attributes == nil {
		entity.Attributes = Attributes{}
	}

	row := r.db.QueryRowxContext(ctx, query,
		entity.Name,
		entity.EntityType,
		entity.RoomID,
		entity.Attributes,
	)
	if err := row.Scan(&entity.ID, &entity.CreatedAt, &entity.UpdatedAt); err != nil {
		return fmt.Errorf("create entity: %w", mapWriteError(err))
	}

	return nil
}

// CreateMany inserts entities with caller-chosen ids. Rows that collide
// with an existing id or (name, room) pair are skipped.
func (r *repository) CreateMany(ctx context.Context, entities []Entity) (int64, error) {
	if len(entities) == 0 {
		return 0, nil
	}

	values := make([]string, 0, len(entities))
	args := make([]any, 0, len(entities)*4)
	for i, e := range entities {
		n := i * 4
		values = append(values, fmt.Sprintf("($%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4))
		args = append(args, e.ID, e.Name, e.EntityType, e.RoomID)
	}

	query := `
		INSERT INTO entities (id, name, entity_type, room_id)
		VALUES ` + strings.Join(values, ", ") + `
		ON CONFLICT DO NOTHING`

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("create entities: %w", mapWriteError(err))
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("create entities: %w", err)
	}

	syncSequence := `
		SELECT setval(
			pg_get_serial_sequence('entities', 'id'),
			(SELECT COALESCE(MAX(id), 0) + 1 FROM entities),
			false
		)`
	if _, err := r.db.ExecContext(ctx, syncSequence); err != nil {
		return 0, fmt.Errorf("sync entity sequence: %w", err)
	}

	return inserted, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Entity, error) {
	query := `SELECT ` + entityColumns + ` FROM entities WHERE id = $1`

	var entity Entity
	err := r.db.GetContext(ctx, &entity, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get entity: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get entity: %w", err)
	}

	return &entity, nil
}

func (r *repository) FindInRoomByName(
	ctx context.Context,
	roomID int64,
	name string,
) (*Entity, error) {
	query := `
		SELECT ` + entityColumns + `
		FROM entities
		WHERE room_id = $1 AND name = $2
		LIMIT 1`

	var entity Entity
	err := r.db.GetContext(ctx, &entity, query, roomID, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find entity: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find entity: %w", err)
	}

	return &entity, nil
}

func (r *repository) ListByRoom(ctx context.Context, roomID int64) ([]Entity, error) {
	query := `
		SELECT ` + entityColumns + `
		FROM entities
		WHERE room_id = $1
		ORDER BY id`

	entities := []Entity{}
	if err := r.db.SelectContext(ctx, &entities, query, roomID); err != nil {
		return nil, fmt.Errorf("list entities by room: %w", err)
	}

	return entities, nil
}

func (r *repository) ListByRooms(ctx context.Context, roomIDs []int64) ([]Entity, error) {
	entities := []Entity{}
	if len(roomIDs) == 0 {
		return entities, nil
	}

	query, args, err := sqlx.In(`
		SELECT `+entityColumns+`
		FROM entities
		WHERE room_id IN (?)
		ORDER BY id`, roomIDs)
	if err != nil {
		return nil, fmt.Errorf("build list entities query: %w", err)
	}

	if err := r.db.SelectContext(ctx, &entities, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list entities by rooms: %w", err)
	}

	return entities, nil
}

func (r *repository) RoomExists(ctx context.Context, roomID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM rooms WHERE id = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, roomID); err != nil {
		return false, fmt.Errorf("check room exists: %w", err)
	}

	return exists, nil
}

func (r *repository) AssignRoom(ctx context.Context, id, roomID int64) error {
	query := `
		UPDATE entities
		SET room_id = $2, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, roomID)
	if err != nil {
		return fmt.Errorf("assign entity room: %w", mapWriteError(err))
	}

	return requireAffected(result, "assign entity room")
}

func (r *repository) Update(ctx context.Context, entity *Entity) error {
	query := `
		UPDATE entities
		SET name = $2, entity_type = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &entity.UpdatedAt, query,
		entity.ID,
		entity.Name,
		entity.EntityType,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update entity: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update entity: %w", mapWriteError(err))
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM entities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete entity: %w", err)
	}

	return requireAffected(result, "delete entity")
}

func (r *repository) DeleteManyInRoom(
	ctx context.Context,
	roomID int64,
	ids []int64,
) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query, args, err := sqlx.In(
		`DELETE FROM entities WHERE room_id = ? AND id IN (?)`,
		roomID,
		ids,
	)
	if err != nil {
		return 0, fmt.Errorf("build delete entities query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("delete entities: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete entities: %w", err)
	}

	return deleted, nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM entities`); err != nil {
		return 0, fmt.Errorf("count entities: %w", err)
	}
	return count, nil
}

func requireAffected(result sql.Result, op string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	return nil
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		return core.ErrDuplicateKey
	case pgForeignKeyViolation:
		return core.ErrNotFound
	}
	return err
}
