// AngelaMos | 2026
// repository.go

package room

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/homemgmt/internal/core"
	"github.com/carterperez-dev/homemgmt/internal/entity"
)

type Repository interface {
	Create(ctx context.Context, room *Room) error
	GetByID(ctx context.Context, id int64) (*Room, error)
	List(ctx context.Context) ([]Room, error)
	UpdateName(ctx context.Context, id int64, name string) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

// UnitOfWork runs fn with room and entity repositories that share one
// transaction. An error from fn rolls back every write made through them.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(rooms Repository, entities entity.Repository) error) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

type unitOfWork struct {
	db *core.Database
}

func NewUnitOfWork(db *core.Database) UnitOfWork {
	return &unitOfWork{db: db}
}

func (u *unitOfWork) Do(
	ctx context.Context,
	fn func(rooms Repository, entities entity.Repository) error,
) error {
	return u.db.WithTx(ctx, func(tx core.DBTX) error {
		return fn(NewRepository(tx), entity.NewRepository(tx))
	})
}

func (r *repository) Create(ctx context.Context, room *Room) error {
	query := `
		INSERT INTO rooms (name, owner_id)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at`

	row := r.db.QueryRowxContext(ctx, query, room.Name, room.OwnerID)
	if err := row.Scan(&room.ID, &room.CreatedAt, &room.UpdatedAt); err != nil {
		return fmt.Errorf("create room: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Room, error) {
	query := `
		SELECT id, name, owner_id, created_at, updated_at
		FROM rooms
		WHERE id = $1`

	var room Room
	err := r.db.GetContext(ctx, &room, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get room: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get room: %w", err)
	}

	return &room, nil
}

func (r *repository) List(ctx context.Context) ([]Room, error) {
	query := `
		SELECT id, name, owner_id, created_at, updated_at
		FROM rooms
		ORDER BY id`

	rooms := []Room{}
	if err := r.db.SelectContext(ctx, &rooms, query); err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}

	return rooms, nil
}

func (r *repository) UpdateName(ctx context.Context, id int64, name string) error {
	query := `
		UPDATE rooms
		SET name = $2, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, name)
	if err != nil {
		return fmt.Errorf("update room: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update room: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update room: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete room: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete room: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete room: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM rooms`); err != nil {
		return 0, fmt.Errorf("count rooms: %w", err)
	}
	return count, nil
}
