// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/homemgmt/internal/core"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetProfile(ctx context.Context, id int64) (*Profile, error)
	Update(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	CountDependents(ctx context.Context, id int64) (*Dependents, error)
	Delete(ctx context.Context, id int64) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// Transactor runs fn against a Repository bound to one transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(repo Repository) error) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

type transactor struct {
	db *core.Database
}

func NewTransactor(db *core.Database) Transactor {
	return &transactor{db: db}
}

func (t *transactor) WithinTx(
	ctx context.Context,
	fn func(repo Repository) error,
) error {
	return t.db.WithTx(ctx, func(tx core.DBTX) error {
		return fn(NewRepository(tx))
	})
}

func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (email, password_hash, role)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`

	row := r.db.QueryRowxContext(ctx, query,
		user.Email,
		user.PasswordHash,
		user.Role.String(),
	)
	err := row.Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*User, error) {
	query := `
		SELECT id, email, password_hash, role, created_at, updated_at
		FROM users
		WHERE id = $1`

	var user User
	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
) (*User, error) {
	query := `
		SELECT id, email, password_hash, role, created_at, updated_at
		FROM users
		WHERE email = $1`

	var user User
	err := r.db.GetContext(ctx, &user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return &user, nil
}

// GetProfile loads a user with its sessions and its rooms with their
// entities, in a fixed number of queries.
func (r *repository) GetProfile(ctx context.Context, id int64) (*Profile, error) {
	user, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	profile := &Profile{
		User:     *user,
		Sessions: []OwnedSession{},
		Rooms:    []OwnedRoom{},
	}

	sessionsQuery := `
		SELECT id, created_at, valid
		FROM sessions
		WHERE user_id = $1
		ORDER BY id`
	if err := r.db.SelectContext(ctx, &profile.Sessions, sessionsQuery, id); err != nil {
		return nil, fmt.Errorf("get profile sessions: %w", err)
	}

	roomsQuery := `
		SELECT id, name
		FROM rooms
		WHERE owner_id = $1
		ORDER BY id`
	if err := r.db.SelectContext(ctx, &profile.Rooms, roomsQuery, id); err != nil {
		return nil, fmt.Errorf("get profile rooms: %w", err)
	}

	if len(profile.Rooms) == 0 {
		return profile, nil
	}

	roomIDs := make([]int64, 0, len(profile.Rooms))
	for _, room := range profile.Rooms {
		roomIDs = append(roomIDs, room.ID)
	}

	entitiesQuery, args, err := sqlx.In(`
		SELECT id, name, entity_type, room_id
		FROM entities
		WHERE room_id IN (?)
		ORDER BY id`, roomIDs)
	if err != nil {
		return nil, fmt.Errorf("build profile entities query: %w", err)
	}

	var entities []OwnedEntity
	if err := r.db.SelectContext(ctx, &entities, r.db.Rebind(entitiesQuery), args...); err != nil {
		return nil, fmt.Errorf("get profile entities: %w", err)
	}

	byRoom := make(map[int64][]OwnedEntity, len(profile.Rooms))
	for _, e := range entities {
		byRoom[e.RoomID] = append(byRoom[e.RoomID], e)
	}
	for i := range profile.Rooms {
		profile.Rooms[i].Entities = byRoom[profile.Rooms[i].ID]
		if profile.Rooms[i].Entities == nil {
			profile.Rooms[i].Entities = []OwnedEntity{}
		}
	}

	return profile, nil
}

func (r *repository) Update(ctx context.Context, user *User) error {
	query := `
		UPDATE users
		SET role = $2, password_hash = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &user.UpdatedAt, query,
		user.ID,
		user.Role.String(),
		user.PasswordHash,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update user: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	return nil
}

func (r *repository) UpdatePassword(
	ctx context.Context,
	id int64,
	passwordHash string,
) error {
	query := `
		UPDATE users
		SET password_hash = $2, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update password: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) CountDependents(
	ctx context.Context,
	id int64,
) (*Dependents, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM sessions WHERE user_id = $1) AS sessions,
			(SELECT COUNT(*) FROM rooms WHERE owner_id = $1) AS rooms`

	var deps Dependents
	if err := r.db.GetContext(ctx, &deps, query, id); err != nil {
		return nil, fmt.Errorf("count user dependents: %w", err)
	}

	return &deps, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM users WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete user: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) ExistsByEmail(
	ctx context.Context,
	email string,
) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, email); err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}

	return exists, nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
