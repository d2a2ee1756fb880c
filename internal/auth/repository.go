// AngelaMos | 2026
// repository.go

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/homemgmt/internal/core"
)

type Repository interface {
	Create(ctx context.Context, session *Session) error
	GetByID(ctx context.Context, id int64) (*Session, error)
	Invalidate(ctx context.Context, id int64) error
	ListByUser(ctx context.Context, userID int64) ([]Session, error)
	DeleteByUser(ctx context.Context, userID int64) (int64, error)
	CountValid(ctx context.Context) (int64, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, session *Session) error {
	query := `
		INSERT INTO sessions (user_id)
		VALUES ($1)
		RETURNING id, created_at, valid`

	err := r.db.GetContext(ctx, session, query, session.UserID)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Session, error) {
	query := `
		SELECT id, user_id, created_at, valid
		FROM sessions
		WHERE id = $1`

	var session Session
	err := r.db.GetContext(ctx, &session, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get session: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	return &session, nil
}

// Invalidate flips a valid session to invalid. A missing or already
// invalid session reports ErrNotFound, so only one caller ever wins.
func (r *repository) Invalidate(ctx context.Context, id int64) error {
	query := `
		UPDATE sessions
		SET valid = FALSE
		WHERE id = $1 AND valid = TRUE`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("invalidate session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("invalidate session: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("invalidate session: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) ListByUser(
	ctx context.Context,
	userID int64,
) ([]Session, error) {
	query := `
		SELECT id, user_id, created_at, valid
		FROM sessions
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`

	sessions := []Session{}
	if err := r.db.SelectContext(ctx, &sessions, query, userID); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	return sessions, nil
}

func (r *repository) DeleteByUser(
	ctx context.Context,
	userID int64,
) (int64, error) {
	query := `DELETE FROM sessions WHERE user_id = $1`

	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("delete sessions: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete sessions: %w", err)
	}

	return rows, nil
}

func (r *repository) CountValid(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM sessions WHERE valid = TRUE`

	var count int64
	if err := r.db.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}

	return count, nil
}
