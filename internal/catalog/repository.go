// AngelaMos | 2026
// repository.go

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/homemgmt/internal/core"
)

type Repository interface {
	Create(ctx context.Context, record *ServiceRecord) error
	GetByID(ctx context.Context, id int64) (*ServiceRecord, error)
	List(ctx context.Context) ([]ServiceRecord, error)
	FindByInstallCmd(ctx context.Context, cmd string) (*ServiceRecord, error)
	Update(ctx context.Context, record *ServiceRecord) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const serviceColumns = `id, service_name, installation_cmd, created_at, updated_at`

func (r *repository) Create(ctx context.Context, record *ServiceRecord) error {
	query := `
		INSERT INTO services (service_name, installation_cmd)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at`

	row := r.db.QueryRowxContext(ctx, query, record.ServiceName, record.InstallationCmd)
	if err := row.Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt); err != nil {
		return fmt.Errorf("create service: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*ServiceRecord, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE id = $1`

	var record ServiceRecord
	err := r.db.GetContext(ctx, &record, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get service: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get service: %w", err)
	}

	return &record, nil
}

func (r *repository) List(ctx context.Context) ([]ServiceRecord, error) {
	query := `SELECT ` + serviceColumns + ` FROM services ORDER BY id`

	records := []ServiceRecord{}
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}

	return records, nil
}

func (r *repository) FindByInstallCmd(
	ctx context.Context,
	cmd string,
) (*ServiceRecord, error) {
	query := `
		SELECT ` + serviceColumns + `
		FROM services
		WHERE installation_cmd = $1
		ORDER BY id
		LIMIT 1`

	var record ServiceRecord
	err := r.db.GetContext(ctx, &record, query, cmd)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find service: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find service: %w", err)
	}

	return &record, nil
}

func (r *repository) Update(ctx context.Context, record *ServiceRecord) error {
	query := `
		UPDATE services
		SET service_name = $2, installation_cmd = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &record.UpdatedAt, query,
		record.ID,
		record.ServiceName,
		record.InstallationCmd,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update service: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update service: %w", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete service: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM services`); err != nil {
		return 0, fmt.Errorf("count services: %w", err)
	}
	return count, nil
}
