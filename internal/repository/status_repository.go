package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/salsus-balsus/ticket-tool-sub002/internal/domain"
)

// StatusRepository defines persistence access for workflow statuses.
type StatusRepository interface {
	ListAll(ctx context.Context) ([]domain.Status, error)
	GetByID(ctx context.Context, id int64) (*domain.Status, error)
}

type statusRepository struct {
	pool *pgxpool.Pool
}

// NewStatusRepository returns a Postgres-backed implementation.
func NewStatusRepository(pool *pgxpool.Pool) StatusRepository {
	return &statusRepository{pool: pool}
}

func (r *statusRepository) ListAll(ctx context.Context) ([]domain.Status, error) {
	const query = `SELECT id, name, color_code, stage_role_id FROM statuses ORDER BY id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Status
	for rows.Next() {
		var status domain.Status
		if err := rows.Scan(&status.ID, &status.Name, &status.ColorCode, &status.StageRoleID); err != nil {
			return nil, err
		}
		result = append(result, status)
	}
	return result, rows.Err()
}

func (r *statusRepository) GetByID(ctx context.Context, id int64) (*domain.Status, error) {
	const query = `SELECT id, name, color_code, stage_role_id FROM statuses WHERE id=$1`
	var status domain.Status
	if err := r.pool.QueryRow(ctx, query, id).Scan(&status.ID, &status.Name, &status.ColorCode, &status.StageRoleID); err != nil {
		return nil, err
	}
	return &status, nil
}
