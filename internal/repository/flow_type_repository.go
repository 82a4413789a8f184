package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/salsus-balsus/ticket-tool-sub002/internal/domain"
)

// FlowTypeRepository defines persistence access for flow types.
type FlowTypeRepository interface {
	ListAll(ctx context.Context) ([]domain.FlowType, error)
}

type flowTypeRepository struct {
	pool *pgxpool.Pool
}

// NewFlowTypeRepository returns a Postgres-backed implementation.
func NewFlowTypeRepository(pool *pgxpool.Pool) FlowTypeRepository {
	return &flowTypeRepository{pool: pool}
}

func (r *flowTypeRepository) ListAll(ctx context.Context) ([]domain.FlowType, error) {
	const query = `SELECT id, code, name FROM flow_types ORDER BY id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.FlowType
	for rows.Next() {
		var ft domain.FlowType
		if err := rows.Scan(&ft.ID, &ft.Code, &ft.Name); err != nil {
			return nil, err
		}
		result = append(result, ft)
	}
	return result, rows.Err()
}
