package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/salsus-balsus/ticket-tool-sub002/internal/domain"
)

// TransitionRepository defines persistence access for the workflow
// transition table.
type TransitionRepository interface {
	// ListForTuple returns every transition matching the exact
	// (current_status, flow_type, allowed_role) tuple.
	ListForTuple(ctx context.Context, currentStatusID, flowTypeID, roleID int64) ([]domain.Transition, error)
	ListAll(ctx context.Context) ([]domain.Transition, error)
	ListByFlowType(ctx context.Context, flowTypeID int64) ([]domain.Transition, error)
}

type transitionRepository struct {
	pool *pgxpool.Pool
}

// NewTransitionRepository returns a Postgres-backed implementation.
func NewTransitionRepository(pool *pgxpool.Pool) TransitionRepository {
	return &transitionRepository{pool: pool}
}

const transitionColumns = `id, flow_type_id, current_status_id, next_status_id,
               allowed_role_id, target_owner_role_id, button_label, edge_kind`

func (r *transitionRepository) ListForTuple(ctx context.Context, currentStatusID, flowTypeID, roleID int64) ([]domain.Transition, error) {
	const query = `
        SELECT ` + transitionColumns + `
        FROM transitions
        WHERE current_status_id=$1 AND flow_type_id=$2 AND allowed_role_id=$3
        ORDER BY next_status_id, id`
	rows, err := r.pool.Query(ctx, query, currentStatusID, flowTypeID, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTransitions(rows)
}

func (r *transitionRepository) ListAll(ctx context.Context) ([]domain.Transition, error) {
	const query = `SELECT ` + transitionColumns + ` FROM transitions ORDER BY id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTransitions(rows)
}

func (r *transitionRepository) ListByFlowType(ctx context.Context, flowTypeID int64) ([]domain.Transition, error) {
	const query = `SELECT ` + transitionColumns + ` FROM transitions WHERE flow_type_id=$1 ORDER BY id`
	rows, err := r.pool.Query(ctx, query, flowTypeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTransitions(rows)
}

func scanTransitions(rows pgx.Rows) ([]domain.Transition, error) {
	var result []domain.Transition
	for rows.Next() {
		var t domain.Transition
		if err := rows.Scan(
			&t.ID,
			&t.FlowTypeID,
			&t.CurrentStatusID,
			&t.NextStatusID,
			&t.AllowedRoleID,
			&t.TargetOwnerRoleID,
			&t.ButtonLabel,
			&t.EdgeKind,
		); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}
