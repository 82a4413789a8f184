package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/salsus-balsus/ticket-tool-sub002/internal/domain"
)

// AuthorAliasRepository defines persistence access for the author alias
// table. The table is optional; callers tolerate its absence.
type AuthorAliasRepository interface {
	ListAll(ctx context.Context) ([]domain.AuthorAlias, error)
}

type authorAliasRepository struct {
	pool *pgxpool.Pool
}

// NewAuthorAliasRepository returns a Postgres-backed implementation.
func NewAuthorAliasRepository(pool *pgxpool.Pool) AuthorAliasRepository {
	return &authorAliasRepository{pool: pool}
}

func (r *authorAliasRepository) ListAll(ctx context.Context) ([]domain.AuthorAlias, error) {
	const query = `SELECT author_raw, display_name FROM author_display_map`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AuthorAlias
	for rows.Next() {
		var alias domain.AuthorAlias
		if err := rows.Scan(&alias.AuthorRaw, &alias.DisplayName); err != nil {
			return nil, err
		}
		result = append(result, alias)
	}
	return result, rows.Err()
}
