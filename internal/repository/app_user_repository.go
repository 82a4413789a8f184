package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/salsus-balsus/ticket-tool-sub002/internal/domain"
)

// AppUserRepository defines persistence access for the user catalog.
type AppUserRepository interface {
	ListAll(ctx context.Context) ([]domain.AppUser, error)
	GetByID(ctx context.Context, id int64) (*domain.AppUser, error)
	GetByUsername(ctx context.Context, username string) (*domain.AppUser, error)
}

type appUserRepository struct {
	pool *pgxpool.Pool
}

// NewAppUserRepository returns a Postgres-backed implementation.
func NewAppUserRepository(pool *pgxpool.Pool) AppUserRepository {
	return &appUserRepository{pool: pool}
}

const appUserColumns = `id, username, first_name, last_name, initials, role_id`

func (r *appUserRepository) ListAll(ctx context.Context) ([]domain.AppUser, error) {
	const query = `SELECT ` + appUserColumns + ` FROM app_users ORDER BY id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AppUser
	for rows.Next() {
		var user domain.AppUser
		if err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.FirstName,
			&user.LastName,
			&user.Initials,
			&user.RoleID,
		); err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	return result, rows.Err()
}

func (r *appUserRepository) GetByID(ctx context.Context, id int64) (*domain.AppUser, error) {
	const query = `SELECT ` + appUserColumns + ` FROM app_users WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *appUserRepository) GetByUsername(ctx context.Context, username string) (*domain.AppUser, error) {
	const query = `SELECT ` + appUserColumns + ` FROM app_users WHERE username=$1`
	return r.fetchSingle(ctx, query, username)
}

func (r *appUserRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.AppUser, error) {
	var user domain.AppUser
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.FirstName,
		&user.LastName,
		&user.Initials,
		&user.RoleID,
	); err != nil {
		return nil, err
	}
	return &user, nil
}
