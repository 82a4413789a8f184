package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/salsus-balsus/ticket-tool-sub002/internal/domain"
)

// CommentRepository defines persistence access for ticket comments and
// per-comment author overrides.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	ListByTicket(ctx context.Context, ticketID int64) ([]domain.Comment, error)
	// GetAuthorOverride returns the override display name for a comment,
	// or pgx.ErrNoRows when none exists.
	GetAuthorOverride(ctx context.Context, commentID int64) (string, error)
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository returns a Postgres-backed implementation.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	const query = `
        INSERT INTO comments (ticket_id, author, body)
        VALUES ($1, $2, $3)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		comment.TicketID,
		comment.Author,
		comment.Body,
	).Scan(&comment.ID, &comment.CreatedAt)
}

func (r *commentRepository) ListByTicket(ctx context.Context, ticketID int64) ([]domain.Comment, error) {
	const query = `
        SELECT id, ticket_id, author, body, created_at
        FROM comments WHERE ticket_id=$1 ORDER BY created_at, id`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Comment
	for rows.Next() {
		var comment domain.Comment
		if err := rows.Scan(
			&comment.ID,
			&comment.TicketID,
			&comment.Author,
			&comment.Body,
			&comment.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, comment)
	}
	return result, rows.Err()
}

func (r *commentRepository) GetAuthorOverride(ctx context.Context, commentID int64) (string, error) {
	const query = `SELECT display_name FROM comment_author_overrides WHERE comment_id=$1`
	var name string
	if err := r.pool.QueryRow(ctx, query, commentID).Scan(&name); err != nil {
		return "", err
	}
	return name, nil
}
