package database

import (
	"context"
	"database/sql"

	"github.com/preventia/duerp-crm/internal/entity"
)

type CommentRepository struct {
	DB *sql.DB
}

func NewCommentRepository(db *sql.DB) *CommentRepository {
	return &CommentRepository{DB: db}
}

func (r *CommentRepository) Create(ctx context.Context, c *entity.Comment) error {
	return r.DB.QueryRowContext(ctx,
		`INSERT INTO lead_comments (lead_id, author_name, body, created_at) VALUES ($1, $2, $3, NOW()) RETURNING id, created_at`,
		c.LeadID, c.AuthorName, c.Body,
	).Scan(&c.ID, &c.CreatedAt)
}

func (r *CommentRepository) FindByLeadID(ctx context.Context, leadID int64) ([]*entity.Comment, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, lead_id, author_name, body, created_at FROM lead_comments WHERE lead_id = $1 ORDER BY created_at`,
		leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []*entity.Comment{}
	for rows.Next() {
		var c entity.Comment
		if err := rows.Scan(&c.ID, &c.LeadID, &c.AuthorName, &c.Body, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, &c)
	}
	return comments, rows.Err()
}

func (r *CommentRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM lead_comments WHERE id = $1`, id)
	return err
}
