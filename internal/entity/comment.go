package entity

import (
	"context"
	"time"
)

// Comment est une note libre attachée à un lead/client. Append-only,
// supprimable individuellement.
type Comment struct {
	ID         int64     `json:"id"`
	LeadID     int64     `json:"lead_id"`
	AuthorName string    `json:"author_name"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

type CommentRepositoryInterface interface {
	Create(ctx context.Context, c *Comment) error
	FindByLeadID(ctx context.Context, leadID int64) ([]*Comment, error)
	Delete(ctx context.Context, id int64) error
}
