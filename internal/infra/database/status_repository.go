package database

import (
	"context"
	"database/sql"

	"github.com/preventia/duerp-crm/internal/entity"
)

type StatusRepository struct {
	DB *sql.DB
}

func NewStatusRepository(db *sql.DB) *StatusRepository {
	return &StatusRepository{DB: db}
}

func (r *StatusRepository) Create(ctx context.Context, s *entity.Status) error {
	return r.DB.QueryRowContext(ctx,
		`INSERT INTO statuses (name, color) VALUES ($1, $2) RETURNING id`,
		s.Name, s.Color,
	).Scan(&s.ID)
}

func (r *StatusRepository) FindAll(ctx context.Context) ([]*entity.Status, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, name, color FROM statuses ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	statuses := []*entity.Status{}
	for rows.Next() {
		var s entity.Status
		if err := rows.Scan(&s.ID, &s.Name, &s.Color); err != nil {
			return nil, err
		}
		statuses = append(statuses, &s)
	}
	return statuses, rows.Err()
}

func (r *StatusRepository) Update(ctx context.Context, s *entity.Status) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE statuses SET name = $2, color = $3 WHERE id = $1`, s.ID, s.Name, s.Color)
	return err
}

// Delete détache d'abord le statut des leads/clients qui le référencent
// (status_id redevient NULL, jamais une valeur orpheline).
func (r *StatusRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE leads SET status_id = NULL WHERE status_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE clients SET status_id = NULL WHERE status_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM statuses WHERE id = $1`, id); err != nil {
		return err
	}

	return tx.Commit()
}
