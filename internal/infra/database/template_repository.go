package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/preventia/duerp-crm/internal/entity"
)

type TemplateRepository struct {
	DB *sql.DB
}

func NewTemplateRepository(db *sql.DB) *TemplateRepository {
	return &TemplateRepository{DB: db}
}

func (r *TemplateRepository) FindByKey(ctx context.Context, key string) (*entity.EmailTemplate, error) {
	var t entity.EmailTemplate
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, key, subject, body, updated_at FROM email_templates WHERE key = $1`, key,
	).Scan(&t.ID, &t.Key, &t.Subject, &t.Body, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TemplateRepository) FindAll(ctx context.Context) ([]*entity.EmailTemplate, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, key, subject, body, updated_at FROM email_templates ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templates := []*entity.EmailTemplate{}
	for rows.Next() {
		var t entity.EmailTemplate
		if err := rows.Scan(&t.ID, &t.Key, &t.Subject, &t.Body, &t.UpdatedAt); err != nil {
			return nil, err
		}
		templates = append(templates, &t)
	}
	return templates, rows.Err()
}

func (r *TemplateRepository) Upsert(ctx context.Context, t *entity.EmailTemplate) error {
	query := `
		INSERT INTO email_templates (key, subject, body, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (key)
		DO UPDATE SET subject = EXCLUDED.subject, body = EXCLUDED.body, updated_at = NOW()
		RETURNING id, updated_at
	`
	return r.DB.QueryRowContext(ctx, query, t.Key, t.Subject, t.Body).Scan(&t.ID, &t.UpdatedAt)
}

func (r *TemplateRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM email_templates WHERE id = $1`, id)
	return err
}

func (r *TemplateRepository) FindAllPDF(ctx context.Context) ([]*entity.PDFTemplate, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, key, name, file_url, updated_at FROM pdf_templates ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templates := []*entity.PDFTemplate{}
	for rows.Next() {
		var t entity.PDFTemplate
		if err := rows.Scan(&t.ID, &t.Key, &t.Name, &t.FileURL, &t.UpdatedAt); err != nil {
			return nil, err
		}
		templates = append(templates, &t)
	}
	return templates, rows.Err()
}

func (r *TemplateRepository) UpsertPDF(ctx context.Context, t *entity.PDFTemplate) error {
	query := `
		INSERT INTO pdf_templates (key, name, file_url, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (key)
		DO UPDATE SET name = EXCLUDED.name, file_url = EXCLUDED.file_url, updated_at = NOW()
		RETURNING id, updated_at
	`
	return r.DB.QueryRowContext(ctx, query, t.Key, t.Name, t.FileURL).Scan(&t.ID, &t.UpdatedAt)
}

func (r *TemplateRepository) DeletePDF(ctx context.Context, id int64) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM pdf_templates WHERE id = $1`, id)
	return err
}

// La table argumentaire_document est à ligne unique (id = 1): un seul
// document courant, écrasé à chaque publication.

func (r *TemplateRepository) FindArgumentaire(ctx context.Context) (*entity.ArgumentaireDocument, error) {
	var d entity.ArgumentaireDocument
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, title, body, COALESCE(file_url, ''), updated_at FROM argumentaire_document WHERE id = 1`,
	).Scan(&d.ID, &d.Title, &d.Body, &d.FileURL, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *TemplateRepository) UpsertArgumentaire(ctx context.Context, d *entity.ArgumentaireDocument) error {
	query := `
		INSERT INTO argumentaire_document (id, title, body, file_url, updated_at)
		VALUES (1, $1, $2, $3, NOW())
		ON CONFLICT (id)
		DO UPDATE SET title = EXCLUDED.title, body = EXCLUDED.body, file_url = EXCLUDED.file_url, updated_at = NOW()
		RETURNING id, updated_at
	`
	return r.DB.QueryRowContext(ctx, query, d.Title, d.Body, nullString(d.FileURL)).Scan(&d.ID, &d.UpdatedAt)
}

type EmailHistoryRepository struct {
	DB *sql.DB
}

func NewEmailHistoryRepository(db *sql.DB) *EmailHistoryRepository {
	return &EmailHistoryRepository{DB: db}
}

func (r *EmailHistoryRepository) Append(ctx context.Context, h *entity.EmailHistory) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO email_history (id, client_id, template_key, recipient, success, error, sent_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		h.ID, h.ClientID, h.TemplateKey, h.Recipient, h.Success, nullString(h.Error), h.SentAt)
	return err
}

func (r *EmailHistoryRepository) FindByClientID(ctx context.Context, clientID int64) ([]*entity.EmailHistory, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, client_id, template_key, recipient, success, COALESCE(error, ''), sent_at
		 FROM email_history WHERE client_id = $1 ORDER BY sent_at DESC`,
		clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := []*entity.EmailHistory{}
	for rows.Next() {
		var h entity.EmailHistory
		if err := rows.Scan(&h.ID, &h.ClientID, &h.TemplateKey, &h.Recipient, &h.Success, &h.Error, &h.SentAt); err != nil {
			return nil, err
		}
		history = append(history, &h)
	}
	return history, rows.Err()
}
