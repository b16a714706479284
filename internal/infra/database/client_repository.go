package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/preventia/duerp-crm/internal/entity"
	"github.com/preventia/duerp-crm/internal/mapper"
	"github.com/rs/zerolog/log"
)

type ClientRepository struct {
	DB *sql.DB
}

func NewClientRepository(db *sql.DB) *ClientRepository {
	return &ClientRepository{DB: db}
}

const clientColumns = `
	c.id, c.email, c.full_name, c.prenom, c.nom, c.phone, c.portable,
	c.company_name, c.siret, c.activite, c.adresse, c.ville, c.code_postal,
	c.pays, c.vendeur, c.consultant, c.source, c.qualification,
	c.status_id, s.id, s.name, s.color,
	c.client_password, c.client_account_created, c.is_online,
	c.last_connection, c.created_at`

const clientFrom = ` FROM clients c LEFT JOIN statuses s ON s.id = c.status_id`

func scanClientRow(row interface{ Scan(...any) error }) (*entity.Client, error) {
	var raw mapper.RawRecord
	var st mapper.RawStatus

	err := row.Scan(
		&raw.ID, &raw.Email, &raw.FullName, &raw.Prenom, &raw.Nom,
		&raw.Phone, &raw.Portable, &raw.CompanyName, &raw.Siret,
		&raw.Activite, &raw.Adresse, &raw.Ville, &raw.CodePostal,
		&raw.Pays, &raw.Vendeur, &raw.Consultant, &raw.Source,
		&raw.Qualification, &raw.StatusID, &st.ID, &st.Name, &st.Color,
		&raw.ClientPassword, &raw.ClientAccountCreated, &raw.IsOnline,
		&raw.LastConnection, &raw.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if st.ID.Valid {
		raw.Status = &st
	}
	return mapper.MapClient(raw), nil
}

func (r *ClientRepository) Create(ctx context.Context, c *entity.Client) error {
	query := `
		INSERT INTO clients (email, full_name, prenom, nom, phone, portable,
			company_name, siret, activite, adresse, ville, code_postal, pays,
			vendeur, consultant, source, qualification, status_id,
			client_password, client_account_created, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19, $20, NOW())
		RETURNING id, created_at
	`

	err := r.DB.QueryRowContext(ctx, query,
		c.Email, nullString(c.FullName), nullString(c.Prenom),
		nullString(c.Nom), nullString(c.Phone), nullString(c.Portable),
		nullString(c.CompanyName), nullString(c.Siret),
		nullString(c.Activite), nullString(c.Adresse),
		nullString(c.Ville), nullString(c.CodePostal),
		nullString(c.Pays), nullString(c.Vendeur),
		nullString(c.Consultant), nullString(c.Source),
		nullString(c.Qualification), c.StatusID,
		nullString(c.ClientPassword), c.ClientAccountCreated,
	).Scan(&c.ID, &c.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return entity.ErrEmailAlreadyExists
		}
		log.Error().Err(err).Str("email", c.Email).Msg("clients insert failed")
		return err
	}

	return nil
}

func (r *ClientRepository) FindByID(ctx context.Context, id int64) (*entity.Client, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT`+clientColumns+clientFrom+` WHERE c.id = $1`, id)
	return scanClientRow(row)
}

// FindByEmail renvoie (nil, nil) quand l'email est inconnu, comme les
// dépôts seller/admin: le lookup de connexion discrimine sur nil.
func (r *ClientRepository) FindByEmail(ctx context.Context, email string) (*entity.Client, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT`+clientColumns+clientFrom+` WHERE c.email = $1`, email)
	c, err := scanClientRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

func (r *ClientRepository) FindAll(ctx context.Context) ([]*entity.Client, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT`+clientColumns+clientFrom+` ORDER BY c.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clients := []*entity.Client{}
	for rows.Next() {
		c, err := scanClientRow(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (r *ClientRepository) Update(ctx context.Context, c *entity.Client) error {
	query := `
		UPDATE clients SET email = $2, full_name = $3, prenom = $4, nom = $5,
			phone = $6, portable = $7, company_name = $8, siret = $9,
			activite = $10, adresse = $11, ville = $12, code_postal = $13,
			pays = $14, vendeur = $15, consultant = $16, source = $17,
			qualification = $18, status_id = $19,
			client_account_created = $20
		WHERE id = $1
	`

	_, err := r.DB.ExecContext(ctx, query, c.ID,
		c.Email, nullString(c.FullName), nullString(c.Prenom),
		nullString(c.Nom), nullString(c.Phone), nullString(c.Portable),
		nullString(c.CompanyName), nullString(c.Siret),
		nullString(c.Activite), nullString(c.Adresse),
		nullString(c.Ville), nullString(c.CodePostal),
		nullString(c.Pays), nullString(c.Vendeur),
		nullString(c.Consultant), nullString(c.Source),
		nullString(c.Qualification), c.StatusID, c.ClientAccountCreated)
	return err
}

func (r *ClientRepository) SetStatus(ctx context.Context, id int64, statusID *int64) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE clients SET status_id = $2 WHERE id = $1`, id, statusID)
	return err
}

func (r *ClientRepository) SetPassword(ctx context.Context, id int64, password string) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE clients SET client_password = $2 WHERE id = $1`, id, password)
	return err
}

func (r *ClientRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
	return err
}
