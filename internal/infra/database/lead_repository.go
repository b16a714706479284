package database

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/preventia/duerp-crm/internal/entity"
	"github.com/preventia/duerp-crm/internal/mapper"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

const leadColumns = `
	l.id, l.email, l.full_name, l.prenom, l.nom, l.phone, l.portable,
	l.company_name, l.siret, l.activite, l.adresse, l.ville, l.code_postal,
	l.pays, l.vendeur, l.consultant, l.source, l.qualification,
	l.status_id, s.id, s.name, s.color,
	l.client_password, l.bulk_imported, l.created_at`

const leadFrom = ` FROM leads l LEFT JOIN statuses s ON s.id = l.status_id`

func scanLeadRow(row interface{ Scan(...any) error }) (*entity.Lead, error) {
	var raw mapper.RawRecord
	var st mapper.RawStatus

	err := row.Scan(
		&raw.ID, &raw.Email, &raw.FullName, &raw.Prenom, &raw.Nom,
		&raw.Phone, &raw.Portable, &raw.CompanyName, &raw.Siret,
		&raw.Activite, &raw.Adresse, &raw.Ville, &raw.CodePostal,
		&raw.Pays, &raw.Vendeur, &raw.Consultant, &raw.Source,
		&raw.Qualification, &raw.StatusID, &st.ID, &st.Name, &st.Color,
		&raw.ClientPassword, &raw.BulkImported, &raw.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if st.ID.Valid {
		raw.Status = &st
	}
	return mapper.MapLead(raw), nil
}

func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (email, full_name, prenom, nom, phone, portable,
			company_name, siret, activite, adresse, ville, code_postal, pays,
			vendeur, consultant, source, qualification, status_id,
			client_password, bulk_imported, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19, $20, NOW())
		RETURNING id, created_at
	`

	return r.DB.QueryRowContext(ctx, query,
		lead.Email, nullString(lead.FullName), nullString(lead.Prenom),
		nullString(lead.Nom), nullString(lead.Phone), nullString(lead.Portable),
		nullString(lead.CompanyName), nullString(lead.Siret),
		nullString(lead.Activite), nullString(lead.Adresse),
		nullString(lead.Ville), nullString(lead.CodePostal),
		nullString(lead.Pays), nullString(lead.Vendeur),
		nullString(lead.Consultant), nullString(lead.Source),
		nullString(lead.Qualification), lead.StatusID,
		nullString(lead.ClientPassword), lead.BulkImported,
	).Scan(&lead.ID, &lead.CreatedAt)
}

func (r *LeadRepository) FindByID(ctx context.Context, id int64) (*entity.Lead, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT`+leadColumns+leadFrom+` WHERE l.id = $1`, id)
	return scanLeadRow(row)
}

func (r *LeadRepository) FindByIDs(ctx context.Context, ids []int64) ([]*entity.Lead, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT`+leadColumns+leadFrom+` WHERE l.id = ANY($1) ORDER BY l.created_at DESC`,
		pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectLeads(rows)
}

func (r *LeadRepository) FindAll(ctx context.Context, bulkImported bool) ([]*entity.Lead, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT`+leadColumns+leadFrom+` WHERE l.bulk_imported = $1 ORDER BY l.created_at DESC`,
		bulkImported)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectLeads(rows)
}

func collectLeads(rows *sql.Rows) ([]*entity.Lead, error) {
	leads := []*entity.Lead{}
	for rows.Next() {
		lead, err := scanLeadRow(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

func (r *LeadRepository) Update(ctx context.Context, lead *entity.Lead) error {
	query := `
		UPDATE leads SET email = $2, full_name = $3, prenom = $4, nom = $5,
			phone = $6, portable = $7, company_name = $8, siret = $9,
			activite = $10, adresse = $11, ville = $12, code_postal = $13,
			pays = $14, vendeur = $15, consultant = $16, source = $17,
			qualification = $18, status_id = $19, client_password = $20
		WHERE id = $1
	`

	_, err := r.DB.ExecContext(ctx, query, lead.ID,
		lead.Email, nullString(lead.FullName), nullString(lead.Prenom),
		nullString(lead.Nom), nullString(lead.Phone), nullString(lead.Portable),
		nullString(lead.CompanyName), nullString(lead.Siret),
		nullString(lead.Activite), nullString(lead.Adresse),
		nullString(lead.Ville), nullString(lead.CodePostal),
		nullString(lead.Pays), nullString(lead.Vendeur),
		nullString(lead.Consultant), nullString(lead.Source),
		nullString(lead.Qualification), lead.StatusID,
		nullString(lead.ClientPassword))
	return err
}

func (r *LeadRepository) SetStatus(ctx context.Context, id int64, statusID *int64) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE leads SET status_id = $2 WHERE id = $1`, id, statusID)
	return err
}

func (r *LeadRepository) DeleteByIDs(ctx context.Context, ids []int64) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM leads WHERE id = ANY($1)`, pq.Array(ids))
	return err
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
