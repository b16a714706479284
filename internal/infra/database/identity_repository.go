package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/preventia/duerp-crm/internal/entity"
)

// SellerRepository et AdminRepository partagent la même forme de table
// (identité + drapeaux de présence + mot de passe en clair).

type SellerRepository struct {
	DB *sql.DB
}

func NewSellerRepository(db *sql.DB) *SellerRepository {
	return &SellerRepository{DB: db}
}

const sellerColumns = `id, full_name, email, password, is_online, last_connection, created_at`

func scanSeller(row interface{ Scan(...any) error }) (*entity.Seller, error) {
	var s entity.Seller
	var lastConn sql.NullTime

	err := row.Scan(&s.ID, &s.FullName, &s.Email, &s.Password, &s.IsOnline, &lastConn, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	if lastConn.Valid {
		t := lastConn.Time
		s.LastConnection = &t
	}
	return &s, nil
}

func (r *SellerRepository) Create(ctx context.Context, s *entity.Seller) error {
	return r.DB.QueryRowContext(ctx,
		`INSERT INTO sellers (full_name, email, password, created_at) VALUES ($1, $2, $3, NOW()) RETURNING id, created_at`,
		s.FullName, s.Email, s.Password,
	).Scan(&s.ID, &s.CreatedAt)
}

func (r *SellerRepository) FindByID(ctx context.Context, id int64) (*entity.Seller, error) {
	return scanSeller(r.DB.QueryRowContext(ctx, `SELECT `+sellerColumns+` FROM sellers WHERE id = $1`, id))
}

// FindByEmail renvoie (nil, nil) quand l'email est inconnu: l'absence
// d'identité n'est pas une panne, le lookup de connexion discrimine sur nil.
func (r *SellerRepository) FindByEmail(ctx context.Context, email string) (*entity.Seller, error) {
	s, err := scanSeller(r.DB.QueryRowContext(ctx, `SELECT `+sellerColumns+` FROM sellers WHERE email = $1`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return s, err
}

func (r *SellerRepository) FindAll(ctx context.Context) ([]*entity.Seller, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+sellerColumns+` FROM sellers ORDER BY full_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sellers := []*entity.Seller{}
	for rows.Next() {
		s, err := scanSeller(rows)
		if err != nil {
			return nil, err
		}
		sellers = append(sellers, s)
	}
	return sellers, rows.Err()
}

func (r *SellerRepository) Update(ctx context.Context, s *entity.Seller) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE sellers SET full_name = $2, email = $3, password = $4 WHERE id = $1`,
		s.ID, s.FullName, s.Email, s.Password)
	return err
}

func (r *SellerRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM sellers WHERE id = $1`, id)
	return err
}

type AdminRepository struct {
	DB *sql.DB
}

func NewAdminRepository(db *sql.DB) *AdminRepository {
	return &AdminRepository{DB: db}
}

func scanAdmin(row interface{ Scan(...any) error }) (*entity.Admin, error) {
	var a entity.Admin
	var lastConn sql.NullTime

	err := row.Scan(&a.ID, &a.FullName, &a.Email, &a.Password, &a.IsOnline, &lastConn, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	if lastConn.Valid {
		t := lastConn.Time
		a.LastConnection = &t
	}
	return &a, nil
}

func (r *AdminRepository) Create(ctx context.Context, a *entity.Admin) error {
	return r.DB.QueryRowContext(ctx,
		`INSERT INTO admins (full_name, email, password, created_at) VALUES ($1, $2, $3, NOW()) RETURNING id, created_at`,
		a.FullName, a.Email, a.Password,
	).Scan(&a.ID, &a.CreatedAt)
}

func (r *AdminRepository) FindByID(ctx context.Context, id int64) (*entity.Admin, error) {
	return scanAdmin(r.DB.QueryRowContext(ctx, `SELECT `+sellerColumns+` FROM admins WHERE id = $1`, id))
}

func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (*entity.Admin, error) {
	a, err := scanAdmin(r.DB.QueryRowContext(ctx, `SELECT `+sellerColumns+` FROM admins WHERE email = $1`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return a, err
}

func (r *AdminRepository) FindAll(ctx context.Context) ([]*entity.Admin, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+sellerColumns+` FROM admins ORDER BY full_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	admins := []*entity.Admin{}
	for rows.Next() {
		a, err := scanAdmin(rows)
		if err != nil {
			return nil, err
		}
		admins = append(admins, a)
	}
	return admins, rows.Err()
}

func (r *AdminRepository) Update(ctx context.Context, a *entity.Admin) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE admins SET full_name = $2, email = $3, password = $4 WHERE id = $1`,
		a.ID, a.FullName, a.Email, a.Password)
	return err
}

func (r *AdminRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM admins WHERE id = $1`, id)
	return err
}

// PresenceRepository mutualise les écritures is_online/last_connection
// sur les trois tables d'identités.
type PresenceRepository struct {
	DB *sql.DB
}

func NewPresenceRepository(db *sql.DB) *PresenceRepository {
	return &PresenceRepository{DB: db}
}

func presenceTable(kind entity.IdentityKind) (string, error) {
	switch kind {
	case entity.KindAdmin:
		return "admins", nil
	case entity.KindSeller:
		return "sellers", nil
	case entity.KindClient:
		return "clients", nil
	}
	return "", fmt.Errorf("unknown identity kind %q", kind)
}

func (r *PresenceRepository) SetOnline(ctx context.Context, kind entity.IdentityKind, id int64, at time.Time) error {
	table, err := presenceTable(kind)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		`UPDATE `+table+` SET is_online = TRUE, last_connection = $2 WHERE id = $1`, id, at)
	return err
}

func (r *PresenceRepository) SetOffline(ctx context.Context, kind entity.IdentityKind, id int64) error {
	table, err := presenceTable(kind)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		`UPDATE `+table+` SET is_online = FALSE WHERE id = $1`, id)
	return err
}

// MarkStaleOffline bascule hors-ligne toute identité dont le dernier
// battement est antérieur à olderThan. Renvoie le nombre de lignes touchées.
func (r *PresenceRepository) MarkStaleOffline(ctx context.Context, kind entity.IdentityKind, olderThan time.Time) (int64, error) {
	table, err := presenceTable(kind)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		`UPDATE `+table+` SET is_online = FALSE WHERE is_online = TRUE AND (last_connection IS NULL OR last_connection < $1)`,
		olderThan)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
