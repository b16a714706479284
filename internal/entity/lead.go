package entity

import (
	"context"
	"time"
)

// Lead est un prospect capturé avant conversion en client.
type Lead struct {
	ID            int64  `json:"id"`
	Email         string `json:"email"`
	FullName      string `json:"full_name"`
	Prenom        string `json:"prenom"`
	Nom           string `json:"nom"`
	Phone         string `json:"phone"`
	Portable      string `json:"portable"`
	CompanyName   string `json:"company_name"`
	Siret         string `json:"siret"`
	Activite      string `json:"activite"`
	Adresse       string `json:"adresse"`
	Ville         string `json:"ville"`
	CodePostal    string `json:"code_postal"`
	Pays          string `json:"pays"`
	Vendeur       string `json:"vendeur"`
	Consultant    string `json:"consultant"`
	Source        string `json:"source"`
	Qualification string `json:"qualification"`
	StatusID      *int64 `json:"status_id"`
	StatusLabel   string `json:"status_label"`
	StatusColor   string `json:"status_color"`

	// Mot de passe provisoire, repris tel quel comme mot de passe initial du client.
	ClientPassword string `json:"client_password"`

	BulkImported bool      `json:"bulk_imported"`
	CreatedAt    time.Time `json:"created_at"`
}

type LeadRepositoryInterface interface {
	Create(ctx context.Context, lead *Lead) error
	FindByID(ctx context.Context, id int64) (*Lead, error)
	FindByIDs(ctx context.Context, ids []int64) ([]*Lead, error)
	FindAll(ctx context.Context, bulkImported bool) ([]*Lead, error)
	Update(ctx context.Context, lead *Lead) error
	SetStatus(ctx context.Context, id int64, statusID *int64) error
	DeleteByIDs(ctx context.Context, ids []int64) error
}
