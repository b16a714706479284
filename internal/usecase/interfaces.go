package usecase

import (
	"context"

	"github.com/preventia/duerp-crm/internal/entity"
)

// LeadInput est la forme d'entrée commune aux formulaires de capture et
// aux éditions staff.
type LeadInput struct {
	Email          string `json:"email"`
	FullName       string `json:"full_name"`
	Prenom         string `json:"prenom"`
	Nom            string `json:"nom"`
	Phone          string `json:"phone"`
	Portable       string `json:"portable"`
	CompanyName    string `json:"company_name"`
	Siret          string `json:"siret"`
	Activite       string `json:"activite"`
	Adresse        string `json:"adresse"`
	Ville          string `json:"ville"`
	CodePostal     string `json:"code_postal"`
	Pays           string `json:"pays"`
	Vendeur        string `json:"vendeur"`
	Consultant     string `json:"consultant"`
	Source         string `json:"source"`
	Qualification  string `json:"qualification"`
	StatusID       *int64 `json:"status_id"`
	ClientPassword string `json:"client_password"`
	BulkImported   bool   `json:"bulk_imported"`
}

// Vue usecase des dépôts: uniquement ce dont les workflows ont besoin.

type LeadStore interface {
	FindByIDs(ctx context.Context, ids []int64) ([]*entity.Lead, error)
	DeleteByIDs(ctx context.Context, ids []int64) error
}

type ClientStore interface {
	Create(ctx context.Context, c *entity.Client) error
	FindAll(ctx context.Context) ([]*entity.Client, error)
}

// Les directories renvoient (nil, nil) pour un email inconnu; une erreur
// non nulle signale une panne du store.

type ClientDirectory interface {
	FindByID(ctx context.Context, id int64) (*entity.Client, error)
	FindByEmail(ctx context.Context, email string) (*entity.Client, error)
}

type AdminDirectory interface {
	FindByEmail(ctx context.Context, email string) (*entity.Admin, error)
}

type SellerDirectory interface {
	FindByEmail(ctx context.Context, email string) (*entity.Seller, error)
}

// QueueProducerInterface publie les demandes d'envoi d'email.
type QueueProducerInterface interface {
	PublishEmailJob(ctx context.Context, payload EmailJobPayload) error
}

type EmailJobPayload struct {
	ClientID    int64  `json:"client_id"`
	TemplateKey string `json:"template_key"`
	Origin      string `json:"origin"`
}
