package entity

import (
	"context"
	"errors"
	"time"
)

// Client est un lead converti. Le vendeur est stocké en nom complet
// dénormalisé, pas en clé étrangère (héritage des données historiques).
type Client struct {
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

	ClientPassword       string `json:"client_password"`
	ClientAccountCreated bool   `json:"client_account_created"`

	IsOnline       bool       `json:"is_online"`
	LastConnection *time.Time `json:"last_connection"`
	CreatedAt      time.Time  `json:"created_at"`
}

// NewClientFromLead construit le client à créer lors du transfert. L'ID
// n'est pas repris: c'est le store qui l'assigne à l'insertion.
func NewClientFromLead(l *Lead) (*Client, error) {
	c := &Client{
		Email:          l.Email,
		FullName:       l.FullName,
		Prenom:         l.Prenom,
		Nom:            l.Nom,
		Phone:          l.Phone,
		Portable:       l.Portable,
		CompanyName:    l.CompanyName,
		Siret:          l.Siret,
		Activite:       l.Activite,
		Adresse:        l.Adresse,
		Ville:          l.Ville,
		CodePostal:     l.CodePostal,
		Pays:           l.Pays,
		Vendeur:        l.Vendeur,
		Consultant:     l.Consultant,
		Source:         l.Source,
		Qualification:  l.Qualification,
		StatusID:       l.StatusID,
		ClientPassword: l.ClientPassword,
		CreatedAt:      time.Now(),
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Client) Validate() error {
	if c.Email == "" {
		return errors.New("email is required")
	}
	if c.FullName == "" && c.Nom == "" {
		return errors.New("name is required")
	}
	if c.Phone == "" && c.Portable == "" {
		return errors.New("phone or portable is required")
	}
	return nil
}

type ClientRepositoryInterface interface {
	Create(ctx context.Context, c *Client) error
	FindByID(ctx context.Context, id int64) (*Client, error)
	FindAll(ctx context.Context) ([]*Client, error)
	Update(ctx context.Context, c *Client) error
	SetStatus(ctx context.Context, id int64, statusID *int64) error
	SetPassword(ctx context.Context, id int64, password string) error
	Delete(ctx context.Context, id int64) error
}

var ErrEmailAlreadyExists = errors.New("un client avec cet email existe déjà")
