package entity

import (
	"context"
	"time"
)

// IdentityKind discrimine les trois tables d'identités. Une session
// navigateur porte exactement une identité à la fois.
type IdentityKind string

const (
	KindAdmin  IdentityKind = "admin"
	KindSeller IdentityKind = "seller"
	KindClient IdentityKind = "client"
	KindNone   IdentityKind = "none"
)

// Seller est un commercial ("vendeur"). Le mot de passe est stocké en
// clair: contrat historique conservé, voir DESIGN.md.
type Seller struct {
	ID             int64      `json:"id"`
	FullName       string     `json:"full_name"`
	Email          string     `json:"email"`
	Password       string     `json:"-"`
	IsOnline       bool       `json:"is_online"`
	LastConnection *time.Time `json:"last_connection"`
	CreatedAt      time.Time  `json:"created_at"`
}

type Admin struct {
	ID             int64      `json:"id"`
	FullName       string     `json:"full_name"`
	Email          string     `json:"email"`
	Password       string     `json:"-"`
	IsOnline       bool       `json:"is_online"`
	LastConnection *time.Time `json:"last_connection"`
	CreatedAt      time.Time  `json:"created_at"`
}

// Identity est le résultat du lookup unifié: un kind et au plus un record.
type Identity struct {
	Kind   IdentityKind `json:"kind"`
	Admin  *Admin       `json:"admin,omitempty"`
	Seller *Seller      `json:"seller,omitempty"`
	Client *Client      `json:"client,omitempty"`
}

func (i Identity) ID() int64 {
	switch i.Kind {
	case KindAdmin:
		return i.Admin.ID
	case KindSeller:
		return i.Seller.ID
	case KindClient:
		return i.Client.ID
	}
	return 0
}

type SellerRepositoryInterface interface {
	Create(ctx context.Context, s *Seller) error
	FindByID(ctx context.Context, id int64) (*Seller, error)
	FindByEmail(ctx context.Context, email string) (*Seller, error)
	FindAll(ctx context.Context) ([]*Seller, error)
	Update(ctx context.Context, s *Seller) error
	Delete(ctx context.Context, id int64) error
}

type AdminRepositoryInterface interface {
	Create(ctx context.Context, a *Admin) error
	FindByID(ctx context.Context, id int64) (*Admin, error)
	FindByEmail(ctx context.Context, email string) (*Admin, error)
	FindAll(ctx context.Context) ([]*Admin, error)
	Update(ctx context.Context, a *Admin) error
	Delete(ctx context.Context, id int64) error
}

// PresenceRepositoryInterface écrit les drapeaux de présence pour les
// trois familles d'identités.
type PresenceRepositoryInterface interface {
	SetOnline(ctx context.Context, kind IdentityKind, id int64, at time.Time) error
	SetOffline(ctx context.Context, kind IdentityKind, id int64) error
	MarkStaleOffline(ctx context.Context, kind IdentityKind, olderThan time.Time) (int64, error)
}
