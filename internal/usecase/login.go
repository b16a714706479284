package usecase

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/preventia/duerp-crm/internal/entity"
)

// LoginUseCase résout une identité en un seul lookup à union taguée
// (admin|seller|client|none) au lieu de trois sondes séquentielles.
// La comparaison du mot de passe reste en clair: contrat externe
// historique, signalé comme défaut dans DESIGN.md.
type LoginUseCase struct {
	Admins      AdminDirectory
	Sellers     SellerDirectory
	Clients     ClientDirectory
	JWTSecret   []byte
	TokenExpiry time.Duration
}

func NewLoginUseCase(admins AdminDirectory, sellers SellerDirectory, clients ClientDirectory, jwtSecret string) *LoginUseCase {
	return &LoginUseCase{
		Admins:      admins,
		Sellers:     sellers,
		Clients:     clients,
		JWTSecret:   []byte(jwtSecret),
		TokenExpiry: 24 * time.Hour,
	}
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginOutput struct {
	Kind     entity.IdentityKind `json:"kind"`
	ID       int64               `json:"id"`
	FullName string              `json:"full_name"`
	Token    string              `json:"token"`
}

// Lookup cherche l'email dans les trois tables et renvoie une Identity
// taguée; Kind vaut "none" quand aucune ne correspond. Les annuaires
// renvoient (nil, nil) pour un email inconnu; une erreur ici est donc
// toujours une panne d'infrastructure et remonte telle quelle, jamais
// déguisée en identité absente.
func (uc *LoginUseCase) Lookup(ctx context.Context, email string) (entity.Identity, error) {
	admin, err := uc.Admins.FindByEmail(ctx, email)
	if err != nil {
		return entity.Identity{}, err
	}
	if admin != nil {
		return entity.Identity{Kind: entity.KindAdmin, Admin: admin}, nil
	}

	seller, err := uc.Sellers.FindByEmail(ctx, email)
	if err != nil {
		return entity.Identity{}, err
	}
	if seller != nil {
		return entity.Identity{Kind: entity.KindSeller, Seller: seller}, nil
	}

	client, err := uc.Clients.FindByEmail(ctx, email)
	if err != nil {
		return entity.Identity{}, err
	}
	if client != nil {
		return entity.Identity{Kind: entity.KindClient, Client: client}, nil
	}

	return entity.Identity{Kind: entity.KindNone}, nil
}

func (uc *LoginUseCase) Execute(ctx context.Context, input LoginInput) (*LoginOutput, error) {
	identity, err := uc.Lookup(ctx, input.Email)
	if err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}

	invalid := &DomainError{
		Code:    "INVALID_CREDENTIALS",
		Message: "email ou mot de passe incorrect",
	}

	var fullName, password string
	switch identity.Kind {
	case entity.KindAdmin:
		fullName, password = identity.Admin.FullName, identity.Admin.Password
	case entity.KindSeller:
		fullName, password = identity.Seller.FullName, identity.Seller.Password
	case entity.KindClient:
		fullName, password = identity.Client.FullName, identity.Client.ClientPassword
	default:
		return nil, invalid
	}

	if password == "" || password != input.Password {
		return nil, invalid
	}

	token, err := uc.issueToken(identity)
	if err != nil {
		return nil, &TechnicalError{Code: "TOKEN_ERROR", Message: err.Error()}
	}

	return &LoginOutput{
		Kind:     identity.Kind,
		ID:       identity.ID(),
		FullName: fullName,
		Token:    token,
	}, nil
}

func (uc *LoginUseCase) issueToken(identity entity.Identity) (string, error) {
	claims := jwt.MapClaims{
		"kind": string(identity.Kind),
		"sub":  identity.ID(),
		"exp":  time.Now().Add(uc.TokenExpiry).Unix(),
		"iat":  time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(uc.JWTSecret)
}
