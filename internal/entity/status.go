package entity

import "context"

// Status est une étiquette nommée et colorée, sans cycle de vie propre.
// Tout lead/client référence zéro ou un statut à la fois.
type Status struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// NoStatusLabel est le libellé affiché quand status_id est nul.
const NoStatusLabel = "Aucun statut"

type StatusRepositoryInterface interface {
	Create(ctx context.Context, s *Status) error
	FindAll(ctx context.Context) ([]*Status, error)
	Update(ctx context.Context, s *Status) error
	Delete(ctx context.Context, id int64) error
}
