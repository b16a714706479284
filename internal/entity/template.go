package entity

import (
	"context"
	"time"
)

// EmailTemplate: sujet + corps en syntaxe text/template, champs du client
// disponibles ({{.Prenom}}, {{.CompanyName}}, ...).
type EmailTemplate struct {
	ID        int64     `json:"id"`
	Key       string    `json:"key"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PDFTemplate est géré comme un document stocké: seul le pointeur vers le
// fichier vit en base.
type PDFTemplate struct {
	ID        int64     `json:"id"`
	Key       string    `json:"key"`
	Name      string    `json:"name"`
	FileURL   string    `json:"file_url"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EmailHistory trace chaque tentative d'envoi, succès ou non.
type EmailHistory struct {
	ID          string    `json:"id"`
	ClientID    int64     `json:"client_id"`
	TemplateKey string    `json:"template_key"`
	Recipient   string    `json:"recipient"`
	Success     bool      `json:"success"`
	Error       string    `json:"error,omitempty"`
	SentAt      time.Time `json:"sent_at"`
}

// ArgumentaireDocument est le support de vente affiché aux vendeurs. La
// table ne porte qu'une ligne: le document courant, remplacé à chaque mise
// à jour.
type ArgumentaireDocument struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	FileURL   string    `json:"file_url,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TemplateRepositoryInterface interface {
	FindByKey(ctx context.Context, key string) (*EmailTemplate, error)
	FindAll(ctx context.Context) ([]*EmailTemplate, error)
	Upsert(ctx context.Context, t *EmailTemplate) error
	Delete(ctx context.Context, id int64) error

	FindAllPDF(ctx context.Context) ([]*PDFTemplate, error)
	UpsertPDF(ctx context.Context, t *PDFTemplate) error
	DeletePDF(ctx context.Context, id int64) error

	// FindArgumentaire renvoie (nil, nil) tant qu'aucun document n'a été publié.
	FindArgumentaire(ctx context.Context) (*ArgumentaireDocument, error)
	UpsertArgumentaire(ctx context.Context, d *ArgumentaireDocument) error
}

type EmailHistoryRepositoryInterface interface {
	Append(ctx context.Context, h *EmailHistory) error
	FindByClientID(ctx context.Context, clientID int64) ([]*EmailHistory, error)
}
