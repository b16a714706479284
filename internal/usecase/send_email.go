package usecase

import (
	"context"

	"github.com/rs/zerolog/log"
)

// SendEmailUseCase ne fait que publier la demande; le rendu et l'envoi
// sont faits par le worker de queue, l'historique y est tracé.
type SendEmailUseCase struct {
	Clients ClientDirectory
	Queue   QueueProducerInterface
}

func NewSendEmailUseCase(clients ClientDirectory, queue QueueProducerInterface) *SendEmailUseCase {
	return &SendEmailUseCase{Clients: clients, Queue: queue}
}

type SendEmailInput struct {
	ClientID    int64  `json:"client_id"`
	TemplateKey string `json:"template_key"`
}

type SendEmailOutput struct {
	Queued    bool   `json:"queued"`
	Recipient string `json:"recipient"`
}

func (uc *SendEmailUseCase) Execute(ctx context.Context, input SendEmailInput) (*SendEmailOutput, error) {
	if input.ClientID == 0 || input.TemplateKey == "" {
		return nil, &DomainError{
			Code:    "VALIDATION_ERROR",
			Message: "client_id et template_key sont obligatoires",
		}
	}

	client, err := uc.Clients.FindByID(ctx, input.ClientID)
	if err != nil {
		return nil, &DomainError{
			Code:    "CLIENT_NOT_FOUND",
			Message: "client introuvable",
		}
	}
	if client.Email == "" {
		return nil, &DomainError{
			Code:    "NO_RECIPIENT",
			Message: "le client n'a pas d'adresse email",
		}
	}

	payload := EmailJobPayload{
		ClientID:    client.ID,
		TemplateKey: input.TemplateKey,
		Origin:      "API",
	}

	if err := uc.Queue.PublishEmailJob(ctx, payload); err != nil {
		log.Error().Err(err).Int64("clientID", client.ID).Msg("Email: publication en file impossible")
		return nil, &TechnicalError{Code: "QUEUE_ERROR", Message: err.Error()}
	}

	return &SendEmailOutput{Queued: true, Recipient: client.Email}, nil
}
