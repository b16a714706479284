package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/preventia/duerp-crm/internal/entity"
	"github.com/preventia/duerp-crm/internal/usecase"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

// Mailer rend et envoie un email de template à un client; l'implémentation
// vit dans infra/mail (fonction hébergée ou SMTP direct).
type Mailer interface {
	Send(ctx context.Context, client *entity.Client, tpl *entity.EmailTemplate) error
}

type ClientReader interface {
	FindByID(ctx context.Context, id int64) (*entity.Client, error)
}

type TemplateReader interface {
	FindByKey(ctx context.Context, key string) (*entity.EmailTemplate, error)
}

// Worker consomme la file d'emails: chargement client + template, envoi,
// trace dans email_history quel que soit le résultat.
type Worker struct {
	Channel   *amqp.Channel
	Clients   ClientReader
	Templates TemplateReader
	Mailer    Mailer
	History   entity.EmailHistoryRepositoryInterface
}

func NewWorker(ch *amqp.Channel, clients ClientReader, templates TemplateReader, mailer Mailer, history entity.EmailHistoryRepositoryInterface) *Worker {
	return &Worker{
		Channel:   ch,
		Clients:   clients,
		Templates: templates,
		Mailer:    mailer,
		History:   history,
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack: l'ack manuel évite de perdre un job sur crash
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Enregistrement du consommateur RabbitMQ en échec")
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload usecase.EmailJobPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				log.Error().Err(err).Msg("Worker email: JSON invalide, message rejeté")
				// Message malformé: rejet sans requeue pour ne pas bloquer la file.
				d.Nack(false, false)
				continue
			}

			log.Info().Int64("clientID", payload.ClientID).Str("template", payload.TemplateKey).Msg("Worker email: job reçu")

			if err := w.processJob(context.Background(), payload); err != nil {
				log.Error().Err(err).Int64("clientID", payload.ClientID).Msg("Worker email: envoi en échec")
				d.Nack(false, false)
			} else {
				d.Ack(false)
			}
		}
	}()

	log.Info().Str("queue", queueName).Msg("Worker email en attente")
	<-forever
}

func (w *Worker) processJob(ctx context.Context, payload usecase.EmailJobPayload) error {
	client, err := w.Clients.FindByID(ctx, payload.ClientID)
	if err != nil {
		return err
	}

	tpl, err := w.Templates.FindByKey(ctx, payload.TemplateKey)
	if err != nil {
		return err
	}

	sendErr := w.Mailer.Send(ctx, client, tpl)

	history := &entity.EmailHistory{
		ID:          uuid.New().String(),
		ClientID:    client.ID,
		TemplateKey: payload.TemplateKey,
		Recipient:   client.Email,
		Success:     sendErr == nil,
		SentAt:      time.Now(),
	}
	if sendErr != nil {
		history.Error = sendErr.Error()
	}

	// L'historique est best-effort: un échec d'écriture ne doit pas
	// renvoyer le job en file.
	if err := w.History.Append(ctx, history); err != nil {
		log.Warn().Err(err).Int64("clientID", client.ID).Msg("Worker email: écriture de l'historique en échec")
	}

	return sendErr
}
