package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/preventia/duerp-crm/internal/usecase"
	amqp "github.com/rabbitmq/amqp091-go"
)

type RabbitMQProducer struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewProducer(conn *amqp.Connection, ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{Conn: conn, Ch: ch}
}

func (p *RabbitMQProducer) PublishEmailJob(ctx context.Context, payload usecase.EmailJobPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("sérialisation du payload: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent, // Message durable
		},
	)

	if err != nil {
		return fmt.Errorf("publication RabbitMQ en échec: %w", err)
	}

	return nil
}
