package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// EmailPayload is the wire format of a queued email.
type EmailPayload struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (p EmailPayload) Message() entity.EmailMessage {
	return entity.EmailMessage{To: p.To, Subject: p.Subject, HTML: p.HTML}
}

// Publisher is the part of *amqp.Channel the producer needs.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// EmailProducer is an EmailSender that hands messages to the email worker.
// A nil error means the broker accepted the message, not that it was delivered.
type EmailProducer struct {
	Ch Publisher
}

func NewEmailProducer(ch Publisher) *EmailProducer {
	return &EmailProducer{Ch: ch}
}

func (p *EmailProducer) Send(ctx context.Context, msg entity.EmailMessage) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("queue email: no recipients")
	}

	body, err := json.Marshal(EmailPayload{To: msg.To, Subject: msg.Subject, HTML: msg.HTML})
	if err != nil {
		return fmt.Errorf("encode email payload: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("publish email to RabbitMQ: %w", err)
	}
	return nil
}
