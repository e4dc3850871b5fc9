package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// Mailer delivers one email; in production the SMTP sender.
type Mailer interface {
	Send(ctx context.Context, msg entity.EmailMessage) error
}

type EmailWorker struct {
	Channel *amqp.Channel
	Mailer  Mailer
	Logger  *zap.Logger
}

func NewEmailWorker(ch *amqp.Channel, mailer Mailer, logger *zap.Logger) *EmailWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmailWorker{Channel: ch, Mailer: mailer, Logger: logger}
}

// Start consumes queueName until ctx is cancelled or the channel closes.
func (w *EmailWorker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName,
		"",
		false, // manual ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("register consumer on %s: %w", queueName, err)
	}

	w.Logger.Info("email worker waiting for messages", zap.String("queue", queueName))
	for {
		select {
		case <-ctx.Done():
			w.Logger.Info("email worker stopping")
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("consumer channel for %s closed", queueName)
			}
			w.handle(ctx, d)
		}
	}
}

// Acknowledger is the subset of amqp.Delivery the worker settles.
type Acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func (w *EmailWorker) handle(ctx context.Context, d amqp.Delivery) {
	w.Process(ctx, d.Body, &d)
}

// Process delivers one payload and settles it. Failures are nacked without
// requeue so the broker dead-letters them.
func (w *EmailWorker) Process(ctx context.Context, body []byte, ack Acknowledger) {
	var payload EmailPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		w.Logger.Error("malformed email payload", zap.Error(err))
		_ = ack.Nack(false, false)
		return
	}

	if err := w.Mailer.Send(ctx, payload.Message()); err != nil {
		w.Logger.Error("email delivery failed",
			zap.Strings("to", payload.To), zap.String("subject", payload.Subject), zap.Error(err))
		_ = ack.Nack(false, false)
		return
	}

	w.Logger.Info("email delivered", zap.Strings("to", payload.To), zap.String("subject", payload.Subject))
	_ = ack.Ack(false)
}
