package main

import (
	"context"

	"github.com/xavierca1/ligue-crm/internal/infra/mail"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

func runWorker(parent context.Context) error {
	ctx, stop, cfg, logger, err := bootstrap(parent)
	if err != nil {
		return err
	}
	defer stop()
	defer logger.Sync()

	rabbit, err := queue.NewRabbitMQ(cfg.RabbitMQ.URL)
	if err != nil {
		return err
	}
	defer rabbit.Close()

	if err := rabbit.Ch.Qos(1, 0, false); err != nil {
		return err
	}

	smtp := mail.NewSMTPSender(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Pass, cfg.Mail.From, logger)
	return queue.NewEmailWorker(rabbit.Ch, smtp, logger).Start(ctx, queue.QueueName)
}
