package mail

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

var ErrNoRecipients = errors.New("email has no recipients")

// SMTPSender delivers messages synchronously through an SMTP relay.
type SMTPSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	Logger   *zap.Logger

	dialer *gomail.Dialer
}

func NewSMTPSender(host string, port int, user, password, from string, logger *zap.Logger) *SMTPSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SMTPSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		Logger:   logger,
		dialer:   gomail.NewDialer(host, port, user, password),
	}
}

func (s *SMTPSender) Send(ctx context.Context, msg entity.EmailMessage) error {
	m, err := s.buildMessage(msg)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send email via SMTP: %w", err)
	}

	s.Logger.Info("email sent", zap.Strings("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}

func (s *SMTPSender) buildMessage(msg entity.EmailMessage) (*gomail.Message, error) {
	if len(msg.To) == 0 {
		return nil, ErrNoRecipients
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)
	return m, nil
}

// NoopSender drops every message; used when delivery is disabled.
type NoopSender struct {
	Logger *zap.Logger
}

func (s NoopSender) Send(_ context.Context, msg entity.EmailMessage) error {
	if s.Logger != nil {
		s.Logger.Debug("email delivery disabled, dropping message", zap.String("subject", msg.Subject))
	}
	return nil
}
