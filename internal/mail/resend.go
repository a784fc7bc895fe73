package mail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"

	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/config"
)

// ResendMailer sends notifications through Resend.
type ResendMailer struct {
	client *resend.Client
	from   string
	to     string
	logger *slog.Logger
}

func NewResendMailer(cfg config.MailConfig, logger *slog.Logger) (*ResendMailer, error) {
	if cfg.ResendAPIKey == "" {
		return nil, errors.New("resend API key is required")
	}
	if cfg.FromEmail == "" {
		return nil, errors.New("from email is required")
	}
	if cfg.ContactTo == "" {
		return nil, errors.New("contact recipient is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ResendMailer{
		client: resend.NewClient(cfg.ResendAPIKey),
		from:   fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromEmail),
		to:     cfg.ContactTo,
		logger: logger,
	}, nil
}

func (m *ResendMailer) SendContact(ctx context.Context, msg ContactMessage) error {
	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{m.to},
		Subject: contactSubject(msg),
		Html:    contactHTML(msg),
	}

	sent, err := m.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("send contact mail: %w", err)
	}
	m.logger.Info("contact mail sent", "id", sent.Id, "from", msg.FromEmail)
	return nil
}

// New picks Resend when an API key is configured and falls back to logging.
func New(cfg config.MailConfig, logger *slog.Logger) Mailer {
	if cfg.ResendAPIKey == "" {
		return LogMailer{Logger: logger}
	}
	m, err := NewResendMailer(cfg, logger)
	if err != nil {
		if logger != nil {
			logger.Warn("resend mailer disabled", "error", err)
		}
		return LogMailer{Logger: logger}
	}
	return m
}
