// Package mail sends storefront notifications.
package mail

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"
)

// ContactMessage is a message left through the contact form.
type ContactMessage struct {
	FromName  string
	FromEmail string
	Phone     string
	Message   string
	Guest     bool
}

// Mailer delivers notifications to the shop team.
type Mailer interface {
	SendContact(ctx context.Context, msg ContactMessage) error
}

func contactSubject(msg ContactMessage) string {
	if msg.Guest {
		return fmt.Sprintf("Nouveau message (invité) de %s", msg.FromName)
	}
	return fmt.Sprintf("Nouveau message de %s", msg.FromName)
}

func contactHTML(msg ContactMessage) string {
	var b strings.Builder
	b.WriteString("<h2>Nouveau message de contact</h2>")
	fmt.Fprintf(&b, "<p><strong>Nom :</strong> %s</p>", html.EscapeString(msg.FromName))
	fmt.Fprintf(&b, "<p><strong>Email :</strong> %s</p>", html.EscapeString(msg.FromEmail))
	if msg.Phone != "" {
		fmt.Fprintf(&b, "<p><strong>Téléphone :</strong> %s</p>", html.EscapeString(msg.Phone))
	}
	body := strings.ReplaceAll(html.EscapeString(msg.Message), "\n", "<br>")
	fmt.Fprintf(&b, "<p>%s</p>", body)
	return b.String()
}

// LogMailer only logs notifications. Used when no provider is configured.
type LogMailer struct {
	Logger *slog.Logger
}

func (m LogMailer) SendContact(_ context.Context, msg ContactMessage) error {
	logger := m.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("contact message (mail disabled)",
		"from", msg.FromEmail,
		"guest", msg.Guest,
		"subject", contactSubject(msg),
	)
	return nil
}
