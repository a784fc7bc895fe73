package mail

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/config"
)

func TestContactHTML_Escapes(t *testing.T) {
	out := contactHTML(ContactMessage{
		FromName:  "<b>Ali</b>",
		FromEmail: "ali@example.com",
		Message:   "ligne 1\nligne 2",
	})
	assert.Contains(t, out, "&lt;b&gt;Ali&lt;/b&gt;")
	assert.Contains(t, out, "ligne 1<br>ligne 2")
	assert.NotContains(t, out, "Téléphone")
}

func TestContactSubject(t *testing.T) {
	assert.Equal(t, "Nouveau message de Ali", contactSubject(ContactMessage{FromName: "Ali"}))
	assert.Equal(t, "Nouveau message (invité) de Ali", contactSubject(ContactMessage{FromName: "Ali", Guest: true}))
}

func TestNew_FallsBackToLogMailer(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	m := New(config.MailConfig{}, logger)
	_, ok := m.(LogMailer)
	require.True(t, ok)

	require.NoError(t, m.SendContact(context.Background(), ContactMessage{FromEmail: "a@b.com"}))
	assert.Contains(t, buf.String(), "a@b.com")

	// key without sender is not enough
	m = New(config.MailConfig{ResendAPIKey: "re_test"}, logger)
	_, ok = m.(LogMailer)
	assert.True(t, ok)
}

func TestNewResendMailer(t *testing.T) {
	m, err := NewResendMailer(config.MailConfig{
		ResendAPIKey: "re_test",
		FromEmail:    "noreply@example.com",
		FromName:     "Elite Médicale",
		ContactTo:    "contact@example.com",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Elite Médicale <noreply@example.com>", m.from)
}
