// Package mailer отправляет служебные письма через SendGrid.
package mailer

import (
	"fmt"
	"log/slog"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/speedx-ps/subscriber-hub/internal/config"
)

// Mailer интерфейс отправки писем, реализован поверх SendGrid
type Mailer interface {
	SendPasswordReset(email, token string) error
}

// SendGridMailer отправляет письма через API SendGrid
type SendGridMailer struct {
	client   *sendgrid.Client
	from     *mail.Email
	resetURL string
	log      *slog.Logger
}

// NewSendGridMailer создаёт отправителя из секции конфига
func NewSendGridMailer(cfg config.SendGrid, log *slog.Logger) *SendGridMailer {
	return &SendGridMailer{
		client:   sendgrid.NewSendClient(cfg.APIKey),
		from:     mail.NewEmail(cfg.FromName, cfg.FromEmail),
		resetURL: cfg.ResetURL,
		log:      log,
	}
}

// SendPasswordReset отправляет письмо со ссылкой для сброса пароля
func (m *SendGridMailer) SendPasswordReset(email, token string) error {
	const op = "mailer.SendPasswordReset"

	subject := "SpeedX: password reset"
	link := fmt.Sprintf("%s?token=%s", m.resetURL, token)
	plain := fmt.Sprintf("A password reset was requested for your SpeedX account.\n\nFollow the link to choose a new password:\n%s\n\nIf you did not request a reset, ignore this message.", link)
	html := fmt.Sprintf(`<p>A password reset was requested for your SpeedX account.</p><p><a href=%q>Reset password</a></p><p>If you did not request a reset, ignore this message.</p>`, link)

	to := mail.NewEmail("", email)
	message := mail.NewSingleEmail(m.from, subject, to, plain, html)

	response, err := m.client.Send(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("%s: unexpected status code %d", op, response.StatusCode)
	}

	m.log.Info("password reset mail sent", slog.String("email", email), slog.Int("status_code", response.StatusCode))
	return nil
}
