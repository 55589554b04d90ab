package notification

import (
	"fmt"

	"github.com/KAsare1/fintrack-server/cmd/config"
	"gopkg.in/gomail.v2"
)

// Mailer sends account emails.
type Mailer interface {
	SendWelcome(email, name string) error
}

// NewMailer returns an SMTP mailer when SMTP is configured and a no-op otherwise.
func NewMailer(cfg *config.Config) Mailer {
	if !cfg.MailEnabled() {
		return NopMailer{}
	}
	from := cfg.SMTPFrom
	if from == "" {
		from = cfg.SMTPUser
	}
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass),
		from:   from,
	}
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func (m *SMTPMailer) SendWelcome(email, name string) error {
	if err := m.dialer.DialAndSend(welcomeMessage(m.from, email, name)); err != nil {
		return fmt.Errorf("send welcome email to %s: %w", email, err)
	}
	return nil
}

func welcomeMessage(from, to, name string) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Welcome to FinTrack")
	msg.SetBody("text/plain", fmt.Sprintf(
		"Hi %s,\n\nYour account is ready. Start by adding your first income or expense, then ask for a monthly AI summary once you have a few entries.\n",
		name,
	))
	return msg
}

type NopMailer struct{}

func (NopMailer) SendWelcome(string, string) error { return nil }
