package mail

import (
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/mainstreet/copilot-api/pkg/config"
)

// Message is a single outbound email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Mailer delivers email over SMTP. Without a configured host it runs in mock
// mode: messages are logged, never sent. Mirrors the behaviour the product
// relies on for local development.
type Mailer struct {
	cfg    config.MailConfig
	logger *zap.Logger
}

// NewMailer constructs a mailer from config.
func NewMailer(cfg config.MailConfig, logger *zap.Logger) *Mailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mailer{cfg: cfg, logger: logger}
}

// MockMode reports whether messages are logged instead of sent.
func (m *Mailer) MockMode() bool {
	return m.cfg.Host == "" || m.cfg.From == ""
}

// Send delivers the message, or logs it in mock mode.
func (m *Mailer) Send(msg Message) error {
	if msg.To == "" {
		return fmt.Errorf("mail: recipient required")
	}

	if m.MockMode() {
		m.logger.Sugar().Infow("mock email",
			"to", msg.To,
			"subject", msg.Subject,
		)
		return nil
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTML)

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{msg.To}, []byte(b.String())); err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}

	m.logger.Sugar().Infow("email sent", "to", msg.To, "subject", msg.Subject)
	return nil
}
