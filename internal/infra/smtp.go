package infra

import (
	"bytes"
	"fmt"
	"net/smtp"

	"github.com/Shakeel7G/clock-it/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer wraps SMTP configuration for sending HTML emails, optionally with an
// inline PNG attachment (the attendance QR code).
type Mailer struct {
	host     string
	port     int
	user     string
	password string
	from     string
	addr     string
}

func NewMailer(cfg *config.Config) *Mailer {
	from := cfg.SMTPFrom
	if from == "" {
		from = cfg.SMTPUser
	}
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     from,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
	}
}

// Send delivers an HTML email. When attachment is non-empty it is attached as
// an image/png file under attachmentName.
func (m *Mailer) Send(to, subject, htmlBody string, attachment []byte, attachmentName string) error {
	e := email.NewEmail()
	e.From = m.from
	e.To = []string{to}
	e.Subject = subject
	e.HTML = []byte(htmlBody)

	if len(attachment) > 0 {
		if _, err := e.Attach(bytes.NewReader(attachment), attachmentName, "image/png"); err != nil {
			return fmt.Errorf("mailer: attach %s: %w", attachmentName, err)
		}
	}

	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	return e.Send(m.addr, auth)
}
