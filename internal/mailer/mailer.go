package mailer

import (
	"fmt"
	"io"

	"atelier-storefront/internal/config"
	"gopkg.in/gomail.v2"
)

// Sender delivers a transactional mail with an optional PDF attachment.
type Sender interface {
	Send(to, subject, body, attachmentName string, attachment []byte) error
}

// SMTP sends mail through a plain SMTP relay.
type SMTP struct {
	cfg    config.SMTPConfig
	dialer *gomail.Dialer
}

func NewSMTP(cfg config.SMTPConfig) *SMTP {
	return &SMTP{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

func (s *SMTP) Send(to, subject, body, attachmentName string, attachment []byte) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.cfg.FromEmail, s.cfg.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if len(attachment) > 0 {
		m.Attach(attachmentName, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(attachment)
			return err
		}))
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
