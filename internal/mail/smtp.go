package mail

import (
	"errors"
	"fmt"
	"net/smtp"
	"strings"
)

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

func (c SMTPConfig) validate() error {
	if c.Host == "" || c.Port == "" || c.From == "" {
		return errors.New("invalid smtp configuration")
	}
	return nil
}

// SMTPSender delivers queued messages. It lives on the worker side of the
// queue, never on the request path.
type SMTPSender struct {
	cfg SMTPConfig
}

func NewSMTPSender(cfg SMTPConfig) (*SMTPSender, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &SMTPSender{cfg: cfg}, nil
}

func (s *SMTPSender) Send(msg Message) error {
	if len(msg.Recipients) == 0 {
		return errors.New("no recipients")
	}

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	raw := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		s.cfg.From, strings.Join(msg.Recipients, ", "), msg.Subject, msg.Body,
	))

	addr := fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)
	if err := smtp.SendMail(addr, auth, s.cfg.From, msg.Recipients, raw); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
