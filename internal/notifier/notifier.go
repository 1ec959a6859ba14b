/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package notifier delivers contact form notifications over SMTP.
// Delivery is best effort; the public contact flow never fails because
// mail could not be sent.
package notifier

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/friendsincode/storyhub/internal/config"
	"github.com/friendsincode/storyhub/internal/models"
	"github.com/friendsincode/storyhub/internal/site"
)

// ErrNotConfigured is returned when neither the email_config row nor
// the environment provides an SMTP host.
var ErrNotConfigured = errors.New("smtp not configured")

// sendFunc matches smtp.SendMail and is swapped out in tests.
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Notifier sends admin notifications for contact messages.
type Notifier struct {
	settings *site.Service
	cfg      *config.Config
	logger   zerolog.Logger
	send     sendFunc
}

// New creates a notifier. SMTP settings come from the saved email
// config row, falling back to the environment.
func New(settings *site.Service, cfg *config.Config, logger zerolog.Logger) *Notifier {
	return &Notifier{
		settings: settings,
		cfg:      cfg,
		logger:   logger.With().Str("component", "notifier").Logger(),
		send:     smtp.SendMail,
	}
}

type smtpSettings struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
}

func (n *Notifier) resolveSettings(ctx context.Context) (smtpSettings, error) {
	s := smtpSettings{
		Host:     n.cfg.SMTPHost,
		Port:     n.cfg.SMTPPort,
		Username: n.cfg.SMTPUsername,
		Password: n.cfg.SMTPPassword,
		From:     n.cfg.SMTPFrom,
		To:       n.cfg.SMTPTo,
	}

	saved, err := n.settings.EmailConfig(ctx)
	switch {
	case errors.Is(err, site.ErrNotFound):
		// env fallback only
	case err != nil:
		return smtpSettings{}, err
	default:
		if saved.SMTPServer != "" {
			s.Host = saved.SMTPServer
			s.Username = saved.SMTPUsername
			s.Password = saved.SMTPPassword
			if saved.SMTPPort != 0 {
				s.Port = saved.SMTPPort
			}
		}
		if saved.FromEmail != "" {
			s.From = saved.FromEmail
		}
		if saved.ToEmail != "" {
			s.To = saved.ToEmail
		}
	}

	if s.Host == "" {
		return smtpSettings{}, ErrNotConfigured
	}
	if s.Port == 0 {
		s.Port = 587
	}
	if s.From == "" {
		s.From = "noreply@localhost"
	}
	return s, nil
}

func (n *Notifier) deliver(s smtpSettings, to, subject, body string) error {
	msg := strings.Builder{}
	msg.WriteString(fmt.Sprintf("From: %s\r\n", s.From))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)
	var auth smtp.Auth
	if s.Username != "" {
		auth = smtp.PlainAuth("", s.Username, s.Password, s.Host)
	}
	return n.send(addr, auth, s.From, []string{to}, []byte(msg.String()))
}

// NotifyContactMessage emails the site owner about a new contact
// message. Failures are logged and swallowed.
func (n *Notifier) NotifyContactMessage(ctx context.Context, msg *models.ContactMessage) {
	s, err := n.resolveSettings(ctx)
	if err != nil {
		if !errors.Is(err, ErrNotConfigured) {
			n.logger.Error().Err(err).Msg("failed to resolve smtp settings")
		}
		return
	}
	if s.To == "" {
		return
	}

	subject := fmt.Sprintf("New contact message: %s", msg.Subject)
	body := fmt.Sprintf("From: %s <%s>\nReceived: %s\n\n%s",
		msg.Name, msg.Email, time.Now().Format(time.RFC1123), msg.Message)

	if err := n.deliver(s, s.To, subject, body); err != nil {
		n.logger.Error().Err(err).Str("to", s.To).Msg("contact notification failed")
		return
	}
	n.logger.Info().Str("to", s.To).Msg("contact notification sent")
}

// SendTest sends a test email to verify the saved SMTP settings. The
// error is surfaced so the admin form can show it.
func (n *Notifier) SendTest(ctx context.Context, to string) error {
	s, err := n.resolveSettings(ctx)
	if err != nil {
		return err
	}
	if to == "" {
		to = s.To
	}
	if to == "" {
		return fmt.Errorf("no recipient configured")
	}
	body := fmt.Sprintf("This is a test message sent at %s.", time.Now().Format(time.RFC1123))
	if err := n.deliver(s, to, "SMTP test", body); err != nil {
		return fmt.Errorf("send test email: %w", err)
	}
	return nil
}
