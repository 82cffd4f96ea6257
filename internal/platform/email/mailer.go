// Copyright (c) 2026 Revora. All rights reserved.

// Package email provides outbound mail delivery for Revora.
//
// Delivery is best-effort: the signup flow logs failures and continues,
// because a lost email is recoverable by requesting the code again.
package email

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
)

// Mailer is the delivery contract consumed by the auth service.
type Mailer interface {
	// Send delivers a plain-text message to a single recipient.
	Send(ctx context.Context, to, subject, body string) error
}

// # SMTP Delivery

// SMTPMailer sends mail through a plain SMTP relay.
type SMTPMailer struct {
	addr string
	from string
}

// NewSMTPMailer constructs a mailer targeting host:port with the given
// envelope sender.
func NewSMTPMailer(host, port, from string) *SMTPMailer {
	return &SMTPMailer{
		addr: host + ":" + port,
		from: from,
	}
}

// Send delivers the message synchronously via SMTP.
func (mailer *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	message := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		mailer.from, to, subject, body))

	if err := smtp.SendMail(mailer.addr, nil, mailer.from, []string{to}, message); err != nil {
		return fmt.Errorf("email: smtp send to %s failed: %w", to, err)
	}
	return nil
}

// # Development Delivery

// LogMailer writes messages to the structured log instead of sending them.
// Used in development where no SMTP relay is configured.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer constructs a log-only mailer.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send logs the message and always succeeds.
func (mailer *LogMailer) Send(ctx context.Context, to, subject, body string) error {
	mailer.logger.InfoContext(ctx, "email_logged_not_sent",
		slog.String("to", to),
		slog.String("subject", subject),
		slog.String("body", body),
	)
	return nil
}
