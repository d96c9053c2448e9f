// Package mailer sends pensioner notifications by email.
package mailer

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/segyhp/pension-verification/internal/domain"
	"github.com/segyhp/pension-verification/pkg/logger"
)

// Mailer delivers a plain-text email
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Config holds SMTP settings
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// New returns an SMTPMailer, or a LogMailer when no SMTP host is configured.
func New(cfg Config) Mailer {
	if cfg.Host == "" {
		return LogMailer{}
	}
	return NewSMTPMailer(cfg)
}

// SMTPMailer sends through an SMTP relay
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(cfg Config) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := m.dialer.DialAndSend(NewMessage(m.from, to, subject, body)); err != nil {
		return fmt.Errorf("sending mail to %s: %w", to, err)
	}
	return nil
}

// NewMessage builds the gomail message for a plain-text email.
func NewMessage(from, to, subject, body string) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return msg
}

// LogMailer only logs; used when no SMTP host is configured.
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, to, subject, _ string) error {
	logger.Info(ctx, "mail delivery disabled, message dropped", "to", to, "subject", subject)
	return nil
}

// ReminderEmail is the re-verification reminder sent by the scheduler.
func ReminderEmail(p *domain.Pensioner) (subject, body string) {
	subject = "Your pension re-verification is due"
	body = fmt.Sprintf(
		"Dear %s,\n\nYour periodic verification for pension ID %s was due on %s. "+
			"Please sign in and upload a current identity document to keep your pension active.\n",
		p.FullName, p.PensionID, formatDue(p.NextDueAt),
	)
	return subject, body
}

// DecisionEmail tells a pensioner the outcome of a verification decision.
func DecisionEmail(p *domain.Pensioner, status domain.VerificationStatus, nextDueAt *time.Time) (subject, body string) {
	subject = "Pension verification update"

	switch status {
	case domain.StatusVerified:
		body = fmt.Sprintf("Dear %s,\n\nYour verification for pension ID %s has been approved. Your next verification is due on %s.\n",
			p.FullName, p.PensionID, formatDue(nextDueAt))
	case domain.StatusFlagged:
		body = fmt.Sprintf("Dear %s,\n\nYour verification for pension ID %s has been flagged for further checks. "+
			"Our team will contact you.\n", p.FullName, p.PensionID)
	default:
		body = fmt.Sprintf("Dear %s,\n\nYour verification for pension ID %s was not successful. "+
			"Please upload a new identity document.\n", p.FullName, p.PensionID)
	}
	return subject, body
}

func formatDue(due *time.Time) string {
	if due == nil {
		return "a date to be confirmed"
	}
	return due.Format("2 January 2006")
}
