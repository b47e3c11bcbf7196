package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/ruslanmv/medical-ai-hospital/internal/core/port"
	"github.com/ruslanmv/medical-ai-hospital/internal/infra/config"
	"github.com/ruslanmv/medical-ai-hospital/internal/infra/logger"
)

// SMTPMailer implements port.Mailer over an SMTP connection.
type SMTPMailer struct {
	cfg    config.SMTPSettings
	logger *zap.Logger
}

// NewSMTPMailer constructs an SMTP-backed mailer.
func NewSMTPMailer(cfg config.SMTPSettings, log *zap.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, logger: log}
}

// Send builds and delivers a multipart message with text and optional HTML bodies.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, textBody, htmlBody string) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("set mail sender: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("set mail recipient: %w", err)
	}

	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, textBody)
	if htmlBody != "" {
		msg.AddAlternativeString(gomail.TypeTextHTML, htmlBody)
	}

	opts := []gomail.Option{
		gomail.WithPort(m.cfg.Port),
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(m.cfg.Username),
			gomail.WithPassword(m.cfg.Password),
		)
	}
	if m.cfg.StartTLS {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSMandatory))
	} else {
		opts = append(opts, gomail.WithTLSPolicy(gomail.NoTLS))
	}

	client, err := gomail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}

	m.logger.Info("mail sent",
		zap.String("to", logger.MaskEmail(to)),
		zap.String("subject", subject),
	)

	return nil
}

// LogMailer logs messages instead of delivering them. Used when no SMTP host
// is configured.
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer constructs a logging mailer for development environments.
func NewLogMailer(log *zap.Logger) *LogMailer {
	return &LogMailer{logger: log}
}

// Send logs the message content instead of delivering it.
func (m *LogMailer) Send(_ context.Context, to, subject, textBody, _ string) error {
	m.logger.Warn("smtp not configured, logging mail instead",
		zap.String("to", logger.MaskEmail(to)),
		zap.String("subject", subject),
		zap.String("body", textBody),
	)
	return nil
}

var (
	_ port.Mailer = (*SMTPMailer)(nil)
	_ port.Mailer = (*LogMailer)(nil)
)
