// Package mail implements outbound transactional mail over SMTP.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"net/smtp"
	"net/url"
	"strings"

	"vkladovke/config"
	"vkladovke/internal/domain/service"

	"github.com/pkg/errors"
)

type smtpMailer struct {
	addr    string
	auth    smtp.Auth
	from    string
	baseURL string
	logger  *slog.Logger
}

// NewMailService creates a mail service from the SMTP config. When no SMTP
// host is configured it returns a noop implementation that only logs, so
// local development works without a mail server.
func NewMailService(cfg *config.Config, logger *slog.Logger) service.MailService {
	if cfg.SMTP == nil || cfg.SMTP.Host == "" {
		logger.Warn("SMTP is not configured, mail sending is disabled")

		return &noopMailer{logger: logger}
	}

	var auth smtp.Auth
	if cfg.SMTP.UserName != "" {
		auth = smtp.PlainAuth("", cfg.SMTP.UserName, cfg.SMTP.Password, cfg.SMTP.Host)
	}

	return &smtpMailer{
		addr:    fmt.Sprintf("%s:%d", cfg.SMTP.Host, cfg.SMTP.Port),
		auth:    auth,
		from:    cfg.SMTP.From,
		baseURL: strings.TrimRight(cfg.SMTP.BaseURL, "/"),
		logger:  logger,
	}
}

// SendVerificationMail implements service.MailService interface
func (m *smtpMailer) SendVerificationMail(ctx context.Context, to, token string) error {
	link := fmt.Sprintf("%s/auth/verify-email?token=%s", m.baseURL, url.QueryEscape(token))
	body := fmt.Sprintf(
		"Здравствуйте!\r\n\r\n"+
			"Чтобы подтвердить ваш email, перейдите по ссылке:\r\n%s\r\n\r\n"+
			"Если вы не регистрировались, просто проигнорируйте это письмо.\r\n",
		link)

	return m.send(ctx, to, "Подтверждение email", body)
}

// SendPasswordResetMail implements service.MailService interface
func (m *smtpMailer) SendPasswordResetMail(ctx context.Context, to, token string) error {
	link := fmt.Sprintf("%s/auth/reset-password?token=%s", m.baseURL, url.QueryEscape(token))
	body := fmt.Sprintf(
		"Здравствуйте!\r\n\r\n"+
			"Чтобы сбросить пароль, перейдите по ссылке:\r\n%s\r\n\r\n"+
			"Если вы не запрашивали сброс пароля, просто проигнорируйте это письмо.\r\n",
		link)

	return m.send(ctx, to, "Сброс пароля", body)
}

func (m *smtpMailer) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "mail send cancelled")
	}

	msg := buildMessage(m.from, to, subject, body)
	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{to}, msg); err != nil {
		m.logger.Error("Failed to send mail",
			slog.String("to", to),
			slog.String("subject", subject),
			slog.Any("error", err))

		return errors.Wrap(err, "failed to send mail")
	}

	m.logger.Info("Mail sent",
		slog.String("to", to),
		slog.String("subject", subject))

	return nil
}

// buildMessage assembles an RFC 5322 message with a UTF-8 subject.
func buildMessage(from, to, subject, body string) []byte {
	var sb strings.Builder
	sb.WriteString("From: " + from + "\r\n")
	sb.WriteString("To: " + to + "\r\n")
	sb.WriteString("Subject: " + encodeSubject(subject) + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(body)

	return []byte(sb.String())
}

func encodeSubject(subject string) string {
	return mime.BEncoding.Encode("utf-8", subject)
}

type noopMailer struct {
	logger *slog.Logger
}

func (m *noopMailer) SendVerificationMail(_ context.Context, to, _ string) error {
	m.logger.Info("Skipping verification mail, SMTP disabled", slog.String("to", to))

	return nil
}

func (m *noopMailer) SendPasswordResetMail(_ context.Context, to, _ string) error {
	m.logger.Info("Skipping password reset mail, SMTP disabled", slog.String("to", to))

	return nil
}
