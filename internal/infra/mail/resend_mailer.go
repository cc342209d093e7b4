// Package mail implements the Mailer domain service on top of the Resend API.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"
	"go.uber.org/fx"

	"market/config"
	"market/internal/domain/service"
)

// Params defines the parameters required for the mailer.
type Params struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// resendMailer sends transactional emails through Resend. Without an API key
// it runs in log-only mode: every send logs the link that would have been
// mailed and returns nil, which keeps local development working offline.
type resendMailer struct {
	client      *resend.Client
	fromAddress string
	fromName    string
	baseURL     string
	sendTimeout time.Duration
	logger      *slog.Logger
}

// NewResendMailer is the constructor for resendMailer.
func NewResendMailer(params Params) service.Mailer {
	var client *resend.Client
	if params.Config.Mail.APIKey != "" {
		client = resend.NewClient(params.Config.Mail.APIKey)
	}

	return &resendMailer{
		client:      client,
		fromAddress: params.Config.Mail.FromAddress,
		fromName:    params.Config.Mail.FromName,
		baseURL:     params.Config.Frontend.BaseURL,
		sendTimeout: params.Config.Mail.SendTimeout,
		logger:      params.Logger,
	}
}

// SendVerificationEmail delivers the email-verification link to the address.
func (m *resendMailer) SendVerificationEmail(ctx context.Context, address, displayName, token string) error {
	verifyURL := fmt.Sprintf("%s/verify-email/%s", m.baseURL, token)
	subject := fmt.Sprintf("%s - verify your email address", m.fromName)
	body := fmt.Sprintf(
		"Hi %s,\n\nWelcome! Please confirm your email address by opening the link below:\n\n%s\n\nThe link expires in 24 hours. If you did not create an account, you can ignore this email.\n",
		displayName, verifyURL,
	)

	return m.send(ctx, "verification", address, subject, body, verifyURL)
}

// SendPasswordResetEmail delivers the password-reset link to the address.
func (m *resendMailer) SendPasswordResetEmail(ctx context.Context, address, token string) error {
	resetURL := fmt.Sprintf("%s/reset-password/%s", m.baseURL, token)
	subject := fmt.Sprintf("%s - reset your password", m.fromName)
	body := fmt.Sprintf(
		"A password reset was requested for your account. Open the link below to choose a new password:\n\n%s\n\nThe link expires in 1 hour. If you did not request a reset, you can ignore this email.\n",
		resetURL,
	)

	return m.send(ctx, "password_reset", address, subject, body, resetURL)
}

func (m *resendMailer) send(ctx context.Context, kind, address, subject, body, link string) error {
	if m.client == nil {
		m.logger.InfoContext(ctx, "email sent (log-only mode)",
			slog.String("type", kind),
			slog.String("to", address),
			slog.String("url", link))

		return nil
	}

	sendCtx, cancel := context.WithTimeout(ctx, m.sendTimeout)
	defer cancel()

	request := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", m.fromName, m.fromAddress),
		To:      []string{address},
		Subject: subject,
		Text:    body,
	}

	if _, err := m.client.Emails.SendWithContext(sendCtx, request); err != nil {
		return errors.Wrapf(err, "failed to send %s email", kind)
	}

	m.logger.InfoContext(ctx, "email sent",
		slog.String("type", kind),
		slog.String("to", address))

	return nil
}
