package service

import "context"

// MailService defines the interface for outbound transactional mail.
type MailService interface {
	// SendVerificationMail sends the email ownership confirmation link.
	SendVerificationMail(ctx context.Context, to, token string) error

	// SendPasswordResetMail sends the password reset link.
	SendPasswordResetMail(ctx context.Context, to, token string) error
}
