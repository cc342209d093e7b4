package service

import "context"

// Mailer is the notification dispatcher consumed by the auth workflow.
// Implementations may fail independently of the workflow; the workflow never
// rolls back a committed state transition because a dispatch failed. When the
// underlying transport is unconfigured, implementations degrade to a logged
// no-op rather than raising.
type Mailer interface {
	// SendVerificationEmail delivers an email-verification link built from the
	// given token to the address.
	SendVerificationEmail(ctx context.Context, address, displayName, token string) error

	// SendPasswordResetEmail delivers a password-reset link built from the
	// given token to the address.
	SendPasswordResetEmail(ctx context.Context, address, token string) error
}
