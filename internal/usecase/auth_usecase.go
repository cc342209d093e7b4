// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"market/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	Location string `json:"location,omitempty"`
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ResetPasswordInput carries the reset token together with the new password.
// The token comes from the URL path, never the body.
type ResetPasswordInput struct {
	Token    string `json:"-"`
	Password string `json:"password" validate:"required"`
}

// --- Output DTOs ---

// RegisterOutput returns the newly created user's public projection.
// The verification token is conveyed only through the mailer, never here.
type RegisterOutput struct {
	User *entity.SanitizedUser `json:"user"`
}

// LoginOutput returns the session token and the sanitized user after a
// successful login.
type LoginOutput struct {
	Token string                `json:"token"`
	User  *entity.SanitizedUser `json:"user"`
}

// AuthUsecase is the credential-lifecycle workflow: registration, email
// verification, login and password reset as explicit state transitions over
// a user record. This is the contract the delivery layer depends on.
type AuthUsecase interface {
	// Register validates the input (reporting every violation together),
	// rejects duplicate email/username, creates the unverified user with a
	// fresh verification token and dispatches the verification email.
	// A dispatch failure is logged and never fails the registration.
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)

	// VerifyEmail consumes a verification token, marking the account verified.
	// The token is single-use: a second call with the same token fails.
	VerifyEmail(ctx context.Context, token string) error

	// ResendVerificationEmail issues a fresh verification token, invalidating
	// any prior one, and dispatches it. A missing account is suppressed into
	// the generic success at the delivery layer; an already verified account
	// is reported as such.
	ResendVerificationEmail(ctx context.Context, email string) error

	// Login checks the credentials and returns a signed session token with
	// the sanitized user. Unknown email and wrong password produce the same
	// error; an unverified account produces a distinct one.
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)

	// RequestPasswordReset issues a reset token for a verified account and
	// dispatches it. For a missing or unverified account it is a silent no-op
	// so the caller can always report generic success.
	RequestPasswordReset(ctx context.Context, email string) error

	// ResetPassword consumes a reset token and stores the new password.
	ResetPassword(ctx context.Context, input *ResetPasswordInput) error

	// GetProfile returns the sanitized projection of an authenticated user.
	GetProfile(ctx context.Context, userID uuid.UUID) (*entity.SanitizedUser, error)
}
