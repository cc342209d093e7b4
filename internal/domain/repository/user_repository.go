// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"
	"time"

	"market/internal/domain/entity"

	"github.com/google/uuid"
)

// Domain-specific errors for credential persistence.
// This allows the application layer to handle specific outcomes without depending on database-specific errors.
var (
	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrTokenNotConsumable is returned when a token consumption matched no
	// live token: unknown token, already consumed, or past its expiry.
	ErrTokenNotConsumable = errors.New("token not found or expired")
)

// UserRepository is the credential store contract. Each operation is atomic
// with respect to the single record it touches; email and username uniqueness
// are enforced by the storage layer as a backstop even though the workflow
// pre-checks them.
type UserRepository interface {
	// FindByID retrieves a single user by their unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByEmail retrieves a single user by their (lower-cased) email address.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByUsername retrieves a single user by their username.
	FindByUsername(ctx context.Context, username string) (*entity.User, error)

	// FindByVerificationToken retrieves the user holding the given outstanding
	// verification token, regardless of expiry.
	FindByVerificationToken(ctx context.Context, token string) (*entity.User, error)

	// FindByResetToken retrieves the user holding the given outstanding reset
	// token, regardless of expiry.
	FindByResetToken(ctx context.Context, token string) (*entity.User, error)

	// Create persists a new user entity to the storage.
	Create(ctx context.Context, user *entity.User) error

	// Update modifies an existing user entity in the storage.
	Update(ctx context.Context, user *entity.User) error

	// ConsumeVerificationToken atomically marks the user holding the token as
	// verified and clears the token, guarded by a compare-and-clear update.
	// When two requests race on the same token only the first succeeds; the
	// second, as well as any expired or unknown token, gets ErrTokenNotConsumable.
	ConsumeVerificationToken(ctx context.Context, token string, now time.Time) (*entity.User, error)

	// ConsumeResetToken atomically replaces the password hash of the user
	// holding the token and clears the token and its expiry in the same
	// statement. Same single-consumer guarantee as ConsumeVerificationToken.
	ConsumeResetToken(ctx context.Context, token string, newPasswordHash string, now time.Time) (*entity.User, error)
}
