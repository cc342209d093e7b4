// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the single credential record of the marketplace. Besides the
// identity fields it carries the state of the two outstanding token flows:
// email verification and password reset. A token and its expiry are always
// set or cleared together.
type User struct {
	ID                        uuid.UUID  // The Global Unique Identifier for the user.
	Email                     string     // Login identifier, stored lower-cased so uniqueness is case-insensitive.
	Username                  string     // Public display handle, unique across the marketplace.
	PasswordHash              string     // bcrypt hash of the password. Never leaves the backend.
	EmailVerified             bool       // Set once the user consumed a verification token.
	VerificationToken         *string    // Outstanding verification token, nil once consumed or before reissue.
	VerificationTokenExpireAt *time.Time // Expiry of the verification token, nil whenever the token is nil.
	ResetToken                *string    // Outstanding password-reset token, nil when no reset is pending.
	ResetTokenExpireAt        *time.Time // Expiry of the reset token, nil whenever the token is nil.
	Location                  string     // Optional free-text location, at most 100 characters.
	CreatedAt                 time.Time  // Timestamp of when this user account was created.
	UpdatedAt                 time.Time  // Timestamp of the last modification to this user's data.
}

// SanitizedUser is the projection of a User that is safe to return to
// clients: no password hash and no outstanding tokens.
type SanitizedUser struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	Username      string    `json:"username"`
	EmailVerified bool      `json:"emailVerified"`
	Location      string    `json:"location,omitempty"`
	JoinDate      time.Time `json:"joinDate"`
}

// Sanitized strips the credential fields from the user for API responses.
func (u *User) Sanitized() *SanitizedUser {
	if u == nil {
		return nil
	}

	return &SanitizedUser{
		ID:            u.ID,
		Email:         u.Email,
		Username:      u.Username,
		EmailVerified: u.EmailVerified,
		Location:      u.Location,
		JoinDate:      u.CreatedAt,
	}
}
