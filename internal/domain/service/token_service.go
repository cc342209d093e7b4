package service

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionClaims defines the custom claims for the session JWT.
type SessionClaims struct {
	UserID uuid.UUID
	jwt.RegisteredClaims
}

// TokenService defines the interface for issuing and validating the signed,
// stateless session token handed out at login. The workflow treats the token
// as an opaque output; validation is used by the auth middleware.
type TokenService interface {
	// GenerateSessionToken creates a signed session token for the given user.
	// Returns a configuration error when no signing secret is set, so operator
	// misconfiguration is distinguishable from a user-facing auth failure.
	GenerateSessionToken(userID uuid.UUID) (string, error)

	// ValidateSessionToken checks a token string and returns its claims.
	ValidateSessionToken(tokenString string) (*SessionClaims, error)
}
