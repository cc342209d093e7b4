package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"market/config"
	domainerrors "market/internal/domain/errors"
	"market/internal/domain/service"
)

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	sessionSecret string        // Secret key for signing session tokens.
	sessionTTL    time.Duration // Time-to-live for session tokens.
	serviceName   string        // Used as the token issuer claim.
}

// NewJWTService is the constructor for jwtService. A missing signing secret is
// an operator error, reported as a configuration failure rather than deferred
// to the first login attempt.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Session == "" {
		return nil, errors.WithStack(domainerrors.ErrConfiguration.WithDetails("session signing secret is not set"))
	}

	return &jwtService{
		sessionSecret: cfg.SecretKey.Session,
		sessionTTL:    cfg.Auth.SessionTokenTTL,
		serviceName:   cfg.Env.ServiceName,
	}, nil
}

// GenerateSessionToken creates a signed session token for the given user.
func (s *jwtService) GenerateSessionToken(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := service.SessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    s.serviceName,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.sessionTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.sessionSecret))
	if err != nil {
		return "", errors.Wrap(err, "failed to sign session token")
	}

	return signed, nil
}

// ValidateSessionToken checks the validity of a session token string and returns its claims.
func (s *jwtService) ValidateSessionToken(tokenString string) (*service.SessionClaims, error) {
	claims := new(service.SessionClaims)
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return []byte(s.sessionSecret), nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse session token")
	}
	if !token.Valid {
		return nil, errors.New("session token is invalid")
	}

	return claims, nil
}
