package auth

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/pkg/errors"

	"market/config"
	"market/internal/domain/service"
)

// tokenByteLength gives 256 bits of entropy per token, rendered as 64 hex
// characters so the value is safe to embed in a URL path.
const tokenByteLength = 32

// opaqueIssuer is a concrete implementation of the TokenIssuer interface
// backed by the operating system CSPRNG.
type opaqueIssuer struct {
	verificationTTL time.Duration
	resetTTL        time.Duration
}

// NewOpaqueIssuer is the constructor for opaqueIssuer. Validity windows come
// from configuration, with the defaults applied at config load time.
func NewOpaqueIssuer(cfg *config.Config) service.TokenIssuer {
	return &opaqueIssuer{
		verificationTTL: cfg.Auth.VerificationTokenTTL,
		resetTTL:        cfg.Auth.ResetTokenTTL,
	}
}

// IssueVerificationToken returns a fresh email-verification token.
func (i *opaqueIssuer) IssueVerificationToken() (*service.IssuedToken, error) {
	return i.issue(i.verificationTTL)
}

// IssueResetToken returns a fresh password-reset token.
func (i *opaqueIssuer) IssueResetToken() (*service.IssuedToken, error) {
	return i.issue(i.resetTTL)
}

func (i *opaqueIssuer) issue(ttl time.Duration) (*service.IssuedToken, error) {
	buf := make([]byte, tokenByteLength)
	if _, err := rand.Read(buf); err != nil {
		return nil, errors.Wrap(err, "failed to generate token")
	}

	return &service.IssuedToken{
		Value:    hex.EncodeToString(buf),
		ExpireAt: time.Now().Add(ttl),
	}, nil
}
