package service

import "time"

// IssuedToken is an opaque, URL-safe, single-use capability with its expiry.
type IssuedToken struct {
	Value    string
	ExpireAt time.Time
}

// TokenIssuer produces cryptographically unguessable opaque tokens for the
// two token classes of the credential lifecycle. The issuer only generates;
// single-use semantics are enforced by the credential store when the token
// is consumed.
type TokenIssuer interface {
	// IssueVerificationToken returns a fresh email-verification token with
	// its validity window (24 hours by default) already applied.
	IssueVerificationToken() (*IssuedToken, error)

	// IssueResetToken returns a fresh password-reset token with its validity
	// window (1 hour by default) already applied.
	IssueResetToken() (*IssuedToken, error)
}
