package auth

import (
	"net/url"
	"testing"
	"time"

	"market/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIssuerConfig() *config.Config {
	return &config.Config{
		Auth: &config.AuthConfig{
			VerificationTokenTTL: 24 * time.Hour,
			ResetTokenTTL:        time.Hour,
		},
	}
}

func TestOpaqueIssuer_TokensAreUniqueAndURLSafe(t *testing.T) {
	issuer := NewOpaqueIssuer(testIssuerConfig())

	seen := make(map[string]bool)
	for range 100 {
		token, err := issuer.IssueVerificationToken()
		require.NoError(t, err)
		assert.Len(t, token.Value, 64)

		// Hex survives URL embedding without escaping.
		assert.Equal(t, token.Value, url.PathEscape(token.Value))

		assert.False(t, seen[token.Value], "token issued twice: %s", token.Value)
		seen[token.Value] = true
	}
}

func TestOpaqueIssuer_ExpiryWindows(t *testing.T) {
	issuer := NewOpaqueIssuer(testIssuerConfig())

	verification, err := issuer.IssueVerificationToken()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), verification.ExpireAt, time.Minute)

	reset, err := issuer.IssueResetToken()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), reset.ExpireAt, time.Minute)
}
