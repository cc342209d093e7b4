package config

import "testing"

func TestCanonicalizeEnvKey_UsesExistingCamelCaseKeys(t *testing.T) {
	existing := map[string]any{
		"postgres": map[string]any{
			"sslMode": "disable",
			"master": map[string]any{
				"userName": "user",
			},
		},
		"secretKey": map[string]any{
			"session": "",
		},
		"passwordStrength": map[string]any{
			"minLength": 8,
		},
		"frontend": map[string]any{
			"baseUrl": "",
		},
	}

	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "POSTGRES_SSLMODE", want: "postgres.sslMode"},
		{envKey: "POSTGRES_MASTER_USERNAME", want: "postgres.master.userName"},
		{envKey: "SECRETKEY_SESSION", want: "secretKey.session"},
		{envKey: "PASSWORDSTRENGTH_MINLENGTH", want: "passwordStrength.minLength"},
		{envKey: "FRONTEND_BASEURL", want: "frontend.baseUrl"},
		{envKey: "NEW_FEATURE_FLAG", want: "new.feature.flag"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			if got := canonicalizeEnvKey(tt.envKey, existing); got != tt.want {
				t.Fatalf("canonicalizeEnvKey(%q) = %q, want %q", tt.envKey, got, tt.want)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	if cfg.Auth.VerificationTokenTTL.Hours() != 24 {
		t.Fatalf("verification token TTL = %v, want 24h", cfg.Auth.VerificationTokenTTL)
	}
	if cfg.Auth.ResetTokenTTL.Hours() != 1 {
		t.Fatalf("reset token TTL = %v, want 1h", cfg.Auth.ResetTokenTTL)
	}
	if cfg.PasswordStrength.MinLength != 8 || cfg.PasswordStrength.MaxLength != 72 {
		t.Fatalf("password strength defaults = %+v", cfg.PasswordStrength)
	}
	if !cfg.PasswordStrength.RequireUppercase || !cfg.PasswordStrength.RequireSpecial {
		t.Fatalf("password strength defaults = %+v", cfg.PasswordStrength)
	}
}
