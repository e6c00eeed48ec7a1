package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "session-secret")
	t.Setenv("JWT_RESET_PASSWORD_SECRET", "reset-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	codes := cfg.Auth.Codes
	if codes.RegistrationTTL != 300*time.Second || codes.ResetCodeTTL != 600*time.Second || codes.ResetTokenTTL != 900*time.Second {
		t.Fatalf("unexpected code ttls: %+v", codes)
	}
	if cfg.Auth.JWT.SessionTTL != 36*time.Hour || cfg.Auth.JWT.ResetTTL != 15*time.Minute {
		t.Fatalf("unexpected token ttls: %+v", cfg.Auth.JWT)
	}
	if cfg.Auth.Password.BcryptCost != 10 || codes.Length != 6 || codes.MaxAttempts != 5 {
		t.Fatalf("unexpected password/code settings: %+v %+v", cfg.Auth.Password, codes)
	}
}

func TestLoad_RejectsSharedSecret(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "same")
	t.Setenv("JWT_RESET_PASSWORD_SECRET", "same")

	if _, err := Load(); err != errSharedSecrets {
		t.Fatalf("expected errSharedSecrets, got %v", err)
	}
}

func TestLoad_RequiresSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")
	t.Setenv("JWT_RESET_PASSWORD_SECRET", "reset")

	if _, err := Load(); err != errMissingSessionSecret {
		t.Fatalf("expected errMissingSessionSecret, got %v", err)
	}
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("X_SECONDS", "300")
	t.Setenv("X_GO", "2m")
	t.Setenv("X_BAD", "soon")

	if got := getEnvDuration("X_SECONDS", 0); got != 300*time.Second {
		t.Errorf("seconds form: got %v", got)
	}
	if got := getEnvDuration("X_GO", 0); got != 2*time.Minute {
		t.Errorf("duration form: got %v", got)
	}
	if got := getEnvDuration("X_BAD", time.Second); got != time.Second {
		t.Errorf("fallback: got %v", got)
	}
}
