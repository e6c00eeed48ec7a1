package config

import (
	"errors"
	"time"
)

// AuthConfig drives the credential flows.
type AuthConfig struct {
	JWT      JWTConfig
	Password PasswordConfig
	Codes    CodeConfig
	Timeouts TimeoutConfig
}

type JWTConfig struct {
	SecretKey      string
	SessionTTL     time.Duration
	ResetSecretKey string
	ResetTTL       time.Duration
	Issuer         string
}

type PasswordConfig struct {
	BcryptCost int
	MinLength  int
}

// CodeConfig holds verification code length and the lifetime of every
// ephemeral record.
type CodeConfig struct {
	Length          int
	RegistrationTTL time.Duration
	PendingTTL      time.Duration
	ResetCodeTTL    time.Duration
	ResetTokenTTL   time.Duration
	// MaxAttempts is how many wrong guesses burn a code.
	MaxAttempts int
}

type TimeoutConfig struct {
	// Store bounds every flow operation's calls to redis and postgres.
	Store time.Duration
	// Notify bounds a single background delivery attempt.
	Notify        time.Duration
	NotifyRetries int
}

func loadAuthConfig() AuthConfig {
	return AuthConfig{
		JWT: JWTConfig{
			SecretKey:      getEnv("JWT_SECRET_KEY", ""),
			SessionTTL:     getEnvDuration("JWT_SESSION_TTL", 36*time.Hour),
			ResetSecretKey: getEnv("JWT_RESET_PASSWORD_SECRET", ""),
			ResetTTL:       getEnvDuration("JWT_RESET_TTL", 15*time.Minute),
			Issuer:         getEnv("JWT_ISSUER", "matchhub"),
		},
		Password: PasswordConfig{
			BcryptCost: getEnvInt("BCRYPT_COST", 10),
			MinLength:  getEnvInt("PASSWORD_MIN_LENGTH", 6),
		},
		Codes: CodeConfig{
			Length:          getEnvInt("OTP_LENGTH", 6),
			RegistrationTTL: getEnvDuration("REGISTRATION_CODE_TTL", 300*time.Second),
			PendingTTL:      getEnvDuration("REGISTRATION_PENDING_TTL", 300*time.Second),
			ResetCodeTTL:    getEnvDuration("RESET_CODE_TTL", 600*time.Second),
			ResetTokenTTL:   getEnvDuration("RESET_TOKEN_TTL", 900*time.Second),
			MaxAttempts:     getEnvInt("OTP_MAX_ATTEMPTS", 5),
		},
		Timeouts: TimeoutConfig{
			Store:         getEnvDuration("STORE_TIMEOUT", 5*time.Second),
			Notify:        getEnvDuration("NOTIFY_TIMEOUT", 10*time.Second),
			NotifyRetries: getEnvInt("NOTIFY_RETRIES", 2),
		},
	}
}

var (
	errMissingSessionSecret = errors.New("config: JWT_SECRET_KEY is required")
	errMissingResetSecret   = errors.New("config: JWT_RESET_PASSWORD_SECRET is required")
	errSharedSecrets        = errors.New("config: session and reset secrets must differ")
)

func (a AuthConfig) Validate() error {
	switch {
	case a.JWT.SecretKey == "":
		return errMissingSessionSecret
	case a.JWT.ResetSecretKey == "":
		return errMissingResetSecret
	case a.JWT.SecretKey == a.JWT.ResetSecretKey:
		return errSharedSecrets
	}
	if a.Codes.Length <= 0 {
		return errors.New("config: OTP_LENGTH must be positive")
	}
	return nil
}
