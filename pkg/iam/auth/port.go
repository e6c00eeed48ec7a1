package auth

import (
	"context"
	"time"

	"github.com/Abraxas-365/matchhub/pkg/iam/account"
	"github.com/Abraxas-365/matchhub/pkg/iam/otp"
	"github.com/Abraxas-365/matchhub/pkg/kernel"
)

// PasswordHasher hashes and checks secrets with a salted one-way function.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify returns false for a mismatch and an error only when the
	// stored hash cannot be used.
	Verify(hash, password string) (bool, error)
}

// TokenIssuer signs and verifies session and reset tokens. The two kinds use
// different secrets and audiences and are never accepted in place of each other.
type TokenIssuer interface {
	IssueSessionToken(acc *account.Account) (string, error)
	ParseSessionToken(token string) (*SessionClaims, error)
	IssueResetToken(email string) (string, error)
	ParseResetToken(token string) (*ResetClaims, error)
}

// StateStore holds the typed ephemeral state of the flows.
type StateStore interface {
	// StagePending replaces the pending registration for email.
	StagePending(ctx context.Context, email string, p PendingRegistration, ttl time.Duration) error
	// Pending returns ErrMissingPendingData when nothing usable is staged.
	Pending(ctx context.Context, email string) (*PendingRegistration, error)
	DeletePending(ctx context.Context, email string) error

	SaveResetToken(ctx context.Context, token, email string, ttl time.Duration) error
	// ResetTokenEmail returns ErrInvalidOrExpiredToken when token is not stored.
	ResetTokenEmail(ctx context.Context, token string) (string, error)
	// ConsumeResetToken removes token if it still maps to email. Only one
	// caller can ever get true for a given token.
	ConsumeResetToken(ctx context.Context, token, email string) (bool, error)
}

// CodeService issues and consumes verification codes.
type CodeService interface {
	GenerateOTP(ctx context.Context, contact string, purpose otp.Purpose) (*otp.OTP, error)
	VerifyOTP(ctx context.Context, contact, code string, purpose otp.Purpose) error
}

// SessionAuthenticator resolves a session token to its caller.
type SessionAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*kernel.AuthContext, error)
}

// AuditService records security relevant events.
type AuditService interface {
	LogRegistrationRequested(ctx context.Context, email string)
	LogAccountCreated(ctx context.Context, accountID kernel.AccountID, email string)
	LogLoginAttempt(ctx context.Context, identifier string, accountID kernel.AccountID, success bool)
	LogOTPVerification(ctx context.Context, contact string, purpose otp.Purpose, success bool)
	LogResetRequested(ctx context.Context, email string)
	LogPasswordChanged(ctx context.Context, email string, source string)
}
