package auth

import (
	"net/http"

	"github.com/Abraxas-365/matchhub/pkg/errx"
	"github.com/Abraxas-365/matchhub/pkg/kernel"
	"github.com/golang-jwt/jwt/v5"
)

// PendingRegistration is a registration request waiting for its email code.
// It lives only in the ephemeral store.
type PendingRegistration struct {
	Name         string
	Login        string
	PasswordHash string
}

// IsComplete reports whether every field was staged.
func (p *PendingRegistration) IsComplete() bool {
	return p != nil && p.Name != "" && p.Login != "" && p.PasswordHash != ""
}

// SessionClaims are the claims of a session token.
type SessionClaims struct {
	AccountID kernel.AccountID `json:"account_id"`
	Email     string           `json:"email"`
	jwt.RegisteredClaims
}

// ResetClaims are the claims of a signed reset token.
type ResetClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Password change sources, used for metrics and audit.
const (
	SourceChange = "change"
	SourceReset  = "reset"
)

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("AUTH")

var (
	CodeInvalidCredential     = ErrRegistry.Register("INVALID_CREDENTIAL", errx.TypeValidation, http.StatusBadRequest, "Invalid credentials")
	CodeInvalidOrExpiredToken = ErrRegistry.Register("INVALID_OR_EXPIRED_TOKEN", errx.TypeValidation, http.StatusBadRequest, "Invalid or expired reset token")
	CodeMissingPendingData    = ErrRegistry.Register("MISSING_PENDING_DATA", errx.TypeValidation, http.StatusBadRequest, "Registration data expired or was never submitted")
	CodeTokenGenerationFailed = ErrRegistry.Register("TOKEN_GENERATION_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Token generation failed")
	CodeTokenValidationFailed = ErrRegistry.Register("TOKEN_VALIDATION_FAILED", errx.TypeAuthorization, http.StatusUnauthorized, "Token validation failed")
	CodeWeakPassword          = ErrRegistry.Register("WEAK_PASSWORD", errx.TypeValidation, http.StatusBadRequest, "Password is too short")
	CodePasswordTooLong       = ErrRegistry.Register("PASSWORD_TOO_LONG", errx.TypeValidation, http.StatusBadRequest, "Password is too long")
)

// MaxPasswordBytes is the longest password the hasher accepts.
const MaxPasswordBytes = 72

func ErrInvalidCredential() *errx.Error {
	return ErrRegistry.New(CodeInvalidCredential)
}

func ErrInvalidOrExpiredToken() *errx.Error {
	return ErrRegistry.New(CodeInvalidOrExpiredToken)
}

func ErrMissingPendingData() *errx.Error {
	return ErrRegistry.New(CodeMissingPendingData)
}

func ErrTokenGenerationFailed() *errx.Error {
	return ErrRegistry.New(CodeTokenGenerationFailed)
}

func ErrTokenValidationFailed() *errx.Error {
	return ErrRegistry.New(CodeTokenValidationFailed)
}

func ErrWeakPassword(minLength int) *errx.Error {
	return ErrRegistry.New(CodeWeakPassword).WithDetail("min_length", minLength)
}

func ErrPasswordTooLong() *errx.Error {
	return ErrRegistry.New(CodePasswordTooLong).WithDetail("max_bytes", MaxPasswordBytes)
}
