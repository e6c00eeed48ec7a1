package otp

import (
	"net/http"

	"github.com/Abraxas-365/matchhub/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("OTP")

var (
	CodeInvalidCode          = ErrRegistry.Register("INVALID_CODE", errx.TypeValidation, http.StatusBadRequest, "Invalid code")
	CodeCodeExpiredOrMissing = ErrRegistry.Register("CODE_EXPIRED_OR_MISSING", errx.TypeValidation, http.StatusBadRequest, "The code has expired or was never requested")
	CodeGenerationFailed     = ErrRegistry.Register("GENERATION_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to generate code")
	CodeTooManyAttempts      = ErrRegistry.Register("TOO_MANY_ATTEMPTS", errx.TypeBusiness, http.StatusTooManyRequests, "Too many verification attempts, request a new code")
)

func ErrInvalidCode() *errx.Error          { return ErrRegistry.New(CodeInvalidCode) }
func ErrCodeExpiredOrMissing() *errx.Error { return ErrRegistry.New(CodeCodeExpiredOrMissing) }
func ErrTooManyAttempts() *errx.Error      { return ErrRegistry.New(CodeTooManyAttempts) }
