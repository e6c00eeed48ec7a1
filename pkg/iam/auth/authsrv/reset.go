package authsrv

import (
	"context"

	"github.com/Abraxas-365/matchhub/pkg/config"
	"github.com/Abraxas-365/matchhub/pkg/errx"
	"github.com/Abraxas-365/matchhub/pkg/iam/account"
	"github.com/Abraxas-365/matchhub/pkg/iam/auth"
	"github.com/Abraxas-365/matchhub/pkg/iam/otp"
	"github.com/Abraxas-365/matchhub/pkg/logx"
	"github.com/Abraxas-365/matchhub/pkg/metricx"
)

// ResetService moves an email through NoRequest, CodeIssued, TokenIssued
// and Consumed.
type ResetService struct {
	accounts account.Repository
	state    auth.StateStore
	hasher   auth.PasswordHasher
	codes    auth.CodeService
	tokens   auth.TokenIssuer
	audit    auth.AuditService
	cfg      *config.AuthConfig
}

func NewResetService(
	accounts account.Repository,
	state auth.StateStore,
	hasher auth.PasswordHasher,
	codes auth.CodeService,
	tokens auth.TokenIssuer,
	audit auth.AuditService,
	cfg *config.AuthConfig,
) *ResetService {
	return &ResetService{
		accounts: accounts,
		state:    state,
		hasher:   hasher,
		codes:    codes,
		tokens:   tokens,
		audit:    audit,
		cfg:      cfg,
	}
}

func (s *ResetService) RequestReset(ctx context.Context, email string) error {
	email = account.NormalizeEmail(email)

	ctx, cancel := bounded(ctx, s.cfg)
	defer cancel()

	if _, err := s.accounts.FindByEmail(ctx, email); err != nil {
		return err
	}

	if _, err := s.codes.GenerateOTP(ctx, email, otp.PurposeReset); err != nil {
		return err
	}

	s.audit.LogResetRequested(ctx, email)
	return nil
}

// VerifyCode exchanges a reset code for a reset token. The code is consumed
// atomically, so one code yields at most one token.
func (s *ResetService) VerifyCode(ctx context.Context, email, code string) (string, error) {
	email = account.NormalizeEmail(email)

	ctx, cancel := bounded(ctx, s.cfg)
	defer cancel()

	if err := s.codes.VerifyOTP(ctx, email, code, otp.PurposeReset); err != nil {
		s.audit.LogOTPVerification(ctx, email, otp.PurposeReset, false)
		return "", err
	}
	s.audit.LogOTPVerification(ctx, email, otp.PurposeReset, true)

	token, err := s.tokens.IssueResetToken(email)
	if err != nil {
		return "", err
	}

	if err := s.state.SaveResetToken(ctx, token, email, s.cfg.Codes.ResetTokenTTL); err != nil {
		return "", err
	}
	return token, nil
}

// ResetPassword requires the token to be stored, correctly signed and bound
// to the stored email. The stored entry is consumed before the password
// changes, so a token works once.
func (s *ResetService) ResetPassword(ctx context.Context, token, newPassword string) error {
	ctx, cancel := bounded(ctx, s.cfg)
	defer cancel()

	stored, storeErr := s.state.ResetTokenEmail(ctx, token)
	claims, sigErr := s.tokens.ParseResetToken(token)

	if storeErr != nil && !errx.IsCode(storeErr, auth.CodeInvalidOrExpiredToken) {
		return storeErr
	}
	if storeErr != nil || sigErr != nil || claims.Email != stored {
		return auth.ErrInvalidOrExpiredToken()
	}

	consumed, err := s.state.ConsumeResetToken(ctx, token, stored)
	if err != nil {
		return err
	}
	if !consumed {
		return auth.ErrInvalidOrExpiredToken()
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	if err := s.accounts.UpdateByEmail(ctx, stored, account.Changes{PasswordHash: &hash}); err != nil {
		return err
	}

	metricx.PasswordChanges.WithLabelValues(auth.SourceReset).Inc()
	s.audit.LogPasswordChanged(ctx, stored, auth.SourceReset)
	logx.WithField("email", stored).Info("auth: password reset completed")
	return nil
}
