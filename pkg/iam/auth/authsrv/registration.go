package authsrv

import (
	"context"
	"strings"

	"github.com/Abraxas-365/matchhub/pkg/config"
	"github.com/Abraxas-365/matchhub/pkg/errx"
	"github.com/Abraxas-365/matchhub/pkg/iam/account"
	"github.com/Abraxas-365/matchhub/pkg/iam/auth"
	"github.com/Abraxas-365/matchhub/pkg/iam/otp"
	"github.com/Abraxas-365/matchhub/pkg/logx"
	"github.com/Abraxas-365/matchhub/pkg/metricx"
)

type RegisterRequest struct {
	Email    string `json:"email"`
	Login    string `json:"login"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type RegistrationResult struct {
	Account account.AccountDTO `json:"user"`
	Token   string             `json:"token"`
}

// RegistrationService stages a registration until its email code is confirmed.
// No account exists before Confirm succeeds.
type RegistrationService struct {
	accounts account.Repository
	state    auth.StateStore
	hasher   auth.PasswordHasher
	codes    auth.CodeService
	tokens   auth.TokenIssuer
	audit    auth.AuditService
	cfg      *config.AuthConfig
}

func NewRegistrationService(
	accounts account.Repository,
	state auth.StateStore,
	hasher auth.PasswordHasher,
	codes auth.CodeService,
	tokens auth.TokenIssuer,
	audit auth.AuditService,
	cfg *config.AuthConfig,
) *RegistrationService {
	return &RegistrationService{
		accounts: accounts,
		state:    state,
		hasher:   hasher,
		codes:    codes,
		tokens:   tokens,
		audit:    audit,
		cfg:      cfg,
	}
}

// RequestCode stages the registration and sends a code to the email.
func (s *RegistrationService) RequestCode(ctx context.Context, req RegisterRequest) error {
	email := account.NormalizeEmail(req.Email)
	login := strings.TrimSpace(req.Login)

	ctx, cancel := bounded(ctx, s.cfg)
	defer cancel()

	if _, err := s.accounts.FindByEmail(ctx, email); err == nil {
		return account.ErrEmailTaken(email)
	} else if !absent(err) {
		return err
	}
	if _, err := s.accounts.FindByLogin(ctx, login); err == nil {
		return account.ErrLoginTaken(login)
	} else if !absent(err) {
		return err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return err
	}

	pending := auth.PendingRegistration{
		Name:         strings.TrimSpace(req.Name),
		Login:        login,
		PasswordHash: hash,
	}
	if err := s.state.StagePending(ctx, email, pending, s.cfg.Codes.PendingTTL); err != nil {
		return err
	}

	if _, err := s.codes.GenerateOTP(ctx, email, otp.PurposeRegistration); err != nil {
		return err
	}

	s.audit.LogRegistrationRequested(ctx, email)
	logx.WithField("email", email).Info("auth: registration code issued")
	return nil
}

// Confirm consumes the code and turns the staged registration into an
// account. The code is consumed first, so it is never accepted twice even
// when a later step fails.
func (s *RegistrationService) Confirm(ctx context.Context, email, code string) (*RegistrationResult, error) {
	email = account.NormalizeEmail(email)

	ctx, cancel := bounded(ctx, s.cfg)
	defer cancel()

	if err := s.codes.VerifyOTP(ctx, email, code, otp.PurposeRegistration); err != nil {
		s.audit.LogOTPVerification(ctx, email, otp.PurposeRegistration, false)
		if errx.IsCode(err, otp.CodeCodeExpiredOrMissing) {
			return nil, otp.ErrInvalidCode()
		}
		return nil, err
	}
	s.audit.LogOTPVerification(ctx, email, otp.PurposeRegistration, true)

	pending, err := s.state.Pending(ctx, email)
	if err != nil {
		return nil, err
	}

	if _, err := s.accounts.FindByEmail(ctx, email); err == nil {
		return nil, account.ErrEmailTaken(email)
	} else if !absent(err) {
		return nil, err
	}

	// The table's unique constraints settle races the pre-check above misses.
	acc, err := s.accounts.Create(ctx, account.NewAccount{
		Email:        email,
		Login:        pending.Login,
		Name:         pending.Name,
		PasswordHash: pending.PasswordHash,
	})
	if err != nil {
		return nil, err
	}
	metricx.AccountsCreated.Inc()
	s.audit.LogAccountCreated(ctx, acc.ID, acc.Email)

	if err := s.state.DeletePending(ctx, email); err != nil {
		logx.WithField("email", email).WithError(err).Warn("auth: pending registration left to expire")
	}

	token, err := s.tokens.IssueSessionToken(acc)
	if err != nil {
		return nil, err
	}

	return &RegistrationResult{Account: acc.ToDTO(), Token: token}, nil
}
