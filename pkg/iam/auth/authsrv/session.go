package authsrv

import (
	"context"

	"github.com/Abraxas-365/matchhub/pkg/config"
	"github.com/Abraxas-365/matchhub/pkg/iam"
	"github.com/Abraxas-365/matchhub/pkg/iam/account"
	"github.com/Abraxas-365/matchhub/pkg/iam/auth"
	"github.com/Abraxas-365/matchhub/pkg/kernel"
	"github.com/Abraxas-365/matchhub/pkg/metricx"
)

type LoginResult struct {
	Account account.AccountDTO `json:"user"`
	Token   string             `json:"token"`
}

type SessionService struct {
	accounts account.Repository
	hasher   auth.PasswordHasher
	tokens   auth.TokenIssuer
	audit    auth.AuditService
	cfg      *config.AuthConfig
}

var _ auth.SessionAuthenticator = (*SessionService)(nil)

func NewSessionService(
	accounts account.Repository,
	hasher auth.PasswordHasher,
	tokens auth.TokenIssuer,
	audit auth.AuditService,
	cfg *config.AuthConfig,
) *SessionService {
	return &SessionService{
		accounts: accounts,
		hasher:   hasher,
		tokens:   tokens,
		audit:    audit,
		cfg:      cfg,
	}
}

// Login accepts either the email or the login of an account.
func (s *SessionService) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	email, identifier := identifierForms(identifier)

	ctx, cancel := bounded(ctx, s.cfg)
	defer cancel()

	acc, err := s.accounts.FindByEmailOrLogin(ctx, email, identifier)
	if err != nil {
		if absent(err) {
			metricx.Logins.WithLabelValues(metricx.OutcomeMissing).Inc()
			s.audit.LogLoginAttempt(ctx, identifier, 0, false)
		}
		return nil, err
	}

	ok, err := s.hasher.Verify(acc.PasswordHash, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		metricx.Logins.WithLabelValues(metricx.OutcomeMismatch).Inc()
		s.audit.LogLoginAttempt(ctx, identifier, acc.ID, false)
		return nil, auth.ErrInvalidCredential()
	}

	token, err := s.tokens.IssueSessionToken(acc)
	if err != nil {
		return nil, err
	}

	metricx.Logins.WithLabelValues(metricx.OutcomeSuccess).Inc()
	s.audit.LogLoginAttempt(ctx, identifier, acc.ID, true)
	return &LoginResult{Account: acc.ToDTO(), Token: token}, nil
}

func (s *SessionService) ChangePassword(ctx context.Context, accountID kernel.AccountID, oldPassword, newPassword string) error {
	ctx, cancel := bounded(ctx, s.cfg)
	defer cancel()

	acc, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return err
	}

	ok, err := s.hasher.Verify(acc.PasswordHash, oldPassword)
	if err != nil {
		return err
	}
	if !ok {
		return auth.ErrInvalidCredential()
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	if err := s.accounts.UpdateByID(ctx, acc.ID, account.Changes{PasswordHash: &hash}); err != nil {
		return err
	}

	metricx.PasswordChanges.WithLabelValues(auth.SourceChange).Inc()
	s.audit.LogPasswordChanged(ctx, acc.Email, auth.SourceChange)
	return nil
}

// Authenticate verifies a session token and resolves its account by the
// signed email, so tokens of deleted accounts stop working.
func (s *SessionService) Authenticate(ctx context.Context, token string) (*kernel.AuthContext, error) {
	claims, err := s.tokens.ParseSessionToken(token)
	if err != nil {
		return nil, iam.ErrInvalidToken().WithCause(err)
	}

	ctx, cancel := bounded(ctx, s.cfg)
	defer cancel()

	acc, err := s.accounts.FindByEmail(ctx, claims.Email)
	if err != nil {
		if absent(err) {
			return nil, iam.ErrUnauthorized()
		}
		return nil, err
	}

	return &kernel.AuthContext{
		AccountID: acc.ID,
		Email:     acc.Email,
		Login:     acc.Login,
	}, nil
}
