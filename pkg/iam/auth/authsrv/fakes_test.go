package authsrv

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Abraxas-365/matchhub/pkg/config"
	"github.com/Abraxas-365/matchhub/pkg/iam/account"
	"github.com/Abraxas-365/matchhub/pkg/iam/auth"
	"github.com/Abraxas-365/matchhub/pkg/iam/auth/authinfra"
	"github.com/Abraxas-365/matchhub/pkg/iam/otp"
	"github.com/Abraxas-365/matchhub/pkg/iam/otp/otpinfra"
	"github.com/Abraxas-365/matchhub/pkg/iam/otp/otpsrv"
	"github.com/Abraxas-365/matchhub/pkg/kernel"
	"github.com/Abraxas-365/matchhub/pkg/kvx/kvxredis"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

// memoryRepo is an account.Repository that enforces unique email and login
// like the accounts table does.
type memoryRepo struct {
	mu       sync.Mutex
	nextID   int64
	accounts map[kernel.AccountID]*account.Account
}

var _ account.Repository = (*memoryRepo)(nil)

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{accounts: make(map[kernel.AccountID]*account.Account)}
}

func (r *memoryRepo) find(match func(*account.Account) bool) (*account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var found *account.Account
	for _, a := range r.accounts {
		if match(a) && (found == nil || a.ID < found.ID) {
			found = a
		}
	}
	if found == nil {
		return nil, account.ErrAccountNotFound()
	}
	cp := *found
	return &cp, nil
}

func (r *memoryRepo) FindByID(_ context.Context, id kernel.AccountID) (*account.Account, error) {
	return r.find(func(a *account.Account) bool { return a.ID == id })
}

func (r *memoryRepo) FindByEmail(_ context.Context, email string) (*account.Account, error) {
	return r.find(func(a *account.Account) bool { return a.Email == email })
}

func (r *memoryRepo) FindByLogin(_ context.Context, login string) (*account.Account, error) {
	return r.find(func(a *account.Account) bool { return a.Login == login })
}

func (r *memoryRepo) FindByEmailOrLogin(_ context.Context, email, login string) (*account.Account, error) {
	return r.find(func(a *account.Account) bool { return a.Email == email || a.Login == login })
}

func (r *memoryRepo) Create(_ context.Context, n account.NewAccount) (*account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.accounts {
		if a.Email == n.Email || a.Login == n.Login {
			return nil, account.ErrAccountAlreadyExists()
		}
	}

	r.nextID++
	now := time.Now()
	acc := &account.Account{
		ID:           kernel.NewAccountID(r.nextID),
		Email:        n.Email,
		Login:        n.Login,
		Name:         n.Name,
		PasswordHash: n.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.accounts[acc.ID] = acc

	cp := *acc
	return &cp, nil
}

func (r *memoryRepo) update(match func(*account.Account) bool, c account.Changes) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.accounts {
		if !match(a) {
			continue
		}
		if c.Name != nil {
			a.Name = *c.Name
		}
		if c.PasswordHash != nil {
			a.PasswordHash = *c.PasswordHash
		}
		a.UpdatedAt = time.Now()
		return nil
	}
	return account.ErrAccountNotFound()
}

func (r *memoryRepo) UpdateByID(_ context.Context, id kernel.AccountID, c account.Changes) error {
	return r.update(func(a *account.Account) bool { return a.ID == id }, c)
}

func (r *memoryRepo) UpdateByEmail(_ context.Context, email string, c account.Changes) error {
	return r.update(func(a *account.Account) bool { return a.Email == email }, c)
}

func (r *memoryRepo) Ping(context.Context) error { return nil }

func (r *memoryRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.accounts)
}

type fixedGenerator string

func (g fixedGenerator) Generate() (string, error) { return string(g), nil }

type delivery struct {
	email, code string
	purpose     otp.Purpose
}

type chanNotifier chan delivery

func (n chanNotifier) SendOTP(_ context.Context, contact, code string, purpose otp.Purpose) error {
	n <- delivery{contact, code, purpose}
	return nil
}

const testCode = "482913"

type harness struct {
	mr       *miniredis.Miniredis
	repo     *memoryRepo
	hasher   *authinfra.BcryptPasswordService
	tokens   *auth.JWTService
	sent     chanNotifier
	cfg      *config.AuthConfig
	register *RegistrationService
	reset    *ResetService
	session  *SessionService
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	kv := kvxredis.NewStore(client)

	cfg := &config.AuthConfig{
		Codes: config.CodeConfig{
			Length:          6,
			RegistrationTTL: 300 * time.Second,
			PendingTTL:      300 * time.Second,
			ResetCodeTTL:    600 * time.Second,
			ResetTokenTTL:   900 * time.Second,
		},
		Timeouts: config.TimeoutConfig{
			Store:         5 * time.Second,
			Notify:        time.Second,
			NotifyRetries: 0,
		},
	}

	sent := make(chanNotifier, 32)
	codes := otpsrv.NewOTPService(otpinfra.NewKVCodeStore(kv), fixedGenerator(testCode), sent, otpsrv.Options{
		RegistrationTTL: cfg.Codes.RegistrationTTL,
		ResetTTL:        cfg.Codes.ResetCodeTTL,
		NotifyTimeout:   cfg.Timeouts.Notify,
		NotifyRetries:   cfg.Timeouts.NotifyRetries,
	})

	repo := newMemoryRepo()
	state := authinfra.NewKVStateStore(kv)
	hasher := authinfra.NewBcryptPasswordService(bcrypt.MinCost)
	tokens := auth.NewJWTService("session-secret", time.Hour, "reset-secret", 15*time.Minute, "matchhub-test")
	audit := authinfra.NewLogxAuditService()

	return &harness{
		mr:       mr,
		repo:     repo,
		hasher:   hasher,
		tokens:   tokens,
		sent:     sent,
		cfg:      cfg,
		register: NewRegistrationService(repo, state, hasher, codes, tokens, audit, cfg),
		reset:    NewResetService(repo, state, hasher, codes, tokens, audit, cfg),
		session:  NewSessionService(repo, hasher, tokens, audit, cfg),
	}
}

func (h *harness) waitCode(t *testing.T) delivery {
	t.Helper()
	select {
	case d := <-h.sent:
		return d
	case <-time.After(2 * time.Second):
		t.Fatal("no code delivered")
		return delivery{}
	}
}

// seed creates an account directly with the given password.
func (h *harness) seed(t *testing.T, email, login, password string) *account.Account {
	t.Helper()
	hash, err := h.hasher.Hash(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	acc, err := h.repo.Create(context.Background(), account.NewAccount{
		Email: email, Login: login, Name: login, PasswordHash: hash,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return acc
}
