package authsrv

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Abraxas-365/matchhub/pkg/errx"
	"github.com/Abraxas-365/matchhub/pkg/iam/account"
	"github.com/Abraxas-365/matchhub/pkg/iam/auth"
	"github.com/Abraxas-365/matchhub/pkg/iam/otp"
	"github.com/stretchr/testify/require"
)

func anaRequest() RegisterRequest {
	return RegisterRequest{Email: "Ana@Example.com", Login: "ana", Name: "Ana", Password: "secret1"}
}

func TestRegistration_RequestAndConfirm(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	require.NoError(t, h.register.RequestCode(ctx, anaRequest()))
	require.Equal(t, 0, h.repo.count(), "no account before confirmation")

	d := h.waitCode(t)
	require.Equal(t, delivery{"ana@example.com", testCode, otp.PurposeRegistration}, d)
	require.Equal(t, 300*time.Second, h.mr.TTL("register:code:ana@example.com"))
	require.Equal(t, 300*time.Second, h.mr.TTL("register:pending:ana@example.com"))
	require.NotEqual(t, "secret1", h.mr.HGet("register:pending:ana@example.com", "password"))

	res, err := h.register.Confirm(ctx, "ana@example.com", testCode)
	require.NoError(t, err)
	require.Equal(t, "ana@example.com", res.Account.Email)
	require.Equal(t, "ana", res.Account.Login)
	require.NotEmpty(t, res.Token)

	claims, err := h.tokens.ParseSessionToken(res.Token)
	require.NoError(t, err)
	require.Equal(t, res.Account.ID, claims.AccountID)

	require.False(t, h.mr.Exists("register:code:ana@example.com"))
	require.False(t, h.mr.Exists("register:pending:ana@example.com"))

	login, err := h.session.Login(ctx, "ana", "secret1")
	require.NoError(t, err)
	require.Equal(t, res.Account.ID, login.Account.ID)
}

func TestRegistration_CodeIsSingleUse(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	require.NoError(t, h.register.RequestCode(ctx, anaRequest()))
	_, err := h.register.Confirm(ctx, "ana@example.com", testCode)
	require.NoError(t, err)

	_, err = h.register.Confirm(ctx, "ana@example.com", testCode)
	require.True(t, errx.IsCode(err, otp.CodeInvalidCode), "got %v", err)
	require.Equal(t, 1, h.repo.count())
}

func TestRegistration_ConfirmFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("no code requested", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.register.Confirm(ctx, "ana@example.com", testCode)
		require.True(t, errx.IsCode(err, otp.CodeInvalidCode))
	})

	t.Run("wrong code keeps the real one", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, h.register.RequestCode(ctx, anaRequest()))

		_, err := h.register.Confirm(ctx, "ana@example.com", "000000")
		require.True(t, errx.IsCode(err, otp.CodeInvalidCode))

		_, err = h.register.Confirm(ctx, "ana@example.com", testCode)
		require.NoError(t, err)
	})

	t.Run("code expired", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, h.register.RequestCode(ctx, anaRequest()))
		h.mr.FastForward(301 * time.Second)

		_, err := h.register.Confirm(ctx, "ana@example.com", testCode)
		require.True(t, errx.IsCode(err, otp.CodeInvalidCode))
		require.Equal(t, 0, h.repo.count())
	})

	t.Run("pending data expired", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, h.register.RequestCode(ctx, anaRequest()))
		h.mr.Del("register:pending:ana@example.com")

		_, err := h.register.Confirm(ctx, "ana@example.com", testCode)
		require.True(t, errx.IsCode(err, auth.CodeMissingPendingData))
		require.Equal(t, 0, h.repo.count())
	})

	t.Run("email registered meanwhile", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, h.register.RequestCode(ctx, anaRequest()))
		h.seed(t, "ana@example.com", "other", "pw1234")

		_, err := h.register.Confirm(ctx, "ana@example.com", testCode)
		require.True(t, errx.IsCode(err, account.CodeAccountAlreadyExists))
	})

	t.Run("login taken meanwhile", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, h.register.RequestCode(ctx, anaRequest()))
		h.seed(t, "someone@example.com", "ana", "pw1234")

		_, err := h.register.Confirm(ctx, "ana@example.com", testCode)
		require.True(t, errx.IsCode(err, account.CodeAccountAlreadyExists))
	})
}

func TestRegistration_RequestCodeConflicts(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.seed(t, "other@example.com", "bobby", "pw1234")

	err := h.register.RequestCode(ctx, RegisterRequest{Email: "bob@example.com", Login: "bobby", Name: "Bob", Password: "secret1"})
	require.True(t, errx.IsCode(err, account.CodeAccountAlreadyExists))
	require.False(t, h.mr.Exists("register:code:bob@example.com"))
	require.False(t, h.mr.Exists("register:pending:bob@example.com"))

	err = h.register.RequestCode(ctx, RegisterRequest{Email: "OTHER@example.com", Login: "bob", Name: "Bob", Password: "secret1"})
	require.True(t, errx.IsCode(err, account.CodeAccountAlreadyExists))
}

func TestRegistration_RequestReplacesCodeAndPending(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	require.NoError(t, h.mr.Set("register:pending:ana@example.com", "stale"))
	require.NoError(t, h.register.RequestCode(ctx, anaRequest()))

	req := anaRequest()
	req.Name = "Ana Maria"
	require.NoError(t, h.register.RequestCode(ctx, req))

	res, err := h.register.Confirm(ctx, "ana@example.com", testCode)
	require.NoError(t, err)
	require.Equal(t, "Ana Maria", res.Account.Name)
}

func TestRegistration_ConcurrentConfirm(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	require.NoError(t, h.register.RequestCode(ctx, anaRequest()))

	const n = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := h.register.Confirm(ctx, "ana@example.com", testCode); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, successes)
	require.Equal(t, 1, h.repo.count())
}
