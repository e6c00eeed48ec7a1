package otpsrv

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Abraxas-365/matchhub/pkg/errx"
	"github.com/Abraxas-365/matchhub/pkg/iam/otp"
	"github.com/Abraxas-365/matchhub/pkg/iam/otp/otpinfra"
	"github.com/Abraxas-365/matchhub/pkg/kvx/kvxredis"
	"github.com/Abraxas-365/matchhub/pkg/metricx"
	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type fixedGenerator struct {
	code string
	err  error
}

func (g fixedGenerator) Generate() (string, error) { return g.code, g.err }

type sent struct {
	contact, code string
	purpose       otp.Purpose
}

// chanNotifier fails the first `failures` sends, then reports each delivery.
type chanNotifier struct {
	failures int
	calls    int
	ch       chan sent
}

func (n *chanNotifier) SendOTP(_ context.Context, contact, code string, purpose otp.Purpose) error {
	n.calls++
	if n.calls <= n.failures {
		return errors.New("smtp down")
	}
	n.ch <- sent{contact, code, purpose}
	return nil
}

func newService(t *testing.T, gen otp.Generator, n otp.NotificationService) (*OTPService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	svc := NewOTPService(otpinfra.NewKVCodeStore(kvxredis.NewStore(client)), gen, n, Options{
		RegistrationTTL: 300 * time.Second,
		ResetTTL:        600 * time.Second,
		MaxAttempts:     3,
		NotifyTimeout:   time.Second,
		NotifyRetries:   2,
		RetryDelay:      time.Millisecond,
	})
	return svc, mr
}

func waitSent(t *testing.T, ch <-chan sent) sent {
	t.Helper()
	select {
	case s := <-ch:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("code was not delivered")
		return sent{}
	}
}

func TestGenerateOTP_StoresAndDelivers(t *testing.T) {
	n := &chanNotifier{ch: make(chan sent, 1)}
	svc, mr := newService(t, fixedGenerator{code: "482913"}, n)

	o, err := svc.GenerateOTP(context.Background(), "ana@example.com", otp.PurposeReset)
	require.NoError(t, err)
	require.Equal(t, "482913", o.Code)

	require.Equal(t, 600*time.Second, mr.TTL("reset:code:ana@example.com"))
	got := waitSent(t, n.ch)
	require.Equal(t, sent{"ana@example.com", "482913", otp.PurposeReset}, got)
}

func TestGenerateOTP_RetriesDelivery(t *testing.T) {
	n := &chanNotifier{failures: 2, ch: make(chan sent, 1)}
	svc, _ := newService(t, fixedGenerator{code: "000123"}, n)

	_, err := svc.GenerateOTP(context.Background(), "ana@example.com", otp.PurposeRegistration)
	require.NoError(t, err)

	got := waitSent(t, n.ch)
	require.Equal(t, "000123", got.code)
}

func TestGenerateOTP_DeliveryFailureIsNotReturned(t *testing.T) {
	n := &chanNotifier{failures: 100, ch: make(chan sent, 1)}
	svc, mr := newService(t, fixedGenerator{code: "482913"}, n)

	before := testutil.ToFloat64(metricx.NotifyFailures.WithLabelValues(string(otp.PurposeRegistration)))

	_, err := svc.GenerateOTP(context.Background(), "ana@example.com", otp.PurposeRegistration)
	require.NoError(t, err)
	require.True(t, mr.Exists("register:code:ana@example.com"))

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(metricx.NotifyFailures.WithLabelValues(string(otp.PurposeRegistration))) == before+1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestGenerateOTP_GeneratorFailure(t *testing.T) {
	svc, _ := newService(t, fixedGenerator{err: errors.New("no entropy")}, &chanNotifier{ch: make(chan sent, 1)})

	_, err := svc.GenerateOTP(context.Background(), "ana@example.com", otp.PurposeRegistration)
	require.True(t, errx.IsCode(err, otp.CodeGenerationFailed))
}

func TestVerifyOTP(t *testing.T) {
	ctx := context.Background()
	svc, mr := newService(t, fixedGenerator{code: "482913"}, &chanNotifier{ch: make(chan sent, 1)})

	err := svc.VerifyOTP(ctx, "ana@example.com", "482913", otp.PurposeReset)
	require.True(t, errx.IsCode(err, otp.CodeCodeExpiredOrMissing))

	_, err = svc.GenerateOTP(ctx, "ana@example.com", otp.PurposeReset)
	require.NoError(t, err)

	err = svc.VerifyOTP(ctx, "ana@example.com", "000000", otp.PurposeReset)
	require.True(t, errx.IsCode(err, otp.CodeInvalidCode))
	require.True(t, mr.Exists("reset:code:ana@example.com"))

	require.NoError(t, svc.VerifyOTP(ctx, "ana@example.com", "482913", otp.PurposeReset))

	err = svc.VerifyOTP(ctx, "ana@example.com", "482913", otp.PurposeReset)
	require.True(t, errx.IsCode(err, otp.CodeCodeExpiredOrMissing))
}

func TestVerifyOTP_TooManyWrongGuesses(t *testing.T) {
	ctx := context.Background()
	svc, mr := newService(t, fixedGenerator{code: "482913"}, &chanNotifier{ch: make(chan sent, 1)})

	_, err := svc.GenerateOTP(ctx, "ana@example.com", otp.PurposeRegistration)
	require.NoError(t, err)

	locked := testutil.ToFloat64(metricx.CodeChecks.WithLabelValues(string(otp.PurposeRegistration), metricx.OutcomeLocked))

	for range 2 {
		err = svc.VerifyOTP(ctx, "ana@example.com", "000000", otp.PurposeRegistration)
		require.True(t, errx.IsCode(err, otp.CodeInvalidCode), "got %v", err)
	}

	err = svc.VerifyOTP(ctx, "ana@example.com", "000000", otp.PurposeRegistration)
	require.True(t, errx.IsCode(err, otp.CodeTooManyAttempts), "got %v", err)
	require.False(t, mr.Exists("register:code:ana@example.com"))
	require.Equal(t, locked+1, testutil.ToFloat64(metricx.CodeChecks.WithLabelValues(string(otp.PurposeRegistration), metricx.OutcomeLocked)))

	err = svc.VerifyOTP(ctx, "ana@example.com", "482913", otp.PurposeRegistration)
	require.True(t, errx.IsCode(err, otp.CodeCodeExpiredOrMissing), "the right code is gone too")

	_, err = svc.GenerateOTP(ctx, "ana@example.com", otp.PurposeRegistration)
	require.NoError(t, err)
	require.NoError(t, svc.VerifyOTP(ctx, "ana@example.com", "482913", otp.PurposeRegistration))
}
