package otpsrv

import (
	"context"
	"time"

	"github.com/Abraxas-365/matchhub/pkg/asyncx"
	"github.com/Abraxas-365/matchhub/pkg/errx"
	"github.com/Abraxas-365/matchhub/pkg/iam/otp"
	"github.com/Abraxas-365/matchhub/pkg/kvx"
	"github.com/Abraxas-365/matchhub/pkg/logx"
	"github.com/Abraxas-365/matchhub/pkg/metricx"
)

// Options tunes code lifetimes and background delivery.
type Options struct {
	RegistrationTTL time.Duration
	ResetTTL        time.Duration
	MaxAttempts     int
	NotifyTimeout   time.Duration
	NotifyRetries   int
	RetryDelay      time.Duration
}

type OTPService struct {
	store               otp.Store
	generator           otp.Generator
	notificationService otp.NotificationService
	opts                Options
}

func NewOTPService(store otp.Store, generator otp.Generator, notificationService otp.NotificationService, opts Options) *OTPService {
	if opts.NotifyTimeout <= 0 {
		opts.NotifyTimeout = 10 * time.Second
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 200 * time.Millisecond
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 5
	}
	return &OTPService{
		store:               store,
		generator:           generator,
		notificationService: notificationService,
		opts:                opts,
	}
}

func (s *OTPService) ttl(purpose otp.Purpose) time.Duration {
	if purpose == otp.PurposeReset {
		return s.opts.ResetTTL
	}
	return s.opts.RegistrationTTL
}

// GenerateOTP stores a fresh code for contact, replacing any earlier one, and
// hands delivery to the background. Delivery failures never reach the caller.
func (s *OTPService) GenerateOTP(ctx context.Context, contact string, purpose otp.Purpose) (*otp.OTP, error) {
	code, err := s.generator.Generate()
	if err != nil {
		return nil, otp.ErrRegistry.NewWithCause(otp.CodeGenerationFailed, err)
	}

	ttl := s.ttl(purpose)
	if err := s.store.Save(ctx, purpose, contact, code, ttl); err != nil {
		return nil, err
	}
	metricx.CodesIssued.WithLabelValues(string(purpose)).Inc()

	s.dispatch(ctx, contact, code, purpose)

	return &otp.OTP{
		Contact:   contact,
		Code:      code,
		Purpose:   purpose,
		ExpiresAt: time.Now().Add(ttl),
	}, nil
}

func (s *OTPService) dispatch(ctx context.Context, contact, code string, purpose otp.Purpose) {
	asyncx.Detach(ctx, s.opts.NotifyTimeout, func(ctx context.Context) error {
		_, err := asyncx.RetryWithBackoff(ctx, s.opts.NotifyRetries+1, s.opts.RetryDelay,
			func(ctx context.Context) (struct{}, error) {
				return struct{}{}, s.notificationService.SendOTP(ctx, contact, code, purpose)
			})
		if err != nil {
			metricx.NotifyFailures.WithLabelValues(string(purpose)).Inc()
			logx.WithFields(logx.Fields{
				"contact": contact,
				"purpose": purpose,
			}).WithError(err).Error("otp: code delivery failed")
		}
		return err
	})
}

// VerifyOTP consumes the code for contact if it matches. A code can be
// consumed once. A wrong guess leaves the stored code in place until
// MaxAttempts wrong guesses have been made, after which the code is dropped.
func (s *OTPService) VerifyOTP(ctx context.Context, contact, code string, purpose otp.Purpose) error {
	out, err := s.store.Consume(ctx, purpose, contact, code)
	if err != nil {
		metricx.CodeChecks.WithLabelValues(string(purpose), metricx.OutcomeFailure).Inc()
		return errx.Wrap(err, "failed to verify code", errx.TypeInternal)
	}

	switch out {
	case kvx.Deleted:
		metricx.CodeChecks.WithLabelValues(string(purpose), metricx.OutcomeSuccess).Inc()
		return nil
	case kvx.Mismatch:
		return s.recordMismatch(ctx, contact, purpose)
	default:
		metricx.CodeChecks.WithLabelValues(string(purpose), metricx.OutcomeMissing).Inc()
		return otp.ErrCodeExpiredOrMissing()
	}
}

func (s *OTPService) recordMismatch(ctx context.Context, contact string, purpose otp.Purpose) error {
	n, err := s.store.RecordFailure(ctx, purpose, contact, s.ttl(purpose))
	if err != nil {
		metricx.CodeChecks.WithLabelValues(string(purpose), metricx.OutcomeFailure).Inc()
		return errx.Wrap(err, "failed to verify code", errx.TypeInternal)
	}
	if n < int64(s.opts.MaxAttempts) {
		metricx.CodeChecks.WithLabelValues(string(purpose), metricx.OutcomeMismatch).Inc()
		return otp.ErrInvalidCode()
	}

	if err := s.store.Discard(ctx, purpose, contact); err != nil {
		metricx.CodeChecks.WithLabelValues(string(purpose), metricx.OutcomeFailure).Inc()
		return errx.Wrap(err, "failed to verify code", errx.TypeInternal)
	}
	metricx.CodeChecks.WithLabelValues(string(purpose), metricx.OutcomeLocked).Inc()
	logx.WithFields(logx.Fields{
		"contact":  contact,
		"purpose":  purpose,
		"attempts": n,
	}).Warn("otp: code discarded after too many wrong guesses")
	return otp.ErrTooManyAttempts()
}
