package otpinfra

import (
	"context"
	"time"

	"github.com/Abraxas-365/matchhub/pkg/errx"
	"github.com/Abraxas-365/matchhub/pkg/iam/otp"
	"github.com/Abraxas-365/matchhub/pkg/kvx"
)

// KVCodeStore keeps codes in a kvx.Store under one key per purpose and
// contact, so a newer code always replaces the previous one.
type KVCodeStore struct {
	kv kvx.Store
}

var _ otp.Store = (*KVCodeStore)(nil)

func NewKVCodeStore(kv kvx.Store) *KVCodeStore {
	return &KVCodeStore{kv: kv}
}

// CodeKey returns the key holding the code for contact.
func CodeKey(purpose otp.Purpose, contact string) string {
	switch purpose {
	case otp.PurposeRegistration:
		return "register:code:" + contact
	case otp.PurposeReset:
		return "reset:code:" + contact
	default:
		return string(purpose) + ":code:" + contact
	}
}

// AttemptsKey returns the key counting wrong guesses against the code for
// contact.
func AttemptsKey(purpose otp.Purpose, contact string) string {
	switch purpose {
	case otp.PurposeRegistration:
		return "register:attempts:" + contact
	case otp.PurposeReset:
		return "reset:attempts:" + contact
	default:
		return string(purpose) + ":attempts:" + contact
	}
}

func (s *KVCodeStore) Save(ctx context.Context, purpose otp.Purpose, contact, code string, ttl time.Duration) error {
	if err := s.kv.Delete(ctx, AttemptsKey(purpose, contact)); err != nil {
		return errx.Wrap(err, "failed to reset code attempts", errx.TypeInternal).
			WithDetail("purpose", string(purpose))
	}
	if err := s.kv.Set(ctx, CodeKey(purpose, contact), code, ttl); err != nil {
		return errx.Wrap(err, "failed to store code", errx.TypeInternal).
			WithDetail("purpose", string(purpose))
	}
	return nil
}

func (s *KVCodeStore) Consume(ctx context.Context, purpose otp.Purpose, contact, code string) (kvx.Outcome, error) {
	out, err := s.kv.CompareAndDelete(ctx, CodeKey(purpose, contact), code)
	if err != nil {
		return kvx.Missing, errx.Wrap(err, "failed to check code", errx.TypeInternal).
			WithDetail("purpose", string(purpose))
	}
	return out, nil
}

func (s *KVCodeStore) RecordFailure(ctx context.Context, purpose otp.Purpose, contact string, ttl time.Duration) (int64, error) {
	n, err := s.kv.Incr(ctx, AttemptsKey(purpose, contact), ttl)
	if err != nil {
		return 0, errx.Wrap(err, "failed to count code attempt", errx.TypeInternal).
			WithDetail("purpose", string(purpose))
	}
	return n, nil
}

func (s *KVCodeStore) Discard(ctx context.Context, purpose otp.Purpose, contact string) error {
	if err := s.kv.Delete(ctx, CodeKey(purpose, contact), AttemptsKey(purpose, contact)); err != nil {
		return errx.Wrap(err, "failed to discard code", errx.TypeInternal).
			WithDetail("purpose", string(purpose))
	}
	return nil
}
