package authinfra

import (
	"context"
	"time"

	"github.com/Abraxas-365/matchhub/pkg/errx"
	"github.com/Abraxas-365/matchhub/pkg/iam/auth"
	"github.com/Abraxas-365/matchhub/pkg/kvx"
	"github.com/Abraxas-365/matchhub/pkg/logx"
)

const (
	fieldName     = "name"
	fieldLogin    = "login"
	fieldPassword = "password"
)

func pendingKey(email string) string    { return "register:pending:" + email }
func resetTokenKey(token string) string { return "reset:token:" + token }

// KVStateStore keeps pending registrations and reset tokens in a kvx.Store.
// Pending registrations are hashes; anything else under their key is
// treated as absent.
type KVStateStore struct {
	kv kvx.Store
}

var _ auth.StateStore = (*KVStateStore)(nil)

func NewKVStateStore(kv kvx.Store) *KVStateStore {
	return &KVStateStore{kv: kv}
}

func (s *KVStateStore) StagePending(ctx context.Context, email string, p auth.PendingRegistration, ttl time.Duration) error {
	key := pendingKey(email)

	kind, err := s.kv.TypeOf(ctx, key)
	if err != nil {
		return errx.Wrap(err, "failed to inspect pending registration", errx.TypeInternal)
	}
	if kind != kvx.KindNone && kind != kvx.KindHash {
		logx.WithFields(logx.Fields{"key": key, "kind": kind}).Warn("auth: clearing malformed pending registration")
		if err := s.kv.Delete(ctx, key); err != nil {
			return errx.Wrap(err, "failed to clear pending registration", errx.TypeInternal)
		}
	}

	err = s.kv.HashSet(ctx, key, map[string]string{
		fieldName:     p.Name,
		fieldLogin:    p.Login,
		fieldPassword: p.PasswordHash,
	}, ttl)
	if err != nil {
		return errx.Wrap(err, "failed to stage registration", errx.TypeInternal)
	}
	return nil
}

func (s *KVStateStore) Pending(ctx context.Context, email string) (*auth.PendingRegistration, error) {
	key := pendingKey(email)

	kind, err := s.kv.TypeOf(ctx, key)
	if err != nil {
		return nil, errx.Wrap(err, "failed to inspect pending registration", errx.TypeInternal)
	}
	if kind == kvx.KindNone {
		return nil, auth.ErrMissingPendingData()
	}
	if kind != kvx.KindHash {
		_ = s.kv.Delete(ctx, key)
		return nil, auth.ErrMissingPendingData()
	}

	fields, err := s.kv.HashGetAll(ctx, key)
	if err != nil {
		return nil, errx.Wrap(err, "failed to read pending registration", errx.TypeInternal)
	}

	p := &auth.PendingRegistration{
		Name:         fields[fieldName],
		Login:        fields[fieldLogin],
		PasswordHash: fields[fieldPassword],
	}
	if !p.IsComplete() {
		_ = s.kv.Delete(ctx, key)
		return nil, auth.ErrMissingPendingData()
	}
	return p, nil
}

func (s *KVStateStore) DeletePending(ctx context.Context, email string) error {
	if err := s.kv.Delete(ctx, pendingKey(email)); err != nil {
		return errx.Wrap(err, "failed to delete pending registration", errx.TypeInternal)
	}
	return nil
}

func (s *KVStateStore) SaveResetToken(ctx context.Context, token, email string, ttl time.Duration) error {
	if err := s.kv.Set(ctx, resetTokenKey(token), email, ttl); err != nil {
		return errx.Wrap(err, "failed to store reset token", errx.TypeInternal)
	}
	return nil
}

func (s *KVStateStore) ResetTokenEmail(ctx context.Context, token string) (string, error) {
	email, err := s.kv.Get(ctx, resetTokenKey(token))
	if err != nil {
		if kvx.IsNotFound(err) {
			return "", auth.ErrInvalidOrExpiredToken()
		}
		return "", errx.Wrap(err, "failed to read reset token", errx.TypeInternal)
	}
	return email, nil
}

func (s *KVStateStore) ConsumeResetToken(ctx context.Context, token, email string) (bool, error) {
	out, err := s.kv.CompareAndDelete(ctx, resetTokenKey(token), email)
	if err != nil {
		return false, errx.Wrap(err, "failed to consume reset token", errx.TypeInternal)
	}
	return out == kvx.Deleted, nil
}
