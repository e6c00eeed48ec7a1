// Package kvx defines the TTL key-value store that holds short-lived
// credential state: verification codes, staged registrations and reset
// tokens. Entries vanish on their own when their TTL elapses.
package kvx

import (
	"context"
	"time"
)

// Kind is the shape of the value stored under a key.
type Kind string

const (
	KindNone   Kind = "none"
	KindString Kind = "string"
	KindHash   Kind = "hash"
	KindList   Kind = "list"
	KindSet    Kind = "set"
	KindZSet   Kind = "zset"
)

// Outcome reports what CompareAndDelete found.
type Outcome int

const (
	// Missing means no value was stored under the key.
	Missing Outcome = iota
	// Mismatch means a different value was stored; nothing was deleted.
	Mismatch
	// Deleted means the value matched and was removed.
	Deleted
)

func (o Outcome) String() string {
	switch o {
	case Missing:
		return "missing"
	case Mismatch:
		return "mismatch"
	case Deleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Store is a TTL key-value store with atomic single-use consumption.
type Store interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Get returns ErrNotFound when nothing is stored under key.
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, keys ...string) error

	// HashSet replaces the fields of the hash at key and sets its TTL.
	HashSet(ctx context.Context, key string, fields map[string]string, ttl time.Duration) error
	// HashGetAll returns an empty map when key is absent.
	HashGetAll(ctx context.Context, key string) (map[string]string, error)

	TypeOf(ctx context.Context, key string) (Kind, error)

	// CompareAndDelete removes key only if it holds expected, as one atomic
	// step. Of any number of concurrent callers with the right value,
	// exactly one observes Deleted.
	CompareAndDelete(ctx context.Context, key, expected string) (Outcome, error)

	// Incr adds one to the counter at key and returns the new count. A new
	// counter expires after ttl; later increments keep that deadline.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)

	Ping(ctx context.Context) error
}
