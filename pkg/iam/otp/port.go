package otp

import (
	"context"
	"time"

	"github.com/Abraxas-365/matchhub/pkg/kvx"
)

// Store keeps at most one live code per contact and purpose.
type Store interface {
	// Save overwrites any previous code for contact and purpose and clears
	// its failure count.
	Save(ctx context.Context, purpose Purpose, contact, code string, ttl time.Duration) error
	// Consume deletes the code only if it equals code.
	Consume(ctx context.Context, purpose Purpose, contact, code string) (kvx.Outcome, error)
	// RecordFailure counts a wrong guess and returns the total so far.
	RecordFailure(ctx context.Context, purpose Purpose, contact string, ttl time.Duration) (int64, error)
	// Discard drops the code and its failure count.
	Discard(ctx context.Context, purpose Purpose, contact string) error
}

// NotificationService delivers a code to its contact.
type NotificationService interface {
	SendOTP(ctx context.Context, contact, code string, purpose Purpose) error
}
