package account

import (
	"context"

	"github.com/Abraxas-365/matchhub/pkg/kernel"
)

// Repository persists accounts. Lookups that find nothing return
// ErrAccountNotFound; writes that break email or login uniqueness return
// ErrAccountAlreadyExists.
type Repository interface {
	FindByID(ctx context.Context, id kernel.AccountID) (*Account, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByLogin(ctx context.Context, login string) (*Account, error)
	// FindByEmailOrLogin returns the first account whose email equals email
	// or whose login equals login.
	FindByEmailOrLogin(ctx context.Context, email, login string) (*Account, error)

	Create(ctx context.Context, acc NewAccount) (*Account, error)
	UpdateByID(ctx context.Context, id kernel.AccountID, changes Changes) error
	UpdateByEmail(ctx context.Context, email string, changes Changes) error

	Ping(ctx context.Context) error
}
