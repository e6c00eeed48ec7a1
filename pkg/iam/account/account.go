package account

import (
	"strings"
	"time"

	"github.com/Abraxas-365/matchhub/pkg/kernel"
)

// Account is a durable identity. Email and Login are each unique.
type Account struct {
	ID           kernel.AccountID `db:"id"`
	Email        string           `db:"email"`
	Login        string           `db:"login"`
	Name         string           `db:"name"`
	PasswordHash string           `db:"password_hash"`
	CreatedAt    time.Time        `db:"created_at"`
	UpdatedAt    time.Time        `db:"updated_at"`
}

// AccountDTO is the public projection. It never carries the password hash.
type AccountDTO struct {
	ID        kernel.AccountID `json:"id"`
	Email     string           `json:"email"`
	Login     string           `json:"login"`
	Name      string           `json:"name"`
	CreatedAt time.Time        `json:"created_at"`
}

func (a *Account) ToDTO() AccountDTO {
	return AccountDTO{
		ID:        a.ID,
		Email:     a.Email,
		Login:     a.Login,
		Name:      a.Name,
		CreatedAt: a.CreatedAt,
	}
}

// NewAccount is the data needed to create an account.
type NewAccount struct {
	Email        string `db:"email"`
	Login        string `db:"login"`
	Name         string `db:"name"`
	PasswordHash string `db:"password_hash"`
}

// Changes is a partial update; nil fields are left untouched.
type Changes struct {
	Name         *string
	PasswordHash *string
}

func (c Changes) IsEmpty() bool {
	return c.Name == nil && c.PasswordHash == nil
}

// NormalizeEmail is the canonical form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
