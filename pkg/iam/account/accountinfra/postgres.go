package accountinfra

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Abraxas-365/matchhub/pkg/errx"
	"github.com/Abraxas-365/matchhub/pkg/iam/account"
	"github.com/Abraxas-365/matchhub/pkg/kernel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const accountColumns = `id, email, login, name, password_hash, created_at, updated_at`

// PostgresAccountRepository stores accounts in the accounts table.
type PostgresAccountRepository struct {
	db *sqlx.DB
}

var _ account.Repository = (*PostgresAccountRepository)(nil)

func NewPostgresAccountRepository(db *sqlx.DB) *PostgresAccountRepository {
	return &PostgresAccountRepository{db: db}
}

func (r *PostgresAccountRepository) FindByID(ctx context.Context, id kernel.AccountID) (*account.Account, error) {
	return r.findOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, int64(id))
}

func (r *PostgresAccountRepository) FindByEmail(ctx context.Context, email string) (*account.Account, error) {
	return r.findOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email)
}

func (r *PostgresAccountRepository) FindByLogin(ctx context.Context, login string) (*account.Account, error) {
	return r.findOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE login = $1`, login)
}

func (r *PostgresAccountRepository) FindByEmailOrLogin(ctx context.Context, email, login string) (*account.Account, error) {
	return r.findOne(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE email = $1 OR login = $2 ORDER BY id LIMIT 1`,
		email, login)
}

func (r *PostgresAccountRepository) findOne(ctx context.Context, query string, args ...any) (*account.Account, error) {
	var acc account.Account
	if err := r.db.GetContext(ctx, &acc, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, account.ErrAccountNotFound()
		}
		return nil, errx.Wrap(err, "failed to query account", errx.TypeInternal)
	}
	return &acc, nil
}

// Create inserts the account. The unique constraints on email and login
// decide between concurrent registrations; the loser gets a conflict.
func (r *PostgresAccountRepository) Create(ctx context.Context, acc account.NewAccount) (*account.Account, error) {
	query := `
		INSERT INTO accounts (email, login, name, password_hash)
		VALUES (:email, :login, :name, :password_hash)
		RETURNING ` + accountColumns

	rows, err := r.db.NamedQueryContext(ctx, query, acc)
	if err != nil {
		return nil, mapWriteError(err, acc.Email, acc.Login)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, mapWriteError(err, acc.Email, acc.Login)
		}
		return nil, errx.Internal("insert returned no row")
	}

	var created account.Account
	if err := rows.StructScan(&created); err != nil {
		return nil, errx.Wrap(err, "failed to scan created account", errx.TypeInternal)
	}
	return &created, nil
}

func (r *PostgresAccountRepository) UpdateByID(ctx context.Context, id kernel.AccountID, changes account.Changes) error {
	return r.update(ctx, `id = $1`, int64(id), changes)
}

func (r *PostgresAccountRepository) UpdateByEmail(ctx context.Context, email string, changes account.Changes) error {
	return r.update(ctx, `email = $1`, email, changes)
}

func (r *PostgresAccountRepository) update(ctx context.Context, where string, key any, changes account.Changes) error {
	if changes.IsEmpty() {
		return nil
	}

	query := `
		UPDATE accounts SET
			name = COALESCE($2, name),
			password_hash = COALESCE($3, password_hash),
			updated_at = NOW()
		WHERE ` + where

	result, err := r.db.ExecContext(ctx, query, key, changes.Name, changes.PasswordHash)
	if err != nil {
		return errx.Wrap(err, "failed to update account", errx.TypeInternal)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get rows affected on update", errx.TypeInternal)
	}
	if affected == 0 {
		return account.ErrAccountNotFound()
	}
	return nil
}

func (r *PostgresAccountRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return errx.External("database unreachable").WithCause(err)
	}
	return nil
}

func mapWriteError(err error, email, login string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
		switch pqErr.Constraint {
		case "accounts_email_key":
			return account.ErrEmailTaken(email).WithCause(err)
		case "accounts_login_key":
			return account.ErrLoginTaken(login).WithCause(err)
		default:
			return account.ErrAccountAlreadyExists().WithCause(err)
		}
	}
	return errx.Wrap(err, "failed to create account", errx.TypeInternal)
}
