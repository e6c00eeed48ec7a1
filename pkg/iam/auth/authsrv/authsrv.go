// Package authsrv implements the credential flows: registration with an
// email code, password reset through a single-use token, and sessions.
package authsrv

import (
	"context"
	"strings"

	"github.com/Abraxas-365/matchhub/pkg/config"
	"github.com/Abraxas-365/matchhub/pkg/errx"
	"github.com/Abraxas-365/matchhub/pkg/iam/account"
)

// bounded derives the context used for store and repository calls.
func bounded(ctx context.Context, cfg *config.AuthConfig) (context.Context, context.CancelFunc) {
	if cfg.Timeouts.Store <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, cfg.Timeouts.Store)
}

// absent reports whether err is the repository's not-found failure.
func absent(err error) bool {
	return errx.IsCode(err, account.CodeAccountNotFound)
}

// identifierForms returns the email and login forms of a login identifier.
// Emails are compared normalized, logins as typed.
func identifierForms(identifier string) (email, login string) {
	return account.NormalizeEmail(identifier), strings.TrimSpace(identifier)
}
