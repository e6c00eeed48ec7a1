package accountinfra

import (
	"context"
	"database/sql"

	"github.com/Abraxas-365/matchhub/pkg/errx"
	"github.com/Abraxas-365/matchhub/pkg/iam/account/accountinfra/migrations"
	"github.com/pressly/goose/v3"
)

// gooseUp is replaced in tests.
var gooseUp = func(ctx context.Context, db *sql.DB, dir string) error {
	return goose.UpContext(ctx, db, dir)
}

// Migrate applies the embedded account migrations.
func Migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return errx.Wrap(err, "failed to set migration dialect", errx.TypeInternal)
	}
	if err := gooseUp(ctx, db, "."); err != nil {
		return errx.Wrap(err, "failed to apply account migrations", errx.TypeInternal)
	}
	return nil
}
