// Package store opens the client's two databases: the local SQLite file that
// keeps UI preferences and the remote Postgres database that holds the
// journal. Both are migrated with goose from embedded SQL.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/tradejournal/internal/client/migrations"
)

// RunMigrations applies every pending migration in fsys.
func RunMigrations(ctx context.Context, db *sql.DB, dialect goose.Dialect, fsys fs.FS) error {
	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// OpenLocal opens (creating if needed) the SQLite preferences database.
func OpenLocal(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db, goose.DialectSQLite3, migrations.Local()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// OpenRemote opens the Postgres journal database through the pgx stdlib
// driver and checks connectivity. With migrate set it also brings the
// schema up to date.
func OpenRemote(ctx context.Context, dsn string, migrate bool) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping remote database: %w", err)
	}

	if migrate {
		if err := RunMigrations(ctx, db, goose.DialectPostgres, migrations.Remote()); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return db, nil
}
