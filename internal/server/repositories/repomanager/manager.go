// Package repomanager picks the storage backend from the database DSN,
// vends repositories bound to a DBTX, and runs the embedded goose
// migrations for that backend.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/fileboard/internal/dbx"
	"github.com/dmitrijs2005/fileboard/internal/filex"
	"github.com/dmitrijs2005/fileboard/internal/server/repositories/settings"
	"github.com/pressly/goose/v3"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Settings(db dbx.DBTX) settings.Repository
	// Driver is the database/sql driver name the manager expects.
	Driver() string
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// sqlOpen is a seam for testing sql.Open.
var sqlOpen = sql.Open

// ForDSN returns the manager for dsn together with the driver data source.
// postgres:// and postgresql:// URLs select PostgreSQL; anything else is an
// SQLite file path, optionally prefixed with sqlite://.
func ForDSN(dsn string) (RepositoryManager, string) {
	dsn = strings.TrimSpace(dsn)
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return NewPostgresRepositoryManager(), dsn
	}
	return NewSQLiteRepositoryManager(), sqliteSource(strings.TrimPrefix(dsn, "sqlite://"))
}

// Open connects to dsn and checks the connection. Migrations are not run.
func Open(ctx context.Context, dsn string) (*sql.DB, RepositoryManager, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, nil, fmt.Errorf("database DSN is empty")
	}

	m, source := ForDSN(dsn)
	if m.Driver() == sqliteDriver {
		if _, err := filex.EnsureParentDir(sqlitePath(dsn)); err != nil {
			return nil, nil, err
		}
	}
	db, err := sqlOpen(m.Driver(), source)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s database: %w", m.Driver(), err)
	}
	if m.Driver() == sqliteDriver {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping %s database: %w", m.Driver(), err)
	}
	return db, m, nil
}

func runMigrations(ctx context.Context, db *sql.DB, dialect, dir string) error {
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, dir)
}
