package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/fileboard/internal/dbx"
	"github.com/dmitrijs2005/fileboard/internal/server/migrations"
	"github.com/dmitrijs2005/fileboard/internal/server/repositories/settings"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const postgresDriver = "pgx"

var migrationsFS = migrations.Migrations

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

// Settings returns a settings.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Settings(db dbx.DBTX) settings.Repository {
	return settings.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Driver() string {
	return postgresDriver
}

// RunMigrations applies the embedded PostgreSQL migrations.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return runMigrations(ctx, db, "postgres", migrations.PostgresDir)
}
