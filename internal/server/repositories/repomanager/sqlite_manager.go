package repomanager

import (
	"context"
	"database/sql"
	"strings"

	"github.com/dmitrijs2005/fileboard/internal/dbx"
	"github.com/dmitrijs2005/fileboard/internal/server/migrations"
	"github.com/dmitrijs2005/fileboard/internal/server/repositories/settings"
	_ "modernc.org/sqlite"
)

const sqliteDriver = "sqlite"

// SQLiteRepositoryManager serves single-node deployments from a local file.
type SQLiteRepositoryManager struct{}

func NewSQLiteRepositoryManager() *SQLiteRepositoryManager {
	return &SQLiteRepositoryManager{}
}

func (m *SQLiteRepositoryManager) Settings(db dbx.DBTX) settings.Repository {
	return settings.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Driver() string {
	return sqliteDriver
}

func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return runMigrations(ctx, db, "sqlite3", migrations.SQLiteDir)
}

// sqlitePath is the file behind an SQLite DSN, or "" for in-memory and
// URI-style sources.
func sqlitePath(dsn string) string {
	p := strings.TrimPrefix(strings.TrimSpace(dsn), "sqlite://")
	p, _, _ = strings.Cut(p, "?")
	if p == ":memory:" || strings.HasPrefix(p, "file:") {
		return ""
	}
	return p
}

// sqliteSource adds the pragmas every connection needs unless the path
// already carries its own query string.
func sqliteSource(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_time_format=sqlite"
}
