package settings

import "github.com/dmitrijs2005/fileboard/internal/dbx"

var sqliteQueries = queries{
	get: `SELECT key, value, updated_at FROM settings WHERE key = ?`,
	upsert: `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`,
	history: `INSERT INTO settings_history (key, value, changed_at) VALUES (?, ?, ?)`,
	list:    `SELECT key, value, changed_at FROM settings_history WHERE key = ? ORDER BY id DESC LIMIT ?`,
}

type SQLiteRepository struct {
	sqlRepository
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{sqlRepository{db: db, q: sqliteQueries}}
}
