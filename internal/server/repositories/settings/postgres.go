package settings

import "github.com/dmitrijs2005/fileboard/internal/dbx"

var postgresQueries = queries{
	get: `SELECT key, value, updated_at FROM settings
		 WHERE key = $1`,
	upsert: `INSERT INTO settings (key, value, updated_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
	history: `INSERT INTO settings_history (key, value, changed_at)
		 VALUES ($1, $2, $3)`,
	list: `SELECT key, value, changed_at FROM settings_history
		 WHERE key = $1
		 ORDER BY id DESC
		 LIMIT $2`,
}

type PostgresRepository struct {
	sqlRepository
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{sqlRepository{db: db, q: postgresQueries}}
}
