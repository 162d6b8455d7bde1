package settings

import (
	"context"
	"database/sql"
	"io/fs"
	"testing"
	"time"

	"github.com/dmitrijs2005/fileboard/internal/common"
	"github.com/dmitrijs2005/fileboard/internal/dbx"
	"github.com/dmitrijs2005/fileboard/internal/server/migrations"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, mustSub(t, migrations.SQLiteDir))
	require.NoError(t, err)
	_, err = provider.Up(context.Background())
	require.NoError(t, err)
	return db
}

func mustSub(t *testing.T, dir string) fs.FS {
	t.Helper()
	sub, err := fs.Sub(migrations.Migrations, dir)
	require.NoError(t, err)
	return sub
}

func TestSQLite_GetMissing(t *testing.T) {
	repo := NewSQLiteRepository(setupSQLite(t))

	_, err := repo.Get(context.Background(), common.ServerURLSettingKey)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSQLite_SetOverwritesAndKeepsHistory(t *testing.T) {
	db := setupSQLite(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, common.ServerURLSettingKey, "http://a"))
	require.NoError(t, repo.Set(ctx, common.ServerURLSettingKey, "http://b"))
	require.NoError(t, repo.Set(ctx, "other", "x"))

	got, err := repo.Get(ctx, common.ServerURLSettingKey)
	require.NoError(t, err)
	assert.Equal(t, "http://b", got.Value)
	assert.WithinDuration(t, time.Now(), got.UpdatedAt, time.Minute)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM settings`).Scan(&n))
	assert.Equal(t, 2, n)

	hist, err := repo.History(ctx, common.ServerURLSettingKey, 10)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, "http://b", hist[0].Value)
	assert.Equal(t, "http://a", hist[1].Value)

	hist, err = repo.History(ctx, common.ServerURLSettingKey, 1)
	require.NoError(t, err)
	require.Len(t, hist, 1)
}

func TestSQLite_SetInsideRolledBackTx(t *testing.T) {
	db := setupSQLite(t)
	ctx := context.Background()

	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := NewSQLiteRepository(tx).Set(ctx, "k", "v"); err != nil {
			return err
		}
		return common.ErrorInternal
	})
	require.ErrorIs(t, err, common.ErrorInternal)

	repo := NewSQLiteRepository(db)
	_, err = repo.Get(ctx, "k")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	hist, err := repo.History(ctx, "k", 5)
	require.NoError(t, err)
	assert.Empty(t, hist)
}
