package settings

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/fileboard/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, time.January, 2, 3, 4, 5, 0, time.UTC)

func freezeNow(t *testing.T) {
	t.Helper()
	orig := now
	now = func() time.Time { return fixedNow }
	t.Cleanup(func() { now = orig })
}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock, db
}

const (
	qGet     = `(?s)^SELECT\s+key,\s*value,\s*updated_at\s+FROM\s+settings\s+WHERE\s+key\s*=\s*\$1\s*$`
	qUpsert  = `(?s)^INSERT\s+INTO\s+settings\s*\(key,\s*value,\s*updated_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*ON\s+CONFLICT\s*\(key\)\s*DO\s+UPDATE.*$`
	qHistIns = `(?s)^INSERT\s+INTO\s+settings_history\s*\(key,\s*value,\s*changed_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*$`
	qHistSel = `(?s)^SELECT\s+key,\s*value,\s*changed_at\s+FROM\s+settings_history\s+WHERE\s+key\s*=\s*\$1\s+ORDER\s+BY\s+id\s+DESC\s+LIMIT\s+\$2\s*$`
)

func TestPostgresGet_Found(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(qGet).
		WithArgs(common.ServerURLSettingKey).
		WillReturnRows(sqlmock.NewRows([]string{"key", "value", "updated_at"}).
			AddRow(common.ServerURLSettingKey, "http://files", fixedNow))

	got, err := repo.Get(context.Background(), common.ServerURLSettingKey)
	require.NoError(t, err)
	assert.Equal(t, "http://files", got.Value)
	assert.Equal(t, fixedNow, got.UpdatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGet_NotFound(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(qGet).WithArgs("missing").WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestPostgresGet_DBError(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(qGet).WithArgs("k").WillReturnError(errors.New("db down"))

	_, err := repo.Get(context.Background(), "k")
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestPostgresSet_UpsertsAndAppendsHistory(t *testing.T) {
	freezeNow(t)
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectExec(qUpsert).
		WithArgs("server_url", "http://files", fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(qHistIns).
		WithArgs("server_url", "http://files", fixedNow).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Set(context.Background(), "server_url", "http://files"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSet_Errors(t *testing.T) {
	t.Run("upsert", func(t *testing.T) {
		repo, mock, _ := newRepoWithMock(t)
		mock.ExpectExec(qUpsert).WillReturnError(errors.New("constraint"))

		err := repo.Set(context.Background(), "k", "v")
		assert.ErrorContains(t, err, "db error: constraint")
	})

	t.Run("history", func(t *testing.T) {
		repo, mock, _ := newRepoWithMock(t)
		mock.ExpectExec(qUpsert).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(qHistIns).WillReturnError(errors.New("disk full"))

		err := repo.Set(context.Background(), "k", "v")
		assert.ErrorContains(t, err, "db error: disk full")
	})
}

func TestPostgresHistory(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	later := fixedNow.Add(time.Hour)
	mock.ExpectQuery(qHistSel).
		WithArgs("server_url", 2).
		WillReturnRows(sqlmock.NewRows([]string{"key", "value", "changed_at"}).
			AddRow("server_url", "http://b", later).
			AddRow("server_url", "http://a", fixedNow))

	got, err := repo.History(context.Background(), "server_url", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "http://b", got[0].Value)
	assert.Equal(t, later, got[0].UpdatedAt)
}

func TestPostgresHistory_DefaultLimitAndErrors(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(qHistSel).WithArgs("k", 10).WillReturnError(errors.New("boom"))
	_, err := repo.History(context.Background(), "k", 0)
	assert.ErrorContains(t, err, "db error: boom")

	mock.ExpectQuery(qHistSel).WithArgs("k", 10).
		WillReturnRows(sqlmock.NewRows([]string{"key", "value", "changed_at"}).
			AddRow("k", "v", "not-a-time"))
	_, err = repo.History(context.Background(), "k", -1)
	assert.ErrorContains(t, err, "db error")
}
