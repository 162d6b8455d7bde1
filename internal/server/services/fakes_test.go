package services

import (
	"context"
	"database/sql"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/fileboard/internal/common"
	"github.com/dmitrijs2005/fileboard/internal/dbx"
	"github.com/dmitrijs2005/fileboard/internal/server/models"
	"github.com/dmitrijs2005/fileboard/internal/server/repositories/settings"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

type fakeSettingsRepo struct {
	mu      sync.Mutex
	values  map[string]string
	getErr  error
	setErr  error
	gets    atomic.Int32
	history []models.Setting
	block   chan struct{}
}

func (f *fakeSettingsRepo) Get(ctx context.Context, key string) (*models.Setting, error) {
	f.gets.Add(1)
	f.mu.Lock()
	v, ok := f.values[key]
	f.mu.Unlock()
	if f.block != nil {
		<-f.block
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.getErr != nil {
		return nil, f.getErr
	}
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &models.Setting{Key: key, Value: v}, nil
}

func (f *fakeSettingsRepo) Set(ctx context.Context, key, value string) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.values == nil {
		f.values = map[string]string{}
	}
	f.values[key] = value
	f.history = append([]models.Setting{{Key: key, Value: value}}, f.history...)
	return nil
}

func (f *fakeSettingsRepo) History(ctx context.Context, key string, limit int) ([]models.Setting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if limit > len(f.history) {
		limit = len(f.history)
	}
	return f.history[:limit], nil
}

type fakeRepoManager struct {
	s *fakeSettingsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Settings(db dbx.DBTX) settings.Repository     { return m.s }
func (m *fakeRepoManager) Driver() string                               { return "fake" }

type staticURL struct {
	url string
	err error
}

func (s staticURL) ServerURL(context.Context) (string, error) { return s.url, s.err }

type fakeRemote struct {
	files      []models.RawFileEntry
	listErr    error
	archive    map[string]bool
	archiveErr error
	deleted    []string
	deleteMsg  string
	deleteErr  error
	listCalls  int
}

func (f *fakeRemote) ListFiles(ctx context.Context, base string) ([]models.RawFileEntry, error) {
	f.listCalls++
	return f.files, f.listErr
}

func (f *fakeRemote) ArchiveExists(ctx context.Context, base, id string) (bool, error) {
	if f.archiveErr != nil {
		return false, f.archiveErr
	}
	return f.archive[id], nil
}

func (f *fakeRemote) DeleteByPattern(ctx context.Context, base, pattern string) (string, error) {
	if f.deleteErr != nil {
		return "", f.deleteErr
	}
	f.deleted = append(f.deleted, pattern)
	return f.deleteMsg, nil
}

type fakeStatus struct {
	calls []bool
}

func (f *fakeStatus) SetRemoteServing(serving bool) { f.calls = append(f.calls, serving) }

func names(ns ...string) []models.RawFileEntry {
	out := make([]models.RawFileEntry, len(ns))
	for i, n := range ns {
		out[i] = models.RawFileEntry{Name: n}
	}
	return out
}
