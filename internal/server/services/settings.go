package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/fileboard/internal/common"
	"github.com/dmitrijs2005/fileboard/internal/dbx"
	"github.com/dmitrijs2005/fileboard/internal/logging"
	"github.com/dmitrijs2005/fileboard/internal/server/config"
	"github.com/dmitrijs2005/fileboard/internal/server/models"
	"github.com/dmitrijs2005/fileboard/internal/server/repositories/repomanager"
	"golang.org/x/sync/singleflight"
)

const (
	settingsCacheTTL    = 30 * time.Second
	settingsReadTimeout = 5 * time.Second
)

// SettingsService owns the remote server URL. Reads are served from a short
// cache; concurrent misses share one repository read.
type SettingsService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	seedURL     string
	log         logging.Logger
	now         func() time.Time

	group    singleflight.Group
	mu       sync.RWMutex
	cached   string
	cachedAt time.Time
	// gen counts writes; a read only fills the cache if no write landed
	// while it was in flight.
	gen uint64
}

func NewSettingsService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, log logging.Logger) *SettingsService {
	seed, err := NormalizeServerURL(cfg.SeedServerURL)
	if err != nil {
		seed = ""
	}
	return &SettingsService{
		db:          db,
		repomanager: m,
		seedURL:     seed,
		log:         log.With("module", "settings"),
		now:         time.Now,
	}
}

// NormalizeServerURL trims raw and its trailing slashes and requires an
// absolute http(s) URL.
func NormalizeServerURL(raw string) (string, error) {
	v := strings.TrimRight(strings.TrimSpace(raw), "/")
	if v == "" {
		return "", fmt.Errorf("%w: server URL is empty", common.ErrorValidation)
	}
	u, err := url.Parse(v)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: server URL must be an absolute http(s) URL", common.ErrorValidation)
	}
	return v, nil
}

func (s *SettingsService) fromCache() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cached == "" || s.now().Sub(s.cachedAt) > settingsCacheTTL {
		return "", false
	}
	return s.cached, true
}

func (s *SettingsService) generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}

// storeRead caches a value read from the store unless a write happened
// after gen was taken.
func (s *SettingsService) storeRead(v string, gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return
	}
	s.cached, s.cachedAt = v, s.now()
}

func (s *SettingsService) storeWrite(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.cached, s.cachedAt = v, s.now()
}

// ServerURL returns the configured remote server URL, falling back to the
// seed from the config file. common.ErrServerURLNotSet when neither exists.
func (s *SettingsService) ServerURL(ctx context.Context) (string, error) {
	if v, ok := s.fromCache(); ok {
		return v, nil
	}

	// The read is shared by every waiting caller, so it must not die with
	// the first caller's request.
	readCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), settingsReadTimeout)
	defer cancel()

	v, err, _ := s.group.Do(common.ServerURLSettingKey, func() (interface{}, error) {
		gen := s.generation()
		setting, err := s.repomanager.Settings(s.db).Get(readCtx, common.ServerURLSettingKey)
		switch {
		case errors.Is(err, common.ErrorNotFound):
			if s.seedURL == "" {
				return "", common.ErrServerURLNotSet
			}
			s.storeRead(s.seedURL, gen)
			return s.seedURL, nil
		case err != nil:
			return "", err
		}
		s.storeRead(setting.Value, gen)
		return setting.Value, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// SetServerURL validates, saves and caches a new server URL, returning the
// normalized value.
func (s *SettingsService) SetServerURL(ctx context.Context, raw string) (string, error) {
	v, err := NormalizeServerURL(raw)
	if err != nil {
		return "", err
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.Settings(tx).Set(ctx, common.ServerURLSettingKey, v)
	})
	if err != nil {
		return "", err
	}

	s.storeWrite(v)
	s.group.Forget(common.ServerURLSettingKey)
	s.log.Info(ctx, "server URL updated", "server_url", v)
	return v, nil
}

// History returns previously saved server URLs, newest first.
func (s *SettingsService) History(ctx context.Context, limit int) ([]models.Setting, error) {
	return s.repomanager.Settings(s.db).History(ctx, common.ServerURLSettingKey, limit)
}

// Ready reports whether the settings store answers.
func (s *SettingsService) Ready(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
