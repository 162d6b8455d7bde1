package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fileboard/internal/common"
	"github.com/dmitrijs2005/fileboard/internal/dbx"
	"github.com/dmitrijs2005/fileboard/internal/server/models"
)

var now = func() time.Time { return time.Now().UTC() }

type queries struct {
	get     string
	upsert  string
	history string
	list    string
}

type sqlRepository struct {
	db dbx.DBTX
	q  queries
}

func (r *sqlRepository) Get(ctx context.Context, key string) (*models.Setting, error) {
	s := &models.Setting{}
	err := r.db.QueryRowContext(ctx, r.q.get, key).Scan(&s.Key, &s.Value, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *sqlRepository) Set(ctx context.Context, key, value string) error {
	at := now()
	if _, err := r.db.ExecContext(ctx, r.q.upsert, key, value, at); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, r.q.history, key, value, at); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *sqlRepository) History(ctx context.Context, key string, limit int) ([]models.Setting, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.db.QueryContext(ctx, r.q.list, key, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := make([]models.Setting, 0, limit)
	for rows.Next() {
		var s models.Setting
		if err := rows.Scan(&s.Key, &s.Value, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}
