// Package settings persists key/value dashboard settings together with an
// append-only history of every saved value.
package settings

import (
	"context"

	"github.com/dmitrijs2005/fileboard/internal/server/models"
)

type Repository interface {
	// Get returns common.ErrorNotFound when key was never set.
	Get(ctx context.Context, key string) (*models.Setting, error)
	// Set upserts key and appends the value to its history. Run it inside
	// dbx.WithTx to make both writes atomic.
	Set(ctx context.Context, key, value string) error
	// History lists the most recent values of key, newest first.
	History(ctx context.Context, key string, limit int) ([]models.Setting, error)
}
