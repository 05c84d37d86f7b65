// Package cache keeps the content-type and category lookup lists used by
// the editors, so they are fetched once rather than on every form.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/config"
	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/metrics"
	"github.com/therealutkarshpriyadarshi/catalogadmin/pkg/models"
)

// Kind names a cached lookup list
type Kind string

const (
	KindTypes      Kind = "types"
	KindCategories Kind = "categories"
)

// Lookup stores lookup lists. A miss is reported with ok=false and a nil error.
type Lookup interface {
	Types(ctx context.Context) ([]models.ContentType, bool, error)
	SetTypes(ctx context.Context, types []models.ContentType) error
	Categories(ctx context.Context) ([]models.Category, bool, error)
	SetCategories(ctx context.Context, categories []models.Category) error
	Invalidate(ctx context.Context, kinds ...Kind) error
	Close() error
}

// New builds the backend selected in cfg
func New(cfg config.CacheConfig) (Lookup, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemory(cfg.TTL), nil
	case "redis":
		return NewCache(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB, cfg.TTL)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

func recordAccess(kind Kind, hit bool) {
	metrics.RecordCacheAccess(string(kind), hit)
}

// expired reports whether an entry stored at storedAt has outlived ttl.
// A non-positive ttl never expires.
func expired(storedAt time.Time, ttl time.Duration) bool {
	return ttl > 0 && time.Since(storedAt) > ttl
}
