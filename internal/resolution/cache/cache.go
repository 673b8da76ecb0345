package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/vietddude/oldestdate/internal/core/domain"
	"github.com/vietddude/oldestdate/internal/resolution/metrics"
	"github.com/vietddude/oldestdate/internal/resolution/retry"
)

// Fetcher retrieves a recording with its artists, releases and work
// relations from the remote API.
type Fetcher interface {
	GetRecordingByID(ctx context.Context, id string) (*domain.Recording, error)
}

// Store is an optional shared tier that outlives a single batch, e.g. Redis.
// It is never evicted explicitly; entries expire on their own.
type Store interface {
	Get(ctx context.Context, id string) (*domain.Recording, bool, error)
	Put(ctx context.Context, rec *domain.Recording) error
}

// Config holds cache settings.
type Config struct {
	Size  int           // max entries in the local tier
	TTL   time.Duration // local entry lifetime, 0 = no expiry
	Retry retry.Config
}

// DefaultConfig provides sensible defaults.
var DefaultConfig = Config{
	Size:  1024,
	TTL:   time.Hour,
	Retry: retry.DefaultConfig,
}

// RecordingCache memoizes fetched recordings for the duration of a batch.
// Aggregators evict entries as soon as a recording has served its purpose,
// so a work with hundreds of recordings does not pile up in memory.
type RecordingCache struct {
	fetcher Fetcher
	shared  Store
	local   *expirable.LRU[string, *domain.Recording]
	retry   retry.Config
}

// New creates a recording cache. shared may be nil.
func New(fetcher Fetcher, shared Store, cfg Config) *RecordingCache {
	if cfg.Size <= 0 {
		cfg.Size = DefaultConfig.Size
	}
	return &RecordingCache{
		fetcher: fetcher,
		shared:  shared,
		local:   expirable.NewLRU[string, *domain.Recording](cfg.Size, nil, cfg.TTL),
		retry:   cfg.Retry,
	}
}

// Get returns the cached recording or fetches it, retrying transient
// network failures.
func (c *RecordingCache) Get(ctx context.Context, id string) (*domain.Recording, error) {
	if rec, ok := c.local.Get(id); ok {
		metrics.CacheLookups.WithLabelValues("local", "hit").Inc()
		return rec, nil
	}
	metrics.CacheLookups.WithLabelValues("local", "miss").Inc()

	if c.shared != nil {
		rec, ok, err := c.shared.Get(ctx, id)
		switch {
		case err != nil:
			slog.Warn("Shared cache lookup failed", "recording", id, "error", err)
		case ok:
			metrics.CacheLookups.WithLabelValues("shared", "hit").Inc()
			c.local.Add(id, rec)
			return rec, nil
		default:
			metrics.CacheLookups.WithLabelValues("shared", "miss").Inc()
		}
	}

	rec, err := retry.Do(ctx, c.retry,
		func(ctx context.Context) retry.Result[*domain.Recording] {
			rec, err := c.fetcher.GetRecordingByID(ctx, id)
			return retry.FromError(rec, err)
		},
		func(attempt int, err error) {
			metrics.FetchRetries.WithLabelValues("recording").Inc()
			slog.Warn("Retrying recording lookup", "recording", id, "attempt", attempt+1, "error", err)
		},
	)
	if err != nil {
		return nil, err
	}

	c.local.Add(id, rec)
	if c.shared != nil {
		if err := c.shared.Put(ctx, rec); err != nil {
			slog.Warn("Shared cache write failed", "recording", id, "error", err)
		}
	}
	return rec, nil
}

// Put seeds the local tier with rec.
func (c *RecordingCache) Put(rec *domain.Recording) {
	c.local.Add(rec.ID, rec)
}

// Contains reports whether id is held by the local tier.
func (c *RecordingCache) Contains(id string) bool {
	return c.local.Contains(id)
}

// Evict drops id from the local tier. It is a no-op if absent.
func (c *RecordingCache) Evict(id string) {
	c.local.Remove(id)
}

// Len returns the number of entries in the local tier.
func (c *RecordingCache) Len() int {
	return c.local.Len()
}
