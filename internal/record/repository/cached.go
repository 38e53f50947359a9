package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/smallbiznis/runway/internal/cache"
	recorddomain "github.com/smallbiznis/runway/internal/record/domain"
	revenuedomain "github.com/smallbiznis/runway/internal/revenue/domain"
	"go.uber.org/zap"
)

const (
	projectsCacheKey  = "runway:records:projects"
	overridesCacheKey = "runway:records:overrides"
)

type cachedRepository struct {
	next  recorddomain.Repository
	store cache.Store
	ttl   time.Duration
	log   *zap.Logger
}

// NewCached puts a time-boxed snapshot cache in front of the record store.
// Writes invalidate the affected snapshot. A nil store or non-positive ttl
// returns next unchanged.
func NewCached(next recorddomain.Repository, store cache.Store, ttl time.Duration, log *zap.Logger) recorddomain.Repository {
	if store == nil || ttl <= 0 {
		return next
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &cachedRepository{next: next, store: store, ttl: ttl, log: log.Named("record.cache")}
}

func (c *cachedRepository) ListProjects(ctx context.Context) ([]recorddomain.Row, error) {
	var rows []recorddomain.Row
	if c.load(ctx, projectsCacheKey, &rows) {
		return rows, nil
	}
	rows, err := c.next.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	c.save(ctx, projectsCacheKey, rows)
	return rows, nil
}

func (c *cachedRepository) ListOverrides(ctx context.Context) ([]revenuedomain.Override, error) {
	var overrides []revenuedomain.Override
	if c.load(ctx, overridesCacheKey, &overrides) {
		return overrides, nil
	}
	overrides, err := c.next.ListOverrides(ctx)
	if err != nil {
		return nil, err
	}
	c.save(ctx, overridesCacheKey, overrides)
	return overrides, nil
}

func (c *cachedRepository) UpsertOverride(ctx context.Context, recordID string, amount *float64, at time.Time) error {
	if err := c.next.UpsertOverride(ctx, recordID, amount, at); err != nil {
		return err
	}
	c.invalidate(ctx, overridesCacheKey)
	return nil
}

func (c *cachedRepository) SaveProject(ctx context.Context, row recorddomain.Row) error {
	if err := c.next.SaveProject(ctx, row); err != nil {
		return err
	}
	c.invalidate(ctx, projectsCacheKey)
	return nil
}

// load reports a hit only when the cached snapshot decodes cleanly.
// Cache failures degrade to a store read.
func (c *cachedRepository) load(ctx context.Context, key string, dst any) bool {
	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.log.Warn("record cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.log.Warn("record cache entry unreadable", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *cachedRepository) save(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		c.log.Warn("record cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.Set(ctx, key, raw, c.ttl); err != nil {
		c.log.Warn("record cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *cachedRepository) invalidate(ctx context.Context, key string) {
	if err := c.store.Del(ctx, key); err != nil {
		c.log.Warn("record cache invalidation failed", zap.String("key", key), zap.Error(err))
	}
}
