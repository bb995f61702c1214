package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"eksporyuk-platform/internal/domain/model"
	"eksporyuk-platform/internal/domain/ports/repository"
	"eksporyuk-platform/internal/infra/metrics"
	red "eksporyuk-platform/internal/infra/redis"
)

var _ repository.FeatureRepository = (*featureRepoCacheDecorator)(nil)

// featureRepoCacheDecorator caches flag lookups with a short TTL. A flag
// flip becomes visible everywhere within the TTL even if the Del on write
// never reaches a replica, so the cache can only delay a change, not mask
// it forever.
type featureRepoCacheDecorator struct {
	inner repository.FeatureRepository
	cache red.RedisClient
	ttl   time.Duration
}

func NewFeatureRepoCacheDecorator(inner repository.FeatureRepository, cache red.RedisClient, ttl time.Duration) repository.FeatureRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &featureRepoCacheDecorator{inner: inner, cache: cache, ttl: ttl}
}

func featureKey(key string) string { return fmt.Sprintf("feature:%s", key) }

func (d *featureRepoCacheDecorator) FindByKey(ctx context.Context, tx repository.Tx, key string) (*model.PlatformFeature, error) {
	if tx != nil {
		return d.inner.FindByKey(ctx, tx, key)
	}
	if val, err := d.cache.Get(ctx, featureKey(key)); err == nil {
		metrics.IncCacheRequest("feature", "hit")
		var f model.PlatformFeature
		if json.Unmarshal([]byte(val), &f) == nil {
			return &f, nil
		}
	}

	metrics.IncCacheRequest("feature", "miss")
	f, err := d.inner.FindByKey(ctx, tx, key)
	if err != nil {
		return nil, err
	}
	if f != nil {
		bytes, _ := json.Marshal(f)
		d.cache.Set(ctx, featureKey(key), bytes, d.ttl)
	}
	return f, nil
}

func (d *featureRepoCacheDecorator) Save(ctx context.Context, tx repository.Tx, f *model.PlatformFeature) error {
	d.cache.Del(ctx, featureKey(f.Key))
	return d.inner.Save(ctx, tx, f)
}

func (d *featureRepoCacheDecorator) ListAll(ctx context.Context, tx repository.Tx) ([]*model.PlatformFeature, error) {
	return d.inner.ListAll(ctx, tx)
}
