package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"eksporyuk-platform/internal/domain/model"
	"eksporyuk-platform/internal/domain/ports/repository"
	"eksporyuk-platform/internal/infra/metrics"
	red "eksporyuk-platform/internal/infra/redis"
)

var _ repository.MembershipRepository = (*membershipRepoCacheDecorator)(nil)

// membershipRepoCacheDecorator caches plan reads. Plans change rarely and
// are read on every checkout and access decision, so even a short TTL
// removes most of the load.
type membershipRepoCacheDecorator struct {
	inner repository.MembershipRepository
	cache red.RedisClient
	ttl   time.Duration
}

func NewMembershipRepoCacheDecorator(inner repository.MembershipRepository, cache red.RedisClient, ttl time.Duration) repository.MembershipRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &membershipRepoCacheDecorator{inner: inner, cache: cache, ttl: ttl}
}

func membershipKey(id string) string { return fmt.Sprintf("membership:%s", id) }

const membershipListKey = "memberships:active"

func (d *membershipRepoCacheDecorator) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Membership, error) {
	// Transactional reads bypass the cache to stay consistent with the
	// surrounding writes.
	if tx != nil {
		return d.inner.FindByID(ctx, tx, id)
	}
	key := membershipKey(id)
	if val, err := d.cache.Get(ctx, key); err == nil {
		metrics.IncCacheRequest("membership", "hit")
		var m model.Membership
		if json.Unmarshal([]byte(val), &m) == nil {
			return &m, nil
		}
	}

	metrics.IncCacheRequest("membership", "miss")
	m, err := d.inner.FindByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if m != nil {
		bytes, _ := json.Marshal(m)
		d.cache.Set(ctx, key, bytes, d.ttl)
	}
	return m, nil
}

func (d *membershipRepoCacheDecorator) FindBySlug(ctx context.Context, tx repository.Tx, slug string) (*model.Membership, error) {
	return d.inner.FindBySlug(ctx, tx, slug)
}

func (d *membershipRepoCacheDecorator) ListActive(ctx context.Context, tx repository.Tx) ([]*model.Membership, error) {
	if tx != nil {
		return d.inner.ListActive(ctx, tx)
	}
	if val, err := d.cache.Get(ctx, membershipListKey); err == nil {
		metrics.IncCacheRequest("membership_list", "hit")
		var ms []*model.Membership
		if json.Unmarshal([]byte(val), &ms) == nil {
			return ms, nil
		}
	}

	metrics.IncCacheRequest("membership_list", "miss")
	ms, err := d.inner.ListActive(ctx, tx)
	if err != nil {
		return nil, err
	}
	if len(ms) > 0 {
		bytes, _ := json.Marshal(ms)
		d.cache.Set(ctx, membershipListKey, bytes, d.ttl)
	}
	return ms, nil
}

func (d *membershipRepoCacheDecorator) Save(ctx context.Context, tx repository.Tx, m *model.Membership) error {
	d.cache.Del(ctx, membershipKey(m.ID), membershipListKey)
	return d.inner.Save(ctx, tx, m)
}

func (d *membershipRepoCacheDecorator) UpdateCommission(ctx context.Context, tx repository.Tx, id string, typ model.CommissionType, rate decimal.Decimal) error {
	d.cache.Del(ctx, membershipKey(id), membershipListKey)
	return d.inner.UpdateCommission(ctx, tx, id, typ, rate)
}

func (d *membershipRepoCacheDecorator) Delete(ctx context.Context, tx repository.Tx, id string) error {
	d.cache.Del(ctx, membershipKey(id), membershipListKey)
	return d.inner.Delete(ctx, tx, id)
}
