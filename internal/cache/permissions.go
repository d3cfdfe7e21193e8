package cache

import (
	"context"
	"time"

	"github.com/Kyz7/backoffice/internal/metrics"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	permissionPrefix  = "perm:admin:"
	DefaultPermission = 10 * time.Minute
)

// PermissionCache keeps one redis hash per admin mapping section name to
// "1" or "0". A nil cache is valid and always misses.
type PermissionCache struct {
	rdb *redis.Client
	ttl time.Duration
}

var Permissions *PermissionCache

func Connect(url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}

func NewPermissionCache(rdb *redis.Client, ttl time.Duration) *PermissionCache {
	if rdb == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = DefaultPermission
	}
	return &PermissionCache{rdb: rdb, ttl: ttl}
}

func key(adminID uuid.UUID) string {
	return permissionPrefix + adminID.String()
}

// Get returns the cached decision and whether one was cached.
func (p *PermissionCache) Get(ctx context.Context, adminID uuid.UUID, section string) (allowed bool, found bool) {
	if p == nil {
		return false, false
	}
	v, err := p.rdb.HGet(ctx, key(adminID), section).Result()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Msg("permission cache read failed")
		}
		metrics.RecordCacheLookup(false)
		return false, false
	}
	metrics.RecordCacheLookup(true)
	return v == "1", true
}

func (p *PermissionCache) Set(ctx context.Context, adminID uuid.UUID, section string, allowed bool) {
	if p == nil {
		return
	}
	v := "0"
	if allowed {
		v = "1"
	}
	k := key(adminID)
	pipe := p.rdb.TxPipeline()
	pipe.HSet(ctx, k, section, v)
	pipe.Expire(ctx, k, p.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Warn().Err(err).Msg("permission cache write failed")
	}
}

// Invalidate drops every cached decision for the admin.
func (p *PermissionCache) Invalidate(ctx context.Context, adminID uuid.UUID) {
	if p == nil {
		return
	}
	if err := p.rdb.Del(ctx, key(adminID)).Err(); err != nil {
		log.Warn().Err(err).Str("admin_id", adminID.String()).Msg("permission cache invalidation failed")
	}
}
