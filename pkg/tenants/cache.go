// pkg/tenants/cache.go
package tenants

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// cachedStore wraps a Store with a read-through redis cache for shop→tenant
// bindings. Only positive lookups are cached so a freshly linked shop is
// visible immediately; settings are never cached.
type cachedStore struct {
	Store
	rdb *redis.Client
	ttl time.Duration
	log *zap.SugaredLogger
}

func NewCachedStore(inner Store, rdb *redis.Client, ttl time.Duration, log *zap.SugaredLogger) Store {
	return &cachedStore{Store: inner, rdb: rdb, ttl: ttl, log: log}
}

func bindingKey(shopDomain string) string { return "shopbridge:link:" + shopDomain }

func (c *cachedStore) ResolveTenant(ctx context.Context, shopDomain string) (string, error) {
	if tid, err := c.rdb.Get(ctx, bindingKey(shopDomain)).Result(); err == nil && tid != "" {
		return tid, nil
	} else if err != nil && err != redis.Nil {
		// Cache trouble is not a resolution failure; fall through to the store.
		c.log.Warnw("binding cache read", "err", err)
	}
	tid, err := c.Store.ResolveTenant(ctx, shopDomain)
	if err != nil || tid == "" {
		return tid, err
	}
	if err := c.rdb.Set(ctx, bindingKey(shopDomain), tid, c.ttl).Err(); err != nil {
		c.log.Warnw("binding cache write", "err", err)
	}
	return tid, nil
}

func (c *cachedStore) DeleteBinding(ctx context.Context, shopDomain string) error {
	if err := c.rdb.Del(ctx, bindingKey(shopDomain)).Err(); err != nil {
		c.log.Warnw("binding cache invalidate", "err", err)
	}
	return c.Store.DeleteBinding(ctx, shopDomain)
}
