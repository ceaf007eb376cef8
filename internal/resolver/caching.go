package resolver

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/blockpanel/internal/logger"
	"github.com/MrSnakeDoc/blockpanel/internal/metrics"
)

// Cache is the resolution cache, implemented by the redis store.
type Cache interface {
	GetCachedResolution(ctx context.Context, name string) (string, error)
	CacheResolution(ctx context.Context, name, domain string, ttl time.Duration) error
}

// CachingResolver serves repeated names from Cache. Cache failures are
// logged and bypassed. Fallback answers are never cached.
type CachingResolver struct {
	next     Resolver
	cache    Cache
	ttl      time.Duration
	fallback string
	log      logger.Logger
	metrics  *metrics.Metrics
}

func NewCaching(next Resolver, cache Cache, ttl time.Duration, fallback string, log logger.Logger, m *metrics.Metrics) *CachingResolver {
	if fallback == "" {
		fallback = DefaultFallback
	}
	return &CachingResolver{
		next:     next,
		cache:    cache,
		ttl:      ttl,
		fallback: fallback,
		log:      log,
		metrics:  m,
	}
}

func (c *CachingResolver) Resolve(ctx context.Context, name string) (string, error) {
	cached, err := c.cache.GetCachedResolution(ctx, name)
	switch {
	case err != nil:
		c.log.Warn("resolution cache read failed", logger.String("name", name), logger.Error(err))
	case cached != "":
		c.metrics.Resolved(metrics.OutcomeCacheHit)
		return cached, nil
	}

	host, err := c.next.Resolve(ctx, name)
	if err != nil {
		return "", err
	}

	if host != c.fallback {
		if err := c.cache.CacheResolution(ctx, name, host, c.ttl); err != nil {
			c.log.Warn("resolution cache write failed", logger.String("name", name), logger.Error(err))
		}
	}
	return host, nil
}
