package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// flushBatch bounds how many keys one DEL removes during FlushCache.
const flushBatch = 100

// CacheResolution stores the domain resolved for name, expiring after ttl.
func (s *Store) CacheResolution(ctx context.Context, name, domain string, ttl time.Duration) error {
	if err := s.client.Set(ctx, CacheKey(name), domain, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache resolution for %q: %w", name, err)
	}
	return nil
}

// GetCachedResolution returns the cached domain for name. A miss returns ""
// and no error.
func (s *Store) GetCachedResolution(ctx context.Context, name string) (string, error) {
	domain, err := s.client.Get(ctx, CacheKey(name)).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return "", nil
	case err != nil:
		return "", fmt.Errorf("failed to get cached resolution for %q: %w", name, err)
	}
	return domain, nil
}

// InvalidateCache drops the cached resolution for name.
func (s *Store) InvalidateCache(ctx context.Context, name string) error {
	if err := s.client.Del(ctx, CacheKey(name)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate resolution for %q: %w", name, err)
	}
	return nil
}

// FlushCache drops every cached resolution. The lockdown key is untouched.
func (s *Store) FlushCache(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, KeyPrefixCache+"*", flushBatch).Iterator()
	batch := make([]string, 0, flushBatch)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := s.client.Del(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("failed to delete cached resolutions: %w", err)
		}
		batch = batch[:0]
		return nil
	}

	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == flushBatch {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan resolver cache: %w", err)
	}
	return flush()
}
