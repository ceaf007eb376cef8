// Package redis persists the lockdown end instant and caches resolver answers.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Store implements lockdown.Store and resolver.Cache on one redis client.
type Store struct {
	client *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// Ping checks the connection. Used by /readyz and /infra.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}
