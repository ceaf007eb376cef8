package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/blockpanel/internal/lockdown"
)

// ErrInvalidTimestamp is returned when the stored lockdown value is not an
// integer millisecond timestamp.
var ErrInvalidTimestamp = lockdown.ErrInvalidTimestamp

// LoadLockdown returns the stored lockdown end. ok is false when no lockdown
// is stored.
func (s *Store) LoadLockdown(ctx context.Context) (end time.Time, ok bool, err error) {
	raw, err := s.client.Get(ctx, LockdownKey()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("failed to get lockdown: %w", err)
	}

	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%w: %q", ErrInvalidTimestamp, raw)
	}

	return time.UnixMilli(ms), true, nil
}

// SaveLockdown stores the lockdown end as a string-encoded epoch-ms integer.
func (s *Store) SaveLockdown(ctx context.Context, end time.Time) error {
	value := strconv.FormatInt(end.UnixMilli(), 10)
	if err := s.client.Set(ctx, LockdownKey(), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to save lockdown: %w", err)
	}
	return nil
}

// ClearLockdown removes the stored lockdown.
func (s *Store) ClearLockdown(ctx context.Context) error {
	if err := s.client.Del(ctx, LockdownKey()).Err(); err != nil {
		return fmt.Errorf("failed to clear lockdown: %w", err)
	}
	return nil
}
