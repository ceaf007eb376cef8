package redis

import "strings"

const (
	// KeyLockdownEnd holds the lockdown end instant as epoch milliseconds.
	KeyLockdownEnd = "rkn_lockdown_end"
	// KeyPrefixCache is the prefix for cached name -> domain resolutions
	KeyPrefixCache = "blockpanel:resolve:"
)

// LockdownKey returns the Redis key for the lockdown end timestamp
func LockdownKey() string {
	return KeyLockdownEnd
}

// CacheKey returns the Redis key for a cached resolution. Names are
// lower-cased so "Telegram" and "telegram" share an entry.
func CacheKey(name string) string {
	return KeyPrefixCache + strings.ToLower(strings.TrimSpace(name))
}
