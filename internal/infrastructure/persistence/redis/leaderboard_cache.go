package redis

import (
	"context"
	"fmt"
	"time"
)

// leaderboardKeyPrefix namespaces leaderboard cache keys.
const leaderboardKeyPrefix = "leaderboard:top:"

// LeaderboardCache caches serialized leaderboard responses per limit.
// Entries expire by TTL only; the leaderboard tolerates slight staleness, so
// no invalidation is wired to award writes.
type LeaderboardCache struct {
	cache *Cache
	ttl   time.Duration
}

// NewLeaderboardCache creates a leaderboard cache with the given TTL.
func NewLeaderboardCache(cache *Cache, ttl time.Duration) *LeaderboardCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &LeaderboardCache{cache: cache, ttl: ttl}
}

// key builds the cache key for a limit.
func (lc *LeaderboardCache) key(limit int) string {
	return fmt.Sprintf("%s%d", leaderboardKeyPrefix, limit)
}

// Get reads the cached leaderboard payload for a limit into dest.
// Returns false on a miss.
func (lc *LeaderboardCache) Get(ctx context.Context, limit int, dest any) (bool, error) {
	err := lc.cache.GetJSON(ctx, lc.key(limit), dest)
	if IsCacheMiss(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Set stores the leaderboard payload for a limit.
func (lc *LeaderboardCache) Set(ctx context.Context, limit int, value any) error {
	return lc.cache.SetJSON(ctx, lc.key(limit), value, lc.ttl)
}
