package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const suggestionPrefix = "suggestions:"

// SuggestionCache holds short-lived candidate lists per user. It is purely
// advisory: a nil client or a miss falls through to Postgres, and every
// recorded swipe invalidates the swiper's entry.
type SuggestionCache struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewSuggestionCache(client *goredis.Client, ttl time.Duration) *SuggestionCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &SuggestionCache{client: client, ttl: ttl}
}

type CachedCandidate struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (c *SuggestionCache) Get(ctx context.Context, userID int64) ([]CachedCandidate, bool, error) {
	if c == nil || c.client == nil || userID <= 0 {
		return nil, false, nil
	}

	raw, err := c.client.Get(ctx, suggestionKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get cached suggestions: %w", err)
	}

	var items []CachedCandidate
	if err := json.Unmarshal(raw, &items); err != nil {
		// Stale or corrupt payload, treat as a miss.
		return nil, false, nil
	}

	return items, true, nil
}

func (c *SuggestionCache) Set(ctx context.Context, userID int64, items []CachedCandidate) error {
	if c == nil || c.client == nil || userID <= 0 {
		return nil
	}

	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal cached suggestions: %w", err)
	}

	if err := c.client.Set(ctx, suggestionKey(userID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set cached suggestions: %w", err)
	}

	return nil
}

func (c *SuggestionCache) Invalidate(ctx context.Context, userID int64) error {
	if c == nil || c.client == nil || userID <= 0 {
		return nil
	}

	if err := c.client.Del(ctx, suggestionKey(userID)).Err(); err != nil {
		return fmt.Errorf("invalidate cached suggestions: %w", err)
	}

	return nil
}

func suggestionKey(userID int64) string {
	return fmt.Sprintf("%s%d", suggestionPrefix, userID)
}
