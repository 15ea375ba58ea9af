package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cfb-pickem/logging"
	"cfb-pickem/models"

	"github.com/redis/go-redis/v9"
)

// DefaultFeedCacheTTL bounds how stale a cached slate can be
const DefaultFeedCacheTTL = 2 * time.Minute

// feedCacheStore is the slice of Redis the cache needs
type feedCacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

type redisFeedStore struct {
	client *redis.Client
}

func (s *redisFeedStore) Get(ctx context.Context, key string) (string, error) {
	return s.client.Get(ctx, key).Result()
}

func (s *redisFeedStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

// CachedFeed serves recent fetches from Redis so page loads do not hammer the
// upstream scoreboard. Cache failures fall through to the inner feed.
type CachedFeed struct {
	inner  Feed
	store  feedCacheStore
	ttl    time.Duration
	logger *logging.Logger
}

// NewCachedFeed wraps inner with a Redis-backed cache
func NewCachedFeed(inner Feed, client *redis.Client, ttl time.Duration) *CachedFeed {
	return newCachedFeed(inner, &redisFeedStore{client: client}, ttl)
}

func newCachedFeed(inner Feed, store feedCacheStore, ttl time.Duration) *CachedFeed {
	if ttl <= 0 {
		ttl = DefaultFeedCacheTTL
	}
	return &CachedFeed{
		inner:  inner,
		store:  store,
		ttl:    ttl,
		logger: logging.WithPrefix("FeedCache"),
	}
}

func feedCacheKey(r DateRange) string {
	return fmt.Sprintf("pickem:feed:%s", r)
}

func (c *CachedFeed) Fetch(ctx context.Context, r DateRange) ([]models.FeedRecord, error) {
	key := feedCacheKey(r)

	data, err := c.store.Get(ctx, key)
	switch {
	case err == nil:
		var records []models.FeedRecord
		jerr := json.Unmarshal([]byte(data), &records)
		if jerr == nil {
			c.logger.Debugf("Cache hit for %s (%d records)", r, len(records))
			return records, nil
		}
		c.logger.Warnf("Discarding unreadable cache entry %s: %v", key, jerr)
	case errors.Is(err, redis.Nil):
		c.logger.Debugf("Cache miss for %s", r)
	default:
		c.logger.Warnf("Cache read failed for %s: %v", key, err)
	}

	records, err := c.inner.Fetch(ctx, r)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(records)
	if err != nil {
		return records, nil
	}
	if err := c.store.Set(ctx, key, string(payload), c.ttl); err != nil {
		c.logger.Warnf("Cache write failed for %s: %v", key, err)
	}
	return records, nil
}
