package hgrac

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/synaptica-ai/trialops/pkg/common/logger"
	"github.com/synaptica-ai/trialops/pkg/observability/metrics"
)

var ErrCacheMiss = errors.New("cache miss")

// Cache is the subset of a key/value store the cached source needs.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	return b, err
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

// CachedSource serves repeated lookups of the same study set from a cache.
// Cache failures fall through to the wrapped source.
type CachedSource struct {
	next  Source
	cache Cache
	ttl   time.Duration
}

func NewCachedSource(next Source, cache Cache, ttl time.Duration) *CachedSource {
	return &CachedSource{next: next, cache: cache, ttl: ttl}
}

func (c *CachedSource) Fetch(ctx context.Context, studyNumbers []string) ([]Record, error) {
	key := cacheKey(studyNumbers)

	if b, err := c.cache.Get(ctx, key); err == nil {
		var records []Record
		if err := json.Unmarshal(b, &records); err == nil {
			metrics.ObserveHGRACLookup("hit")
			return records, nil
		}
		logger.Log.WithField("key", key).Warn("Discarding unreadable HGRAC cache entry")
	} else if !errors.Is(err, ErrCacheMiss) {
		logger.Log.WithError(err).Warn("HGRAC cache read failed")
	}
	metrics.ObserveHGRACLookup("miss")

	records, err := c.next.Fetch(ctx, studyNumbers)
	if err != nil {
		return nil, err
	}

	b, err := json.Marshal(records)
	if err != nil {
		return records, nil
	}
	if err := c.cache.Set(ctx, key, b, c.ttl); err != nil {
		logger.Log.WithError(err).Warn("HGRAC cache write failed")
	}
	return records, nil
}

// cacheKey is independent of the order of studyNumbers.
func cacheKey(studyNumbers []string) string {
	sorted := append([]string(nil), studyNumbers...)
	sort.Strings(sorted)
	sum := sha256.Sum256([]byte(strings.Join(sorted, "\x00")))
	return "hgrac:" + hex.EncodeToString(sum[:])
}
