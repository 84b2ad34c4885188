package database

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/synaptica-ai/trialops/pkg/common/config"
	"github.com/synaptica-ai/trialops/pkg/common/logger"
)

// cacheTimeout bounds every cache round trip. A slow cache is treated as a
// miss and the HGRAC database is queried directly.
const cacheTimeout = 500 * time.Millisecond

var (
	cacheClient *redis.Client
	cacheOnce   sync.Once
)

// GetHGRACCache returns the shared redis client that caches HGRAC lookups.
// The client is returned even when the first ping fails.
func GetHGRACCache(cfg *config.Config) *redis.Client {
	cacheOnce.Do(func() {
		opts := cacheOptions(cfg)
		cacheClient = redis.NewClient(opts)

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		entry := logger.Log.WithField("addr", opts.Addr)
		if err := cacheClient.Ping(ctx).Err(); err != nil {
			entry.WithError(err).Warn("HGRAC cache unreachable, lookups will go to the database")
			return
		}
		entry.Info("Connected to HGRAC cache")
	})
	return cacheClient
}

func cacheOptions(cfg *config.Config) *redis.Options {
	return &redis.Options{
		Addr:         net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  cacheTimeout,
		ReadTimeout:  cacheTimeout,
		WriteTimeout: cacheTimeout,
		MaxRetries:   1,
	}
}

func CloseHGRACCache() error {
	if cacheClient == nil {
		return nil
	}
	return cacheClient.Close()
}
