package cache

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"github.com/projcalc/estimator/internal/config"
)

const pingTimeout = 3 * time.Second

func options(cfg config.RedisCfg) *redis.Options {
	opts := &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}
	if cfg.EnableTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return opts
}

// New connects to the price cache and fails fast if Redis does not answer.
func New(cfg *config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(options(cfg.Redis))

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Redis.Addr, err)
	}
	return rdb, nil
}

// RegisterOpenTelemetryPlugin adds command spans and pool metrics. Call it
// after the global providers are installed.
func RegisterOpenTelemetryPlugin(rdb *redis.Client) error {
	return errors.Join(
		redisotel.InstrumentTracing(rdb),
		redisotel.InstrumentMetrics(rdb),
	)
}

func Close(rdb *redis.Client) error {
	return rdb.Close()
}
