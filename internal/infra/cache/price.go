package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const dailyCostPrefix = "estimator:daily_cost:"

// PriceCache stores a project's team daily cost in Redis, one entry per
// pricing version. Every failure is logged and reported as a miss.
type PriceCache struct {
	rdb *redis.Client
	ttl time.Duration
	log *zap.Logger
}

func NewPriceCache(rdb *redis.Client, ttl time.Duration, log *zap.Logger) *PriceCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &PriceCache{rdb: rdb, ttl: ttl, log: log}
}

func dailyCostKey(projectID uuid.UUID, version int64) string {
	return dailyCostPrefix + projectID.String() + ":" + strconv.FormatInt(version, 10)
}

func (c *PriceCache) GetDailyCost(ctx context.Context, projectID uuid.UUID, version int64) (decimal.Decimal, bool) {
	raw, err := c.rdb.Get(ctx, dailyCostKey(projectID, version)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("read daily cost", zap.String("project_id", projectID.String()), zap.Error(err))
		}
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		c.log.Warn("corrupt daily cost entry", zap.String("project_id", projectID.String()), zap.String("value", raw))
		c.Invalidate(ctx, projectID, version)
		return decimal.Zero, false
	}
	return d, true
}

func (c *PriceCache) SetDailyCost(ctx context.Context, projectID uuid.UUID, version int64, cost decimal.Decimal) {
	if err := c.rdb.Set(ctx, dailyCostKey(projectID, version), cost.String(), c.ttl).Err(); err != nil {
		c.log.Warn("write daily cost", zap.String("project_id", projectID.String()), zap.Error(err))
	}
}

func (c *PriceCache) Invalidate(ctx context.Context, projectID uuid.UUID, version int64) {
	if err := c.rdb.Del(ctx, dailyCostKey(projectID, version)).Err(); err != nil {
		c.log.Warn("drop daily cost", zap.String("project_id", projectID.String()), zap.Error(err))
	}
}
