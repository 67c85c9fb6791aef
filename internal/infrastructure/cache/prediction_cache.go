// Package cache memoizes prediction results. Scoring is a pure function of
// (record, model version), so a result can be shared by every caller that
// submits the same record against the same model.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/turtacn/loanrisk/internal/domain/models"
	"github.com/turtacn/loanrisk/internal/domain/service"
	"github.com/turtacn/loanrisk/pkg/constants"
	"github.com/turtacn/loanrisk/pkg/logger"
)

// PredictionCache is a two level cache: an in-process L1 and an optional redis L2.
// Concurrent misses for the same key are collapsed into one computation.
type PredictionCache struct {
	l1    *gocache.Cache
	redis redis.UniversalClient
	ttl   time.Duration
	sf    singleflight.Group
	log   logger.Logger
}

var _ service.PredictionCache = (*PredictionCache)(nil)

// NewPredictionCache creates a cache with entries living for ttl. redisClient may be nil.
func NewPredictionCache(ttl time.Duration, redisClient redis.UniversalClient, log logger.Logger) *PredictionCache {
	if ttl <= 0 {
		ttl = constants.DefaultPredictionCacheTTL
	}
	return &PredictionCache{
		l1:    gocache.New(ttl, 2*ttl),
		redis: redisClient,
		ttl:   ttl,
		log:   log,
	}
}

// Key derives the cache key of record scored by modelVersion.
func Key(record *models.ClientRecord, modelVersion string) (string, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return "", err
	}
	h := sha256.New()
	h.Write([]byte(modelVersion))
	h.Write([]byte{0})
	h.Write(raw)
	return constants.PredictionCacheKeyPrefix + hex.EncodeToString(h.Sum(nil)), nil
}

// GetOrCompute returns a copy of the cached result for key, or runs compute.
// Failed computations are never cached. L2 failures degrade to L1 only.
// Concurrent callers share one fill that outlives any single caller's
// cancellation; a cancelled caller returns ctx.Err() without waiting.
func (c *PredictionCache) GetOrCompute(ctx context.Context, key string, compute func(context.Context) (*models.PredictionResult, error)) (*models.PredictionResult, bool, error) {
	if v, ok := c.l1.Get(key); ok {
		res := *v.(*models.PredictionResult)
		return &res, true, nil
	}

	type outcome struct {
		result *models.PredictionResult
		hit    bool
	}
	fillCtx := context.WithoutCancel(ctx)
	ch := c.sf.DoChan(key, func() (interface{}, error) {
		if res := c.fromRedis(fillCtx, key); res != nil {
			c.l1.SetDefault(key, res)
			return outcome{result: res, hit: true}, nil
		}

		res, err := compute(fillCtx)
		if err != nil {
			return nil, err
		}
		c.l1.SetDefault(key, res)
		c.toRedis(fillCtx, key, res)
		return outcome{result: res}, nil
	})

	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, false, r.Err
		}
		out := r.Val.(outcome)
		res := *out.result
		return &res, out.hit, nil
	}
}

// Flush drops every L1 entry; L2 entries expire on their own.
func (c *PredictionCache) Flush() {
	c.l1.Flush()
}

func (c *PredictionCache) fromRedis(ctx context.Context, key string) *models.PredictionResult {
	if c.redis == nil {
		return nil
	}
	raw, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn(ctx, "prediction cache read failed", logger.String("error", err.Error()))
		}
		return nil
	}
	var res models.PredictionResult
	if err := json.Unmarshal(raw, &res); err != nil {
		c.log.Warn(ctx, "discarding undecodable cached prediction", logger.String("key", key))
		return nil
	}
	return &res
}

func (c *PredictionCache) toRedis(ctx context.Context, key string, res *models.PredictionResult) {
	if c.redis == nil {
		return
	}
	raw, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn(ctx, "prediction cache write failed", logger.String("error", err.Error()))
	}
}
