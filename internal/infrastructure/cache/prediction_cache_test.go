package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/loanrisk/internal/domain/models"
	"github.com/turtacn/loanrisk/pkg/constants"
	"github.com/turtacn/loanrisk/pkg/logger"
)

func result(p float64) *models.PredictionResult {
	return &models.PredictionResult{Label: 0, ProbabilityOfDefault: p, ModelVersion: "v1", ScoredAt: time.Unix(1700000000, 0).UTC()}
}

func TestKey(t *testing.T) {
	a := models.DefaultClientRecord()
	b := models.DefaultClientRecord()

	ka, err := Key(a, "v1")
	require.NoError(t, err)
	kb, _ := Key(b, "v1")
	assert.Equal(t, ka, kb)
	assert.Contains(t, ka, constants.PredictionCacheKeyPrefix)

	kv2, _ := Key(a, "v2")
	assert.NotEqual(t, ka, kv2)

	in := b.Input()
	in.Age = 40
	c, err := models.NewClientRecord(in)
	require.NoError(t, err)
	kc, _ := Key(c, "v1")
	assert.NotEqual(t, ka, kc)
}

func TestPredictionCache_L1(t *testing.T) {
	c := NewPredictionCache(time.Minute, nil, logger.NewNoopLogger())
	ctx := context.Background()
	calls := 0
	compute := func(context.Context) (*models.PredictionResult, error) {
		calls++
		return result(0.1), nil
	}

	first, hit, err := c.GetOrCompute(ctx, "k", compute)
	require.NoError(t, err)
	assert.False(t, hit)

	second, hit, err := c.GetOrCompute(ctx, "k", compute)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)

	second.ProbabilityOfDefault = 0.9
	third, _, _ := c.GetOrCompute(ctx, "k", compute)
	assert.Equal(t, 0.1, third.ProbabilityOfDefault, "callers get copies")

	c.Flush()
	_, hit, _ = c.GetOrCompute(ctx, "k", compute)
	assert.False(t, hit)
	assert.Equal(t, 2, calls)
}

func TestPredictionCache_FillSurvivesCancelledCaller(t *testing.T) {
	c := NewPredictionCache(time.Minute, nil, logger.NewNoopLogger())

	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	compute := func(ctx context.Context) (*models.PredictionResult, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return result(0.4), nil
	}

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, _, err := c.GetOrCompute(firstCtx, "k", compute)
		firstErr <- err
	}()
	<-started

	type reply struct {
		res *models.PredictionResult
		err error
	}
	second := make(chan reply, 1)
	go func() {
		res, _, err := c.GetOrCompute(context.Background(), "k", compute)
		second <- reply{res, err}
	}()
	// let the second caller join the in-flight fill
	time.Sleep(50 * time.Millisecond)

	cancelFirst()
	select {
	case err := <-firstErr:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancelled caller kept waiting for the fill")
	}

	close(release)
	got := <-second
	require.NoError(t, got.err)
	assert.Equal(t, 0.4, got.res.ProbabilityOfDefault)
	assert.Equal(t, int32(1), calls.Load())
}

func TestPredictionCache_ErrorsAreNotCached(t *testing.T) {
	c := NewPredictionCache(time.Minute, nil, logger.NewNoopLogger())
	boom := errors.New("boom")

	_, _, err := c.GetOrCompute(context.Background(), "k", func(context.Context) (*models.PredictionResult, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	res, hit, err := c.GetOrCompute(context.Background(), "k", func(context.Context) (*models.PredictionResult, error) {
		return result(0.2), nil
	})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 0.2, res.ProbabilityOfDefault)
}

func TestPredictionCache_SingleFlight(t *testing.T) {
	c := NewPredictionCache(time.Minute, nil, logger.NewNoopLogger())
	var calls int32
	release := make(chan struct{})
	compute := func(context.Context) (*models.PredictionResult, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return result(0.3), nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, _, err := c.GetOrCompute(context.Background(), "k", compute)
			assert.NoError(t, err)
			assert.Equal(t, 0.3, res.ProbabilityOfDefault)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestPredictionCache_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	ctx := context.Background()

	writer := NewPredictionCache(time.Minute, client, logger.NewNoopLogger())
	_, hit, err := writer.GetOrCompute(ctx, "loanrisk:prediction:abc", func(context.Context) (*models.PredictionResult, error) {
		return result(0.7), nil
	})
	require.NoError(t, err)
	assert.False(t, hit)

	raw, err := mr.Get("loanrisk:prediction:abc")
	require.NoError(t, err)
	var stored models.PredictionResult
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	assert.Equal(t, 0.7, stored.ProbabilityOfDefault)
	assert.Equal(t, time.Minute, mr.TTL("loanrisk:prediction:abc"))

	// a second replica with a cold L1 is served from redis
	reader := NewPredictionCache(time.Minute, client, logger.NewNoopLogger())
	res, hit, err := reader.GetOrCompute(ctx, "loanrisk:prediction:abc", func(context.Context) (*models.PredictionResult, error) {
		t.Fatal("compute must not run on an L2 hit")
		return nil, nil
	})
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, result(0.7), res)
}

func TestPredictionCache_RedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	c := NewPredictionCache(time.Minute, client, logger.NewNoopLogger())
	res, hit, err := c.GetOrCompute(context.Background(), "k", func(context.Context) (*models.PredictionResult, error) {
		return result(0.4), nil
	})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 0.4, res.ProbabilityOfDefault)
}

func TestPredictionCache_CorruptRedisEntry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	require.NoError(t, mr.Set("k", "not json"))

	c := NewPredictionCache(time.Minute, client, logger.NewNoopLogger())
	res, hit, err := c.GetOrCompute(context.Background(), "k", func(context.Context) (*models.PredictionResult, error) {
		return result(0.5), nil
	})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 0.5, res.ProbabilityOfDefault)
}
