package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	appservice "github.com/turtacn/loanrisk/internal/application/service"
	"github.com/turtacn/loanrisk/internal/config"
	domainservice "github.com/turtacn/loanrisk/internal/domain/service"
	"github.com/turtacn/loanrisk/internal/infrastructure/classifier"
	"github.com/turtacn/loanrisk/internal/infrastructure/monitoring"
	"github.com/turtacn/loanrisk/internal/infrastructure/ratelimit"
	"github.com/turtacn/loanrisk/pkg/constants"
	"github.com/turtacn/loanrisk/pkg/logger"
)

func TestETagCache(t *testing.T) {
	gin.SetMode(gin.TestMode)
	version := "v1"
	calls := 0

	engine := gin.New()
	engine.GET("/api/v1/model", ETagCache(func() string { return version }, time.Minute), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusOK, gin.H{"version": version})
	})
	engine.GET("/broken", ETagCache(func() string { return version }, time.Minute), func(c *gin.Context) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "x"})
	})

	get := func(path, ifNoneMatch string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if ifNoneMatch != "" {
			req.Header.Set("If-None-Match", ifNoneMatch)
		}
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		return w
	}

	first := get("/api/v1/model", "")
	require.Equal(t, http.StatusOK, first.Code)
	etag := first.Header().Get("ETag")
	require.NotEmpty(t, etag)
	assert.Equal(t, "public, max-age=60, must-revalidate", first.Header().Get("Cache-Control"))
	assert.JSONEq(t, `{"version":"v1"}`, first.Body.String())

	second := get("/api/v1/model", etag)
	assert.Equal(t, http.StatusNotModified, second.Code)
	assert.Empty(t, second.Body.String())
	assert.Equal(t, 1, calls)

	version = "v2"
	third := get("/api/v1/model", etag)
	assert.Equal(t, http.StatusOK, third.Code)
	assert.NotEqual(t, etag, third.Header().Get("ETag"))
	assert.Equal(t, 2, calls)

	failed := get("/broken", "")
	assert.Equal(t, http.StatusInternalServerError, failed.Code)
	assert.Empty(t, failed.Header().Get("ETag"))
}

func TestPredictionHandler_ModelTag(t *testing.T) {
	log := logger.NewNoopLogger()
	predictions := appservice.NewPredictionAppService(
		domainservice.NewScoringService(classifier.NewStubClassifierForDefault(0.2)), nil,
		monitoring.NewMetricsAdapter(monitoring.NewMetrics(prometheus.NewRegistry())),
		monitoring.NewTracingManagerWithProvider(noop.NewTracerProvider(), log), log)

	assert.Equal(t, "stub/stub/stub", NewPredictionHandler(predictions).ModelTag())
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter := ratelimit.NewClientLimiter(config.RateLimitConfig{Enabled: true, RequestsPerMinute: 1, Burst: 2})

	engine := gin.New()
	engine.POST("/api/v1/predictions", RateLimitMiddleware(limiter, logger.NewNoopLogger()), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	send := func(remoteAddr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/predictions", nil)
		req.RemoteAddr = remoteAddr
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusNoContent, send("192.0.2.1:1000").Code)
	assert.Equal(t, http.StatusNoContent, send("192.0.2.1:1001").Code)

	w := send("192.0.2.1:1002")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	env := decode(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, string(constants.ErrCodeRateLimitExceeded), env.Error.Code)

	assert.Equal(t, http.StatusNoContent, send("192.0.2.2:1000").Code)
}
