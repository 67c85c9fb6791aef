package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/turtacn/loanrisk/internal/config"
	"github.com/turtacn/loanrisk/internal/infrastructure/monitoring"
	"github.com/turtacn/loanrisk/internal/infrastructure/ratelimit"
	"github.com/turtacn/loanrisk/internal/interfaces/http/handlers"
	"github.com/turtacn/loanrisk/pkg/constants"
	"github.com/turtacn/loanrisk/pkg/logger"
)

// metadataMaxAge is how long clients may reuse the field and model descriptions.
const metadataMaxAge = 5 * time.Minute

// Router HTTP 路由器
type Router struct {
	engine            *gin.Engine
	config            *config.Config
	logger            logger.Logger
	gatherer          prometheus.Gatherer
	metrics           handlers.HTTPMetrics
	tracing           *monitoring.TracingManager
	healthHandler     *handlers.HealthHandler
	formHandler       *handlers.FormHandler
	predictionHandler *handlers.PredictionHandler
	server            *http.Server
}

// NewRouter 创建路由器
func NewRouter(
	cfg *config.Config,
	log logger.Logger,
	gatherer prometheus.Gatherer,
	metrics handlers.HTTPMetrics,
	tracing *monitoring.TracingManager,
	healthHandler *handlers.HealthHandler,
	formHandler *handlers.FormHandler,
	predictionHandler *handlers.PredictionHandler,
) *Router {
	// 设置 Gin 模式
	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := &Router{
		engine:            gin.New(),
		config:            cfg,
		logger:            log,
		gatherer:          gatherer,
		metrics:           metrics,
		tracing:           tracing,
		healthHandler:     healthHandler,
		formHandler:       formHandler,
		predictionHandler: predictionHandler,
	}
	r.setupRoutes()
	r.server = &http.Server{
		Addr:           cfg.Server.HTTPAddress(),
		Handler:        r.engine,
		ReadTimeout:    time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:    time.Duration(cfg.Server.IdleTimeout) * time.Second,
		MaxHeaderBytes: 1 << 20, // 1MB
	}
	return r
}

// setupRoutes 设置路由
func (r *Router) setupRoutes() {
	// 全局中间件
	r.engine.Use(handlers.RecoveryMiddleware(r.logger))
	r.engine.Use(handlers.RequestIDMiddleware())
	r.engine.Use(handlers.ObservabilityMiddleware(r.tracing, r.metrics))
	r.engine.Use(handlers.LoggingMiddleware(r.logger))

	// CORS 配置
	if len(r.config.Server.AllowedOrigins) > 0 {
		r.engine.Use(cors.New(cors.Config{
			AllowOrigins:     r.config.Server.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", constants.HeaderRequestID},
			ExposeHeaders:    []string{constants.HeaderRequestID},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// 健康检查路由
	r.engine.GET("/health", r.healthHandler.HealthCheck)
	r.engine.GET("/ready", r.healthHandler.ReadinessCheck)
	r.engine.GET("/live", r.healthHandler.LivenessCheck)

	// Prometheus metrics
	r.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})))

	// Pprof 性能分析（仅在非生产环境）
	if !r.config.Server.IsProduction() {
		pprof.Register(r.engine)
	}

	// 表单页面
	r.engine.GET("/", r.formHandler.Show)
	r.engine.POST("/", r.formHandler.Submit)
	r.engine.POST("/reset", r.formHandler.Reset)

	// API 路由组
	v1 := r.engine.Group("/api/v1")
	{
		predict := []gin.HandlerFunc{r.predictionHandler.Predict}
		if r.config.RateLimit.Enabled {
			limiter := ratelimit.NewClientLimiter(r.config.RateLimit)
			predict = append([]gin.HandlerFunc{handlers.RateLimitMiddleware(limiter, r.logger)}, predict...)
		}
		v1.POST("/predictions", predict...)

		etag := handlers.ETagCache(r.predictionHandler.ModelTag, metadataMaxAge)
		v1.GET("/fields", etag, r.predictionHandler.Fields)
		v1.GET("/model", etag, r.predictionHandler.Model)
	}

	// 404 处理
	r.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":             "not_found",
			"error_description": "The requested resource was not found",
		})
	})
}

// Start 启动 HTTP 服务器, blocking until the server stops. A stop via Stop is
// not an error.
func (r *Router) Start() error {
	r.logger.Info(context.Background(), "Starting HTTP server", logger.String("address", r.server.Addr))
	if err := r.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop 停止 HTTP 服务器
func (r *Router) Stop(ctx context.Context) error {
	r.logger.Info(ctx, "Stopping HTTP server...")
	return r.server.Shutdown(ctx)
}

// Engine exposes the handler for tests.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

//Personal.AI order the ending
