package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	appservice "github.com/turtacn/loanrisk/internal/application/service"
	"github.com/turtacn/loanrisk/internal/config"
	domainservice "github.com/turtacn/loanrisk/internal/domain/service"
	"github.com/turtacn/loanrisk/internal/infrastructure/cache"
	"github.com/turtacn/loanrisk/internal/infrastructure/classifier"
	"github.com/turtacn/loanrisk/internal/infrastructure/monitoring"
	"github.com/turtacn/loanrisk/internal/infrastructure/persistence/redis"
	"github.com/turtacn/loanrisk/internal/infrastructure/session"
	grpcserver "github.com/turtacn/loanrisk/internal/interfaces/grpc"
	"github.com/turtacn/loanrisk/internal/interfaces/http"
	"github.com/turtacn/loanrisk/internal/interfaces/http/handlers"
	"github.com/turtacn/loanrisk/pkg/constants"
	"github.com/turtacn/loanrisk/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Logger for startup
	startupLogger, err := monitoring.NewZapLogger(&config.LogConfig{Level: "info", Format: "json"})
	if err != nil {
		log.Fatalf("Failed to create startup logger: %v", err)
	}

	// Load config
	cfg, err := config.LoadConfig(startupLogger)
	if err != nil {
		startupLogger.Fatal(ctx, "Failed to load config", err)
	}

	// Initialize logger
	appLogger, err := monitoring.NewZapLogger(&cfg.Log)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	// Initialize tracing
	tracing, err := monitoring.NewTracingManager(&cfg.Tracing, appLogger)
	if err != nil {
		appLogger.Fatal(ctx, "Failed to initialize tracer", err)
	}

	// Load the classifier once; the process does not start without it
	clf, closeClassifier, err := classifier.New(ctx, cfg.Model, appLogger)
	if err != nil {
		appLogger.Fatal(ctx, "Failed to load classifier", err, logger.String("backend", cfg.Model.Backend))
	}
	defer closeClassifier()

	// Initialize metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := monitoring.NewMetrics(registry)

	// Initialize Redis (optional L2 prediction cache)
	var redisConn *redis.RedisConnection
	if cfg.Redis.Enabled() {
		redisConn = redis.NewRedisConnection(&cfg.Redis, appLogger)
		if err := redisConn.Connect(ctx); err != nil {
			appLogger.Warn(ctx, "Redis unavailable, prediction cache stays process local", logger.String("error", err.Error()))
			redisConn = nil
		} else {
			defer redisConn.Close()
		}
	}

	// Initialize application services
	var predictionCache domainservice.PredictionCache
	if cfg.Cache.Enabled {
		if redisConn != nil {
			predictionCache = cache.NewPredictionCache(cfg.Cache.TTL, redisConn.GetClient(), appLogger)
		} else {
			predictionCache = cache.NewPredictionCache(cfg.Cache.TTL, nil, appLogger)
		}
	}
	predictions := appservice.NewPredictionAppService(
		domainservice.NewScoringService(clf),
		predictionCache,
		monitoring.NewMetricsAdapter(metrics),
		tracing,
		appLogger,
	)

	// Initialize HTTP handlers and router
	sessions := session.NewStore(cfg.Session.TTL, cfg.Session.CleanupInterval)
	var redisHealth handlers.Pinger
	if redisConn != nil {
		redisHealth = redisConn
	}
	router := http.NewRouter(
		cfg,
		appLogger,
		registry,
		metrics,
		tracing,
		handlers.NewHealthHandler(predictions, redisHealth, appLogger),
		handlers.NewFormHandler(predictions, sessions, cfg.Session, appLogger),
		handlers.NewPredictionHandler(predictions),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(router.Start)

	var grpcSrv *grpcserver.Server
	if cfg.Server.GRPCPort != 0 {
		grpcSrv = grpcserver.NewServer(cfg.Server.GRPCAddress(), predictions, appLogger)
		g.Go(grpcSrv.Start)
	}

	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info(context.Background(), "Shutting down servers...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.DefaultShutdownTimeout)
		defer cancel()

		sg := new(errgroup.Group)
		sg.Go(func() error { return router.Stop(shutdownCtx) })
		if grpcSrv != nil {
			sg.Go(func() error { return grpcSrv.Stop(shutdownCtx) })
		}
		err := sg.Wait()
		if terr := tracing.Shutdown(shutdownCtx); err == nil {
			err = terr
		}
		return err
	})

	if err := g.Wait(); err != nil {
		appLogger.Error(context.Background(), "Server stopped with error", err)
		return err
	}
	appLogger.Info(context.Background(), "Server stopped")
	return nil
}

//Personal.AI order the ending
