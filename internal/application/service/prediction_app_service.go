// Package service provides application-level services that orchestrate domain services and infrastructure
package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/turtacn/loanrisk/internal/domain/models"
	domainService "github.com/turtacn/loanrisk/internal/domain/service"
	"github.com/turtacn/loanrisk/internal/infrastructure/cache"
	"github.com/turtacn/loanrisk/internal/infrastructure/monitoring"
	"github.com/turtacn/loanrisk/pkg/constants"
	"github.com/turtacn/loanrisk/pkg/errors"
	"github.com/turtacn/loanrisk/pkg/logger"
)

// PredictionAppService defines the interface for the prediction application service
type PredictionAppService interface {
	// Predict scores one validated record on behalf of source
	Predict(ctx context.Context, record *models.ClientRecord, source constants.PredictionSource) (*models.PredictionResult, error)

	// ModelInfo describes the classifier behind the service
	ModelInfo() models.ModelInfo
}

// predictionAppServiceImpl is the concrete implementation of PredictionAppService
type predictionAppServiceImpl struct {
	scoring domainService.ScoringService
	cache   domainService.PredictionCache
	metrics domainService.PredictionMetrics
	tracing *monitoring.TracingManager
	logger  logger.Logger
}

// NewPredictionAppService creates a new instance of PredictionAppService.
// predictionCache may be nil to score every request.
func NewPredictionAppService(
	scoring domainService.ScoringService,
	predictionCache domainService.PredictionCache,
	metrics domainService.PredictionMetrics,
	tracing *monitoring.TracingManager,
	log logger.Logger,
) PredictionAppService {
	return &predictionAppServiceImpl{
		scoring: scoring,
		cache:   predictionCache,
		metrics: metrics,
		tracing: tracing,
		logger:  log,
	}
}

// Predict implements PredictionAppService. The record itself is never logged.
func (s *predictionAppServiceImpl) Predict(ctx context.Context, record *models.ClientRecord, source constants.PredictionSource) (*models.PredictionResult, error) {
	if record == nil {
		return nil, errors.ErrInvalidRequest("client record is required")
	}
	start := time.Now()

	var res *models.PredictionResult
	err := monitoring.TraceOperation(ctx, s.tracing, "prediction.predict", func(ctx context.Context) error {
		var (
			hit bool
			err error
		)
		res, hit, err = s.score(ctx, record)
		if err != nil {
			kind := string(constants.ErrCodeServerError)
			if se, ok := errors.AsServiceError(err); ok {
				kind = string(se.Code())
			}
			s.metrics.RecordClassifierError(kind)
			s.logger.Error(ctx, "Prediction failed", err,
				logger.String("source", string(source)),
				logger.String("kind", kind),
			)
			return err
		}

		elapsed := time.Since(start)
		s.metrics.RecordPrediction(string(source), res.LabelText(), elapsed)
		s.tracing.SetSpanAttributes(ctx,
			attribute.Int("prediction.label", res.Label),
			attribute.Float64("prediction.probability_of_default", res.ProbabilityOfDefault),
			attribute.Bool("prediction.cache_hit", hit),
		)
		s.logger.Info(ctx, "Prediction completed", logger.Fields{
			"source":                 string(source),
			"label":                  res.LabelText(),
			"probability_of_default": res.ProbabilityOfDefault,
			"model_version":          res.ModelVersion,
			"cache_hit":              hit,
			"latency_ms":             elapsed.Milliseconds(),
		})
		return nil
	}, attribute.String("prediction.source", string(source)))
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *predictionAppServiceImpl) score(ctx context.Context, record *models.ClientRecord) (*models.PredictionResult, bool, error) {
	if s.cache == nil {
		res, err := s.scoring.Score(ctx, record)
		return res, false, err
	}

	key, err := cache.Key(record, s.scoring.ModelInfo().Version)
	if err != nil {
		return nil, false, errors.ErrCache(err)
	}
	res, hit, err := s.cache.GetOrCompute(ctx, key, func(ctx context.Context) (*models.PredictionResult, error) {
		return s.scoring.Score(ctx, record)
	})
	if err == nil {
		s.metrics.RecordCacheResult(hit)
	}
	return res, hit, err
}

// ModelInfo implements PredictionAppService
func (s *predictionAppServiceImpl) ModelInfo() models.ModelInfo {
	return s.scoring.ModelInfo()
}
