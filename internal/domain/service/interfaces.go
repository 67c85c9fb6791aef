package service

import (
	"context"
	"time"

	"github.com/turtacn/loanrisk/internal/domain/models"
)

//go:generate mockery --name Classifier --output mocks --outpkg mocks
// Classifier is the boundary to the trained model. Implementations are loaded once,
// never mutated afterwards and safe for concurrent use without locking.
// Classifier 是训练模型的边界。实现只加载一次，之后不再修改，可在无锁情况下并发使用。
type Classifier interface {
	// Classify returns predict(record) and predict_proba(record) for one record.
	// Classify 返回单条记录的 predict(record) 与 predict_proba(record)。
	Classify(ctx context.Context, record *models.ClientRecord) (*models.Classification, error)

	// Info describes the loaded model.
	// Info 描述已加载的模型。
	Info() models.ModelInfo
}

//go:generate mockery --name PredictionCache --output mocks --outpkg mocks
// PredictionCache memoizes prediction results by record content.
// PredictionCache 按记录内容缓存预测结果。
type PredictionCache interface {
	// GetOrCompute returns the cached result for key or runs compute once and stores it.
	// The boolean reports a cache hit.
	GetOrCompute(ctx context.Context, key string, compute func(context.Context) (*models.PredictionResult, error)) (*models.PredictionResult, bool, error)
}

// PredictionMetrics records prediction outcomes.
type PredictionMetrics interface {
	RecordPrediction(source, label string, duration time.Duration)
	RecordClassifierError(kind string)
	RecordCacheResult(hit bool)
}
