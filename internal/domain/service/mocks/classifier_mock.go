package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/turtacn/loanrisk/internal/domain/models"
)

type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Classify(ctx context.Context, record *models.ClientRecord) (*models.Classification, error) {
	args := m.Called(ctx, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Classification), args.Error(1)
}

func (m *MockClassifier) Info() models.ModelInfo {
	args := m.Called()
	return args.Get(0).(models.ModelInfo)
}

type MockPredictionMetrics struct {
	mock.Mock
}

func (m *MockPredictionMetrics) RecordPrediction(source, label string, duration time.Duration) {
	m.Called(source, label, duration)
}

func (m *MockPredictionMetrics) RecordClassifierError(kind string) {
	m.Called(kind)
}

func (m *MockPredictionMetrics) RecordCacheResult(hit bool) {
	m.Called(hit)
}
