package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/turtacn/loanrisk/internal/domain/models"
	"github.com/turtacn/loanrisk/pkg/constants"
	"github.com/turtacn/loanrisk/pkg/errors"
)

// ScoringService turns raw classifier output into a checked PredictionResult.
type ScoringService interface {
	Score(ctx context.Context, record *models.ClientRecord) (*models.PredictionResult, error)
	ModelInfo() models.ModelInfo
}

type scoringService struct {
	classifier Classifier
	now        func() time.Time
}

// NewScoringService creates a ScoringService over classifier.
func NewScoringService(classifier Classifier) ScoringService {
	return &scoringService{classifier: classifier, now: time.Now}
}

// Score invokes the classifier once and checks its output contract: a label in {0,1}
// and exactly two finite probabilities in [0,1], the second being P(Default).
func (s *scoringService) Score(ctx context.Context, record *models.ClientRecord) (*models.PredictionResult, error) {
	if record == nil {
		return nil, errors.ErrInvalidRequest("client record is required")
	}

	out, err := s.classifier.Classify(ctx, record)
	if err != nil {
		return nil, err
	}
	if err := CheckClassification(out); err != nil {
		return nil, err
	}

	return &models.PredictionResult{
		Label:                out.Label,
		ProbabilityOfDefault: out.Probabilities[constants.LabelDefault],
		ModelVersion:         s.classifier.Info().Version,
		ScoredAt:             s.now().UTC(),
	}, nil
}

func (s *scoringService) ModelInfo() models.ModelInfo {
	return s.classifier.Info()
}

// CheckClassification validates the classifier output contract.
func CheckClassification(out *models.Classification) error {
	if out == nil {
		return errors.ErrMalformedClassifierOutput("empty classification")
	}
	if out.Label != constants.LabelNonDefault && out.Label != constants.LabelDefault {
		return errors.ErrMalformedClassifierOutput(fmt.Sprintf("label %d is not a binary class", out.Label))
	}
	if len(out.Probabilities) != 2 {
		return errors.ErrMalformedClassifierOutput(fmt.Sprintf("expected 2 probabilities, got %d", len(out.Probabilities)))
	}
	for i, p := range out.Probabilities {
		if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 || p > 1 {
			return errors.ErrMalformedClassifierOutput(fmt.Sprintf("probability[%d]=%v outside [0,1]", i, p))
		}
	}
	return nil
}
