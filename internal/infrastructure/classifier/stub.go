package classifier

import (
	"context"
	"time"

	"github.com/turtacn/loanrisk/internal/domain/models"
	"github.com/turtacn/loanrisk/pkg/constants"
)

// StubClassifier returns the same classification for every record.
type StubClassifier struct {
	out  models.Classification
	info models.ModelInfo
}

// NewStubClassifier builds a stub answering label with probabilities probs.
// The output is returned as given, so malformed values reach the caller unchanged.
func NewStubClassifier(label int, probs ...float64) *StubClassifier {
	return &StubClassifier{
		out: models.Classification{Label: label, Probabilities: append([]float64(nil), probs...)},
		info: models.ModelInfo{
			Name:       "stub",
			Version:    "stub",
			Backend:    string(constants.BackendStub),
			Estimators: 0,
			Source:     "static",
			LoadedAt:   time.Now().UTC(),
		},
	}
}

// NewStubClassifierForDefault answers Default when pDefault > 0.5, with [1-p, p].
func NewStubClassifierForDefault(pDefault float64) *StubClassifier {
	label := constants.LabelNonDefault
	if pDefault > 0.5 {
		label = constants.LabelDefault
	}
	return NewStubClassifier(label, 1-pDefault, pDefault)
}

func (s *StubClassifier) Info() models.ModelInfo { return s.info }

func (s *StubClassifier) Classify(ctx context.Context, _ *models.ClientRecord) (*models.Classification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := s.out
	out.Probabilities = append([]float64(nil), s.out.Probabilities...)
	return &out, nil
}
