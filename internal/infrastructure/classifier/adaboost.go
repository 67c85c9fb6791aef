package classifier

import (
	"context"
	"math"
	"time"

	"github.com/turtacn/loanrisk/internal/domain/models"
	"github.com/turtacn/loanrisk/internal/domain/service"
	"github.com/turtacn/loanrisk/pkg/constants"
)

// ArtifactClassifier evaluates an AdaBoost (SAMME) pipeline in-process.
// It holds no mutable state after construction.
type ArtifactClassifier struct {
	artifact    *Artifact
	totalWeight float64
	info        models.ModelInfo
}

var _ service.Classifier = (*ArtifactClassifier)(nil)

// NewArtifactClassifier loads the pipeline at path. Any error is meant to stop the process.
func NewArtifactClassifier(path string) (*ArtifactClassifier, error) {
	a, err := LoadArtifact(path)
	if err != nil {
		return nil, err
	}
	return NewArtifactClassifierFrom(a, path), nil
}

// NewArtifactClassifierFrom wraps an already validated artifact.
func NewArtifactClassifierFrom(a *Artifact, source string) *ArtifactClassifier {
	var total float64
	for _, est := range a.Estimators {
		total += est.Weight
	}
	return &ArtifactClassifier{
		artifact:    a,
		totalWeight: total,
		info: models.ModelInfo{
			Name:       a.Name,
			Version:    a.Version,
			Backend:    string(constants.BackendArtifact),
			Estimators: len(a.Estimators),
			Source:     source,
			LoadedAt:   time.Now().UTC(),
		},
	}
}

func (c *ArtifactClassifier) Info() models.ModelInfo {
	return c.info
}

// Classify runs transform → decision function → predict / predict_proba.
func (c *ArtifactClassifier) Classify(ctx context.Context, record *models.ClientRecord) (*models.Classification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d := c.Decision(c.Transform(record))

	label := c.artifact.Classes[0]
	if d > 0 {
		label = c.artifact.Classes[1]
	}
	return &models.Classification{
		Label:         label,
		Probabilities: probabilities(d),
	}, nil
}

// Transform builds the feature vector: standardized numerics, then one-hot blocks.
// Categories unknown to the pipeline encode as an all-zero block.
func (c *ArtifactClassifier) Transform(record *models.ClientRecord) []float64 {
	p := &c.artifact.Preprocessor
	x := make([]float64, 0, p.Width())
	for _, col := range p.Numeric {
		v, _ := record.Number(col.Feature)
		scale := col.Scale
		if scale == 0 {
			scale = 1
		}
		x = append(x, (v-col.Mean)/scale)
	}
	for _, col := range p.Categorical {
		v, _ := record.Category(col.Feature)
		for _, cat := range col.Categories {
			if cat == v {
				x = append(x, 1)
			} else {
				x = append(x, 0)
			}
		}
	}
	return x
}

// Decision is the normalized SAMME decision function for two classes:
// (Σ w·[tree votes class 1] − Σ w·[tree votes class 0]) / Σ w, within [-1, 1].
func (c *ArtifactClassifier) Decision(x []float64) float64 {
	var d float64
	for _, est := range c.artifact.Estimators {
		if est.Tree.predict(x) == 1 {
			d += est.Weight
		} else {
			d -= est.Weight
		}
	}
	return d / c.totalWeight
}

// probabilities is softmax([-d/2, d/2]), i.e. [σ(-d), σ(d)].
func probabilities(d float64) []float64 {
	return []float64{1 / (1 + math.Exp(d)), 1 / (1 + math.Exp(-d))}
}

// predict returns the class index of the leaf reached by x, argmax with ties to the lower index.
func (t *Tree) predict(x []float64) int {
	node := 0
	for t.ChildrenLeft[node] != leafNode {
		if x[t.Feature[node]] <= t.Threshold[node] {
			node = t.ChildrenLeft[node]
		} else {
			node = t.ChildrenRight[node]
		}
	}
	best := 0
	for i, v := range t.Value[node] {
		if v > t.Value[node][best] {
			best = i
		}
	}
	return best
}
