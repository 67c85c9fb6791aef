// Package classifier provides the implementations of the model boundary:
// an in-process AdaBoost pipeline loaded from a JSON artifact, a remote gRPC
// model client, and a fixed-output stub.
package classifier

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"slices"

	"github.com/turtacn/loanrisk/internal/domain/models"
	"github.com/turtacn/loanrisk/pkg/errors"
)

const (
	// ArtifactFormat is the only pipeline format this build evaluates.
	ArtifactFormat = "adaboost-pipeline"

	// ArtifactSchemaVersion is the artifact layout version this build understands.
	ArtifactSchemaVersion = 1

	leafNode = -1
)

// Artifact is the serialized, fully trained model pipeline.
type Artifact struct {
	Format        string       `json:"format"`
	SchemaVersion int          `json:"schema_version"`
	Name          string       `json:"name"`
	Version       string       `json:"version"`
	TrainedAt     string       `json:"trained_at,omitempty"`
	Classes       []int        `json:"classes"`
	Preprocessor  Preprocessor `json:"preprocessor"`
	Estimators    []Estimator  `json:"estimators"`
}

// Preprocessor is a column transformer: standardized numeric columns first,
// then one one-hot block per categorical column.
type Preprocessor struct {
	Numeric     []NumericColumn     `json:"numeric"`
	Categorical []CategoricalColumn `json:"categorical"`
}

type NumericColumn struct {
	Feature string  `json:"feature"`
	Mean    float64 `json:"mean"`
	Scale   float64 `json:"scale"`
}

type CategoricalColumn struct {
	Feature    string   `json:"feature"`
	Categories []string `json:"categories"`
}

// Estimator is one weighted weak learner of the ensemble.
type Estimator struct {
	Weight float64 `json:"weight"`
	Tree   Tree    `json:"tree"`
}

// Tree is a decision tree stored as parallel node arrays. A node whose
// children are both -1 is a leaf; Value holds per-class weights.
type Tree struct {
	ChildrenLeft  []int       `json:"children_left"`
	ChildrenRight []int       `json:"children_right"`
	Feature       []int       `json:"feature"`
	Threshold     []float64   `json:"threshold"`
	Value         [][]float64 `json:"value"`
}

// Width is the length of the transformed feature vector.
func (p *Preprocessor) Width() int {
	n := len(p.Numeric)
	for _, c := range p.Categorical {
		n += len(c.Categories)
	}
	return n
}

// LoadArtifact reads, schema-checks and semantically validates a pipeline file.
// A missing file yields ErrArtifactNotFound; anything unreadable or inconsistent
// yields ErrArtifactIncompatible.
func LoadArtifact(path string) (*Artifact, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ErrArtifactNotFound(path).WithCause(err)
		}
		return nil, errors.ErrArtifactIncompatible(path, "unreadable").WithCause(err)
	}
	return ParseArtifact(path, raw)
}

// ParseArtifact validates raw artifact JSON. path is only used in error messages.
func ParseArtifact(path string, raw []byte) (*Artifact, error) {
	var header struct {
		Format        string `json:"format"`
		SchemaVersion int    `json:"schema_version"`
	}
	if err := json.Unmarshal(raw, &header); err != nil {
		return nil, errors.ErrArtifactIncompatible(path, "not a JSON document").WithCause(err)
	}
	if header.Format != ArtifactFormat {
		return nil, errors.ErrArtifactIncompatible(path, fmt.Sprintf("unsupported format %q", header.Format))
	}
	if header.SchemaVersion != ArtifactSchemaVersion {
		return nil, errors.ErrArtifactIncompatible(path, fmt.Sprintf("unsupported schema_version %d", header.SchemaVersion))
	}

	if err := validateArtifactDocument(raw); err != nil {
		return nil, errors.ErrArtifactIncompatible(path, "schema mismatch").WithCause(err)
	}

	var a Artifact
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, errors.ErrArtifactIncompatible(path, "decode failed").WithCause(err)
	}
	if err := a.Validate(); err != nil {
		return nil, errors.ErrArtifactIncompatible(path, err.Error())
	}
	return &a, nil
}

// Validate checks the invariants the schema cannot express.
func (a *Artifact) Validate() error {
	if !slices.Equal(a.Classes, []int{0, 1}) {
		return fmt.Errorf("classes must be [0 1], got %v", a.Classes)
	}

	seen := make(map[string]bool)
	for _, col := range a.Preprocessor.Numeric {
		def, ok := models.LookupField(col.Feature)
		if !ok || !def.IsNumeric() {
			return fmt.Errorf("numeric column %q is not a numeric record field", col.Feature)
		}
		if seen[col.Feature] {
			return fmt.Errorf("feature %q listed twice", col.Feature)
		}
		if math.IsNaN(col.Mean) || math.IsInf(col.Mean, 0) || math.IsNaN(col.Scale) || math.IsInf(col.Scale, 0) {
			return fmt.Errorf("numeric column %q has non-finite parameters", col.Feature)
		}
		seen[col.Feature] = true
	}
	for _, col := range a.Preprocessor.Categorical {
		def, ok := models.LookupField(col.Feature)
		if !ok || def.IsNumeric() {
			return fmt.Errorf("categorical column %q is not a categorical record field", col.Feature)
		}
		if seen[col.Feature] {
			return fmt.Errorf("feature %q listed twice", col.Feature)
		}
		seen[col.Feature] = true
	}
	for _, name := range models.FieldNames() {
		if !seen[name] {
			return fmt.Errorf("record field %q is not consumed by the pipeline", name)
		}
	}

	width := a.Preprocessor.Width()
	var total float64
	for i, est := range a.Estimators {
		if math.IsNaN(est.Weight) || math.IsInf(est.Weight, 0) || est.Weight < 0 {
			return fmt.Errorf("estimator %d has an invalid weight", i)
		}
		total += est.Weight
		if err := est.Tree.validate(width); err != nil {
			return fmt.Errorf("estimator %d: %w", i, err)
		}
	}
	if total <= 0 {
		return fmt.Errorf("estimator weights sum to zero")
	}
	return nil
}

func (t *Tree) validate(width int) error {
	n := len(t.ChildrenLeft)
	if len(t.ChildrenRight) != n || len(t.Feature) != n || len(t.Threshold) != n || len(t.Value) != n {
		return fmt.Errorf("tree node arrays differ in length")
	}
	for i := 0; i < n; i++ {
		left, right := t.ChildrenLeft[i], t.ChildrenRight[i]
		if left == leafNode && right == leafNode {
			if len(t.Value[i]) != 2 {
				return fmt.Errorf("leaf %d must carry 2 class values", i)
			}
			continue
		}
		// children always follow their parent, which rules out cycles
		if left <= i || left >= n || right <= i || right >= n {
			return fmt.Errorf("node %d has out of range children", i)
		}
		if t.Feature[i] < 0 || t.Feature[i] >= width {
			return fmt.Errorf("node %d splits on feature %d outside [0,%d)", i, t.Feature[i], width)
		}
		if math.IsNaN(t.Threshold[i]) {
			return fmt.Errorf("node %d has a NaN threshold", i)
		}
	}
	return nil
}
