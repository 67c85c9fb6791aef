package classifier

import (
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/loanrisk/internal/domain/models"
	"github.com/turtacn/loanrisk/pkg/constants"
	"github.com/turtacn/loanrisk/pkg/errors"
)

// width of the transformed vector for the full record schema: 13 numerics + 3 + 18 + 7 one-hot columns
const fullWidth = 13 + 3 + 18 + 7

func stump(feature int, threshold float64, left, right []float64) Tree {
	return Tree{
		ChildrenLeft:  []int{1, -1, -1},
		ChildrenRight: []int{2, -1, -1},
		Feature:       []int{feature, -2, -2},
		Threshold:     []float64{threshold, -2, -2},
		Value:         [][]float64{{0.5, 0.5}, left, right},
	}
}

// testArtifact has identity scaling and two stumps: past_due_days > 30 votes Default
// (weight 3), credit_score <= 500 votes Default (weight 1).
func testArtifact() *Artifact {
	a := &Artifact{
		Format:        ArtifactFormat,
		SchemaVersion: ArtifactSchemaVersion,
		Name:          "test-pipeline",
		Version:       "t1",
		Classes:       []int{0, 1},
	}
	for _, def := range models.Fields() {
		if def.IsNumeric() {
			a.Preprocessor.Numeric = append(a.Preprocessor.Numeric, NumericColumn{Feature: def.Name, Mean: 0, Scale: 1})
			continue
		}
		a.Preprocessor.Categorical = append(a.Preprocessor.Categorical, CategoricalColumn{Feature: def.Name, Categories: def.Options})
	}
	a.Estimators = []Estimator{
		{Weight: 3, Tree: stump(8, 30, []float64{0.9, 0.1}, []float64{0.1, 0.9})},
		{Weight: 1, Tree: stump(11, 500, []float64{0.2, 0.8}, []float64{0.8, 0.2})},
	}
	return a
}

func writeArtifact(t *testing.T, v interface{}) string {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "pipeline.json")
	require.NoError(t, os.WriteFile(path, raw, 0o600))
	return path
}

func record(t *testing.T, pastDue, credit int) *models.ClientRecord {
	t.Helper()
	in := models.DefaultClientRecord().Input()
	in.PastDueDays = pastDue
	in.CreditScore = credit
	rec, err := models.NewClientRecord(in)
	require.NoError(t, err)
	return rec
}

func TestArtifactClassifier_Classify(t *testing.T) {
	c := NewArtifactClassifierFrom(testArtifact(), "memory")

	tests := []struct {
		name      string
		pastDue   int
		credit    int
		wantLabel int
		wantD     float64
	}{
		{"both vote default", 45, 400, constants.LabelDefault, 1},
		{"both vote non-default", 0, 700, constants.LabelNonDefault, -1},
		{"heavier stump wins", 45, 700, constants.LabelDefault, 0.5},
		{"lighter stump loses", 0, 400, constants.LabelNonDefault, -0.5},
		{"threshold goes left", 30, 700, constants.LabelNonDefault, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := record(t, tt.pastDue, tt.credit)
			assert.InDelta(t, tt.wantD, c.Decision(c.Transform(rec)), 1e-12)

			out, err := c.Classify(context.Background(), rec)
			require.NoError(t, err)
			assert.Equal(t, tt.wantLabel, out.Label)
			require.Len(t, out.Probabilities, 2)
			assert.InDelta(t, 1.0, out.Probabilities[0]+out.Probabilities[1], 1e-12)
			assert.InDelta(t, 1/(1+math.Exp(-tt.wantD)), out.Probabilities[1], 1e-12)
			if tt.wantLabel == constants.LabelDefault {
				assert.Greater(t, out.Probabilities[1], 0.5)
			} else {
				assert.Less(t, out.Probabilities[1], 0.5)
			}
		})
	}
}

func TestArtifactClassifier_DecisionZeroIsNonDefault(t *testing.T) {
	a := testArtifact()
	a.Estimators[1].Weight = 3
	c := NewArtifactClassifierFrom(a, "memory")

	out, err := c.Classify(context.Background(), record(t, 45, 700))
	require.NoError(t, err)
	assert.Equal(t, constants.LabelNonDefault, out.Label)
	assert.InDelta(t, 0.5, out.Probabilities[1], 1e-12)
}

func TestArtifactClassifier_Transform(t *testing.T) {
	a := testArtifact()
	a.Preprocessor.Numeric[12] = NumericColumn{Feature: models.FieldAge, Mean: 30, Scale: 10}
	a.Preprocessor.Numeric[0] = NumericColumn{Feature: models.FieldLoanNumber, Mean: 2, Scale: 0}
	c := NewArtifactClassifierFrom(a, "memory")

	in := models.DefaultClientRecord().Input()
	in.Age = 50
	in.LoanNumber = 5
	in.BankAccountType = string(models.BankAccountSavings)
	in.BankName = string(models.BankGT)
	in.EmploymentStatus = string(models.EmploymentUnknown)
	rec, err := models.NewClientRecord(in)
	require.NoError(t, err)

	x := c.Transform(rec)
	require.Len(t, x, fullWidth)
	assert.Equal(t, 3.0, x[0], "zero scale is treated as one")
	assert.Equal(t, 2.0, x[12])
	assert.Equal(t, []float64{0, 0, 1}, x[13:16])
	assert.Equal(t, 1.0, x[16+6], "GT Bank is the seventh bank")
	assert.Equal(t, 1.0, x[fullWidth-1])

	var ones float64
	for _, v := range x[13:] {
		ones += v
	}
	assert.Equal(t, 3.0, ones)
}

func TestArtifactClassifier_UnknownCategoryEncodesZero(t *testing.T) {
	a := testArtifact()
	a.Preprocessor.Categorical[1].Categories = []string{"Some Other Bank"}
	c := NewArtifactClassifierFrom(a, "memory")

	x := c.Transform(models.DefaultClientRecord())
	assert.Equal(t, 0.0, x[16])
}

func TestArtifactClassifier_Deterministic(t *testing.T) {
	c := NewArtifactClassifierFrom(testArtifact(), "memory")
	rec := record(t, 45, 650)

	first, err := c.Classify(context.Background(), rec)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := c.Classify(context.Background(), rec)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestArtifactClassifier_CanceledContext(t *testing.T) {
	c := NewArtifactClassifierFrom(testArtifact(), "memory")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Classify(ctx, models.DefaultClientRecord())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTreePredict_DeeperTreeAndTies(t *testing.T) {
	tree := Tree{
		ChildrenLeft:  []int{1, 3, -1, -1, -1},
		ChildrenRight: []int{2, 4, -1, -1, -1},
		Feature:       []int{0, 1, -2, -2, -2},
		Threshold:     []float64{1, 1, -2, -2, -2},
		Value:         [][]float64{{1, 1}, {1, 1}, {0, 5}, {4, 4}, {1, 2}},
	}
	assert.Equal(t, 1, tree.predict([]float64{2, 0}))
	assert.Equal(t, 0, tree.predict([]float64{0, 0}), "ties go to the lower class")
	assert.Equal(t, 1, tree.predict([]float64{0, 2}))
}

func TestLoadArtifact(t *testing.T) {
	path := writeArtifact(t, testArtifact())

	c, err := NewArtifactClassifier(path)
	require.NoError(t, err)
	info := c.Info()
	assert.Equal(t, "test-pipeline", info.Name)
	assert.Equal(t, "t1", info.Version)
	assert.Equal(t, string(constants.BackendArtifact), info.Backend)
	assert.Equal(t, 2, info.Estimators)
	assert.Equal(t, path, info.Source)
}

func TestLoadArtifact_BundledModel(t *testing.T) {
	c, err := NewArtifactClassifier(filepath.Join("..", "..", "..", "models", "adaboost_pipeline.json"))
	require.NoError(t, err)

	out, err := c.Classify(context.Background(), models.DefaultClientRecord())
	require.NoError(t, err)
	assert.Contains(t, []int{0, 1}, out.Label)
	assert.InDelta(t, 1.0, out.Probabilities[0]+out.Probabilities[1], 1e-12)
}

func TestLoadArtifact_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadArtifact(filepath.Join(t.TempDir(), "nope.json"))
		assert.True(t, errors.HasCode(err, constants.ErrCodeArtifactNotFound))
	})

	incompatible := []struct {
		name   string
		mutate func(a *Artifact) interface{}
	}{
		{"wrong format", func(a *Artifact) interface{} { a.Format = "joblib"; return a }},
		{"wrong schema version", func(a *Artifact) interface{} { a.SchemaVersion = 2; return a }},
		{"schema violation", func(a *Artifact) interface{} {
			return map[string]interface{}{"format": ArtifactFormat, "schema_version": 1, "name": "x"}
		}},
		{"negative weight", func(a *Artifact) interface{} { a.Estimators[0].Weight = -1; return a }},
		{"zero total weight", func(a *Artifact) interface{} {
			a.Estimators[0].Weight, a.Estimators[1].Weight = 0, 0
			return a
		}},
		{"wrong classes", func(a *Artifact) interface{} { a.Classes = []int{1, 2}; return a }},
		{"missing field", func(a *Artifact) interface{} {
			a.Preprocessor.Numeric = a.Preprocessor.Numeric[1:]
			return a
		}},
		{"duplicated field", func(a *Artifact) interface{} {
			a.Preprocessor.Numeric = append(a.Preprocessor.Numeric, a.Preprocessor.Numeric[0])
			return a
		}},
		{"categorical as numeric", func(a *Artifact) interface{} {
			a.Preprocessor.Numeric[0].Feature = models.FieldBankName
			return a
		}},
		{"split feature out of range", func(a *Artifact) interface{} {
			a.Estimators[0].Tree.Feature[0] = fullWidth
			return a
		}},
		{"cyclic tree", func(a *Artifact) interface{} {
			a.Estimators[0].Tree.ChildrenLeft[0] = 0
			return a
		}},
		{"ragged tree", func(a *Artifact) interface{} {
			a.Estimators[0].Tree.Threshold = a.Estimators[0].Tree.Threshold[:2]
			return a
		}},
	}
	for _, tt := range incompatible {
		t.Run(tt.name, func(t *testing.T) {
			path := writeArtifact(t, tt.mutate(testArtifact()))
			_, err := LoadArtifact(path)
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, constants.ErrCodeArtifactIncompatible), "got %v", err)
		})
	}

	t.Run("not json", func(t *testing.T) {
		_, err := ParseArtifact("inline", []byte("\x80\x04pickle"))
		assert.True(t, errors.HasCode(err, constants.ErrCodeArtifactIncompatible))
	})
}

func TestStubClassifier(t *testing.T) {
	c := NewStubClassifierForDefault(0.7)
	out, err := c.Classify(context.Background(), models.DefaultClientRecord())
	require.NoError(t, err)
	assert.Equal(t, constants.LabelDefault, out.Label)
	assert.InDeltaSlice(t, []float64{0.3, 0.7}, out.Probabilities, 1e-12)

	out.Probabilities[0] = 99
	again, _ := c.Classify(context.Background(), models.DefaultClientRecord())
	assert.InDelta(t, 0.3, again.Probabilities[0], 1e-12)

	malformed := NewStubClassifier(2, 0.5)
	out, err = malformed.Classify(context.Background(), models.DefaultClientRecord())
	require.NoError(t, err)
	assert.Equal(t, 2, out.Label)
	assert.Len(t, out.Probabilities, 1)
}
