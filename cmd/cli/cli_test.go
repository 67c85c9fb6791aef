package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/loanrisk/internal/application/dto"
)

const bundledArtifact = "../../models/adaboost_pipeline.json"

const clientJSON = `{
  "loannumber": 2, "loanamount": 15000, "termdays": 30, "monthly_payment": 1200,
  "debt_to_income_ratio": 0.35, "loan_to_income_ratio": 1.2, "approval_lag_days": 2,
  "first_payment_delay_days": 15, "past_due_days": 0, "loan_age_days": 180,
  "early_payment_flag": 1, "credit_score": 650, "age": 35,
  "bank_account_type": "Savings", "bank_name_clients": "GT Bank",
  "employment_status_clients": "Permanent"
}`

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestModelInspect(t *testing.T) {
	out, err := run(t, "", "model", "inspect", "--artifact", bundledArtifact)
	require.NoError(t, err)
	assert.Contains(t, out, "Name:           loan-default-adaboost")
	assert.Contains(t, out, "Version:        2024.06.1")
	assert.Contains(t, out, "Estimators:     5")
	assert.Contains(t, out, "Feature width:  41")
	assert.Contains(t, out, "Categorical:    bank_name_clients (18 categories)")
}

func TestModelInspect_Errors(t *testing.T) {
	_, err := run(t, "", "model", "inspect")
	assert.ErrorContains(t, err, "artifact")

	_, err = run(t, "", "model", "inspect", "--artifact", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestPredict_Text(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.json")
	require.NoError(t, os.WriteFile(path, []byte(clientJSON), 0o600))

	out, err := run(t, "", "predict", "--artifact", bundledArtifact, "--record", path)
	require.NoError(t, err)
	assert.Regexp(t, `Prediction: (No \(Non-Default\)|Yes \(Default\))`, out)
	assert.Regexp(t, `Probability: \d+\.\d{2}%`, out)
	assert.Contains(t, out, "Non-Default")
	assert.Contains(t, out, "Model: loan-default-adaboost 2024.06.1 (artifact)")
}

func TestPredict_JSONFromStdin(t *testing.T) {
	out, err := run(t, clientJSON, "predict", "--artifact", bundledArtifact, "--record", "-", "--json")
	require.NoError(t, err)

	var resp dto.PredictionResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, resp.Label == 1, resp.ProbabilityOfDefault > 0.5)
	require.Len(t, resp.Distribution, 2)
	assert.InDelta(t, 1.0, resp.Distribution[0].Probability+resp.Distribution[1].Probability, 1e-12)
	assert.Equal(t, "2024.06.1", resp.ModelVersion)
	assert.Equal(t, 35, resp.Record.Age)
}

func TestPredict_Errors(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{"no classifier", clientJSON, []string{"predict", "--record", "-"}, "artifact"},
		{"both classifiers", clientJSON, []string{"predict", "--artifact", bundledArtifact, "--remote", "x:1", "--record", "-"}, "artifact"},
		{"age out of range", strings.Replace(clientJSON, `"age": 35`, `"age": 17`, 1),
			[]string{"predict", "--artifact", bundledArtifact, "--record", "-"}, "age"},
		{"missing field", strings.Replace(clientJSON, `"credit_score": 650, `, "", 1),
			[]string{"predict", "--artifact", bundledArtifact, "--record", "-"}, "credit_score"},
		{"unknown field", `{"salary": 1}`, []string{"predict", "--artifact", bundledArtifact, "--record", "-"}, "salary"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.stdin, tt.args...)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}
