package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPredictionResult_NonDefault(t *testing.T) {
	pd := 0.1
	p := &PredictionResult{Label: 0, ProbabilityOfDefault: pd}

	assert.False(t, p.IsDefault())
	assert.Equal(t, "Non-Default", p.LabelText())
	assert.Equal(t, "Prediction: No (Non-Default)", p.Headline())
	assert.Equal(t, "10.00%", p.ProbabilityDisplay())
	assert.Equal(t, 1-pd, p.NonDefaultProbability())
	assert.InDelta(t, 0.9, p.NonDefaultProbability(), 1e-12)
}

func TestPredictionResult_Default(t *testing.T) {
	pd := 0.7
	p := &PredictionResult{Label: 1, ProbabilityOfDefault: pd}

	assert.True(t, p.IsDefault())
	assert.Equal(t, "Default", p.LabelText())
	assert.Equal(t, "Prediction: Yes (Default)", p.Headline())
	assert.Equal(t, "70.00%", p.ProbabilityDisplay())

	dist := p.Distribution()
	assert.Equal(t, []OutcomeProbability{
		{Outcome: "Non-Default", Probability: 1 - pd},
		{Outcome: "Default", Probability: pd},
	}, dist)
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "0.00%", FormatPercent(0))
	assert.Equal(t, "100.00%", FormatPercent(1))
	assert.Equal(t, "12.35%", FormatPercent(0.12345678))
}
