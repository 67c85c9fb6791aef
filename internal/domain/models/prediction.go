package models

import (
	"fmt"
	"time"

	"github.com/turtacn/loanrisk/pkg/constants"
)

// Classification is the raw classifier output: predict() and predict_proba().
// Probabilities[1] is the probability of class Default.
type Classification struct {
	Label         int       `json:"label"`
	Probabilities []float64 `json:"probabilities"`
}

// PredictionResult is the checked outcome of one scoring request.
type PredictionResult struct {
	Label                int       `json:"label"`
	ProbabilityOfDefault float64   `json:"probability_of_default"`
	ModelVersion         string    `json:"model_version"`
	ScoredAt             time.Time `json:"scored_at"`
}

// OutcomeProbability is one bar of the probability distribution chart.
type OutcomeProbability struct {
	Outcome     string  `json:"outcome"`
	Probability float64 `json:"probability"`
}

// IsDefault reports whether the loan is predicted to default.
func (p *PredictionResult) IsDefault() bool {
	return p.Label == constants.LabelDefault
}

// LabelText is "Default" or "Non-Default".
func (p *PredictionResult) LabelText() string {
	if p.IsDefault() {
		return constants.OutcomeDefault
	}
	return constants.OutcomeNonDefault
}

// Headline is the text of the color-coded result panel.
func (p *PredictionResult) Headline() string {
	if p.IsDefault() {
		return "Prediction: Yes (Default)"
	}
	return "Prediction: No (Non-Default)"
}

// NonDefaultProbability is 1 - ProbabilityOfDefault.
func (p *PredictionResult) NonDefaultProbability() float64 {
	return 1 - p.ProbabilityOfDefault
}

// ProbabilityDisplay formats the probability of default as a percentage with two decimals.
func (p *PredictionResult) ProbabilityDisplay() string {
	return FormatPercent(p.ProbabilityOfDefault)
}

// Distribution returns the Non-Default and Default bars, in that order.
func (p *PredictionResult) Distribution() []OutcomeProbability {
	return []OutcomeProbability{
		{Outcome: constants.OutcomeNonDefault, Probability: p.NonDefaultProbability()},
		{Outcome: constants.OutcomeDefault, Probability: p.ProbabilityOfDefault},
	}
}

// FormatPercent renders 0.1 as "10.00%".
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.2f%%", p*100)
}

// ModelInfo describes the loaded classifier.
type ModelInfo struct {
	Name       string    `json:"name"`
	Version    string    `json:"version"`
	Backend    string    `json:"backend"`
	Estimators int       `json:"estimators,omitempty"`
	Source     string    `json:"source,omitempty"`
	LoadedAt   time.Time `json:"loaded_at"`
}
