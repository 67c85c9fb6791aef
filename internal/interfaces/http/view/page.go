// Package view renders the prediction form. Render is a pure function of the
// Page value it is given; it reads no globals and keeps no state.
package view

import (
	"strconv"

	"github.com/turtacn/loanrisk/internal/domain/models"
	"github.com/turtacn/loanrisk/pkg/constants"
)

// Colors of the result panel and chart bars.
const (
	ColorNonDefault = "#58D68D"
	ColorDefault    = "#F1948A"
)

// Page is everything one render of the form needs.
type Page struct {
	// Values are the raw input values shown in the form, keyed by field name.
	Values map[string]string
	// Errors are per-field validation messages; non-empty means no prediction.
	Errors map[string]string
	// FormError is a message not tied to a single field.
	FormError string
	// Summary is the client summary table; nil when the input is invalid.
	Summary []models.FieldValue
	// PredictRequested mirrors the session's sticky predict flag.
	PredictRequested bool
	// Result is present when a prediction was made for this render.
	Result *models.PredictionResult
	// PredictionError replaces Result when the classifier failed.
	PredictionError string
	// ActiveTab is constants.TabSummary or constants.TabPrediction.
	ActiveTab string
	Model     models.ModelInfo
}

// NewPage prepares a page showing record, on the summary tab.
func NewPage(record *models.ClientRecord, model models.ModelInfo) Page {
	return Page{
		Values:    FormValues(record),
		Summary:   record.Summary(),
		ActiveTab: constants.TabSummary,
		Model:     model,
	}
}

// FormValues renders the input values of record without rounding.
func FormValues(record *models.ClientRecord) map[string]string {
	out := make(map[string]string, len(models.Fields()))
	for _, def := range models.Fields() {
		if s, ok := record.Category(def.Name); ok {
			out[def.Name] = s
			continue
		}
		v, _ := record.Number(def.Name)
		if def.Kind == models.FieldDecimal {
			out[def.Name] = strconv.FormatFloat(v, 'f', -1, 64)
		} else {
			out[def.Name] = strconv.FormatFloat(v, 'f', 0, 64)
		}
	}
	return out
}

// HasErrors reports whether the page carries validation errors.
func (p Page) HasErrors() bool {
	return len(p.Errors) > 0 || p.FormError != ""
}
