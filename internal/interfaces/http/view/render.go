package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strconv"

	"github.com/turtacn/loanrisk/internal/domain/models"
	"github.com/turtacn/loanrisk/pkg/constants"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// chart geometry, in SVG user units
const (
	chartPlotHeight = 240.0
	chartBaseline   = 280.0
)

var pageTemplate = template.Must(template.New("page.html.tmpl").Funcs(template.FuncMap{
	"deref": func(f *float64) string { return strconv.FormatFloat(*f, 'f', -1, 64) },
	"add":   func(a, b int) int { return a + b },
}).ParseFS(templateFS, "templates/*.tmpl"))

type fieldView struct {
	models.FieldDefinition
	Value   string
	Error   string
	Options []optionView
}

type optionView struct {
	Value    string
	Selected bool
}

type barView struct {
	Outcome     string
	Probability float64
	Value       string
	Percent     string
	Color       string
	X           int
	Y           float64
	Height      float64
}

type resultView struct {
	Default     bool
	Headline    string
	Probability string
	Color       string
	Bars        []barView
}

type pageView struct {
	Title            string
	Groups           []groupView
	FormError        string
	HasErrors        bool
	Summary          []models.FieldValue
	PredictRequested bool
	Result           *resultView
	PredictionError  string
	SummaryActive    bool
	Model            models.ModelInfo
	ColorNonDefault  string
	ColorDefault     string
	ChartBaseline    float64
}

type groupView struct {
	Name   string
	Fields []fieldView
}

// Render writes the HTML page for p to w.
func Render(w io.Writer, p Page) error {
	if err := pageTemplate.Execute(w, buildView(p)); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}

func buildView(p Page) pageView {
	v := pageView{
		Title:            constants.AppTitle,
		FormError:        p.FormError,
		HasErrors:        p.HasErrors(),
		Summary:          p.Summary,
		PredictRequested: p.PredictRequested,
		PredictionError:  p.PredictionError,
		SummaryActive:    p.ActiveTab != constants.TabPrediction,
		Model:            p.Model,
		ColorNonDefault:  ColorNonDefault,
		ColorDefault:     ColorDefault,
		ChartBaseline:    chartBaseline,
	}

	for _, def := range models.Fields() {
		fv := fieldView{FieldDefinition: def, Value: p.Values[def.Name], Error: p.Errors[def.Name]}
		for _, opt := range def.Options {
			fv.Options = append(fv.Options, optionView{Value: opt, Selected: opt == fv.Value})
		}
		if len(v.Groups) == 0 || v.Groups[len(v.Groups)-1].Name != def.Group {
			v.Groups = append(v.Groups, groupView{Name: def.Group})
		}
		g := &v.Groups[len(v.Groups)-1]
		g.Fields = append(g.Fields, fv)
	}

	if p.Result != nil && !v.HasErrors {
		v.Result = buildResult(p.Result)
	}
	return v
}

func buildResult(res *models.PredictionResult) *resultView {
	rv := &resultView{
		Default:     res.IsDefault(),
		Headline:    res.Headline(),
		Probability: res.ProbabilityDisplay(),
		Color:       ColorNonDefault,
	}
	if rv.Default {
		rv.Color = ColorDefault
	}
	colors := []string{ColorNonDefault, ColorDefault}
	for i, d := range res.Distribution() {
		h := d.Probability * chartPlotHeight
		rv.Bars = append(rv.Bars, barView{
			Outcome:     d.Outcome,
			Probability: d.Probability,
			Value:       strconv.FormatFloat(d.Probability, 'g', 12, 64),
			Percent:     models.FormatPercent(d.Probability),
			Color:       colors[i],
			X:           90 + i*200,
			Y:           chartBaseline - h,
			Height:      h,
		})
	}
	return rv
}
