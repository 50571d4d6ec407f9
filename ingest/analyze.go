package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"valeai/metrics"
	"valeai/tools"
)

const (
	ANALYSIS_MAX_INPUT  = 20000
	ANALYSIS_MAX_TOPICS = 10
)

func analysisPrompt(content string) string {
	return `Analiza este contenido y extrae SOLO:
1. Temas clave (max 10, esenciales)
2. Categorías académicas
3. Resumen limpio (max 250 palabras, sin símbolos innecesarios)

Contenido:
` + tools.Truncate(content, ANALYSIS_MAX_INPUT, "") + `

JSON sin markdown:
{
  "topics": ["tema1", "tema2"],
  "categories": ["categoría1"],
  "summary": "resumen directo"
}`
}

var (
	codeFence   = regexp.MustCompile("```(?:json)?")
	jsonObject  = regexp.MustCompile(`\{[\s\S]*\}`)
	errNoObject = errors.New("no json object in model reply")
)

// Analysis is what the model learned from a file. Empty when offline or on failure.
type Analysis struct {
	Topics     []string `json:"topics"`
	Categories []string `json:"categories"`
	Summary    string   `json:"summary"`
}

func (a *Analysis) Empty() bool {
	return a == nil || (len(a.Topics) == 0 && len(a.Categories) == 0 && a.Summary == "")
}

// Analyzer asks the remote model for topics, categories and a summary.
type Analyzer struct {
	model   tools.Model
	prober  tools.Prober
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewAnalyzer(model tools.Model, prober tools.Prober, m *metrics.Metrics, logger *zap.Logger) *Analyzer {
	return &Analyzer{model: model, prober: prober, metrics: m, logger: logger}
}

// Analyze never fails; any problem yields an empty analysis.
func (a *Analyzer) Analyze(ctx context.Context, content string) *Analysis {
	empty := &Analysis{Topics: []string{}, Categories: []string{}}

	if a.model == nil || a.prober == nil || !a.prober.IsOnline(ctx) {
		return empty
	}

	done := a.metrics.ModelTimer("analyze")
	reply, err := a.model.GenerateText(ctx, analysisPrompt(content), nil)
	done()
	if err != nil {
		a.metrics.ModelErrorInc("analyze")
		a.logger.Warn("ingest: analysis call failed", zap.Error(err))
		return empty
	}

	analysis, err := ParseAnalysis(reply)
	if err != nil {
		a.metrics.ModelErrorInc("analyze")
		a.logger.Warn("ingest: analysis unparsable", zap.Error(err))
		return empty
	}
	return analysis
}

// ParseAnalysis strips markdown fences, takes the first {...} block and
// normalizes the result.
func ParseAnalysis(reply string) (*Analysis, error) {
	reply = codeFence.ReplaceAllString(reply, "")
	raw := jsonObject.FindString(reply)
	if raw == "" {
		return nil, errNoObject
	}

	var out Analysis
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}

	clean := func(items []string) []string {
		items = lo.Map(items, func(s string, _ int) string { return strings.TrimSpace(s) })
		return lo.Uniq(lo.Filter(items, func(s string, _ int) bool { return s != "" }))
	}
	out.Topics = clean(out.Topics)
	if len(out.Topics) > ANALYSIS_MAX_TOPICS {
		out.Topics = out.Topics[:ANALYSIS_MAX_TOPICS]
	}
	out.Categories = clean(out.Categories)
	out.Summary = CleanText(out.Summary)
	return &out, nil
}
