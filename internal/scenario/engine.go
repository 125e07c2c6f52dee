// Package scenario runs and stores what-if explorations of a proposition forecast.
package scenario

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/prop-forecast/internal/logger"
	"github.com/yourusername/prop-forecast/internal/metrics"
	"github.com/yourusername/prop-forecast/internal/models"
	"github.com/yourusername/prop-forecast/internal/numeric"
	"github.com/yourusername/prop-forecast/internal/prediction"
)

// DefaultConfidenceBand is the half-width of the display band around a scenario probability.
// It is a fixed heuristic, not a statistical interval.
const DefaultConfidenceBand = 0.1

// Predictor gathers evidence once and evaluates it any number of times
type Predictor interface {
	Gather(ctx context.Context, req prediction.Request) (*prediction.Snapshot, error)
	Evaluate(s *prediction.Snapshot, weights prediction.Weights, includeIllustrative bool) models.PropositionPrediction
}

// Engine evaluates scenarios against their base proposition
type Engine struct {
	predictor Predictor
	band      float64
	logger    *logger.PredictionLogger
	now       func() time.Time
}

// NewEngine creates a scenario engine. A band of zero or less uses DefaultConfidenceBand.
func NewEngine(predictor Predictor, band float64, log *logrus.Logger) *Engine {
	if band <= 0 {
		band = DefaultConfidenceBand
	}
	if log == nil {
		log = logrus.New()
	}
	return &Engine{
		predictor: predictor,
		band:      band,
		logger:    logger.NewPredictionLogger(log),
		now:       time.Now,
	}
}

// RunScenario compares the forecast of a proposition with the forecast under the scenario's parameters
func (e *Engine) RunScenario(ctx context.Context, details models.PropositionDetails, scenario *models.Scenario, weights prediction.Weights) (models.ScenarioResults, error) {
	start := time.Now()
	results, err := e.run(ctx, details, scenario.Parameters, weights)
	if err != nil {
		metrics.RecordScenarioRun(metrics.ScenarioRunError, time.Since(start).Seconds())
		return models.ScenarioResults{}, err
	}

	elapsed := time.Since(start)
	metrics.RecordScenarioRun(metrics.ScenarioRunSuccess, elapsed.Seconds())
	e.logger.LogScenarioRun(
		scenario.ID.String(),
		details.ID(),
		results.OriginalProbability,
		results.NewProbability,
		results.ProbabilityDelta,
		float64(elapsed.Microseconds())/1000,
	)
	return results, nil
}

func (e *Engine) run(ctx context.Context, details models.PropositionDetails, params models.ScenarioParameters, weights prediction.Weights) (models.ScenarioResults, error) {
	base, err := e.predictor.Gather(ctx, prediction.Request{
		Proposition:         details,
		IncludeHistorical:   true,
		IncludeIllustrative: true,
	})
	if err != nil {
		return models.ScenarioResults{}, err
	}
	params = ClampParameters(params)
	modified := Apply(base, params)

	var original, adjusted models.PropositionPrediction
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		original = e.predictor.Evaluate(base, weights, true)
		return gctx.Err()
	})
	g.Go(func() error {
		adjusted = e.predictor.Evaluate(modified, weights, true)
		return gctx.Err()
	})
	if err := g.Wait(); err != nil {
		return models.ScenarioResults{}, err
	}

	delta := numeric.Round(adjusted.PassageProbability-original.PassageProbability, 4)
	return models.ScenarioResults{
		OriginalProbability: original.PassageProbability,
		NewProbability:      adjusted.PassageProbability,
		ProbabilityDelta:    delta,
		ConfidenceInterval: models.ConfidenceInterval{
			Lower: numeric.Round(numeric.Clamp01(adjusted.PassageProbability-e.band), 4),
			Upper: numeric.Round(numeric.Clamp01(adjusted.PassageProbability+e.band), 4),
		},
		FactorContributions: Contributions(original, adjusted),
		SensitivityAnalysis: e.sensitivity(base, params, weights),
		OriginalDataQuality: original.DataQuality,
		DataQuality:         adjusted.DataQuality,
		GeneratedAt:         e.now().UTC(),
	}, nil
}

// Contributions pairs every factor of the original forecast with its scenario counterpart by kind.
// A factor missing from the scenario forecast counts as unchanged.
func Contributions(original, adjusted models.PropositionPrediction) []models.FactorContribution {
	adjustedByKind := make(map[models.FactorKind]float64)
	for _, f := range adjusted.Factors {
		adjustedByKind[f.Kind] = f.Value
	}
	for _, f := range adjusted.IllustrativeFactors {
		adjustedByKind[f.Kind] = f.Value
	}

	all := make([]models.PredictionFactor, 0, len(original.Factors)+len(original.IllustrativeFactors))
	all = append(all, original.Factors...)
	all = append(all, original.IllustrativeFactors...)

	contributions := make([]models.FactorContribution, 0, len(all))
	for _, f := range all {
		value, ok := adjustedByKind[f.Kind]
		if !ok {
			value = f.Value
		}
		originalImpact, adjustedImpact := numeric.Round(f.Value, 4), numeric.Round(value, 4)
		contributions = append(contributions, models.FactorContribution{
			Factor:         f.Kind.String(),
			OriginalImpact: originalImpact,
			AdjustedImpact: adjustedImpact,
			Contribution:   numeric.Round(adjustedImpact-originalImpact, 4),
		})
	}
	return contributions
}
