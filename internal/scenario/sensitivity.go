package scenario

import (
	"math"
	"sort"

	"github.com/yourusername/prop-forecast/internal/models"
	"github.com/yourusername/prop-forecast/internal/numeric"
	"github.com/yourusername/prop-forecast/internal/prediction"
)

// Sensitivity parameter names
const (
	ParamSupportFunding    = "funding.support_multiplier"
	ParamOppositionFunding = "funding.opposition_multiplier"
	ParamTurnout           = "turnout.overall_multiplier"
	ParamTitleSentiment    = "framing.title_sentiment"
)

type perturbation struct {
	name string
	get  func(p models.ScenarioParameters) float64
	set  func(p *models.ScenarioParameters, v float64)
	low  func(v float64) float64
	high func(v float64) float64
}

var perturbations = []perturbation{
	{
		name: ParamSupportFunding,
		get:  func(p models.ScenarioParameters) float64 { return p.Funding.SupportMultiplier },
		set:  func(p *models.ScenarioParameters, v float64) { p.Funding.SupportMultiplier = v },
		low:  func(v float64) float64 { return v * 0.75 },
		high: func(v float64) float64 { return math.Min(v*1.25, maxFunding) },
	},
	{
		name: ParamOppositionFunding,
		get:  func(p models.ScenarioParameters) float64 { return p.Funding.OppositionMultiplier },
		set:  func(p *models.ScenarioParameters, v float64) { p.Funding.OppositionMultiplier = v },
		low:  func(v float64) float64 { return v * 0.75 },
		high: func(v float64) float64 { return math.Min(v*1.25, maxFunding) },
	},
	{
		name: ParamTurnout,
		get:  func(p models.ScenarioParameters) float64 { return p.Turnout.OverallMultiplier },
		set:  func(p *models.ScenarioParameters, v float64) { p.Turnout.OverallMultiplier = v },
		low:  func(v float64) float64 { return math.Max(v-0.1, minTurnout) },
		high: func(v float64) float64 { return math.Min(v+0.1, maxTurnout) },
	},
	{
		name: ParamTitleSentiment,
		get:  func(p models.ScenarioParameters) float64 { return p.Framing.TitleSentiment },
		set:  func(p *models.ScenarioParameters, v float64) { p.Framing.TitleSentiment = v },
		low:  func(v float64) float64 { return math.Max(v-0.25, minSentiment) },
		high: func(v float64) float64 { return math.Min(v+0.25, maxSentiment) },
	},
}

// sensitivity nudges one parameter at a time around the scenario values,
// reusing the base snapshot so no data is fetched again
func (e *Engine) sensitivity(base *prediction.Snapshot, params models.ScenarioParameters, weights prediction.Weights) []models.SensitivityResult {
	results := make([]models.SensitivityResult, 0, len(perturbations))
	for _, pert := range perturbations {
		value := pert.get(params)
		lowValue, highValue := pert.low(value), pert.high(value)

		lowParams, highParams := params, params
		pert.set(&lowParams, lowValue)
		pert.set(&highParams, highValue)

		lowProb := e.predictor.Evaluate(Apply(base, lowParams), weights, false).PassageProbability
		highProb := e.predictor.Evaluate(Apply(base, highParams), weights, false).PassageProbability

		results = append(results, models.SensitivityResult{
			Parameter:       pert.name,
			LowValue:        numeric.Round(lowValue, 4),
			HighValue:       numeric.Round(highValue, 4),
			LowProbability:  lowProb,
			HighProbability: highProb,
			Swing:           numeric.Round(highProb-lowProb, 4),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return math.Abs(results[i].Swing) > math.Abs(results[j].Swing)
	})
	return results
}
