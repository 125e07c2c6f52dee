package scenario

import (
	"github.com/yourusername/prop-forecast/internal/models"
	"github.com/yourusername/prop-forecast/internal/numeric"
	"github.com/yourusername/prop-forecast/internal/prediction"
)

// Accepted parameter bounds, enforced again inside the engine
const (
	minFunding   = 0.0
	maxFunding   = 10.0
	minTurnout   = 0.5
	maxTurnout   = 1.5
	minSentiment = -1.0
	maxSentiment = 1.0
)

// ClampParameters forces every parameter into its accepted range
func ClampParameters(p models.ScenarioParameters) models.ScenarioParameters {
	p.Funding.SupportMultiplier = numeric.Clamp(p.Funding.SupportMultiplier, minFunding, maxFunding)
	p.Funding.OppositionMultiplier = numeric.Clamp(p.Funding.OppositionMultiplier, minFunding, maxFunding)
	p.Turnout.OverallMultiplier = numeric.Clamp(p.Turnout.OverallMultiplier, minTurnout, maxTurnout)
	p.Framing.TitleSentiment = numeric.Clamp(p.Framing.TitleSentiment, minSentiment, maxSentiment)
	switch p.Framing.SummaryComplexity {
	case models.SummarySimpler, models.SummaryComplex:
	default:
		p.Framing.SummaryComplexity = models.SummaryUnchanged
	}
	return p
}

// Apply returns a modified copy of the snapshot. Funding scales finance, turnout and
// framing adjust the inputs of the illustrative factors only.
func Apply(base *prediction.Snapshot, p models.ScenarioParameters) *prediction.Snapshot {
	p = ClampParameters(p)

	modified := *base
	modified.Finance = base.Finance.Scaled(p.Funding.SupportMultiplier, p.Funding.OppositionMultiplier)
	modified.TurnoutMultiplier = base.TurnoutMultiplier * p.Turnout.OverallMultiplier

	analysis := base.Analysis
	analysis.SentimentScore = numeric.Clamp(analysis.SentimentScore+p.Framing.TitleSentiment, minSentiment, maxSentiment)
	analysis.Complexity = ShiftComplexity(analysis.Complexity, p.Framing.SummaryComplexity)
	modified.Analysis = analysis
	return &modified
}

// ShiftComplexity moves a complexity bucket one step in the requested direction
func ShiftComplexity(c models.Complexity, shift models.SummaryComplexity) models.Complexity {
	levels := []models.Complexity{models.ComplexitySimple, models.ComplexityModerate, models.ComplexityComplex}
	idx := 1
	for i, level := range levels {
		if level == c {
			idx = i
		}
	}
	switch shift {
	case models.SummarySimpler:
		if idx > 0 {
			idx--
		}
	case models.SummaryComplex:
		if idx < len(levels)-1 {
			idx++
		}
	}
	return levels[idx]
}
