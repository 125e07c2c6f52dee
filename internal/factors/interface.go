// Package factors computes the individual inputs of a passage forecast.
package factors

import (
	"github.com/yourusername/prop-forecast/internal/models"
)

// Calculator produces one kind of prediction factor.
// Calculate returns nil when the inputs cannot support the factor.
type Calculator interface {
	Kind() models.FactorKind
	Calculate(in Inputs) *models.PredictionFactor
}

// Inputs is everything a calculator may read. It is never mutated by calculators.
type Inputs struct {
	Proposition *models.Proposition
	Finance     *models.PropositionFinance
	Analysis    models.BallotWordingAnalysis
	Comparisons []models.HistoricalComparison
	Opponents   []string

	// TurnoutMultiplier scales expected turnout; 1.0 is the baseline electorate
	TurnoutMultiplier float64
}

// Set groups the calculators backed by real data and the illustrative ones
type Set struct {
	real         []Calculator
	illustrative []Calculator
}

// NewSet creates the standard calculator set
func NewSet(minHistoricalComparisons int) *Set {
	return &Set{
		real: []Calculator{
			HistoricalCalculator{MinComparisons: minHistoricalComparisons},
			FinanceCalculator{},
		},
		illustrative: []Calculator{
			DemographicsCalculator{},
			SentimentCalculator{},
			ComplexityCalculator{},
			TimingCalculator{},
			OppositionCalculator{},
		},
	}
}

// Real returns the real-data factors the inputs support, in display order
func (s *Set) Real(in Inputs) []models.PredictionFactor {
	return run(s.real, in)
}

// Illustrative returns every illustrative factor, in display order
func (s *Set) Illustrative(in Inputs) []models.PredictionFactor {
	return run(s.illustrative, in)
}

func run(calculators []Calculator, in Inputs) []models.PredictionFactor {
	out := make([]models.PredictionFactor, 0, len(calculators))
	for _, c := range calculators {
		if f := c.Calculate(in); f != nil {
			out = append(out, *f)
		}
	}
	return out
}
