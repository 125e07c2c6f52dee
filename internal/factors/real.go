package factors

import (
	"fmt"

	"github.com/yourusername/prop-forecast/internal/models"
	"github.com/yourusername/prop-forecast/internal/numeric"
)

// Bounds keep a single factor from dominating a forecast
const (
	historicalFloor = 0.1
	historicalCeil  = 0.9
	financeFloor    = 0.15
	financeCeil     = 0.85

	DefaultMinHistoricalComparisons = 3
)

// HistoricalCalculator scores the pass rate of comparable past measures
type HistoricalCalculator struct {
	MinComparisons int
}

// Kind returns FactorHistorical
func (HistoricalCalculator) Kind() models.FactorKind { return models.FactorHistorical }

// Calculate shrinks the observed pass rate toward one half: (1 + passed) / (2 + total)
func (c HistoricalCalculator) Calculate(in Inputs) *models.PredictionFactor {
	minimum := c.MinComparisons
	if minimum <= 0 {
		minimum = DefaultMinHistoricalComparisons
	}
	total := len(in.Comparisons)
	if total < minimum {
		return nil
	}
	passed := 0
	for _, comparison := range in.Comparisons {
		if comparison.Passed {
			passed++
		}
	}

	value := numeric.Clamp(numeric.BayesianPassRate(passed, total), historicalFloor, historicalCeil)
	return realFactor(
		models.FactorHistorical,
		value,
		fmt.Sprintf("%d of %d similar past measures passed", passed, total),
		fmt.Sprintf("historical archive (%d comparisons)", total),
	)
}

// FinanceCalculator scores the support side's share of campaign money
type FinanceCalculator struct{}

// Kind returns FactorFinance
func (FinanceCalculator) Kind() models.FactorKind { return models.FactorFinance }

// Calculate returns support / (support + opposition) bounded to [0.15, 0.85]
func (FinanceCalculator) Calculate(in Inputs) *models.PredictionFactor {
	share, ok := in.Finance.SupportShare()
	if !ok {
		return nil
	}
	value := numeric.Clamp(share, financeFloor, financeCeil)
	return realFactor(
		models.FactorFinance,
		value,
		fmt.Sprintf("Support raised $%s against $%s opposing (%.0f%% share)",
			in.Finance.TotalSupport.StringFixed(0), in.Finance.TotalOpposition.StringFixed(0), share*100),
		"campaign finance filings",
	)
}
