package factors

import (
	"fmt"
	"time"

	"github.com/yourusername/prop-forecast/internal/models"
	"github.com/yourusername/prop-forecast/internal/numeric"
)

// categoryBaselines are fixed demographic leanings per subject area
var categoryBaselines = map[models.Category]float64{
	models.CategoryTaxation:        0.42,
	models.CategoryEducation:       0.56,
	models.CategoryHealthcare:      0.54,
	models.CategoryEnvironment:     0.55,
	models.CategoryCriminalJustice: 0.50,
	models.CategoryLabor:           0.47,
	models.CategoryHousing:         0.46,
	models.CategoryTransportation:  0.50,
	models.CategoryGovernment:      0.45,
	models.CategoryCivilRights:     0.53,
	models.CategoryOther:           0.48,
}

const defaultBaseline = 0.48

// DemographicsCalculator applies a category baseline adjusted for turnout
type DemographicsCalculator struct{}

// Kind returns FactorDemographics
func (DemographicsCalculator) Kind() models.FactorKind { return models.FactorDemographics }

// Calculate returns clamp(baseline + 0.1 * (turnout - 1), 0.2, 0.8)
func (DemographicsCalculator) Calculate(in Inputs) *models.PredictionFactor {
	baseline, ok := categoryBaselines[in.Proposition.Category]
	if !ok {
		baseline = defaultBaseline
	}
	turnout := in.TurnoutMultiplier
	if turnout <= 0 {
		turnout = 1
	}
	value := numeric.Clamp(baseline+0.1*(turnout-1), 0.2, 0.8)
	return illustrativeFactor(
		models.FactorDemographics,
		value,
		fmt.Sprintf("Baseline electorate leaning for %s measures at %.0f%% of expected turnout",
			in.Proposition.Category, turnout*100),
		fmt.Sprintf("clamp(%.2f + 0.1 * (%.2f - 1), 0.2, 0.8)", baseline, turnout),
	)
}

// SentimentCalculator maps ballot wording sentiment to a factor value
type SentimentCalculator struct{}

// Kind returns FactorSentiment
func (SentimentCalculator) Kind() models.FactorKind { return models.FactorSentiment }

// Calculate returns clamp(0.5 + 0.25 * sentiment, 0.2, 0.8)
func (SentimentCalculator) Calculate(in Inputs) *models.PredictionFactor {
	sentiment := numeric.Clamp(in.Analysis.SentimentScore, -1, 1)
	return illustrativeFactor(
		models.FactorSentiment,
		numeric.Clamp(0.5+0.25*sentiment, 0.2, 0.8),
		fmt.Sprintf("Ballot wording sentiment %.2f", sentiment),
		fmt.Sprintf("clamp(0.5 + 0.25 * %.2f, 0.2, 0.8)", sentiment),
	)
}

// ComplexityCalculator favors plainly worded measures
type ComplexityCalculator struct{}

// Kind returns FactorComplexity
func (ComplexityCalculator) Kind() models.FactorKind { return models.FactorComplexity }

// Calculate returns 0.55 simple, 0.50 moderate, 0.42 complex
func (ComplexityCalculator) Calculate(in Inputs) *models.PredictionFactor {
	complexity := in.Analysis.Complexity
	var value float64
	switch complexity {
	case models.ComplexitySimple:
		value = 0.55
	case models.ComplexityComplex:
		value = 0.42
	default:
		complexity = models.ComplexityModerate
		value = 0.50
	}
	return illustrativeFactor(
		models.FactorComplexity,
		value,
		fmt.Sprintf("Wording is %s (readability %.0f)", complexity, in.Analysis.ReadabilityScore),
		"simple 0.55, moderate 0.50, complex 0.42",
	)
}

// TimingCalculator scores the election the measure appears on
type TimingCalculator struct{}

// Kind returns FactorTiming
func (TimingCalculator) Kind() models.FactorKind { return models.FactorTiming }

// Calculate returns 0.55 for a presidential general, 0.48 for a midterm general, 0.45 otherwise
func (TimingCalculator) Calculate(in Inputs) *models.PredictionFactor {
	kind, value := ElectionKind(in.Proposition)
	return illustrativeFactor(
		models.FactorTiming,
		value,
		fmt.Sprintf("On the ballot in a %s election", kind),
		"presidential general 0.55, midterm general 0.48, other 0.45",
	)
}

// ElectionKind classifies the election a proposition appears on.
// Without an election date the November general of its year is assumed.
func ElectionKind(p *models.Proposition) (string, float64) {
	year, month := p.Year, time.November
	if !p.ElectionDate.IsZero() {
		year, month = p.ElectionDate.Year(), p.ElectionDate.Month()
	}
	switch {
	case month == time.November && year%4 == 0:
		return "presidential general", 0.55
	case month == time.November && year%2 == 0:
		return "midterm general", 0.48
	default:
		return "special or primary", 0.45
	}
}

// OppositionCalculator discounts measures facing organized opposition.
// The larger of the registered opposition committees and named opponents is used.
type OppositionCalculator struct{}

// Kind returns FactorOpposition
func (OppositionCalculator) Kind() models.FactorKind { return models.FactorOpposition }

// Calculate returns clamp(0.6 - 0.05 * committees, 0.3, 0.6)
func (OppositionCalculator) Calculate(in Inputs) *models.PredictionFactor {
	committees := in.Finance.OppositionCommittees()
	if len(in.Opponents) > committees {
		committees = len(in.Opponents)
	}
	return illustrativeFactor(
		models.FactorOpposition,
		numeric.Clamp(0.6-0.05*float64(committees), 0.3, 0.6),
		fmt.Sprintf("%d organized opposition groups", committees),
		fmt.Sprintf("clamp(0.6 - 0.05 * %d, 0.3, 0.6)", committees),
	)
}
