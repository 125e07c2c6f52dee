package factors

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/prop-forecast/internal/models"
)

func comparisons(passed, failed int) []models.HistoricalComparison {
	out := make([]models.HistoricalComparison, 0, passed+failed)
	for i := 0; i < passed; i++ {
		out = append(out, models.HistoricalComparison{Passed: true})
	}
	for i := 0; i < failed; i++ {
		out = append(out, models.HistoricalComparison{Passed: false})
	}
	return out
}

func finance(support, opposition int64) *models.PropositionFinance {
	return &models.PropositionFinance{
		TotalSupport:    decimal.NewFromInt(support),
		TotalOpposition: decimal.NewFromInt(opposition),
	}
}

func TestHistoricalCalculator(t *testing.T) {
	calc := HistoricalCalculator{MinComparisons: 3}

	tests := []struct {
		name     string
		passed   int
		failed   int
		min      int
		expected float64
		present  bool
	}{
		{name: "too few comparisons", passed: 2, failed: 0, present: false},
		{name: "single pass with minimum of one", passed: 1, failed: 0, min: 1, expected: 0.6667, present: true},
		{name: "three of four passed shrinks toward half", passed: 3, failed: 1, expected: 0.6667, present: true},
		{name: "all passed", passed: 3, failed: 0, expected: 0.8, present: true},
		{name: "ceiling", passed: 20, failed: 0, expected: 0.9, present: true},
		{name: "floor", passed: 0, failed: 20, expected: 0.1, present: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc := calc
			if tt.min > 0 {
				calc.MinComparisons = tt.min
			}
			f := calc.Calculate(Inputs{Comparisons: comparisons(tt.passed, tt.failed)})
			if !tt.present {
				assert.Nil(t, f)
				return
			}
			require.NotNil(t, f)
			assert.InDelta(t, tt.expected, f.Value, 1e-4)
			assert.True(t, f.HasRealData)
			assert.Equal(t, models.ProvenanceReal, f.Provenance)
			assert.Equal(t, models.FactorHistorical, f.Kind)
		})
	}
}

func TestHistoricalCalculatorDefaultMinimum(t *testing.T) {
	assert.Nil(t, HistoricalCalculator{}.Calculate(Inputs{Comparisons: comparisons(1, 1)}))
	assert.NotNil(t, HistoricalCalculator{}.Calculate(Inputs{Comparisons: comparisons(2, 1)}))
}

func TestFinanceCalculator(t *testing.T) {
	calc := FinanceCalculator{}

	assert.Nil(t, calc.Calculate(Inputs{}))
	assert.Nil(t, calc.Calculate(Inputs{Finance: finance(0, 0)}))

	f := calc.Calculate(Inputs{Finance: finance(3_000_000, 1_000_000)})
	require.NotNil(t, f)
	assert.InDelta(t, 0.75, f.Value, 1e-9)
	assert.Equal(t, models.ImpactPositive, f.Impact)

	capped := calc.Calculate(Inputs{Finance: finance(10_000_000, 0)})
	require.NotNil(t, capped)
	assert.Equal(t, 0.85, capped.Value)

	floored := calc.Calculate(Inputs{Finance: finance(0, 5_000_000)})
	require.NotNil(t, floored)
	assert.Equal(t, 0.15, floored.Value)
	assert.Equal(t, models.ImpactNegative, floored.Impact)
}

func TestIllustrativeCalculators(t *testing.T) {
	prop := &models.Proposition{
		Year:         2024,
		Number:       "1",
		Title:        "School bond",
		Category:     models.CategoryEducation,
		ElectionDate: time.Date(2024, time.November, 5, 0, 0, 0, 0, time.UTC),
	}
	in := Inputs{
		Proposition:       prop,
		Analysis:          models.BallotWordingAnalysis{SentimentScore: 0.4, Complexity: models.ComplexityComplex},
		TurnoutMultiplier: 1.2,
		Finance: &models.PropositionFinance{Committees: []models.Committee{
			{ID: "a", Position: models.PositionOpposition},
			{ID: "b", Position: models.PositionOpposition},
			{ID: "c", Position: models.PositionSupport},
		}},
	}

	illustrative := NewSet(3).Illustrative(in)
	require.Len(t, illustrative, 5)

	byKind := make(map[models.FactorKind]models.PredictionFactor)
	for _, f := range illustrative {
		assert.False(t, f.HasRealData)
		assert.Equal(t, models.ProvenanceIllustrative, f.Provenance)
		assert.NotEmpty(t, f.Formula)
		assert.True(t, f.Kind.Illustrative())
		byKind[f.Kind] = f
	}

	assert.InDelta(t, 0.58, byKind[models.FactorDemographics].Value, 1e-9)
	assert.InDelta(t, 0.6, byKind[models.FactorSentiment].Value, 1e-9)
	assert.Equal(t, 0.42, byKind[models.FactorComplexity].Value)
	assert.Equal(t, 0.55, byKind[models.FactorTiming].Value)
	assert.InDelta(t, 0.5, byKind[models.FactorOpposition].Value, 1e-9)
}

func TestSentimentBounds(t *testing.T) {
	calc := SentimentCalculator{}
	high := calc.Calculate(Inputs{Analysis: models.BallotWordingAnalysis{SentimentScore: 5}})
	low := calc.Calculate(Inputs{Analysis: models.BallotWordingAnalysis{SentimentScore: -1}})
	assert.Equal(t, 0.75, high.Value)
	assert.Equal(t, 0.25, low.Value)
}

func TestOppositionBounds(t *testing.T) {
	committees := make([]models.Committee, 10)
	for i := range committees {
		committees[i].Position = models.PositionOpposition
	}
	f := OppositionCalculator{}.Calculate(Inputs{Finance: &models.PropositionFinance{Committees: committees}})
	assert.Equal(t, 0.3, f.Value)

	none := OppositionCalculator{}.Calculate(Inputs{})
	assert.Equal(t, 0.6, none.Value)

	named := OppositionCalculator{}.Calculate(Inputs{Opponents: []string{"Taxpayers Association", "Chamber of Commerce"}})
	assert.InDelta(t, 0.5, named.Value, 1e-9)
}

func TestElectionKind(t *testing.T) {
	tests := []struct {
		name     string
		prop     models.Proposition
		expected float64
	}{
		{name: "presidential general", prop: models.Proposition{Year: 2024}, expected: 0.55},
		{name: "midterm general", prop: models.Proposition{Year: 2022}, expected: 0.48},
		{name: "primary", prop: models.Proposition{Year: 2024, ElectionDate: time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)}, expected: 0.45},
		{name: "odd year special", prop: models.Proposition{Year: 2023}, expected: 0.45},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, value := ElectionKind(&tt.prop)
			assert.Equal(t, tt.expected, value)
		})
	}
}

func TestSetRealSkipsUnsupported(t *testing.T) {
	set := NewSet(3)
	prop := &models.Proposition{Year: 2024, Number: "1", Title: "x", Category: models.CategoryOther}

	assert.Empty(t, set.Real(Inputs{Proposition: prop}))

	factors := set.Real(Inputs{Proposition: prop, Finance: finance(1, 1), Comparisons: comparisons(3, 1)})
	require.Len(t, factors, 2)
	assert.Equal(t, models.FactorHistorical, factors[0].Kind)
	assert.Equal(t, models.FactorFinance, factors[1].Kind)
}
