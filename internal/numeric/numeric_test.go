package numeric

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.15, Clamp(0.05, 0.15, 0.85))
	assert.Equal(t, 0.85, Clamp(0.95, 0.15, 0.85))
	assert.Equal(t, 0.5, Clamp(0.5, 0.15, 0.85))
	assert.Equal(t, 0.0, Clamp01(-0.3))
	assert.Equal(t, 1.0, Clamp01(1.2))
}

func TestWeightedAverage(t *testing.T) {
	// 0.6 finance + 0.4 historical
	got := WeightedAverage([]Weighted{{Value: 0.7, Weight: 0.6}, {Value: 0.6, Weight: 0.4}})
	assert.InDelta(t, 0.66, got, 1e-9)

	// weights are normalized over what is present
	assert.InDelta(t, 0.7, WeightedAverage([]Weighted{{Value: 0.7, Weight: 0.6}}), 1e-9)
	assert.InDelta(t, 0.5, WeightedAverage([]Weighted{{Value: 0.2, Weight: 2}, {Value: 0.8, Weight: 2}}), 1e-9)

	assert.Zero(t, WeightedAverage(nil))
	assert.Zero(t, WeightedAverage([]Weighted{{Value: 0.9, Weight: 0}}))

	third := 1.0 / 3.0
	assert.Equal(t, third, WeightedAverage([]Weighted{{Value: third, Weight: 0.3}}))
	assert.Equal(t, third, WeightedAverage([]Weighted{{Value: 0.9, Weight: 0}, {Value: third, Weight: 0.7}}))
}

func TestBayesianPassRate(t *testing.T) {
	assert.InDelta(t, 0.667, BayesianPassRate(1, 1), 0.001)
	assert.InDelta(t, 0.5, BayesianPassRate(0, 0), 1e-9)
	assert.InDelta(t, 0.2, BayesianPassRate(0, 3), 1e-9)
	assert.InDelta(t, 0.8, BayesianPassRate(3, 3), 1e-9)
}

func TestMeanStdAndPercentile(t *testing.T) {
	mean, std := MeanStd([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.InDelta(t, 5.0, mean, 1e-9)
	assert.InDelta(t, 2.0, std, 1e-9)

	values := []float64{0.9, 0.1, 0.5, 0.3, 0.7}
	assert.Equal(t, 0.1, Percentile(values, 0))
	assert.Equal(t, 0.5, Percentile(values, 0.5))
	assert.Equal(t, 0.9, Percentile(values, 1))
	assert.Equal(t, 0.9, values[0], "input must not be reordered")

	min, max := MinMax(values)
	assert.Equal(t, 0.1, min)
	assert.Equal(t, 0.9, max)
}

func TestRoundAndNormalize(t *testing.T) {
	assert.Equal(t, 0.642, Round(0.64180, 3))
	assert.Equal(t, 0.5, Normalize(15, 10, 20))
	assert.Equal(t, 0.0, Normalize(5, 5, 5))
}
