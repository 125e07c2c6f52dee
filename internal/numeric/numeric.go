// Package numeric holds the small math helpers shared by the forecasting packages.
package numeric

import (
	"math"
	"sort"
)

// Weighted pairs a value with its weight
type Weighted struct {
	Value  float64
	Weight float64
}

// Clamp bounds value to [min, max]
func Clamp(value, min, max float64) float64 {
	return math.Max(min, math.Min(max, value))
}

// Clamp01 bounds value to the unit interval
func Clamp01(value float64) float64 {
	return Clamp(value, 0, 1)
}

// WeightedAverage returns sum(v*w)/sum(w). Weights need not sum to 1; a non-positive total yields 0.
// A single positively weighted item is returned exactly.
func WeightedAverage(items []Weighted) float64 {
	var sum, totalWeight float64
	contributors := 0
	last := 0.0
	for _, item := range items {
		if item.Weight <= 0 {
			continue
		}
		sum += item.Value * item.Weight
		totalWeight += item.Weight
		contributors++
		last = item.Value
	}
	switch contributors {
	case 0:
		return 0
	case 1:
		return last
	}
	return sum / totalWeight
}

// BayesianPassRate shrinks an observed pass rate toward 0.5 using a uniform Beta(1,1) prior
func BayesianPassRate(passed, total int) float64 {
	if total < 0 {
		total = 0
	}
	if passed < 0 {
		passed = 0
	}
	return float64(1+passed) / float64(2+total)
}

// Normalize maps value from [min, max] onto [0, 1]
func Normalize(value, min, max float64) float64 {
	if max-min == 0 {
		return 0
	}
	return Clamp01((value - min) / (max - min))
}

// Round rounds to the given number of decimal places
func Round(value float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(value*scale) / scale
}

// MeanStd returns the population mean and standard deviation
func MeanStd(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values))
	return mean, math.Sqrt(variance)
}

// MinMax returns the smallest and largest value
func MinMax(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	min, max := values[0], values[0]
	for _, v := range values[1:] {
		min = math.Min(min, v)
		max = math.Max(max, v)
	}
	return min, max
}

// Percentile returns the nearest-rank value at p in [0, 1]
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64{}, values...)
	sort.Float64s(sorted)
	idx := int(math.Floor(Clamp01(p) * float64(len(sorted)-1)))
	return sorted[idx]
}
