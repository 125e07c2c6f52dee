package prediction

import (
	"github.com/yourusername/prop-forecast/internal/models"
	"github.com/yourusername/prop-forecast/internal/numeric"
)

// Aggregate blends factors into a passage probability.
// Without a real factor the result is always 0; illustrative factors only count in blend mode.
// Real factors whose weights are all zero are averaged equally.
func Aggregate(realFactors, illustrative []models.PredictionFactor, w Weights) float64 {
	if len(realFactors) == 0 {
		return 0
	}

	realWeight := 0.0
	for _, f := range realFactors {
		realWeight += w.For(f.Kind)
	}

	items := make([]numeric.Weighted, 0, len(realFactors)+len(illustrative))
	for _, f := range realFactors {
		weight := w.For(f.Kind)
		if realWeight <= 0 {
			weight = 1
		}
		items = append(items, numeric.Weighted{Value: f.Value, Weight: weight})
	}
	if w.Mode == ModeBlendIllustrative {
		for _, f := range illustrative {
			items = append(items, numeric.Weighted{Value: f.Value, Weight: w.For(f.Kind)})
		}
	}
	return numeric.Clamp01(numeric.WeightedAverage(items))
}
