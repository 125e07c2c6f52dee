package factors

import (
	"github.com/yourusername/prop-forecast/internal/models"
	"github.com/yourusername/prop-forecast/internal/numeric"
)

// realFactor keeps full precision; only illustrative values are rounded
func realFactor(kind models.FactorKind, value float64, description, source string) *models.PredictionFactor {
	return &models.PredictionFactor{
		Kind:        kind,
		Name:        kind.Label(),
		Value:       value,
		Impact:      models.ImpactOf(value),
		Description: description,
		Source:      source,
		Provenance:  models.ProvenanceReal,
		HasRealData: true,
	}
}

func illustrativeFactor(kind models.FactorKind, value float64, description, formula string) *models.PredictionFactor {
	value = numeric.Round(value, 4)
	return &models.PredictionFactor{
		Kind:        kind,
		Name:        kind.Label(),
		Value:       value,
		Impact:      models.ImpactOf(value),
		Description: description,
		Source:      "illustrative model",
		Formula:     formula,
		Provenance:  models.ProvenanceIllustrative,
		HasRealData: false,
	}
}
