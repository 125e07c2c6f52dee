package scenario

import (
	"github.com/yourusername/prop-forecast/internal/models"
	"github.com/yourusername/prop-forecast/internal/numeric"
)

// Compare summarizes the scenarios that have results. Scenarios without results are skipped.
func Compare(scenarios []models.Scenario) (models.ScenarioComparison, error) {
	withResults := make([]models.Scenario, 0, len(scenarios))
	for _, s := range scenarios {
		if s.Results != nil {
			withResults = append(withResults, s)
		}
	}
	if len(withResults) == 0 {
		return models.ScenarioComparison{}, models.ErrNoScenarioResults
	}

	best, worst := withResults[0], withResults[0]
	probabilities := make([]float64, 0, len(withResults))
	for _, s := range withResults {
		p := s.Results.NewProbability
		probabilities = append(probabilities, p)
		if p > best.Results.NewProbability {
			best = s
		}
		if p < worst.Results.NewProbability {
			worst = s
		}
	}
	mean, _ := numeric.MeanStd(probabilities)
	low, high := numeric.MinMax(probabilities)

	return models.ScenarioComparison{
		Scenarios:          withResults,
		BestCase:           best,
		WorstCase:          worst,
		AverageProbability: numeric.Round(mean, 4),
		ProbabilityRange:   models.ProbabilityRange{Min: low, Max: high},
	}, nil
}
