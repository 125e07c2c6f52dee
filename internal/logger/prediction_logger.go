// Package logger provides forecasting-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// PredictionLogger provides dedicated logging for forecast generation.
type PredictionLogger struct {
	*logrus.Entry
}

// NewPredictionLogger creates a new prediction logger.
func NewPredictionLogger(baseLogger *logrus.Logger) *PredictionLogger {
	return &PredictionLogger{
		Entry: baseLogger.WithField("component", "prediction"),
	}
}

// LogPrediction logs a completed forecast.
func (pl *PredictionLogger) LogPrediction(propositionID string, probability float64, dataQuality string, realFactors, comparisons int, durationMs float64) {
	pl.WithFields(logrus.Fields{
		"proposition_id":      propositionID,
		"passage_probability": probability,
		"data_quality":        dataQuality,
		"real_factors":        realFactors,
		"comparisons":         comparisons,
		"duration_ms":         durationMs,
	}).Info("Prediction generated")
}

// LogComparisonsFound logs the outcome of a historical comparison search.
func (pl *PredictionLogger) LogComparisonsFound(propositionID, category string, yearsSearched, candidates, kept int) {
	pl.WithFields(logrus.Fields{
		"proposition_id": propositionID,
		"category":       category,
		"years_searched": yearsSearched,
		"candidates":     candidates,
		"comparisons":    kept,
	}).Debug("Historical comparisons found")
}

// LogUpstreamDegraded logs an archive or finance failure that was absorbed.
func (pl *PredictionLogger) LogUpstreamDegraded(source string, year int, err error) {
	pl.WithFields(logrus.Fields{
		"source": source,
		"year":   year,
		"error":  err.Error(),
	}).Warn("Upstream unavailable, continuing without its data")
}

// LogScenarioRun logs a completed scenario evaluation.
func (pl *PredictionLogger) LogScenarioRun(scenarioID, propositionID string, original, adjusted, delta float64, durationMs float64) {
	pl.WithFields(logrus.Fields{
		"scenario_id":          scenarioID,
		"proposition_id":       propositionID,
		"original_probability": original,
		"new_probability":      adjusted,
		"probability_delta":    delta,
		"duration_ms":          durationMs,
	}).Info("Scenario evaluated")
}
