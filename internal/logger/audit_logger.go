// Package logger provides audit logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogScenarioCreated logs creation of a scenario.
func (al *AuditLogger) LogScenarioCreated(scenarioID, name, propositionID string) {
	al.WithFields(logrus.Fields{
		"scenario_id":    scenarioID,
		"scenario_name":  name,
		"proposition_id": propositionID,
	}).Info("Scenario created")
}

// LogScenarioParameterChange logs a parameter edit on a stored scenario.
func (al *AuditLogger) LogScenarioParameterChange(scenarioID, parameterName string, oldValue, newValue interface{}) {
	al.WithFields(logrus.Fields{
		"scenario_id":    scenarioID,
		"parameter_name": parameterName,
		"old_value":      oldValue,
		"new_value":      newValue,
	}).Info("Scenario parameter changed")
}

// LogScenarioDuplicated logs a scenario copy.
func (al *AuditLogger) LogScenarioDuplicated(sourceID, newID, newName string) {
	al.WithFields(logrus.Fields{
		"source_scenario_id": sourceID,
		"scenario_id":        newID,
		"scenario_name":      newName,
	}).Info("Scenario duplicated")
}

// LogScenarioDeleted logs removal of a scenario.
func (al *AuditLogger) LogScenarioDeleted(scenarioID string) {
	al.WithField("scenario_id", scenarioID).Info("Scenario deleted")
}

// LogRejectedParameters logs a scenario write that failed validation.
func (al *AuditLogger) LogRejectedParameters(scenarioID string, err error) {
	al.WithFields(logrus.Fields{
		"scenario_id": scenarioID,
		"error":       err.Error(),
	}).Warn("Scenario parameters rejected")
}
