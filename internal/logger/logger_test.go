package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	if err != nil {
		return nil
	}
	return logEntry
}

func TestNewLoggerFallsBackToInfo(t *testing.T) {
	log := NewLogger("chatty")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())

	log = NewLogger("debug")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
}

func TestPredictionLoggerPrediction(t *testing.T) {
	log, buf := setupTestLogger()
	predictionLogger := NewPredictionLogger(log)

	predictionLogger.LogPrediction("2024-33", 0.6418, "strong", 2, 4, 12.5)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "prediction", logEntry["component"])
	assert.Equal(t, "2024-33", logEntry["proposition_id"])
	assert.Equal(t, "strong", logEntry["data_quality"])
	assert.Equal(t, 0.6418, logEntry["passage_probability"])
}

func TestPredictionLoggerUpstreamDegraded(t *testing.T) {
	log, buf := setupTestLogger()
	predictionLogger := NewPredictionLogger(log)

	predictionLogger.LogUpstreamDegraded("archive", 2020, errors.New("timeout"))

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "warning", logEntry["level"])
	assert.Equal(t, "timeout", logEntry["error"])
	assert.Equal(t, float64(2020), logEntry["year"])
}

func TestAuditLoggerScenarioCreated(t *testing.T) {
	log, buf := setupTestLogger()
	auditLogger := NewAuditLogger(log)

	auditLogger.LogScenarioCreated("abc", "Double support", "2024-33")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "audit", logEntry["component"])
	assert.Equal(t, "Double support", logEntry["scenario_name"])
}

func TestAuditLoggerParameterChange(t *testing.T) {
	log, buf := setupTestLogger()
	auditLogger := NewAuditLogger(log)

	auditLogger.LogScenarioParameterChange("abc", "funding.support_multiplier", 1.0, 2.0)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "funding.support_multiplier", logEntry["parameter_name"])
	assert.Equal(t, 2.0, logEntry["new_value"])
}
