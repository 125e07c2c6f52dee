package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/prop-forecast/internal/models"
)

// Response is the envelope of every JSON reply
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Limited forecasts render as an explicit state rather than a bare number
type predictionView struct {
	models.PropositionPrediction
	Status string `json:"status"`
}

func viewPrediction(p models.PropositionPrediction) predictionView {
	status := "ok"
	if p.InsufficientData() {
		status = "insufficient_data"
	}
	return predictionView{PropositionPrediction: p, Status: status}
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, Response{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Response{Success: false, Error: message})
}

func writeJSON(w http.ResponseWriter, status int, body Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// statusFor maps domain errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrMalformedProposition),
		errors.Is(err, models.ErrInvalidScenarioParameters),
		errors.Is(err, models.ErrScenarioNameRequired),
		errors.Is(err, models.ErrInvalidID),
		errors.Is(err, models.ErrNoScenarioResults):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrScenarioLimitReached):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	entry := s.logger.WithFields(logrus.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
		"status": status,
	}).WithError(err)
	if status >= http.StatusInternalServerError {
		entry.Error("Request failed")
		writeError(w, status, "internal error")
		return
	}
	entry.Debug("Request rejected")
	writeError(w, status, err.Error())
}

const maxBodyBytes = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}
