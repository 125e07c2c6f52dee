package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/yourusername/prop-forecast/internal/models"
	"github.com/yourusername/prop-forecast/internal/prediction"
	"github.com/yourusername/prop-forecast/internal/scenario"
)

var errArchiveUnavailable = errors.New("historical archive is not configured")

type predictRequest struct {
	prediction.Request
	Weights json.RawMessage `json:"weights,omitempty"`
}

type createScenarioRequest struct {
	Name              string                     `json:"name"`
	BasePropositionID string                     `json:"base_proposition_id"`
	Parameters        *models.ScenarioParameters `json:"parameters,omitempty"`
}

type updateScenarioRequest struct {
	Name       *string         `json:"name,omitempty"`
	Parameters json.RawMessage `json:"parameters,omitempty"`
}

type duplicateScenarioRequest struct {
	Name string `json:"name"`
}

type runScenarioRequest struct {
	Proposition models.PropositionDetails `json:"proposition"`
	Weights     json.RawMessage           `json:"weights,omitempty"`
}

type compareScenariosRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	req.IncludeHistorical = true
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	weights, err := s.resolveWeights(req.Weights)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.predictor.GeneratePrediction(r.Context(), req.Request, weights)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, viewPrediction(result))
}

func (s *Server) handleSimilar(w http.ResponseWriter, r *http.Request) {
	if s.finder == nil {
		writeError(w, http.StatusServiceUnavailable, errArchiveUnavailable.Error())
		return
	}
	var prop models.Proposition
	if err := decodeJSON(w, r, &prop); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := prop.Validate(); err != nil {
		s.fail(w, r, err)
		return
	}

	comparisons, err := s.finder.FindSimilarPropositions(r.Context(), &prop)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, comparisons)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if s.finder == nil {
		writeError(w, http.StatusServiceUnavailable, errArchiveUnavailable.Error())
		return
	}
	query := r.URL.Query().Get("q")
	if strings.TrimSpace(query) == "" {
		writeError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}
	years, err := parseYears(r.URL.Query().Get("years"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	results, err := s.finder.SearchArchive(r.Context(), query, years)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, results)
}

func (s *Server) handleListScenarios(w http.ResponseWriter, r *http.Request) {
	if propositionID := r.URL.Query().Get("proposition_id"); propositionID != "" {
		writeData(w, http.StatusOK, nonNil(s.scenarios.ListByProposition(propositionID)))
		return
	}
	writeData(w, http.StatusOK, nonNil(s.scenarios.List()))
}

func (s *Server) handleCreateScenario(w http.ResponseWriter, r *http.Request) {
	defaults := models.DefaultScenarioParameters()
	req := createScenarioRequest{Parameters: &defaults}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Parameters == nil {
		req.Parameters = &defaults
	}

	created, err := s.scenarios.Create(req.Name, req.BasePropositionID, *req.Parameters)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, created)
}

func (s *Server) handleGetScenario(w http.ResponseWriter, r *http.Request) {
	id, ok := s.scenarioID(w, r)
	if !ok {
		return
	}
	found, err := s.scenarios.Get(id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, found)
}

func (s *Server) handleUpdateScenario(w http.ResponseWriter, r *http.Request) {
	id, ok := s.scenarioID(w, r)
	if !ok {
		return
	}
	current, err := s.scenarios.Get(id)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var req updateScenarioRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	update := scenario.Update{Name: req.Name}
	if len(req.Parameters) > 0 && string(req.Parameters) != "null" {
		params := current.Parameters
		if err := json.Unmarshal(req.Parameters, &params); err != nil {
			writeError(w, http.StatusBadRequest, "invalid parameters: "+err.Error())
			return
		}
		update.Parameters = &params
	}

	updated, err := s.scenarios.Update(id, update)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteScenario(w http.ResponseWriter, r *http.Request) {
	id, ok := s.scenarioID(w, r)
	if !ok {
		return
	}
	if err := s.scenarios.Delete(id); err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"deleted": id.String()})
}

func (s *Server) handleDuplicateScenario(w http.ResponseWriter, r *http.Request) {
	id, ok := s.scenarioID(w, r)
	if !ok {
		return
	}
	var req duplicateScenarioRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
	}

	dup, err := s.scenarios.Duplicate(id, req.Name)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, dup)
}

func (s *Server) handleRunScenario(w http.ResponseWriter, r *http.Request) {
	id, ok := s.scenarioID(w, r)
	if !ok {
		return
	}
	stored, err := s.scenarios.Get(id)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var req runScenarioRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if got := req.Proposition.ID(); got != stored.BasePropositionID {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("proposition %s does not match scenario base %s", got, stored.BasePropositionID))
		return
	}
	weights, err := s.resolveWeights(req.Weights)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	results, err := s.runner.RunScenario(r.Context(), req.Proposition, &stored, weights)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	updated, err := s.scenarios.SetResults(id, results)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, updated)
}

func (s *Server) handleCompareScenarios(w http.ResponseWriter, r *http.Request) {
	var req compareScenariosRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(req.IDs) == 0 {
		writeError(w, http.StatusBadRequest, "ids are required")
		return
	}

	comparison, err := s.scenarios.CompareIDs(req.IDs)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, comparison)
}

func (s *Server) scenarioID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("%s: %q", models.ErrInvalidID, chi.URLParam(r, "id")))
		return uuid.Nil, false
	}
	return id, true
}

// resolveWeights overlays a partial weights object onto the configured weights
func (s *Server) resolveWeights(raw json.RawMessage) (prediction.Weights, error) {
	w := s.weights
	if len(raw) == 0 || string(raw) == "null" {
		return w, nil
	}
	if err := json.Unmarshal(raw, &w); err != nil {
		return prediction.Weights{}, fmt.Errorf("invalid weights: %w", err)
	}
	if err := w.Validate(); err != nil {
		return prediction.Weights{}, fmt.Errorf("invalid weights: %w", err)
	}
	return w, nil
}

func parseYears(raw string) ([]int, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	years := make([]int, 0, len(parts))
	for _, part := range parts {
		year, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || year <= 0 {
			return nil, fmt.Errorf("invalid year %q", part)
		}
		years = append(years, year)
	}
	return years, nil
}

func nonNil(scenarios []models.Scenario) []models.Scenario {
	if scenarios == nil {
		return []models.Scenario{}
	}
	return scenarios
}
