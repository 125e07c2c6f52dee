package scenario

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/prop-forecast/internal/logger"
	"github.com/yourusername/prop-forecast/internal/metrics"
	"github.com/yourusername/prop-forecast/internal/models"
)

// Update carries the fields of a scenario that may change. Nil fields are left alone.
type Update struct {
	Name       *string                    `json:"name,omitempty"`
	Parameters *models.ScenarioParameters `json:"parameters,omitempty"`
}

// Store keeps scenarios in memory. It is safe for concurrent use.
type Store struct {
	mu           sync.RWMutex
	scenarios    map[uuid.UUID]models.Scenario
	maxScenarios int

	validate *validator.Validate
	events   *broadcaster
	audit    *logger.AuditLogger
	now      func() time.Time
}

// NewStore creates an empty store. maxScenarios of zero means unlimited.
func NewStore(maxScenarios int, log *logrus.Logger) *Store {
	if log == nil {
		log = logrus.New()
	}
	return &Store{
		scenarios:    make(map[uuid.UUID]models.Scenario),
		maxScenarios: maxScenarios,
		validate:     validator.New(),
		events:       newBroadcaster(),
		audit:        logger.NewAuditLogger(log),
		now:          time.Now,
	}
}

// Create stores a new scenario for a base proposition
func (s *Store) Create(name, basePropositionID string, params models.ScenarioParameters) (models.Scenario, error) {
	if _, _, err := models.ParsePropositionID(basePropositionID); err != nil {
		return models.Scenario{}, err
	}
	now := s.now().UTC()
	scenario := models.Scenario{
		ID:                uuid.New(),
		Name:              strings.TrimSpace(name),
		BasePropositionID: strings.ToUpper(strings.TrimSpace(basePropositionID)),
		Parameters:        params,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.check(&scenario); err != nil {
		return models.Scenario{}, err
	}

	s.mu.Lock()
	if s.maxScenarios > 0 && len(s.scenarios) >= s.maxScenarios {
		s.mu.Unlock()
		return models.Scenario{}, fmt.Errorf("%w: %d", models.ErrScenarioLimitReached, s.maxScenarios)
	}
	s.scenarios[scenario.ID] = scenario
	count := len(s.scenarios)
	s.mu.Unlock()

	metrics.UpdateStoredScenarios(count)
	s.audit.LogScenarioCreated(scenario.ID.String(), scenario.Name, scenario.BasePropositionID)
	s.events.publish(Event{Type: EventCreated, Scenario: scenario, At: now})
	return scenario, nil
}

// Get returns a scenario by id
func (s *Store) Get(id uuid.UUID) (models.Scenario, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	scenario, ok := s.scenarios[id]
	if !ok {
		return models.Scenario{}, fmt.Errorf("scenario %s: %w", id, models.ErrNotFound)
	}
	return scenario, nil
}

// List returns every scenario, oldest first
func (s *Store) List() []models.Scenario {
	s.mu.RLock()
	out := make([]models.Scenario, 0, len(s.scenarios))
	for _, scenario := range s.scenarios {
		out = append(out, scenario)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

// ListByProposition returns the scenarios built on one proposition
func (s *Store) ListByProposition(propositionID string) []models.Scenario {
	propositionID = strings.ToUpper(strings.TrimSpace(propositionID))
	var out []models.Scenario
	for _, scenario := range s.List() {
		if scenario.BasePropositionID == propositionID {
			out = append(out, scenario)
		}
	}
	return out
}

// Update renames a scenario or replaces its parameters. Changing parameters clears stale results.
func (s *Store) Update(id uuid.UUID, update Update) (models.Scenario, error) {
	s.mu.Lock()
	current, ok := s.scenarios[id]
	if !ok {
		s.mu.Unlock()
		return models.Scenario{}, fmt.Errorf("scenario %s: %w", id, models.ErrNotFound)
	}

	next := current
	if update.Name != nil {
		next.Name = strings.TrimSpace(*update.Name)
	}
	if update.Parameters != nil {
		next.Parameters = *update.Parameters
		next.Results = nil
	}
	if err := s.check(&next); err != nil {
		s.mu.Unlock()
		return models.Scenario{}, err
	}
	next.UpdatedAt = s.now().UTC()
	s.scenarios[id] = next
	s.mu.Unlock()

	if update.Parameters != nil {
		logParameterChanges(s.audit, id.String(), current.Parameters, next.Parameters)
	}
	s.events.publish(Event{Type: EventUpdated, Scenario: next, At: next.UpdatedAt})
	return next, nil
}

// SetResults records the outcome of running a scenario
func (s *Store) SetResults(id uuid.UUID, results models.ScenarioResults) (models.Scenario, error) {
	s.mu.Lock()
	scenario, ok := s.scenarios[id]
	if !ok {
		s.mu.Unlock()
		return models.Scenario{}, fmt.Errorf("scenario %s: %w", id, models.ErrNotFound)
	}
	scenario.Results = &results
	scenario.UpdatedAt = s.now().UTC()
	s.scenarios[id] = scenario
	s.mu.Unlock()

	s.events.publish(Event{Type: EventResults, Scenario: scenario, At: scenario.UpdatedAt})
	return scenario, nil
}

// maxScenarioName matches the name length limit enforced on models.Scenario, in characters
const maxScenarioName = 200

// Duplicate copies a scenario under a new id. An empty name appends " (copy)" to the source name.
func (s *Store) Duplicate(id uuid.UUID, name string) (models.Scenario, error) {
	source, err := s.Get(id)
	if err != nil {
		return models.Scenario{}, err
	}
	if strings.TrimSpace(name) == "" {
		name = source.Name + " (copy)"
	}
	if runes := []rune(name); len(runes) > maxScenarioName {
		name = string(runes[:maxScenarioName])
	}

	created, err := s.Create(name, source.BasePropositionID, source.Parameters)
	if err != nil {
		return models.Scenario{}, err
	}
	if source.Results != nil {
		created, err = s.SetResults(created.ID, *source.Results)
		if err != nil {
			return models.Scenario{}, err
		}
	}
	s.audit.LogScenarioDuplicated(id.String(), created.ID.String(), created.Name)
	return created, nil
}

// Delete removes a scenario
func (s *Store) Delete(id uuid.UUID) error {
	s.mu.Lock()
	scenario, ok := s.scenarios[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("scenario %s: %w", id, models.ErrNotFound)
	}
	delete(s.scenarios, id)
	count := len(s.scenarios)
	s.mu.Unlock()

	metrics.UpdateStoredScenarios(count)
	s.audit.LogScenarioDeleted(id.String())
	s.events.publish(Event{Type: EventDeleted, Scenario: scenario, At: s.now().UTC()})
	return nil
}

// CompareIDs compares stored scenarios by id
func (s *Store) CompareIDs(ids []uuid.UUID) (models.ScenarioComparison, error) {
	scenarios := make([]models.Scenario, 0, len(ids))
	for _, id := range ids {
		scenario, err := s.Get(id)
		if err != nil {
			return models.ScenarioComparison{}, err
		}
		scenarios = append(scenarios, scenario)
	}
	return Compare(scenarios)
}

// Subscribe returns a channel of store events and a function that ends the subscription
func (s *Store) Subscribe() (<-chan Event, func()) {
	return s.events.subscribe()
}

// Close ends every subscription
func (s *Store) Close() {
	s.events.close()
}

// Len returns the number of stored scenarios
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.scenarios)
}

func (s *Store) check(scenario *models.Scenario) error {
	if scenario.Name == "" {
		return models.ErrScenarioNameRequired
	}
	if err := s.validate.Struct(scenario); err != nil {
		s.audit.LogRejectedParameters(scenario.ID.String(), err)
		return fmt.Errorf("%w: %s", models.ErrInvalidScenarioParameters, formatValidationErrors(err))
	}
	return nil
}

func formatValidationErrors(err error) string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, fmt.Sprintf("%s failed on %s=%s (got %v)", e.Namespace(), e.Tag(), e.Param(), e.Value()))
	}
	return strings.Join(messages, "; ")
}

func logParameterChanges(audit *logger.AuditLogger, id string, before, after models.ScenarioParameters) {
	changes := []struct {
		name     string
		from, to interface{}
	}{
		{ParamSupportFunding, before.Funding.SupportMultiplier, after.Funding.SupportMultiplier},
		{ParamOppositionFunding, before.Funding.OppositionMultiplier, after.Funding.OppositionMultiplier},
		{ParamTurnout, before.Turnout.OverallMultiplier, after.Turnout.OverallMultiplier},
		{ParamTitleSentiment, before.Framing.TitleSentiment, after.Framing.TitleSentiment},
		{"framing.summary_complexity", before.Framing.SummaryComplexity, after.Framing.SummaryComplexity},
	}
	for _, c := range changes {
		if c.from != c.to {
			audit.LogScenarioParameterChange(id, c.name, c.from, c.to)
		}
	}
}
