package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Category is the subject-matter classification of a ballot measure
type Category string

// Supported proposition categories
const (
	CategoryTaxation        Category = "taxation"
	CategoryEducation       Category = "education"
	CategoryHealthcare      Category = "healthcare"
	CategoryEnvironment     Category = "environment"
	CategoryCriminalJustice Category = "criminal_justice"
	CategoryLabor           Category = "labor"
	CategoryHousing         Category = "housing"
	CategoryTransportation  Category = "transportation"
	CategoryGovernment      Category = "government"
	CategoryCivilRights     Category = "civil_rights"
	CategoryOther           Category = "other"
)

// Categories lists every valid category
var Categories = []Category{
	CategoryTaxation,
	CategoryEducation,
	CategoryHealthcare,
	CategoryEnvironment,
	CategoryCriminalJustice,
	CategoryLabor,
	CategoryHousing,
	CategoryTransportation,
	CategoryGovernment,
	CategoryCivilRights,
	CategoryOther,
}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Status is the lifecycle state of a proposition
type Status string

// Proposition statuses
const (
	StatusUpcoming Status = "upcoming"
	StatusActive   Status = "active"
	StatusPassed   Status = "passed"
	StatusFailed   Status = "failed"
)

// ElectionResult is the certified vote outcome of a proposition
type ElectionResult struct {
	YesVotes      int64   `json:"yes_votes"`
	NoVotes       int64   `json:"no_votes"`
	YesPercentage float64 `json:"yes_percentage"`
	NoPercentage  float64 `json:"no_percentage"`
	Turnout       float64 `json:"turnout,omitempty"`
	Passed        bool    `json:"passed"`
}

// NewElectionResult builds a result from raw vote counts. Simple majority decides passage.
func NewElectionResult(yesVotes, noVotes int64) ElectionResult {
	result := ElectionResult{YesVotes: yesVotes, NoVotes: noVotes}
	total := yesVotes + noVotes
	if total > 0 {
		result.YesPercentage = float64(yesVotes) / float64(total) * 100
		result.NoPercentage = float64(noVotes) / float64(total) * 100
	}
	result.Passed = yesVotes > noVotes
	return result
}

// Proposition is a California statewide ballot measure identified by election year and number
type Proposition struct {
	Year         int             `db:"year" json:"year"`
	Number       string          `db:"number" json:"number"`
	Title        string          `db:"title" json:"title"`
	Summary      string          `db:"summary" json:"summary"`
	FullText     string          `db:"full_text" json:"full_text,omitempty"`
	Category     Category        `db:"category" json:"category"`
	ElectionDate time.Time       `db:"election_date" json:"election_date"`
	Status       Status          `db:"status" json:"status"`
	Result       *ElectionResult `json:"result,omitempty"`
}

// PropositionID formats the canonical "{year}-{number}" identifier
func PropositionID(year int, number string) string {
	return fmt.Sprintf("%d-%s", year, strings.ToUpper(strings.TrimSpace(number)))
}

// ParsePropositionID splits a "{year}-{number}" identifier
func ParsePropositionID(id string) (int, string, error) {
	yearPart, number, ok := strings.Cut(id, "-")
	if !ok || number == "" {
		return 0, "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	year, err := strconv.Atoi(yearPart)
	if err != nil || year <= 0 {
		return 0, "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return year, strings.ToUpper(number), nil
}

// ID returns the canonical identifier of the proposition
func (p *Proposition) ID() string {
	return PropositionID(p.Year, p.Number)
}

// HasCertifiedResult reports whether a final vote outcome is known
func (p *Proposition) HasCertifiedResult() bool {
	return p.Result != nil
}

// DeriveStatus computes the lifecycle status from the election date and result
func (p *Proposition) DeriveStatus(now time.Time) Status {
	switch {
	case p.Result != nil && p.Result.Passed:
		return StatusPassed
	case p.Result != nil:
		return StatusFailed
	case !p.ElectionDate.IsZero() && p.ElectionDate.After(now):
		return StatusUpcoming
	default:
		return StatusActive
	}
}

// Validate checks the fields the forecasting pipeline depends on
func (p *Proposition) Validate() error {
	if p.Year <= 0 {
		return fmt.Errorf("%w: year must be positive, got %d", ErrMalformedProposition, p.Year)
	}
	if strings.TrimSpace(p.Number) == "" {
		return fmt.Errorf("%w: number is required", ErrMalformedProposition)
	}
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("%w: title is required for %s", ErrMalformedProposition, p.ID())
	}
	if !p.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q for %s", ErrMalformedProposition, p.Category, p.ID())
	}
	return nil
}

// PropositionDetails is a proposition together with its optional enrichment data
type PropositionDetails struct {
	Proposition
	Finance   *PropositionFinance    `json:"finance,omitempty"`
	Analysis  *BallotWordingAnalysis `json:"analysis,omitempty"`
	Opponents []string               `json:"opponents,omitempty"`
}
