package models

import (
	"time"

	"github.com/google/uuid"
)

// SummaryComplexity is a what-if rewrite of the ballot summary
type SummaryComplexity string

// Summary complexity adjustments
const (
	SummarySimpler   SummaryComplexity = "simpler"
	SummaryUnchanged SummaryComplexity = "unchanged"
	SummaryComplex   SummaryComplexity = "complex"
)

// FundingParameters scale each side's campaign spending
type FundingParameters struct {
	SupportMultiplier    float64 `json:"support_multiplier" validate:"gte=0,lte=10"`
	OppositionMultiplier float64 `json:"opposition_multiplier" validate:"gte=0,lte=10"`
}

// TurnoutParameters scale overall voter turnout
type TurnoutParameters struct {
	OverallMultiplier float64 `json:"overall_multiplier" validate:"gte=0.5,lte=1.5"`
}

// FramingParameters adjust how the measure is worded on the ballot
type FramingParameters struct {
	TitleSentiment    float64           `json:"title_sentiment" validate:"gte=-1,lte=1"`
	SummaryComplexity SummaryComplexity `json:"summary_complexity" validate:"required,oneof=simpler unchanged complex"`
}

// ScenarioParameters is the full set of what-if adjustments
type ScenarioParameters struct {
	Funding FundingParameters `json:"funding"`
	Turnout TurnoutParameters `json:"turnout"`
	Framing FramingParameters `json:"framing"`
}

// DefaultScenarioParameters returns the identity adjustment
func DefaultScenarioParameters() ScenarioParameters {
	return ScenarioParameters{
		Funding: FundingParameters{SupportMultiplier: 1, OppositionMultiplier: 1},
		Turnout: TurnoutParameters{OverallMultiplier: 1},
		Framing: FramingParameters{TitleSentiment: 0, SummaryComplexity: SummaryUnchanged},
	}
}

// ConfidenceInterval is a display band around a probability
type ConfidenceInterval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// FactorContribution is the change in one factor between baseline and scenario
type FactorContribution struct {
	Factor         string  `json:"factor"`
	OriginalImpact float64 `json:"original_impact"`
	AdjustedImpact float64 `json:"adjusted_impact"`
	Contribution   float64 `json:"contribution"`
}

// SensitivityResult shows how the scenario probability moves when one parameter is nudged
type SensitivityResult struct {
	Parameter       string  `json:"parameter"`
	LowValue        float64 `json:"low_value"`
	HighValue       float64 `json:"high_value"`
	LowProbability  float64 `json:"low_probability"`
	HighProbability float64 `json:"high_probability"`
	Swing           float64 `json:"swing"`
}

// ScenarioResults is the outcome of running a scenario against its base measure
type ScenarioResults struct {
	OriginalProbability float64              `json:"original_probability"`
	NewProbability      float64              `json:"new_probability"`
	ProbabilityDelta    float64              `json:"probability_delta"`
	ConfidenceInterval  ConfidenceInterval   `json:"confidence_interval"`
	FactorContributions []FactorContribution `json:"factor_contributions"`
	SensitivityAnalysis []SensitivityResult  `json:"sensitivity_analysis"`
	OriginalDataQuality DataQuality          `json:"original_data_quality"`
	DataQuality         DataQuality          `json:"data_quality"`
	GeneratedAt         time.Time            `json:"generated_at"`
}

// Scenario is a named what-if exploration of a base proposition
type Scenario struct {
	ID                uuid.UUID          `json:"id"`
	Name              string             `json:"name" validate:"required,max=200"`
	BasePropositionID string             `json:"base_proposition_id" validate:"required"`
	Parameters        ScenarioParameters `json:"parameters"`
	Results           *ScenarioResults   `json:"results,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// ProbabilityRange is the spread of outcomes across compared scenarios
type ProbabilityRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ScenarioComparison summarizes a set of scenarios that have results
type ScenarioComparison struct {
	Scenarios          []Scenario       `json:"scenarios"`
	BestCase           Scenario         `json:"best_case"`
	WorstCase          Scenario         `json:"worst_case"`
	AverageProbability float64          `json:"average_probability"`
	ProbabilityRange   ProbabilityRange `json:"probability_range"`
}
