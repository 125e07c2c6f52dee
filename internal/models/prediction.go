package models

import (
	"fmt"
	"time"
)

// FactorKind enumerates every factor the forecaster can produce
type FactorKind int

// Factor kinds. Historical and finance are backed by real data; the rest are illustrative.
const (
	FactorHistorical FactorKind = iota + 1
	FactorFinance
	FactorDemographics
	FactorSentiment
	FactorComplexity
	FactorTiming
	FactorOpposition
)

// FactorKinds lists all kinds in display order
var FactorKinds = []FactorKind{
	FactorHistorical,
	FactorFinance,
	FactorDemographics,
	FactorSentiment,
	FactorComplexity,
	FactorTiming,
	FactorOpposition,
}

// String returns the stable machine name of the kind
func (k FactorKind) String() string {
	switch k {
	case FactorHistorical:
		return "historical_pass_rate"
	case FactorFinance:
		return "campaign_finance"
	case FactorDemographics:
		return "voter_demographics"
	case FactorSentiment:
		return "ballot_sentiment"
	case FactorComplexity:
		return "wording_complexity"
	case FactorTiming:
		return "election_timing"
	case FactorOpposition:
		return "organized_opposition"
	default:
		return fmt.Sprintf("factor(%d)", int(k))
	}
}

// Label returns the human readable name of the kind
func (k FactorKind) Label() string {
	switch k {
	case FactorHistorical:
		return "Historical Pass Rate"
	case FactorFinance:
		return "Campaign Finance"
	case FactorDemographics:
		return "Voter Demographics"
	case FactorSentiment:
		return "Ballot Wording Sentiment"
	case FactorComplexity:
		return "Wording Complexity"
	case FactorTiming:
		return "Election Timing"
	case FactorOpposition:
		return "Organized Opposition"
	default:
		return "Unknown Factor"
	}
}

// Illustrative reports whether the kind is computed without real data
func (k FactorKind) Illustrative() bool {
	return k != FactorHistorical && k != FactorFinance
}

// MarshalText encodes the kind by its machine name
func (k FactorKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a machine name
func (k *FactorKind) UnmarshalText(text []byte) error {
	for _, kind := range FactorKinds {
		if kind.String() == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown factor kind %q", string(text))
}

// Impact describes which way a factor pushes the forecast
type Impact string

// Impact directions
const (
	ImpactPositive Impact = "positive"
	ImpactNegative Impact = "negative"
	ImpactNeutral  Impact = "neutral"
)

// ImpactOf classifies a factor value: above 0.55 positive, below 0.45 negative
func ImpactOf(value float64) Impact {
	switch {
	case value > 0.55:
		return ImpactPositive
	case value < 0.45:
		return ImpactNegative
	default:
		return ImpactNeutral
	}
}

// Provenance records whether a factor came from real data or a fixed formula
type Provenance string

// Provenance values
const (
	ProvenanceReal         Provenance = "real"
	ProvenanceIllustrative Provenance = "illustrative"
)

// PredictionFactor is one input to a passage forecast
type PredictionFactor struct {
	Kind        FactorKind `json:"kind"`
	Name        string     `json:"name"`
	Value       float64    `json:"value"`
	Impact      Impact     `json:"impact"`
	Description string     `json:"description"`
	Source      string     `json:"source,omitempty"`
	Formula     string     `json:"formula,omitempty"`
	Provenance  Provenance `json:"provenance"`
	HasRealData bool       `json:"has_real_data"`
}

// DataQuality summarizes how many real-data factors backed a forecast
type DataQuality string

// Data quality levels
const (
	DataQualityStrong   DataQuality = "strong"
	DataQualityModerate DataQuality = "moderate"
	DataQualityLimited  DataQuality = "limited"
)

// DataQualityFor maps a count of real-data factors to a quality level
func DataQualityFor(realFactors int) DataQuality {
	switch {
	case realFactors >= 2:
		return DataQualityStrong
	case realFactors == 1:
		return DataQualityModerate
	default:
		return DataQualityLimited
	}
}

// PropositionPrediction is the passage forecast for a single measure
type PropositionPrediction struct {
	PropositionID        string                 `json:"proposition_id"`
	PassageProbability   float64                `json:"passage_probability"`
	DataQuality          DataQuality            `json:"data_quality"`
	DataSources          []string               `json:"data_sources"`
	Factors              []PredictionFactor     `json:"factors"`
	IllustrativeFactors  []PredictionFactor     `json:"illustrative_factors,omitempty"`
	HistoricalComparison []HistoricalComparison `json:"historical_comparison"`
	GeneratedAt          time.Time              `json:"generated_at"`
}

// InsufficientData reports whether the forecast has no real factors behind it
func (p *PropositionPrediction) InsufficientData() bool {
	return p.DataQuality == DataQualityLimited
}

// Factor returns the factor of the given kind, if present
func (p *PropositionPrediction) Factor(kind FactorKind) (PredictionFactor, bool) {
	for _, f := range p.Factors {
		if f.Kind == kind {
			return f, true
		}
	}
	return PredictionFactor{}, false
}
