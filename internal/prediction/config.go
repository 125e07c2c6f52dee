package prediction

import (
	"fmt"

	"github.com/yourusername/prop-forecast/internal/config"
	"github.com/yourusername/prop-forecast/internal/models"
)

// Mode selects which factors feed the probability
type Mode string

// Engine modes
const (
	// ModeRealDataOnly blends only factors backed by real data; illustrative factors are display-only
	ModeRealDataOnly Mode = config.ModeRealDataOnly
	// ModeBlendIllustrative also folds illustrative factors into the weighted average
	ModeBlendIllustrative Mode = config.ModeBlendIllustrative
)

// Weights are per-factor aggregation weights. They need not sum to one.
type Weights struct {
	Finance      float64 `json:"finance"`
	Historical   float64 `json:"historical"`
	Demographics float64 `json:"demographics"`
	Sentiment    float64 `json:"sentiment"`
	Complexity   float64 `json:"complexity"`
	Timing       float64 `json:"timing"`
	Opposition   float64 `json:"opposition"`
	Mode         Mode    `json:"mode"`
}

// DefaultWeights returns the real-data-only blend: finance 0.6, historical 0.4
func DefaultWeights() Weights {
	return Weights{
		Finance:      0.6,
		Historical:   0.4,
		Demographics: 0.15,
		Sentiment:    0.1,
		Complexity:   0.05,
		Timing:       0.05,
		Opposition:   0.1,
		Mode:         ModeRealDataOnly,
	}
}

// WeightsFromConfig converts engine config weights
func WeightsFromConfig(cfg *config.EngineConfig) (Weights, error) {
	if cfg == nil {
		return Weights{}, fmt.Errorf("engine config is required")
	}
	w := Weights{
		Finance:      cfg.Weights.Finance,
		Historical:   cfg.Weights.Historical,
		Demographics: cfg.Weights.Demographics,
		Sentiment:    cfg.Weights.Sentiment,
		Complexity:   cfg.Weights.Complexity,
		Timing:       cfg.Weights.Timing,
		Opposition:   cfg.Weights.Opposition,
		Mode:         Mode(cfg.Mode),
	}
	return w, w.Validate()
}

// Validate checks the weights can produce a probability
func (w Weights) Validate() error {
	for _, kind := range models.FactorKinds {
		if w.For(kind) < 0 {
			return fmt.Errorf("weight for %s cannot be negative", kind)
		}
	}
	if w.Finance == 0 && w.Historical == 0 {
		return fmt.Errorf("finance and historical weights cannot both be zero")
	}
	switch w.Mode {
	case ModeRealDataOnly, ModeBlendIllustrative:
	default:
		return fmt.Errorf("unknown engine mode %q", w.Mode)
	}
	return nil
}

// For returns the weight of a factor kind
func (w Weights) For(kind models.FactorKind) float64 {
	switch kind {
	case models.FactorFinance:
		return w.Finance
	case models.FactorHistorical:
		return w.Historical
	case models.FactorDemographics:
		return w.Demographics
	case models.FactorSentiment:
		return w.Sentiment
	case models.FactorComplexity:
		return w.Complexity
	case models.FactorTiming:
		return w.Timing
	case models.FactorOpposition:
		return w.Opposition
	default:
		return 0
	}
}
