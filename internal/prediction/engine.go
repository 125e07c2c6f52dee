// Package prediction turns a proposition and its evidence into a passage forecast.
package prediction

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/prop-forecast/internal/datasource"
	"github.com/yourusername/prop-forecast/internal/factors"
	"github.com/yourusername/prop-forecast/internal/logger"
	"github.com/yourusername/prop-forecast/internal/metrics"
	"github.com/yourusername/prop-forecast/internal/models"
	"github.com/yourusername/prop-forecast/internal/textanalysis"
)

// ComparisonFinder locates comparable past measures
type ComparisonFinder interface {
	FindSimilarPropositions(ctx context.Context, target *models.Proposition) ([]models.HistoricalComparison, error)
}

// Request asks for a forecast of one proposition
type Request struct {
	Proposition         models.PropositionDetails `json:"proposition"`
	IncludeHistorical   bool                      `json:"include_historical"`
	IncludeIllustrative bool                      `json:"include_illustrative"`
}

// Snapshot is the evidence gathered for one proposition. Evaluating it performs no I/O.
type Snapshot struct {
	Proposition models.Proposition
	Finance     *models.PropositionFinance
	Analysis    models.BallotWordingAnalysis
	Comparisons []models.HistoricalComparison
	Opponents   []string

	// TurnoutMultiplier scales the expected electorate; 1.0 is unchanged
	TurnoutMultiplier float64
}

// Engine generates passage forecasts
type Engine struct {
	finder   ComparisonFinder
	finance  datasource.FinanceSource
	analyzer *textanalysis.Analyzer
	factors  *factors.Set
	logger   *logger.PredictionLogger
	now      func() time.Time
}

// Option configures an Engine
type Option func(*Engine)

// WithFinanceSource enriches propositions that arrive without finance data
func WithFinanceSource(source datasource.FinanceSource) Option {
	return func(e *Engine) {
		e.finance = source
	}
}

// WithMinHistoricalComparisons overrides how many comparisons the historical factor needs
func WithMinHistoricalComparisons(n int) Option {
	return func(e *Engine) {
		e.factors = factors.NewSet(n)
	}
}

// NewEngine creates a prediction engine. finder may be nil to disable historical search.
func NewEngine(finder ComparisonFinder, analyzer *textanalysis.Analyzer, log *logrus.Logger, opts ...Option) *Engine {
	if log == nil {
		log = logrus.New()
	}
	e := &Engine{
		finder:   finder,
		analyzer: analyzer,
		factors:  factors.NewSet(factors.DefaultMinHistoricalComparisons),
		logger:   logger.NewPredictionLogger(log),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// GeneratePrediction forecasts a proposition. Only a malformed proposition or cancellation of ctx
// produce an error; unavailable upstream data lowers the data quality instead.
func (e *Engine) GeneratePrediction(ctx context.Context, req Request, weights Weights) (models.PropositionPrediction, error) {
	start := time.Now()

	snapshot, err := e.Gather(ctx, req)
	if err != nil {
		return models.PropositionPrediction{}, err
	}
	prediction := e.Evaluate(snapshot, weights, req.IncludeIllustrative)

	elapsed := time.Since(start)
	metrics.RecordPrediction(string(prediction.DataQuality), prediction.PassageProbability, elapsed.Seconds())
	e.logger.LogPrediction(
		prediction.PropositionID,
		prediction.PassageProbability,
		string(prediction.DataQuality),
		len(prediction.Factors),
		len(prediction.HistoricalComparison),
		float64(elapsed.Microseconds())/1000,
	)
	return prediction, nil
}

// Gather validates the proposition and collects comparisons, finance and wording analysis
func (e *Engine) Gather(ctx context.Context, req Request) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		metrics.RecordPredictionError("cancelled")
		return nil, err
	}
	prop := req.Proposition.Proposition
	if err := prop.Validate(); err != nil {
		metrics.RecordPredictionError("malformed")
		return nil, err
	}

	snapshot := &Snapshot{
		Proposition:       prop,
		Finance:           req.Proposition.Finance,
		Comparisons:       []models.HistoricalComparison{},
		Opponents:         req.Proposition.Opponents,
		TurnoutMultiplier: 1,
	}

	if req.IncludeHistorical && e.finder != nil {
		comparisons, err := e.finder.FindSimilarPropositions(ctx, &prop)
		if err != nil {
			if ctx.Err() != nil {
				metrics.RecordPredictionError("cancelled")
				return nil, ctx.Err()
			}
			e.logger.LogUpstreamDegraded("historical_archive", prop.Year, err)
		} else {
			snapshot.Comparisons = comparisons
		}
	}

	if snapshot.Finance == nil && e.finance != nil {
		finance, err := e.finance.FetchFinance(ctx, prop.ID())
		switch {
		case err == nil:
			snapshot.Finance = finance
		case ctx.Err() != nil:
			metrics.RecordPredictionError("cancelled")
			return nil, ctx.Err()
		case datasource.IsNotFound(err):
		default:
			e.logger.LogUpstreamDegraded(e.finance.Name(), prop.Year, err)
		}
	}

	switch {
	case req.Proposition.Analysis != nil:
		snapshot.Analysis = *req.Proposition.Analysis
	case e.analyzer != nil:
		snapshot.Analysis = e.analyzer.AnalyzeProposition(&prop)
	default:
		snapshot.Analysis = textanalysis.Analyze(prop.Title + ". " + prop.Summary)
	}

	return snapshot, nil
}

// Evaluate computes the forecast for gathered evidence. It is pure and safe for concurrent use.
func (e *Engine) Evaluate(s *Snapshot, weights Weights, includeIllustrative bool) models.PropositionPrediction {
	in := factors.Inputs{
		Proposition:       &s.Proposition,
		Finance:           s.Finance,
		Analysis:          s.Analysis,
		Comparisons:       s.Comparisons,
		Opponents:         s.Opponents,
		TurnoutMultiplier: s.TurnoutMultiplier,
	}
	realFactors := e.factors.Real(in)

	var illustrative []models.PredictionFactor
	if includeIllustrative || weights.Mode == ModeBlendIllustrative {
		illustrative = e.factors.Illustrative(in)
	}

	quality := models.DataQualityFor(len(realFactors))
	probability := 0.0
	if quality == models.DataQualityLimited {
		realFactors = []models.PredictionFactor{}
	} else {
		probability = Aggregate(realFactors, illustrative, weights)
	}

	sources := make([]string, 0, len(realFactors))
	for _, f := range realFactors {
		sources = append(sources, f.Source)
	}

	comparisons := s.Comparisons
	if comparisons == nil {
		comparisons = []models.HistoricalComparison{}
	}

	return models.PropositionPrediction{
		PropositionID:        s.Proposition.ID(),
		PassageProbability:   probability,
		DataQuality:          quality,
		DataSources:          sources,
		Factors:              realFactors,
		IllustrativeFactors:  illustrative,
		HistoricalComparison: comparisons,
		GeneratedAt:          e.now().UTC(),
	}
}

// IsCancellation reports whether err came from the caller abandoning the request
func IsCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
