// Package history finds past ballot measures comparable to a proposition being forecast.
package history

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/prop-forecast/internal/config"
	"github.com/yourusername/prop-forecast/internal/datasource"
	"github.com/yourusername/prop-forecast/internal/logger"
	"github.com/yourusername/prop-forecast/internal/metrics"
	"github.com/yourusername/prop-forecast/internal/models"
	"github.com/yourusername/prop-forecast/internal/numeric"
)

// FinderConfig bounds a comparison search
type FinderConfig struct {
	MaxYears      int
	FetchTimeout  time.Duration
	MaxResults    int
	MinSimilarity float64
}

// DefaultFinderConfig returns the standard search bounds
func DefaultFinderConfig() FinderConfig {
	return FinderConfig{
		MaxYears:      4,
		FetchTimeout:  10 * time.Second,
		MaxResults:    5,
		MinSimilarity: 0.2,
	}
}

// FinderConfigFrom builds finder bounds from application config
func FinderConfigFrom(cfg *config.Config) FinderConfig {
	return FinderConfig{
		MaxYears:      cfg.Archive.MaxYears,
		FetchTimeout:  cfg.ArchiveTimeout(),
		MaxResults:    cfg.Engine.MaxComparisons,
		MinSimilarity: cfg.Engine.MinSimilarity,
	}
}

// Finder searches a historical archive for comparable measures
type Finder struct {
	archive datasource.HistoricalArchive
	cfg     FinderConfig
	logger  *logger.PredictionLogger
}

// NewFinder creates a finder over the given archive
func NewFinder(archive datasource.HistoricalArchive, cfg FinderConfig, log *logrus.Logger) *Finder {
	defaults := DefaultFinderConfig()
	if cfg.MaxYears <= 0 {
		cfg.MaxYears = defaults.MaxYears
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = defaults.FetchTimeout
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = defaults.MaxResults
	}
	return &Finder{
		archive: archive,
		cfg:     cfg,
		logger:  logger.NewPredictionLogger(log),
	}
}

// FindSimilarPropositions returns up to MaxResults certified past measures in the target's category,
// most similar first. Archive failures for a year are logged and skipped; only cancellation of ctx
// is returned as an error.
func (f *Finder) FindSimilarPropositions(ctx context.Context, target *models.Proposition) ([]models.HistoricalComparison, error) {
	years := CandidateYears(target.Year, f.cfg.MaxYears)
	byYear, err := f.fetchYears(ctx, years)
	if err != nil {
		return nil, err
	}

	targetID := target.ID()
	candidates := 0
	comparisons := make([]models.HistoricalComparison, 0)
	for _, props := range byYear {
		for i := range props {
			candidate := &props[i]
			if candidate.Category != target.Category || !candidate.HasCertifiedResult() || candidate.ID() == targetID {
				continue
			}
			candidates++
			similarity := Similarity(target, candidate)
			if similarity < f.cfg.MinSimilarity {
				continue
			}
			comparisons = append(comparisons, toComparison(candidate, numeric.Round(similarity, 4)))
		}
	}

	rank(comparisons)
	if len(comparisons) > f.cfg.MaxResults {
		comparisons = comparisons[:f.cfg.MaxResults]
	}

	f.logger.LogComparisonsFound(targetID, string(target.Category), len(years), candidates, len(comparisons))
	metrics.RecordComparisonsFound(len(comparisons))
	return comparisons, nil
}

// fetchYears loads every year concurrently, preserving the order of years.
// A failed year yields nil for that slot.
func (f *Finder) fetchYears(ctx context.Context, years []int) ([][]models.Proposition, error) {
	results := make([][]models.Proposition, len(years))

	var g errgroup.Group
	for i, year := range years {
		i, year := i, year
		g.Go(func() error {
			fetchCtx, cancel := context.WithTimeout(ctx, f.cfg.FetchTimeout)
			defer cancel()

			props, err := f.archive.GetPropositionsByYear(fetchCtx, year)
			if err != nil {
				if ctx.Err() == nil {
					f.logger.LogUpstreamDegraded(f.archive.Name(), year, err)
				}
				return nil
			}
			results[i] = props
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
