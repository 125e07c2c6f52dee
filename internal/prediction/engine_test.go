package prediction

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/prop-forecast/internal/config"
	"github.com/yourusername/prop-forecast/internal/datasource"
	"github.com/yourusername/prop-forecast/internal/history"
	"github.com/yourusername/prop-forecast/internal/logger"
	"github.com/yourusername/prop-forecast/internal/models"
	"github.com/yourusername/prop-forecast/internal/textanalysis"
)

type finderFunc func(ctx context.Context, target *models.Proposition) ([]models.HistoricalComparison, error)

func (f finderFunc) FindSimilarPropositions(ctx context.Context, target *models.Proposition) ([]models.HistoricalComparison, error) {
	return f(ctx, target)
}

type stubFinance struct {
	finance *models.PropositionFinance
	err     error
	calls   int
}

func (s *stubFinance) FetchFinance(ctx context.Context, propositionID string) (*models.PropositionFinance, error) {
	s.calls++
	return s.finance, s.err
}

func (s *stubFinance) Name() string { return "stub_finance" }

func comparisons(passed, failed int) []models.HistoricalComparison {
	out := make([]models.HistoricalComparison, 0, passed+failed)
	for i := 0; i < passed+failed; i++ {
		out = append(out, models.HistoricalComparison{PropositionID: "2020-X", Passed: i < passed, Similarity: 0.7})
	}
	return out
}

func staticFinder(c []models.HistoricalComparison) ComparisonFinder {
	return finderFunc(func(ctx context.Context, target *models.Proposition) ([]models.HistoricalComparison, error) {
		return c, nil
	})
}

func money(support, opposition int64) *models.PropositionFinance {
	return &models.PropositionFinance{
		TotalSupport:    decimal.NewFromInt(support),
		TotalOpposition: decimal.NewFromInt(opposition),
	}
}

func rentControl() models.Proposition {
	return models.Proposition{
		Year:         2024,
		Number:       "33",
		Title:        "Expands local governments' authority to enact rent control",
		Summary:      "Repeals state law that currently restricts the scope of rent-control policies.",
		Category:     models.CategoryHousing,
		ElectionDate: time.Date(2024, time.November, 5, 0, 0, 0, 0, time.UTC),
	}
}

func newTestEngine(t *testing.T, finder ComparisonFinder, opts ...Option) *Engine {
	t.Helper()
	analyzer, err := textanalysis.NewAnalyzer(16)
	require.NoError(t, err)
	return NewEngine(finder, analyzer, logger.NewDiscardLogger(), opts...)
}

func TestGeneratePredictionEndToEnd(t *testing.T) {
	var archive []models.Proposition
	for i, passed := range []bool{true, true, true, false} {
		yes, no := int64(400), int64(600)
		if passed {
			yes, no = 600, 400
		}
		result := models.NewElectionResult(yes, no)
		archive = append(archive, models.Proposition{
			Year:     2022 - 2*(i%2),
			Number:   string(rune('1' + i)),
			Title:    "Rent control on residential property",
			Category: models.CategoryHousing,
			Result:   &result,
		})
	}
	finder := history.NewFinder(datasource.NewFixtureArchive(archive), history.DefaultFinderConfig(), logger.NewDiscardLogger())
	engine := newTestEngine(t, finder)

	prediction, err := engine.GeneratePrediction(context.Background(), Request{
		Proposition:       models.PropositionDetails{Proposition: rentControl(), Finance: money(5_000_000, 3_000_000)},
		IncludeHistorical: true,
	}, DefaultWeights())
	require.NoError(t, err)

	assert.Equal(t, "2024-33", prediction.PropositionID)
	assert.Equal(t, models.DataQualityStrong, prediction.DataQuality)
	assert.InDelta(t, 0.6418, prediction.PassageProbability, 1e-3)
	assert.Len(t, prediction.HistoricalComparison, 4)
	assert.Len(t, prediction.DataSources, 2)

	historical, ok := prediction.Factor(models.FactorHistorical)
	require.True(t, ok)
	assert.InDelta(t, 0.667, historical.Value, 1e-3)

	finance, ok := prediction.Factor(models.FactorFinance)
	require.True(t, ok)
	assert.Equal(t, 0.625, finance.Value)
	assert.Empty(t, prediction.IllustrativeFactors)
}

func TestGeneratePredictionLimited(t *testing.T) {
	engine := newTestEngine(t, staticFinder(comparisons(1, 1)))

	prediction, err := engine.GeneratePrediction(context.Background(), Request{
		Proposition:         models.PropositionDetails{Proposition: rentControl()},
		IncludeHistorical:   true,
		IncludeIllustrative: true,
	}, DefaultWeights())
	require.NoError(t, err)

	assert.Equal(t, models.DataQualityLimited, prediction.DataQuality)
	assert.True(t, prediction.InsufficientData())
	assert.Zero(t, prediction.PassageProbability)
	assert.NotNil(t, prediction.Factors)
	assert.Empty(t, prediction.Factors)
	assert.Len(t, prediction.IllustrativeFactors, 5)
}

func TestGeneratePredictionFinanceOnlyIsModerate(t *testing.T) {
	engine := newTestEngine(t, staticFinder(comparisons(2, 0)))

	for _, tc := range []struct {
		support, opposition int64
		expected            float64
	}{
		{support: 5, opposition: 3, expected: 0.625},
		{support: 9, opposition: 1, expected: 0.85},
		{support: 1, opposition: 19, expected: 0.15},
	} {
		prediction, err := engine.GeneratePrediction(context.Background(), Request{
			Proposition:       models.PropositionDetails{Proposition: rentControl(), Finance: money(tc.support, tc.opposition)},
			IncludeHistorical: true,
		}, DefaultWeights())
		require.NoError(t, err)
		assert.Equal(t, models.DataQualityModerate, prediction.DataQuality)
		assert.Equal(t, tc.expected, prediction.PassageProbability)
	}
}

func TestGeneratePredictionFinanceOnlyKeepsFullPrecision(t *testing.T) {
	engine := newTestEngine(t, nil)
	finance := money(1, 2)
	share, ok := finance.SupportShare()
	require.True(t, ok)

	prediction, err := engine.GeneratePrediction(context.Background(), Request{
		Proposition: models.PropositionDetails{Proposition: rentControl(), Finance: finance},
	}, DefaultWeights())
	require.NoError(t, err)
	require.Len(t, prediction.Factors, 1)
	assert.Equal(t, share, prediction.Factors[0].Value)
	assert.Equal(t, share, prediction.PassageProbability)
	assert.NotEqual(t, 0.3333, prediction.PassageProbability)
}

func TestGeneratePredictionSkipsHistoricalWhenNotRequested(t *testing.T) {
	called := false
	finder := finderFunc(func(ctx context.Context, target *models.Proposition) ([]models.HistoricalComparison, error) {
		called = true
		return comparisons(3, 0), nil
	})
	engine := newTestEngine(t, finder)

	prediction, err := engine.GeneratePrediction(context.Background(), Request{
		Proposition: models.PropositionDetails{Proposition: rentControl(), Finance: money(1, 1)},
	}, DefaultWeights())
	require.NoError(t, err)
	assert.False(t, called)
	assert.Equal(t, models.DataQualityModerate, prediction.DataQuality)
	assert.Equal(t, 0.5, prediction.PassageProbability)
}

func TestGeneratePredictionMalformed(t *testing.T) {
	engine := newTestEngine(t, nil)

	prop := rentControl()
	prop.Number = ""
	_, err := engine.GeneratePrediction(context.Background(), Request{
		Proposition: models.PropositionDetails{Proposition: prop},
	}, DefaultWeights())
	assert.ErrorIs(t, err, models.ErrMalformedProposition)

	prop = rentControl()
	prop.Category = "lottery"
	_, err = engine.GeneratePrediction(context.Background(), Request{
		Proposition: models.PropositionDetails{Proposition: prop},
	}, DefaultWeights())
	assert.ErrorIs(t, err, models.ErrMalformedProposition)
}

func TestGeneratePredictionCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	finder := finderFunc(func(ctx context.Context, target *models.Proposition) ([]models.HistoricalComparison, error) {
		cancel()
		return nil, ctx.Err()
	})
	engine := newTestEngine(t, finder)

	_, err := engine.GeneratePrediction(ctx, Request{
		Proposition:       models.PropositionDetails{Proposition: rentControl(), Finance: money(1, 1)},
		IncludeHistorical: true,
	}, DefaultWeights())
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, IsCancellation(err))
}

func TestGeneratePredictionArchiveFailureDegrades(t *testing.T) {
	finder := finderFunc(func(ctx context.Context, target *models.Proposition) ([]models.HistoricalComparison, error) {
		return nil, errors.New("archive unavailable")
	})
	engine := newTestEngine(t, finder)

	prediction, err := engine.GeneratePrediction(context.Background(), Request{
		Proposition:       models.PropositionDetails{Proposition: rentControl(), Finance: money(3, 1)},
		IncludeHistorical: true,
	}, DefaultWeights())
	require.NoError(t, err)
	assert.Equal(t, models.DataQualityModerate, prediction.DataQuality)
	assert.Equal(t, 0.75, prediction.PassageProbability)
	assert.NotNil(t, prediction.HistoricalComparison)
}

func TestGeneratePredictionFinanceEnrichment(t *testing.T) {
	source := &stubFinance{finance: money(3, 1)}
	engine := newTestEngine(t, nil, WithFinanceSource(source))

	prediction, err := engine.GeneratePrediction(context.Background(), Request{
		Proposition: models.PropositionDetails{Proposition: rentControl()},
	}, DefaultWeights())
	require.NoError(t, err)
	assert.Equal(t, 1, source.calls)
	assert.Equal(t, 0.75, prediction.PassageProbability)

	// supplied finance is never overwritten
	_, err = engine.GeneratePrediction(context.Background(), Request{
		Proposition: models.PropositionDetails{Proposition: rentControl(), Finance: money(1, 1)},
	}, DefaultWeights())
	require.NoError(t, err)
	assert.Equal(t, 1, source.calls)

	missing := &stubFinance{err: datasource.NewDataSourceError("stub_finance", datasource.ErrCodeNotFound, "no filings", nil)}
	engine = newTestEngine(t, nil, WithFinanceSource(missing))
	prediction, err = engine.GeneratePrediction(context.Background(), Request{
		Proposition: models.PropositionDetails{Proposition: rentControl()},
	}, DefaultWeights())
	require.NoError(t, err)
	assert.Equal(t, models.DataQualityLimited, prediction.DataQuality)
}

func TestExactBlendWeights(t *testing.T) {
	realFactors := []models.PredictionFactor{
		{Kind: models.FactorFinance, Value: 0.7},
		{Kind: models.FactorHistorical, Value: 0.6},
	}
	assert.InDelta(t, 0.66, Aggregate(realFactors, nil, DefaultWeights()), 1e-9)
	assert.InDelta(t, 0.7, Aggregate(realFactors[:1], nil, DefaultWeights()), 1e-9)
	assert.Zero(t, Aggregate(nil, []models.PredictionFactor{{Kind: models.FactorTiming, Value: 0.55}}, DefaultWeights()))
}

func TestAggregateZeroWeightsFallBackToMean(t *testing.T) {
	w := DefaultWeights()
	w.Finance = 0
	assert.InDelta(t, 0.7, Aggregate([]models.PredictionFactor{{Kind: models.FactorFinance, Value: 0.7}}, nil, w), 1e-9)
}

func TestBlendIllustrativeMode(t *testing.T) {
	engine := newTestEngine(t, staticFinder(comparisons(3, 1)))
	weights := DefaultWeights()
	weights.Mode = ModeBlendIllustrative

	req := Request{
		Proposition:       models.PropositionDetails{Proposition: rentControl(), Finance: money(5, 3)},
		IncludeHistorical: true,
	}
	blended, err := engine.GeneratePrediction(context.Background(), req, weights)
	require.NoError(t, err)
	realOnly, err := engine.GeneratePrediction(context.Background(), req, DefaultWeights())
	require.NoError(t, err)

	assert.Equal(t, models.DataQualityStrong, blended.DataQuality)
	assert.Len(t, blended.Factors, 2)
	assert.Len(t, blended.IllustrativeFactors, 5)
	assert.NotEqual(t, realOnly.PassageProbability, blended.PassageProbability)

	limited, err := engine.GeneratePrediction(context.Background(), Request{
		Proposition: models.PropositionDetails{Proposition: rentControl()},
	}, weights)
	require.NoError(t, err)
	assert.Zero(t, limited.PassageProbability)
}

func TestProbabilityAlwaysInUnitInterval(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		passed := rng.Intn(12)
		failed := rng.Intn(12)
		engine := newTestEngine(t, staticFinder(comparisons(passed, failed)))

		weights := DefaultWeights()
		if i%2 == 0 {
			weights.Mode = ModeBlendIllustrative
		}
		prediction, err := engine.GeneratePrediction(context.Background(), Request{
			Proposition:       models.PropositionDetails{Proposition: rentControl(), Finance: money(rng.Int63n(10_000_000), rng.Int63n(10_000_000))},
			IncludeHistorical: true,
		}, weights)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, prediction.PassageProbability, 0.0)
		assert.LessOrEqual(t, prediction.PassageProbability, 1.0)
		if prediction.DataQuality == models.DataQualityLimited {
			assert.Zero(t, prediction.PassageProbability)
		}
	}
}

func TestWeightsFromConfig(t *testing.T) {
	cfg := &config.EngineConfig{
		Mode: config.ModeRealDataOnly,
		Weights: config.WeightsConfig{
			Finance:    0.6,
			Historical: 0.4,
		},
	}
	w, err := WeightsFromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, 0.6, w.For(models.FactorFinance))
	assert.Equal(t, ModeRealDataOnly, w.Mode)

	cfg.Weights = config.WeightsConfig{}
	_, err = WeightsFromConfig(cfg)
	assert.Error(t, err)

	_, err = WeightsFromConfig(nil)
	assert.Error(t, err)

	bad := DefaultWeights()
	bad.Mode = "everything"
	assert.Error(t, bad.Validate())

	negative := DefaultWeights()
	negative.Timing = -1
	assert.Error(t, negative.Validate())
}
