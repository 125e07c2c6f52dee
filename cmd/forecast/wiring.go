package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/yourusername/prop-forecast/internal/config"
	"github.com/yourusername/prop-forecast/internal/database"
	"github.com/yourusername/prop-forecast/internal/datasource"
	"github.com/yourusername/prop-forecast/internal/history"
	"github.com/yourusername/prop-forecast/internal/models"
	"github.com/yourusername/prop-forecast/internal/prediction"
	"github.com/yourusername/prop-forecast/internal/repository"
	"github.com/yourusername/prop-forecast/internal/scenario"
	"github.com/yourusername/prop-forecast/internal/textanalysis"
)

const analysisMemoSize = 256

// components is the forecasting stack shared by every command
type components struct {
	db        *database.DB
	archive   *datasource.CachedArchive
	finder    *history.Finder
	predictor *prediction.Engine
	scenarios *scenario.Engine
	weights   prediction.Weights
}

func buildComponents(ctx context.Context) (*components, error) {
	c := &components{}

	var postgres datasource.HistoricalArchive
	if cfg.Archive.Source == config.ArchiveSourcePostgres {
		db, err := database.Initialize(ctx, cfg, appLog)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		repos, err := repository.NewRepositories(db)
		if err != nil {
			db.Close()
			return nil, err
		}
		c.db = db
		postgres = repos.Proposition
	}

	factory := datasource.NewFactory(cfg, appLog)
	archive, err := factory.NewArchive(postgres)
	if err != nil {
		c.close()
		return nil, fmt.Errorf("failed to build archive: %w", err)
	}
	c.archive = archive
	c.finder = history.NewFinder(archive, history.FinderConfigFrom(cfg), appLog)

	analyzer, err := textanalysis.NewAnalyzer(analysisMemoSize)
	if err != nil {
		c.close()
		return nil, err
	}

	c.weights, err = prediction.WeightsFromConfig(&cfg.Engine)
	if err != nil {
		c.close()
		return nil, fmt.Errorf("invalid engine weights: %w", err)
	}

	opts := []prediction.Option{prediction.WithMinHistoricalComparisons(cfg.Engine.MinHistoricalComparisons)}
	if cfg.Features.FinanceEnrichmentEnabled {
		if source := factory.NewFinanceSource(); source != nil {
			opts = append(opts, prediction.WithFinanceSource(source))
		}
	}
	c.predictor = prediction.NewEngine(c.finder, analyzer, appLog, opts...)
	c.scenarios = scenario.NewEngine(c.predictor, cfg.Engine.ConfidenceBand, appLog)
	return c, nil
}

func (c *components) close() {
	if c.db != nil {
		c.db.Close()
	}
}

func readDetails(path string) (models.PropositionDetails, error) {
	var details models.PropositionDetails
	data, err := readInput(path)
	if err != nil {
		return details, err
	}
	if err := json.Unmarshal(data, &details); err != nil {
		return details, fmt.Errorf("failed to parse proposition: %w", err)
	}
	return details, nil
}

// readInput reads a file, or stdin when path is "-"
func readInput(path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("--file is required")
	}
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
