package datasource

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/prop-forecast/internal/config"
)

// Factory creates archive and finance sources based on configuration
type Factory struct {
	logger *logrus.Logger
	config *config.Config
}

// NewFactory creates a new data source factory
func NewFactory(cfg *config.Config, logger *logrus.Logger) *Factory {
	return &Factory{
		logger: logger,
		config: cfg,
	}
}

// NewArchive builds the configured archive wrapped in a TTL cache.
// postgres is only consulted when the archive source is "postgres".
func (f *Factory) NewArchive(postgres HistoricalArchive) (*CachedArchive, error) {
	var archive HistoricalArchive

	switch f.config.Archive.Source {
	case config.ArchiveSourceHTTP:
		client := NewRateLimitedHTTPClient(f.httpConfig("archive", f.config.Archive.TimeoutSeconds), f.logger)
		archive = NewHTTPArchive(client, f.config.Archive.BaseURL, f.config.Archive.APIKey, f.logger)

	case config.ArchiveSourcePostgres:
		if postgres == nil {
			return nil, fmt.Errorf("%w: postgres archive requested without a database", ErrNoArchive)
		}
		archive = postgres

	case config.ArchiveSourceFixture:
		fixture, err := LoadFixtureArchive(f.config.Archive.FixturePath)
		if err != nil {
			return nil, err
		}
		archive = fixture

	default:
		return nil, fmt.Errorf("unknown archive source: %s", f.config.Archive.Source)
	}

	cached := NewCachedArchive(archive, f.config.ArchiveCacheTTL(), f.logger)
	cached.SetLoadTimeout(f.config.ArchiveTimeout() * time.Duration(f.config.Archive.RetryAttempts+1))
	return cached, nil
}

// NewFinanceSource builds the finance client, or returns nil when finance lookups are disabled
func (f *Factory) NewFinanceSource() FinanceSource {
	if !f.config.Finance.Enabled {
		return nil
	}
	client := NewRateLimitedHTTPClient(f.httpConfig("finance", f.config.Finance.TimeoutSeconds), f.logger)
	ttl := time.Duration(f.config.Finance.CacheTTLSeconds) * time.Second
	return NewHTTPFinanceSource(client, f.config.Finance.BaseURL, f.config.Finance.APIKey, ttl)
}

func (f *Factory) httpConfig(name string, timeoutSeconds int) HTTPClientConfig {
	cfg := DefaultHTTPClientConfig()
	cfg.Name = name
	if timeoutSeconds > 0 {
		cfg.Timeout = time.Duration(timeoutSeconds) * time.Second
	}
	cfg.MaxRetries = f.config.Archive.RetryAttempts
	if f.config.Archive.RequestsPerSecond > 0 {
		cfg.RateLimit = f.config.Archive.RequestsPerSecond
	}
	return cfg
}
