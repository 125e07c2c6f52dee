package datasource

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/prop-forecast/internal/cache"
	"github.com/yourusername/prop-forecast/internal/metrics"
	"github.com/yourusername/prop-forecast/internal/models"
)

// CachedArchive wraps a HistoricalArchive with a per-year TTL cache.
// Returned slices are shared between callers and must be treated as read-only.
type CachedArchive struct {
	archive HistoricalArchive
	cache   *cache.TTL[[]models.Proposition]
	logger  *logrus.Entry
}

// NewCachedArchive creates a cached archive
func NewCachedArchive(archive HistoricalArchive, ttl time.Duration, logger *logrus.Logger) *CachedArchive {
	return &CachedArchive{
		archive: archive,
		cache:   cache.NewTTL[[]models.Proposition](ttl),
		logger:  logger.WithFields(logrus.Fields{"component": "archive_cache", "source": archive.Name()}),
	}
}

// GetPropositionsByYear returns cached results or fetches them from the wrapped archive
func (c *CachedArchive) GetPropositionsByYear(ctx context.Context, year int) ([]models.Proposition, error) {
	props, cached, err := c.cache.GetOrLoad(ctx, strconv.Itoa(year), func(ctx context.Context) ([]models.Proposition, error) {
		start := time.Now()
		props, err := c.archive.GetPropositionsByYear(ctx, year)
		metrics.RecordArchiveFetch(c.archive.Name(), fetchStatus(err), time.Since(start).Seconds())
		return props, err
	})
	metrics.RecordArchiveCacheLookup(cached)
	return props, err
}

// Warm preloads the given years, returning how many loaded successfully
func (c *CachedArchive) Warm(ctx context.Context, years []int) int {
	loaded := 0
	for _, year := range years {
		if ctx.Err() != nil {
			break
		}
		if _, err := c.GetPropositionsByYear(ctx, year); err != nil {
			c.logger.WithError(err).WithField("year", year).Warn("Archive warm-up failed")
			continue
		}
		loaded++
	}
	return loaded
}

// SetLoadTimeout bounds a shared upstream fetch that outlives the request that started it
func (c *CachedArchive) SetLoadTimeout(timeout time.Duration) {
	c.cache.SetLoadTimeout(timeout)
}

// Invalidate drops a single cached year
func (c *CachedArchive) Invalidate(year int) {
	c.cache.Delete(strconv.Itoa(year))
}

// Stats returns cache hit and miss counters
func (c *CachedArchive) Stats() cache.Stats {
	return c.cache.Stats()
}

// Name returns the wrapped archive name
func (c *CachedArchive) Name() string {
	return c.archive.Name()
}

func fetchStatus(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "failure"
	}
}
