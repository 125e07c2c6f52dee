package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yourusername/prop-forecast/internal/cache"
	"github.com/yourusername/prop-forecast/internal/models"
)

const httpFinanceName = "campaign_finance"

// HTTPFinanceSource fetches committee totals from a campaign finance API
type HTTPFinanceSource struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	cache      *cache.TTL[*models.PropositionFinance]
	now        func() time.Time
}

// NewHTTPFinanceSource creates a finance client. Snapshots are cached for cacheTTL.
func NewHTTPFinanceSource(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, cacheTTL time.Duration) *HTTPFinanceSource {
	return &HTTPFinanceSource{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		cache:      cache.NewTTL[*models.PropositionFinance](cacheTTL),
		now:        time.Now,
	}
}

// FetchFinance retrieves the finance summary for a proposition
func (s *HTTPFinanceSource) FetchFinance(ctx context.Context, propositionID string) (*models.PropositionFinance, error) {
	finance, _, err := s.cache.GetOrLoad(ctx, propositionID, func(ctx context.Context) (*models.PropositionFinance, error) {
		return s.fetch(ctx, propositionID)
	})
	return finance, err
}

func (s *HTTPFinanceSource) fetch(ctx context.Context, propositionID string) (*models.PropositionFinance, error) {
	endpoint := fmt.Sprintf("%s/measures/%s/finance", s.baseURL, url.PathEscape(propositionID))

	headers := map[string]string{}
	if s.apiKey != "" {
		headers["X-API-Key"] = s.apiKey
	}

	resp, err := s.httpClient.Get(ctx, endpoint, headers)
	if err != nil {
		return nil, NewDataSourceError(httpFinanceName, ErrCodeNetworkError, "failed to fetch finance", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, NewDataSourceError(httpFinanceName, ErrCodeNotFound, "no filings for "+propositionID, nil)
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, NewDataSourceError(httpFinanceName, ErrCodeAuthenticationFailed, "invalid API key", nil)
	case http.StatusTooManyRequests:
		return nil, NewDataSourceError(httpFinanceName, ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	default:
		return nil, NewDataSourceError(httpFinanceName, ErrCodeServerError, fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	var finance models.PropositionFinance
	if err := json.NewDecoder(resp.Body).Decode(&finance); err != nil {
		return nil, NewDataSourceError(httpFinanceName, ErrCodeInvalidData, "failed to parse response", err)
	}
	if finance.TotalSupport.IsNegative() || finance.TotalOpposition.IsNegative() {
		return nil, NewDataSourceError(httpFinanceName, ErrCodeInvalidData, "negative spending totals", nil)
	}
	if finance.FetchedAt.IsZero() {
		finance.FetchedAt = s.now().UTC()
	}

	return &finance, nil
}

// Name returns the finance source name
func (s *HTTPFinanceSource) Name() string {
	return httpFinanceName
}
