package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/prop-forecast/internal/models"
)

const httpArchiveName = "results_archive"

// HTTPArchive reads certified statewide election results from a JSON archive API
type HTTPArchive struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	logger     *logrus.Entry
}

// archiveMeasure is a single measure as published by the archive API
type archiveMeasure struct {
	Number       string `json:"number"`
	Title        string `json:"title"`
	Summary      string `json:"summary"`
	Category     string `json:"category"`
	ElectionDate string `json:"election_date"`
	YesVotes     int64  `json:"yes_votes"`
	NoVotes      int64  `json:"no_votes"`
	Certified    bool   `json:"certified"`
}

type archiveYearResponse struct {
	Year     int              `json:"year"`
	Measures []archiveMeasure `json:"measures"`
}

// NewHTTPArchive creates a new archive API client
func NewHTTPArchive(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, logger *logrus.Logger) *HTTPArchive {
	return &HTTPArchive{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		logger:     logger.WithField("component", httpArchiveName),
	}
}

// GetPropositionsByYear retrieves all measures for an election year
func (a *HTTPArchive) GetPropositionsByYear(ctx context.Context, year int) ([]models.Proposition, error) {
	url := fmt.Sprintf("%s/elections/%d/measures", a.baseURL, year)

	headers := map[string]string{}
	if a.apiKey != "" {
		headers["X-API-Key"] = a.apiKey
	}

	resp, err := a.httpClient.Get(ctx, url, headers)
	if err != nil {
		code := ErrCodeNetworkError
		if ctx.Err() != nil {
			code = ErrCodeTimeout
		}
		return nil, NewDataSourceError(httpArchiveName, code, fmt.Sprintf("failed to fetch %d results", year), err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		// No statewide election that year
		return []models.Proposition{}, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, NewDataSourceError(httpArchiveName, ErrCodeAuthenticationFailed, "invalid API key", nil)
	case http.StatusTooManyRequests:
		return nil, NewDataSourceError(httpArchiveName, ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, NewDataSourceError(httpArchiveName, ErrCodeServerError, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	var payload archiveYearResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, NewDataSourceError(httpArchiveName, ErrCodeInvalidData, "failed to parse response", err)
	}

	propositions := make([]models.Proposition, 0, len(payload.Measures))
	for _, measure := range payload.Measures {
		prop, err := convertMeasure(year, measure)
		if err != nil {
			a.logger.WithError(err).WithField("number", measure.Number).Debug("Skipping unusable archive record")
			continue
		}
		propositions = append(propositions, prop)
	}

	return propositions, nil
}

// Name returns the archive name
func (a *HTTPArchive) Name() string {
	return httpArchiveName
}

func convertMeasure(year int, measure archiveMeasure) (models.Proposition, error) {
	prop := models.Proposition{
		Year:     year,
		Number:   strings.ToUpper(strings.TrimSpace(measure.Number)),
		Title:    strings.TrimSpace(measure.Title),
		Summary:  measure.Summary,
		Category: NormalizeCategory(measure.Category),
	}

	if measure.ElectionDate != "" {
		date, err := time.Parse("2006-01-02", measure.ElectionDate)
		if err != nil {
			return prop, fmt.Errorf("invalid election date %q: %w", measure.ElectionDate, err)
		}
		prop.ElectionDate = date
	}

	if measure.Certified {
		result := models.NewElectionResult(measure.YesVotes, measure.NoVotes)
		prop.Result = &result
	}
	prop.Status = prop.DeriveStatus(time.Now())

	if err := prop.Validate(); err != nil {
		return prop, err
	}
	return prop, nil
}

var categoryAliases = map[string]models.Category{
	"tax":             models.CategoryTaxation,
	"taxes":           models.CategoryTaxation,
	"revenue":         models.CategoryTaxation,
	"schools":         models.CategoryEducation,
	"health":          models.CategoryHealthcare,
	"health_care":     models.CategoryHealthcare,
	"environmental":   models.CategoryEnvironment,
	"water":           models.CategoryEnvironment,
	"crime":           models.CategoryCriminalJustice,
	"criminal_law":    models.CategoryCriminalJustice,
	"employment":      models.CategoryLabor,
	"labor_rights":    models.CategoryLabor,
	"rent_control":    models.CategoryHousing,
	"transit":         models.CategoryTransportation,
	"elections":       models.CategoryGovernment,
	"governance":      models.CategoryGovernment,
	"bonds":           models.CategoryGovernment,
	"rights":          models.CategoryCivilRights,
	"civil_liberties": models.CategoryCivilRights,
}

// NormalizeCategory maps archive category labels onto the closed category set. Unknown labels become "other".
func NormalizeCategory(raw string) models.Category {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.NewReplacer(" ", "_", "-", "_", "/", "_").Replace(key)

	if c := models.Category(key); c.Valid() {
		return c
	}
	if c, ok := categoryAliases[key]; ok {
		return c
	}
	return models.CategoryOther
}
