package datasource

import (
	"context"
	"errors"

	"github.com/yourusername/prop-forecast/internal/models"
)

// HistoricalArchive provides past statewide measures and their certified results
type HistoricalArchive interface {
	// GetPropositionsByYear returns every measure on the ballot in the given election year.
	// A year with no election returns an empty slice and no error.
	GetPropositionsByYear(ctx context.Context, year int) ([]models.Proposition, error)

	// Name returns the name of the archive
	Name() string
}

// FinanceSource provides campaign finance snapshots for a measure
type FinanceSource interface {
	// FetchFinance retrieves the latest finance summary for a proposition id
	FetchFinance(ctx context.Context, propositionID string) (*models.PropositionFinance, error)

	// Name returns the name of the finance source
	Name() string
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

// Unwrap exposes the underlying error
func (e DataSourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
	ErrCodeTimeout              = "timeout"
)

// Sentinel errors
var (
	ErrCircuitOpen = errors.New("circuit breaker open")
	ErrNoArchive   = errors.New("no archive configured")
)

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsNotFound reports whether err is a not_found data source error
func IsNotFound(err error) bool {
	var dsErr DataSourceError
	return errors.As(err, &dsErr) && dsErr.Code == ErrCodeNotFound
}
