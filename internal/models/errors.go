package models

import "errors"

// Custom errors
var (
	ErrNotFound                  = errors.New("record not found")
	ErrInvalidID                 = errors.New("invalid ID format")
	ErrMalformedProposition      = errors.New("malformed proposition")
	ErrInvalidScenarioParameters = errors.New("invalid scenario parameters")
	ErrScenarioNameRequired      = errors.New("scenario name is required")
	ErrScenarioLimitReached      = errors.New("scenario limit reached")
	ErrNoScenarioResults         = errors.New("no scenarios with results to compare")
)
