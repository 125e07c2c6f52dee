// Package config provides configuration management for the prop-forecast application.
package config

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	// Registration only fails for empty tags or nil funcs
	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)
	_ = v.RegisterValidation("engine_mode", validateEngineMode)
	_ = v.RegisterValidation("archive_source", validateArchiveSource)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	if err := validateCrossField(cfg); err != nil {
		return err
	}

	return nil
}

func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

func validateEngineMode(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case ModeRealDataOnly, ModeBlendIllustrative:
		return true
	default:
		return false
	}
}

func validateArchiveSource(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case ArchiveSourceHTTP, ArchiveSourcePostgres, ArchiveSourceFixture:
		return true
	default:
		return false
	}
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	w := cfg.Engine.Weights
	if w.Finance+w.Historical <= 0 {
		return fmt.Errorf("engine weights for finance and historical cannot both be zero")
	}
	if cfg.Engine.Mode == ModeBlendIllustrative &&
		w.Demographics+w.Sentiment+w.Complexity+w.Timing+w.Opposition <= 0 {
		return fmt.Errorf("blend_illustrative mode requires at least one illustrative weight")
	}

	switch cfg.Archive.Source {
	case ArchiveSourceHTTP:
		if cfg.Archive.BaseURL == "" {
			return fmt.Errorf("archive source 'http' requires archive.base_url")
		}
	case ArchiveSourcePostgres:
		if cfg.Database.Host == "" || cfg.Database.Name == "" || cfg.Database.User == "" {
			return fmt.Errorf("archive source 'postgres' requires database host, name and user")
		}
	case ArchiveSourceFixture:
		if cfg.Archive.FixturePath == "" {
			return fmt.Errorf("archive source 'fixture' requires archive.fixture_path")
		}
	}

	if cfg.Finance.Enabled && cfg.Finance.BaseURL == "" {
		return fmt.Errorf("finance lookups are enabled but finance.base_url is empty")
	}

	if cfg.Schedule.ArchiveWarmup != "" {
		if _, err := cron.ParseStandard(cfg.Schedule.ArchiveWarmup); err != nil {
			return fmt.Errorf("invalid schedule.archive_warmup expression: %w", err)
		}
	}

	if cfg.Database.MaxIdleConnections > cfg.Database.MaxConnections && cfg.Database.MaxConnections > 0 {
		return fmt.Errorf("max_idle_connections cannot exceed max_connections")
	}

	if cfg.IsProduction() {
		if cfg.Archive.Source == ArchiveSourcePostgres && cfg.Database.SSLMode == "disable" {
			return fmt.Errorf("production environment requires SSL mode to be 'require' or 'verify-full'")
		}
		if cfg.Archive.Source == ArchiveSourceFixture {
			return fmt.Errorf("production environment cannot use the fixture archive")
		}
	}

	return nil
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var errMsg string
	for _, fieldError := range validationErrors {
		field := fieldError.StructField()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required":
			errMsg += fmt.Sprintf("- Field '%s' is required\n", field)
		case "url":
			errMsg += fmt.Sprintf("- Field '%s' must be a valid URL, got '%v'\n", field, value)
		case "min", "max":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: %s constraint violated\n", field, tag)
		case "gt", "gte", "lt", "lte":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "engine_mode":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: %s, %s\n", field, ModeRealDataOnly, ModeBlendIllustrative)
		case "archive_source":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: http, postgres, fixture\n", field)
		case "oneof":
			errMsg += fmt.Sprintf("- Field '%s' has invalid value '%v'\n", field, value)
		default:
			errMsg += fmt.Sprintf("- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", errMsg)
}

// ValidateEnvironment validates environment-specific requirements
func ValidateEnvironment(cfg *Config) error {
	if cfg.IsProduction() {
		if isTestCredential(cfg.Archive.APIKey) || isTestCredential(cfg.Finance.APIKey) {
			return fmt.Errorf("production environment should not use placeholder API keys")
		}
	}
	return nil
}

var testCredentialPattern = regexp.MustCompile(`(?i)test|demo|example|placeholder|YOUR_`)

// isTestCredential checks if a credential looks like a test credential
func isTestCredential(credential string) bool {
	return credential != "" && testCredentialPattern.MatchString(credential)
}
