// Package config provides configuration management for the prop-forecast application.
package config

import (
	"fmt"
	"time"
)

// Engine modes
const (
	ModeRealDataOnly      = "real_data_only"
	ModeBlendIllustrative = "blend_illustrative"
)

// Archive sources
const (
	ArchiveSourceHTTP     = "http"
	ArchiveSourcePostgres = "postgres"
	ArchiveSourceFixture  = "fixture"
)

// Config represents the complete application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app" validate:"required"`
	Database DatabaseConfig `mapstructure:"database"`
	Archive  ArchiveConfig  `mapstructure:"archive" validate:"required"`
	Finance  FinanceConfig  `mapstructure:"finance"`
	Engine   EngineConfig   `mapstructure:"engine" validate:"required"`
	Scenario ScenarioConfig `mapstructure:"scenario"`
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
	Features FeaturesConfig `mapstructure:"features"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration. Only required for the postgres archive.
type DatabaseConfig struct {
	Host               string `mapstructure:"host"`
	Port               int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name               string `mapstructure:"name"`
	User               string `mapstructure:"user"`
	Password           string `mapstructure:"password"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"gte=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"gte=0"`
	RunMigrations      bool   `mapstructure:"run_migrations"`
}

// ArchiveConfig represents the historical results archive
type ArchiveConfig struct {
	Source            string  `mapstructure:"source" validate:"required,archive_source"`
	BaseURL           string  `mapstructure:"base_url" validate:"omitempty,url"`
	APIKey            string  `mapstructure:"api_key"`
	FixturePath       string  `mapstructure:"fixture_path"`
	TimeoutSeconds    int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	RetryAttempts     int     `mapstructure:"retry_attempts" validate:"gte=0"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"gte=0"`
	CacheTTLSeconds   int     `mapstructure:"cache_ttl_seconds" validate:"gte=0"`
	MaxYears          int     `mapstructure:"max_years" validate:"required,gt=0,lte=20"`
}

// FinanceConfig represents the campaign finance lookup service
type FinanceConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	BaseURL         string `mapstructure:"base_url" validate:"omitempty,url"`
	APIKey          string `mapstructure:"api_key"`
	TimeoutSeconds  int    `mapstructure:"timeout_seconds" validate:"gte=0"`
	CacheTTLSeconds int    `mapstructure:"cache_ttl_seconds" validate:"gte=0"`
}

// WeightsConfig holds the per-factor aggregation weights
type WeightsConfig struct {
	Finance      float64 `mapstructure:"finance" validate:"gte=0"`
	Historical   float64 `mapstructure:"historical" validate:"gte=0"`
	Demographics float64 `mapstructure:"demographics" validate:"gte=0"`
	Sentiment    float64 `mapstructure:"sentiment" validate:"gte=0"`
	Complexity   float64 `mapstructure:"complexity" validate:"gte=0"`
	Timing       float64 `mapstructure:"timing" validate:"gte=0"`
	Opposition   float64 `mapstructure:"opposition" validate:"gte=0"`
}

// EngineConfig represents prediction engine configuration
type EngineConfig struct {
	Mode                     string        `mapstructure:"mode" validate:"required,engine_mode"`
	Weights                  WeightsConfig `mapstructure:"weights"`
	MinHistoricalComparisons int           `mapstructure:"min_historical_comparisons" validate:"required,gt=0"`
	MaxComparisons           int           `mapstructure:"max_comparisons" validate:"required,gt=0"`
	MinSimilarity            float64       `mapstructure:"min_similarity" validate:"gte=0,lte=1"`
	ConfidenceBand           float64       `mapstructure:"confidence_band" validate:"gt=0,lte=0.5"`
}

// ScenarioConfig represents scenario store configuration
type ScenarioConfig struct {
	MaxScenarios int `mapstructure:"max_scenarios" validate:"gte=0"`
}

// ServerConfig represents the HTTP API and health endpoints
type ServerConfig struct {
	Port                int `mapstructure:"port" validate:"required,min=1,max=65535"`
	HealthPort          int `mapstructure:"health_port" validate:"omitempty,min=1,max=65535"`
	GRPCHealthPort      int `mapstructure:"grpc_health_port" validate:"omitempty,min=1,max=65535"`
	ReadTimeoutSeconds  int `mapstructure:"read_timeout_seconds" validate:"gte=0"`
	WriteTimeoutSeconds int `mapstructure:"write_timeout_seconds" validate:"gte=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Path    string `mapstructure:"path"`
}

// ScheduleConfig represents background jobs
type ScheduleConfig struct {
	ArchiveWarmup string `mapstructure:"archive_warmup"`
	WarmupYears   int    `mapstructure:"warmup_years" validate:"gte=0"`
}

// FeaturesConfig represents feature flags
type FeaturesConfig struct {
	ScenarioStreamEnabled      bool `mapstructure:"scenario_stream_enabled"`
	FinanceEnrichmentEnabled   bool `mapstructure:"finance_enrichment_enabled"`
	IllustrativeFactorsEnabled bool `mapstructure:"illustrative_factors_enabled"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// ArchiveTimeout returns the per-fetch archive timeout
func (c *Config) ArchiveTimeout() time.Duration {
	return time.Duration(c.Archive.TimeoutSeconds) * time.Second
}

// ArchiveCacheTTL returns how long archive years stay cached
func (c *Config) ArchiveCacheTTL() time.Duration {
	return time.Duration(c.Archive.CacheTTLSeconds) * time.Second
}

// ServerAddress returns the API listen address
func (c *Config) ServerAddress() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
