// Package config provides configuration management for the prop-forecast application.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "PROP_FORECAST"

// Load reads and parses the configuration from file and environment variables
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	v := newViper()
	if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration with default values for optional fields
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func LoadWithDefaults(configPath string) (*Config, error) {
	v := newViper()

	if configPath == "" {
		configPath = "config/config.yaml"
	}

	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		expanded := os.ExpandEnv(string(data))
		if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	// If file doesn't exist, continue with defaults and environment variables

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// ReloadFromEnv reloads the configuration when PROP_FORECAST_CONFIG_PATH points elsewhere
func ReloadFromEnv(cfg *Config) error {
	if envPath := os.Getenv(envPrefix + "_CONFIG_PATH"); envPath != "" {
		newCfg, err := LoadWithDefaults(envPath)
		if err != nil {
			return err
		}
		*cfg = *newCfg
	}
	return nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	// Replace dots with underscores in environment variable names
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "prop-forecast")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("database.port", 5432)
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.max_idle_connections", 2)

	v.SetDefault("archive.source", ArchiveSourceFixture)
	v.SetDefault("archive.timeout_seconds", 10)
	v.SetDefault("archive.retry_attempts", 3)
	v.SetDefault("archive.requests_per_second", 5)
	v.SetDefault("archive.cache_ttl_seconds", 3600)
	v.SetDefault("archive.max_years", 4)

	v.SetDefault("finance.timeout_seconds", 10)
	v.SetDefault("finance.cache_ttl_seconds", 900)

	v.SetDefault("engine.mode", ModeRealDataOnly)
	v.SetDefault("engine.weights.finance", 0.6)
	v.SetDefault("engine.weights.historical", 0.4)
	v.SetDefault("engine.weights.demographics", 0.15)
	v.SetDefault("engine.weights.sentiment", 0.1)
	v.SetDefault("engine.weights.complexity", 0.05)
	v.SetDefault("engine.weights.timing", 0.05)
	v.SetDefault("engine.weights.opposition", 0.1)
	v.SetDefault("engine.min_historical_comparisons", 3)
	v.SetDefault("engine.max_comparisons", 5)
	v.SetDefault("engine.min_similarity", 0.2)
	v.SetDefault("engine.confidence_band", 0.1)

	v.SetDefault("scenario.max_scenarios", 500)

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.health_port", 8081)
	v.SetDefault("server.grpc_health_port", 9091)
	v.SetDefault("server.read_timeout_seconds", 15)
	v.SetDefault("server.write_timeout_seconds", 30)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("schedule.archive_warmup", "0 4 * * *")
	v.SetDefault("schedule.warmup_years", 4)

	v.SetDefault("features.scenario_stream_enabled", true)
}
