package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "SCRY"

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.request_timeout_seconds", 15)

	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.url", "scry.db")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime_minutes", 5)

	v.SetDefault("srs.min_ease_factor", 0)
	v.SetDefault("srs.default_ease_factor", 0)
	v.SetDefault("srs.initial_interval", 0)
	v.SetDefault("srs.second_interval", 0)
	v.SetDefault("srs.max_interval_days", 0)

	v.SetDefault("stats.timezone", "")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.exporter", ExporterStdout)
	v.SetDefault("tracing.endpoint", "")
	v.SetDefault("tracing.insecure", false)
	v.SetDefault("tracing.service_name", "scry-review")
	v.SetDefault("tracing.sample_ratio", 1.0)
}

// Load configuration from environment variables and optionally a YAML config
// file. Environment variables (SCRY_SECTION_KEY) take precedence over values
// from the file. An empty configPath skips the file.
// Returns a populated Config struct or an error if loading/validation fails.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigType("yaml")
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cfg against its struct tags and the rules that span fields.
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	if cfg.Database.Driver == DriverPostgres {
		if err := validate.Var(cfg.Database.URL, "url"); err != nil {
			return fmt.Errorf("configuration validation failed: database.url must be a URL for postgres: %w", err)
		}
	}
	if cfg.Tracing.Enabled && cfg.Tracing.Exporter == ExporterOTLP && cfg.Tracing.Endpoint == "" {
		return errors.New("configuration validation failed: tracing.endpoint is required for the otlp exporter")
	}
	if _, err := cfg.Stats.Location(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}
