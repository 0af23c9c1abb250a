package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	SRS      SRSConfig      `mapstructure:"srs"`
	Stats    StatsConfig    `mapstructure:"stats"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                  int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel              string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	RequestTimeoutSeconds int    `mapstructure:"request_timeout_seconds" validate:"gt=0"`
}

// RequestTimeout returns the per-request deadline.
func (c ServerConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DatabaseConfig contains all database-related configuration settings.
// For the sqlite driver URL is a file path.
type DatabaseConfig struct {
	Driver                 string `mapstructure:"driver" validate:"required,oneof=postgres sqlite"`
	URL                    string `mapstructure:"url" validate:"required"`
	MaxOpenConns           int    `mapstructure:"max_open_conns" validate:"gte=0"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes" validate:"gte=0"`
}

// SRSConfig overrides the scheduling constants. Zero values keep the
// algorithm defaults. Ease factors may be raised but never set below 1.3.
type SRSConfig struct {
	MinEaseFactor     float64 `mapstructure:"min_ease_factor" validate:"omitempty,gte=1.3"`
	DefaultEaseFactor float64 `mapstructure:"default_ease_factor" validate:"omitempty,gte=1.3"`
	InitialInterval   int     `mapstructure:"initial_interval" validate:"gte=0"`
	SecondInterval    int     `mapstructure:"second_interval" validate:"gte=0"`
	MaxIntervalDays   int     `mapstructure:"max_interval_days" validate:"gte=0"`
}

// StatsConfig controls how review statistics are bucketed.
type StatsConfig struct {
	// Timezone is an IANA zone name used for day boundaries. Empty means the
	// process local zone.
	Timezone string `mapstructure:"timezone"`
}

// Location resolves Timezone.
func (c StatsConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid stats timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Supported trace exporters.
const (
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Exporter    string  `mapstructure:"exporter" validate:"oneof=stdout otlp"`
	Endpoint    string  `mapstructure:"endpoint"`
	Insecure    bool    `mapstructure:"insecure"`
	ServiceName string  `mapstructure:"service_name" validate:"required"`
	SampleRatio float64 `mapstructure:"sample_ratio" validate:"gte=0,lte=1"`
}
