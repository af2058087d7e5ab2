package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"go.opentelemetry.io/otel/attribute"
)

// Config holds all configuration for the sync service.
type Config struct {
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// CDEK
	CDEKClientID       string `envconfig:"CDEK_CLIENT_ID"`
	CDEKClientSecret   string `envconfig:"CDEK_CLIENT_SECRET"`
	CDEKSandbox        bool   `envconfig:"CDEK_SANDBOX" default:"false"`
	CDEKAccount        string `envconfig:"CDEK_ACCOUNT"`
	CDEKSecurePassword string `envconfig:"CDEK_SECURE_PASSWORD"`

	// Storage
	DatabaseDSN string `envconfig:"DATABASE_DSN"`

	// MetricsAddr exposes /metrics while a sync runs; empty disables it.
	MetricsAddr string `envconfig:"METRICS_ADDR"`

	// Telemetry
	OTELEnabled  bool   `envconfig:"OTEL_ENABLED" default:"false"`
	OTELEndpoint string `envconfig:"OTEL_ENDPOINT" default:"http://localhost:4318"`
	ServiceName  string `envconfig:"SERVICE_NAME" default:"cdek-bridge"`
	Version      string `envconfig:"SERVICE_VERSION" default:"0.0.1"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &cfg, nil
}

// Attributes returns OpenTelemetry attributes for this configuration.
func (c *Config) Attributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("service.name", c.ServiceName),
		attribute.String("service.version", c.Version),
		attribute.Bool("cdek.sandbox", c.CDEKSandbox),
	}
}
