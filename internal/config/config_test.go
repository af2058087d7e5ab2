package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tournevent/cdek/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.CDEKSandbox)
	assert.False(t, cfg.OTELEnabled)
	assert.Equal(t, "http://localhost:4318", cfg.OTELEndpoint)
	assert.Equal(t, "cdek-bridge", cfg.ServiceName)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CDEK_CLIENT_ID", "id-1")
	t.Setenv("CDEK_CLIENT_SECRET", "secret-1")
	t.Setenv("CDEK_SANDBOX", "true")
	t.Setenv("DATABASE_DSN", "postgres://localhost/cdek")
	t.Setenv("METRICS_ADDR", ":9090")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "id-1", cfg.CDEKClientID)
	assert.Equal(t, "secret-1", cfg.CDEKClientSecret)
	assert.True(t, cfg.CDEKSandbox)
	assert.Equal(t, "postgres://localhost/cdek", cfg.DatabaseDSN)
	assert.Equal(t, ":9090", cfg.MetricsAddr)
}

func TestAttributes(t *testing.T) {
	cfg := &config.Config{ServiceName: "cdek-bridge", Version: "1.2.3", CDEKSandbox: true}

	attrs := cfg.Attributes()
	require.Len(t, attrs, 3)
	assert.Equal(t, "service.name", string(attrs[0].Key))
	assert.Equal(t, "cdek-bridge", attrs[0].Value.AsString())
	assert.Equal(t, "1.2.3", attrs[1].Value.AsString())
	assert.True(t, attrs[2].Value.AsBool())
}
