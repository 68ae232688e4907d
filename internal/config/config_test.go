package config_test

import (
	"testing"

	"github.com/JamesMReilly/shopgraph/internal/config"
	"github.com/stretchr/testify/require"
)

func TestConfigFromEnv(t *testing.T) {
	t.Run("missing environment", func(t *testing.T) {
		_, err := config.ConfigFromEnv()
		require.ErrorIs(t, err, config.ErrMissingRequiredValue)
	})

	t.Run("invalid environment", func(t *testing.T) {
		t.Setenv("SHOPGRAPH_ENVIRONMENT", "prod")

		_, err := config.ConfigFromEnv()
		require.ErrorIs(t, err, config.ErrInvalidValue)
	})

	t.Run("development requires nothing else", func(t *testing.T) {
		t.Setenv("SHOPGRAPH_ENVIRONMENT", "development")

		conf, err := config.ConfigFromEnv()
		require.NoError(t, err)
		require.True(t, conf.IsDevelopment())
		require.False(t, conf.IsProduction())
		require.False(t, conf.IsStaging())
	})

	t.Run("production requires db credentials and sentry", func(t *testing.T) {
		t.Setenv("SHOPGRAPH_ENVIRONMENT", "production")

		_, err := config.ConfigFromEnv()
		require.ErrorIs(t, err, config.ErrMissingRequiredValue)

		t.Setenv("DB_HOST", "db.internal")
		t.Setenv("DB_USERNAME", "shopgraph")
		t.Setenv("DB_PASSWORD", "hunter2")
		t.Setenv("SENTRY_DSN", "https://key@sentry.example/1")

		conf, err := config.ConfigFromEnv()
		require.NoError(t, err)
		require.True(t, conf.IsProduction())
		require.Equal(t, "db.internal", conf.DBHost())
		require.Equal(t, "shopgraph", conf.DBUsername())
		require.Equal(t, "hunter2", conf.DBPassword())
		require.Equal(t, "https://key@sentry.example/1", conf.SentryDSN())
	})

	t.Run("port defaults to 8080", func(t *testing.T) {
		t.Setenv("SHOPGRAPH_ENVIRONMENT", "development")

		conf, err := config.ConfigFromEnv()
		require.NoError(t, err)
		require.Equal(t, "8080", conf.Port())

		t.Setenv("PORT", "9090")
		conf, err = config.ConfigFromEnv()
		require.NoError(t, err)
		require.Equal(t, "9090", conf.Port())
	})

	t.Run("non sensitive string omits credentials", func(t *testing.T) {
		t.Setenv("SHOPGRAPH_ENVIRONMENT", "production")
		t.Setenv("DB_HOST", "db.internal")
		t.Setenv("DB_USERNAME", "shopgraph")
		t.Setenv("DB_PASSWORD", "hunter2")
		t.Setenv("SENTRY_DSN", "https://key@sentry.example/1")

		conf, err := config.ConfigFromEnv()
		require.NoError(t, err)
		require.NotContains(t, conf.NonSensitiveString(), "hunter2")
		require.Contains(t, conf.NonSensitiveString(), "production")
	})
}
