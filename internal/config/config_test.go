package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, "items", cfg.Tables.Items)
	assert.Equal(t, "idempotency", cfg.Tables.Idempotency)
	assert.Equal(t, 48*time.Hour, cfg.Tables.IdempotencyTTL)
	assert.Equal(t, 3*time.Second, cfg.Health.Timeout)
	assert.Equal(t, []string{"*"}, cfg.HTTP.AllowOrigins)
	assert.Equal(t, "Catalog", cfg.Worker.MetricsNamespace)
	assert.False(t, cfg.App.RunLocal)
	assert.Equal(t, StoreDynamoDB, cfg.App.StoreBackend)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("ITEMS_TABLE", "catalog-items")
	t.Setenv("RUN_LOCAL", "true")
	t.Setenv("HTTP_READ_TIMEOUT", "5s")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("CATALOG_EVENTS_QUEUE_URL", "http://localhost:4566/000000000000/catalog-events")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "catalog-items", cfg.Tables.Items)
	assert.True(t, cfg.App.RunLocal)
	assert.Equal(t, 5*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.AllowOrigins)
	assert.Equal(t, "http://localhost:4566/000000000000/catalog-events", cfg.Events.QueueURL)
}

func TestLoad_RejectsNonPositiveTTL(t *testing.T) {
	t.Setenv("IDEMPOTENCY_TTL", "0s")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_RejectsBadDuration(t *testing.T) {
	t.Setenv("HEALTH_CHECK_TIMEOUT", "soon")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_RejectsUnknownBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "mongo")

	_, err := Load()
	require.Error(t, err)
}
