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

	assert.Equal(t, "kamishop", cfg.ServiceName)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "products", cfg.ESIndex)
	assert.Equal(t, "drawingbed", cfg.UploadDir)
	assert.Equal(t, []string{"http://localhost:5173", "http://127.0.0.1:5173"}, cfg.CORSOrigins)
	assert.False(t, cfg.SeedExampleData)
	assert.Equal(t, 30*time.Second, cfg.DashboardCacheTTL)
	assert.Empty(t, cfg.RedisURL)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/shop")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("SEED_EXAMPLE_DATA", "true")
	t.Setenv("DASHBOARD_CACHE_TTL", "2m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "postgres://u:p@localhost:5432/shop", cfg.DatabaseURL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.SeedExampleData)
	assert.Equal(t, 2*time.Minute, cfg.DashboardCacheTTL)
}

func TestLoad_BadPort(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-port")

	_, err := Load()
	require.Error(t, err)
}

func TestLocation(t *testing.T) {
	loc, err := Config{}.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	loc, err = Config{Timezone: "Asia/Shanghai"}.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Shanghai", loc.String())

	loc, err = Config{Timezone: "Nowhere/Atlantis"}.Location()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Nowhere/Atlantis")
	assert.Equal(t, time.UTC, loc)
}
