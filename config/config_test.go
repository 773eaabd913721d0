package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("should apply defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
		require.NoError(t, err)

		assert.Equal(t, "val-builder-api", cfg.AppName)
		assert.Equal(t, 5000, cfg.Port)
		assert.False(t, cfg.RedisEnabled)
		assert.Equal(t, 5*time.Minute, cfg.MappingCacheTTL)
		assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
		assert.Equal(t, 8.5, cfg.Page().PaperWidth)
		assert.Equal(t, 1.0, cfg.Page().MarginLeft)
		assert.Zero(t, cfg.RenderTimeout)
	})

	t.Run("should read values from an env file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.env")
		require.NoError(t, os.WriteFile(path, []byte("DB_NAME=vals_test\nKAFKA_BATCH_TIMEOUT_MS=250\nREDIS_ENABLED=true\n"), 0o600))
		t.Cleanup(func() {
			os.Unsetenv("DB_NAME")
			os.Unsetenv("KAFKA_BATCH_TIMEOUT_MS")
			os.Unsetenv("REDIS_ENABLED")
		})

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "vals_test", cfg.Database().Name)
		assert.True(t, cfg.RedisEnabled)
		assert.Equal(t, 250*time.Millisecond, cfg.Kafka().BatchTimeout)
	})

	t.Run("should let the environment win over the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.env")
		require.NoError(t, os.WriteFile(path, []byte("PORT=7000\n"), 0o600))
		t.Setenv("PORT", "8080")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 8080, cfg.Port)
	})

	t.Run("should bind lists durations and floats from the environment", func(t *testing.T) {
		t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")
		t.Setenv("PDF_RENDER_TIMEOUT", "45s")
		t.Setenv("PDF_MARGIN", "0.5")

		cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
		require.NoError(t, err)
		assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
		assert.Equal(t, 45*time.Second, cfg.RenderTimeout)
		assert.Equal(t, 0.5, cfg.Page().MarginTop)
	})

	t.Run("should reject a malformed duration", func(t *testing.T) {
		t.Setenv("MAPPING_CACHE_TTL", "soon")

		_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
		assert.Error(t, err)
	})

	t.Run("should clamp a negative migration version", func(t *testing.T) {
		cfg := &Config{DatabaseMigrationVersion: -1}
		assert.Equal(t, uint(0), cfg.Migrations().Version)
	})
}
