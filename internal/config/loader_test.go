package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	ctx := context.Background()

	// Run from a temp dir so a developer's kylo.yaml cannot leak into tests.
	t.Run("LoadDefaults", func(t *testing.T) {
		t.Chdir(t.TempDir())

		cfg, err := Load(ctx)
		require.NoError(t, err)
		require.NotNil(t, cfg)

		// Verify logging defaults
		assert.Equal(t, "info", cfg.Logging.Level)
		assert.Equal(t, "STRUCTURED", cfg.Logging.Profile)

		// Verify sqoop defaults
		assert.Equal(t, "sqoop", cfg.Sqoop.SystemPath)
		assert.Equal(t, 4, cfg.Sqoop.DefaultMappers)

		// Verify spark defaults
		assert.Equal(t, "/usr/hdp/current/spark-client/", cfg.Spark.Home)
		assert.Equal(t, "local", cfg.Spark.Master)
		assert.Equal(t, "512m", cfg.Spark.DriverMemory)
		assert.Equal(t, "512m", cfg.Spark.ExecutorMemory)
		assert.Equal(t, 1, cfg.Spark.NumExecutors)
		assert.Equal(t, 1, cfg.Spark.ExecutorCores)
		assert.Equal(t, 120*time.Second, cfg.Spark.NetworkTimeout)

		// Verify registry default
		assert.Equal(t, ".kylo/jobs", cfg.Registry.Root)
	})

	t.Run("ConfigFileOverrides", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)

		yaml := `
logging:
  level: debug
sqoop:
  default_mappers: 8
spark:
  master: yarn
`
		require.NoError(t, os.WriteFile(filepath.Join(dir, "kylo.yaml"), []byte(yaml), 0644))

		cfg, err := Load(ctx)
		require.NoError(t, err)

		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.Equal(t, 8, cfg.Sqoop.DefaultMappers)
		assert.Equal(t, "yarn", cfg.Spark.Master)
		// Untouched keys keep defaults
		assert.Equal(t, "512m", cfg.Spark.DriverMemory)
	})

	t.Run("EnvOverrides", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("KYLO_SPARK_MASTER", "yarn-cluster")

		cfg, err := Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "yarn-cluster", cfg.Spark.Master)
	})

	t.Run("CancelledContext", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := Load(cancelled)
		require.Error(t, err)
	})
}
