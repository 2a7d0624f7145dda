package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shahjs01/kylo/internal/config"
	"github.com/shahjs01/kylo/pkg/manifest"
)

func importManifest() *manifest.Manifest {
	m := &manifest.Manifest{
		Version: "1.0",
		Kind:    manifest.KindImport,
		Name:    "customers-ingest",
		Import: &manifest.ImportConfig{
			Connect:   "jdbc:mysql://db/crm",
			Username:  "etl",
			Table:     "CUSTOMERS",
			TargetDir: "/landing/customers",
			Password: manifest.PasswordConfig{
				Mode:  "clear_text_entry",
				Value: "hunter2",
			},
		},
	}
	m.ApplyDefaults()
	return m
}

func sparkManifest() *manifest.Manifest {
	m := &manifest.Manifest{
		Version: "1.0",
		Kind:    manifest.KindSpark,
		Name:    "nightly-etl",
		Spark: &manifest.SparkConfig{
			AppResource: "/jobs/etl.jar",
			MainClass:   "com.example.ETL",
		},
	}
	m.ApplyDefaults()
	return m
}

func TestApplyConfigDefaults(t *testing.T) {
	cfg := &config.Config{
		Sqoop: config.SqoopConfig{SystemPath: "/usr/bin/sqoop", DefaultMappers: 8},
		Spark: config.SparkConfig{
			Home:           "/opt/spark",
			Master:         "yarn",
			DriverMemory:   "1g",
			ExecutorMemory: "2g",
			NumExecutors:   3,
			ExecutorCores:  2,
			NetworkTimeout: 2 * time.Minute,
		},
	}

	t.Run("fills import defaults", func(t *testing.T) {
		m := importManifest()
		applyConfigDefaults(m, cfg)
		assert.Equal(t, "/usr/bin/sqoop", m.Import.SystemPath)
		assert.Equal(t, 8, m.Import.Mappers)
	})

	t.Run("manifest values win", func(t *testing.T) {
		m := importManifest()
		m.Import.SystemPath = "/custom/sqoop"
		m.Import.Mappers = 16
		applyConfigDefaults(m, cfg)
		assert.Equal(t, "/custom/sqoop", m.Import.SystemPath)
		assert.Equal(t, 16, m.Import.Mappers)
	})

	t.Run("fills spark defaults", func(t *testing.T) {
		m := sparkManifest()
		applyConfigDefaults(m, cfg)
		assert.Equal(t, "yarn", m.Spark.Master)
		assert.Equal(t, "/opt/spark", m.Spark.SparkHome)
		assert.Equal(t, "1g", m.Spark.DriverMemory)
		assert.Equal(t, "3", m.Spark.NumExecutors)
		assert.Equal(t, "2", m.Spark.ExecutorCores)
		assert.Equal(t, "120s", m.Spark.NetworkTimeout)
	})

	t.Run("nil config is a no-op", func(t *testing.T) {
		m := sparkManifest()
		applyConfigDefaults(m, nil)
		assert.Empty(t, m.Spark.Master)
	})
}

func TestRenderManifestMasksSecrets(t *testing.T) {
	masked, _, err := renderManifest(importManifest(), zap.NewNop())
	require.NoError(t, err)

	assert.Contains(t, masked, "sqoop import")
	assert.Contains(t, masked, `--table "CUSTOMERS"`)
	assert.Contains(t, masked, "*****")
	assert.NotContains(t, masked, "hunter2")
}

func TestRenderManifestSpark(t *testing.T) {
	m := sparkManifest()
	m.Spark.SparkHome = "/opt/spark"
	m.Spark.Master = "yarn"

	masked, diags, err := renderManifest(m, zap.NewNop())
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.Contains(t, masked, filepath.Join("/opt/spark", "bin", "spark-submit"))
	assert.Contains(t, masked, "--class com.example.ETL")
	assert.Contains(t, masked, "--name nightly-etl")
}

func TestRenderManifestRejectsUnknownKind(t *testing.T) {
	m := importManifest()
	m.Kind = "mapreduce"
	_, _, err := renderManifest(m, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported job kind")
}

func TestCreateWriterDestinations(t *testing.T) {
	t.Run("stdout", func(t *testing.T) {
		w, cleanup, err := createWriter("stdout", "job-1", "import")
		require.NoError(t, err)
		defer cleanup()
		assert.NotNil(t, w)
	})

	t.Run("file destination", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "run.jsonl")
		w, cleanup, err := createWriter("file:"+path, "job-1", "import")
		require.NoError(t, err)
		assert.NotNil(t, w)
		cleanup()

		_, err = os.Stat(path)
		assert.NoError(t, err)
	})

	t.Run("bare path without prefix", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "run.jsonl")
		_, cleanup, err := createWriter(path, "job-1", "spark")
		require.NoError(t, err)
		cleanup()
	})

	t.Run("unwritable path", func(t *testing.T) {
		_, _, err := createWriter("file:/nonexistent/dir/run.jsonl", "job-1", "import")
		require.Error(t, err)
	})
}
