package config

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/metmap/pkg/errors"
)

const validConfigYAML = `
mapping:
  workers: 4
  chunk_size: 128
  output_dir: "/tmp/metmap-out"
  log_diagnostics: true
  compound_kegg: true
  reaction_genes: false
  compound_threshold: 0.5
  reaction_threshold: 0.25
log:
  level: "debug"
  format: "console"
metrics:
  enabled: true
  namespace: "mapper"
  textfile: "/tmp/metmap.prom"
minio:
  enabled: false
`

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FromFile_ValidConfig(t *testing.T) {
	path := createTempConfigFile(t, validConfigYAML)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Mapping.Workers)
	assert.Equal(t, 128, cfg.Mapping.ChunkSize)
	assert.Equal(t, "/tmp/metmap-out", cfg.Mapping.OutputDir)
	assert.True(t, cfg.Mapping.LogDiagnostics)
	assert.True(t, cfg.Mapping.CompoundKegg)
	assert.False(t, cfg.Mapping.ReactionGenes)
	assert.Equal(t, 0.5, cfg.Mapping.CompoundThreshold)
	assert.Equal(t, 0.25, cfg.Mapping.ReactionThreshold)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "mapper", cfg.Metrics.Namespace)
	assert.Equal(t, DefaultMinIOEndpoint, cfg.MinIO.Endpoint)
}

func TestLoad_FromFile_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, ErrConfigFileNotFound)
}

func TestLoad_FromFile_InvalidYAML(t *testing.T) {
	path := createTempConfigFile(t, "mapping: [")
	_, err := Load(path)
	assert.ErrorIs(t, err, ErrConfigParseError)
}

func TestLoad_FromFile_ValidationFailure(t *testing.T) {
	path := createTempConfigFile(t, "mapping:\n  compound_threshold: 2\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeMappingParamsInvalid))
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := createTempConfigFile(t, validConfigYAML)
	t.Setenv("METMAP_MAPPING_WORKERS", "7")
	t.Setenv("METMAP_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Mapping.Workers)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("METMAP_MAPPING_CHUNK_SIZE", "64")
	t.Setenv("METMAP_MAPPING_COMPOUND_KEGG", "true")
	t.Setenv("METMAP_MINIO_BUCKET", "runs")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Mapping.ChunkSize)
	assert.True(t, cfg.Mapping.CompoundKegg)
	assert.Equal(t, "runs", cfg.MinIO.Bucket)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
}

func TestLoad_EmptyPathUsesEnv(t *testing.T) {
	t.Setenv("METMAP_MAPPING_WORKERS", "2")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Mapping.Workers)
}

func TestMustLoad_Panics(t *testing.T) {
	assert.Panics(t, func() { MustLoad(filepath.Join(t.TempDir(), "missing.yaml")) })
}

func TestWatch_MissingFile(t *testing.T) {
	err := Watch(filepath.Join(t.TempDir(), "missing.yaml"), func(*Config) {}, nil)
	assert.ErrorIs(t, err, ErrConfigFileNotFound)
}

func TestWatch_ReloadsOnChange(t *testing.T) {
	path := createTempConfigFile(t, "log:\n  level: info\n")

	var level atomic.Value
	require.NoError(t, Watch(path, func(cfg *Config) { level.Store(cfg.Log.Level) }, nil))

	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o644))
	assert.Eventually(t, func() bool {
		v, _ := level.Load().(string)
		return v == "debug"
	}, 5*time.Second, 20*time.Millisecond)
}

//Personal.AI order the ending
