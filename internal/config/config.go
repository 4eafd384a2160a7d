// Package config defines all configuration structures for metmap.  No I/O or
// parsing logic lives here, only plain data types and validation.
package config

import (
	"fmt"

	"github.com/turtacn/metmap/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/metmap/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// MappingConfig holds the control parameters of a mapping run.
type MappingConfig struct {
	// Workers bounds the number of chunks evaluated concurrently.
	Workers int `mapstructure:"workers"`
	// ChunkSize is the number of pairs per work unit; 0 selects
	// ceil(pairs/workers).
	ChunkSize int `mapstructure:"chunk_size"`
	// OutputDir receives best-match tables and, with LogDiagnostics, the
	// per-pair likelihood logs.  Empty disables file output.
	OutputDir         string  `mapstructure:"output_dir"`
	LogDiagnostics    bool    `mapstructure:"log_diagnostics"`
	CompoundKegg      bool    `mapstructure:"compound_kegg"`
	ReactionGenes     bool    `mapstructure:"reaction_genes"`
	CompoundThreshold float64 `mapstructure:"compound_threshold"`
	ReactionThreshold float64 `mapstructure:"reaction_threshold"`
}

// MetricsConfig holds Prometheus parameters.  Textfile, when set, is the
// path of a node-exporter textfile written at the end of a run.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Textfile  string `mapstructure:"textfile"`
}

// MinIOConfig holds MinIO / S3-compatible object-storage parameters used to
// publish run artifacts.
type MinIOConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Prefix    string `mapstructure:"prefix"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure.
type Config struct {
	Mapping MappingConfig     `mapstructure:"mapping"`
	Log     logging.LogConfig `mapstructure:"log"`
	Metrics MetricsConfig     `mapstructure:"metrics"`
	MinIO   MinIOConfig       `mapstructure:"minio"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of the fully-populated Config and
// returns the first error encountered.
func (c *Config) Validate() error {
	if err := c.Mapping.Validate(); err != nil {
		return err
	}

	switch c.Log.Level {
	case logging.LevelDebug, logging.LevelInfo, logging.LevelWarn, logging.LevelError:
	default:
		return errors.New(errors.ErrCodeConfigError,
			fmt.Sprintf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level))
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return errors.New(errors.ErrCodeConfigError,
			fmt.Sprintf("config: log.format %q is invalid; expected json|console", c.Log.Format))
	}

	if c.Metrics.Enabled && c.Metrics.Namespace == "" {
		return errors.New(errors.ErrCodeConfigError, "config: metrics.namespace is required when metrics are enabled")
	}

	if c.MinIO.Enabled {
		if c.MinIO.Endpoint == "" {
			return errors.New(errors.ErrCodeConfigError, "config: minio.endpoint is required when minio is enabled")
		}
		if c.MinIO.Bucket == "" {
			return errors.New(errors.ErrCodeConfigError, "config: minio.bucket is required when minio is enabled")
		}
	}
	return nil
}

// Validate checks the mapping control parameters.
func (m MappingConfig) Validate() error {
	if m.Workers < 1 {
		return errors.New(errors.ErrCodeMappingParamsInvalid,
			fmt.Sprintf("config: mapping.workers must be ≥ 1, got %d", m.Workers))
	}
	if m.ChunkSize < 0 {
		return errors.New(errors.ErrCodeMappingParamsInvalid,
			fmt.Sprintf("config: mapping.chunk_size must be ≥ 0, got %d", m.ChunkSize))
	}
	if m.CompoundThreshold < 0 || m.CompoundThreshold > 1 {
		return errors.New(errors.ErrCodeMappingParamsInvalid,
			fmt.Sprintf("config: mapping.compound_threshold %g is out of range [0, 1]", m.CompoundThreshold))
	}
	if m.ReactionThreshold < 0 || m.ReactionThreshold > 1 {
		return errors.New(errors.ErrCodeMappingParamsInvalid,
			fmt.Sprintf("config: mapping.reaction_threshold %g is out of range [0, 1]", m.ReactionThreshold))
	}
	if m.LogDiagnostics && m.OutputDir == "" {
		return errors.New(errors.ErrCodeMappingParamsInvalid, "config: mapping.output_dir is required when log_diagnostics is set")
	}
	return nil
}

//Personal.AI order the ending
