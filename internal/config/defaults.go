package config

import (
	"runtime"

	"github.com/turtacn/metmap/internal/infrastructure/monitoring/logging"
)

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultLogLevel  = logging.LevelInfo
	DefaultLogFormat = "json"

	DefaultMetricsNamespace = "metmap"

	DefaultMinIOEndpoint = "localhost:9000"
	DefaultMinIOBucket   = "metmap-runs"
)

// DefaultWorkers is the worker count used when mapping.workers is unset.
func DefaultWorkers() int { return runtime.NumCPU() }

// ApplyDefaults fills every zero-value field in cfg with its default.  Fields
// already set are left unchanged so that explicit configuration always wins.
// Thresholds and chunk size default to 0, which is their zero value.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Mapping ───────────────────────────────────────────────────────────────
	if cfg.Mapping.Workers == 0 {
		cfg.Mapping.Workers = DefaultWorkers()
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}

	// ── MinIO ─────────────────────────────────────────────────────────────────
	if cfg.MinIO.Endpoint == "" {
		cfg.MinIO.Endpoint = DefaultMinIOEndpoint
	}
	if cfg.MinIO.Bucket == "" {
		cfg.MinIO.Bucket = DefaultMinIOBucket
	}
}

//Personal.AI order the ending
