// Package config provides configuration loading, defaults, and validation for
// metmap.
package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all settings.
const envPrefix = "METMAP"

var (
	// ErrConfigFileNotFound is returned when the config file does not exist.
	ErrConfigFileNotFound = stderrors.New("config file not found")
	// ErrConfigParseError is returned when the config file is not valid YAML
	// or does not unmarshal into Config.
	ErrConfigParseError = stderrors.New("config parse error")
)

// configKeys lists every leaf key so that METMAP_* variables are seen by
// Unmarshal even when the key is absent from the file.
var configKeys = []string{
	"mapping.workers",
	"mapping.chunk_size",
	"mapping.output_dir",
	"mapping.log_diagnostics",
	"mapping.compound_kegg",
	"mapping.reaction_genes",
	"mapping.compound_threshold",
	"mapping.reaction_threshold",
	"log.level",
	"log.format",
	"log.output_paths",
	"log.error_output_paths",
	"metrics.enabled",
	"metrics.namespace",
	"metrics.textfile",
	"minio.enabled",
	"minio.endpoint",
	"minio.access_key",
	"minio.secret_key",
	"minio.bucket",
	"minio.use_ssl",
	"minio.prefix",
}

// newViper builds a pre-configured Viper instance: YAML file type, METMAP_
// env prefix, and a key replacer that maps "." → "_" so that nested keys like
// "mapping.workers" resolve to "METMAP_MAPPING_WORKERS".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, k := range configKeys {
		_ = v.BindEnv(k)
	}
	return v
}

// Load reads the YAML file at configPath, merges METMAP_* environment
// overrides, applies defaults for unset fields, and validates the result.
// An empty configPath is equivalent to LoadFromEnv.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		return LoadFromEnv()
	}
	v := newViper()
	v.SetConfigFile(configPath)
	if err := readConfig(v, configPath); err != nil {
		return nil, err
	}
	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config from METMAP_* environment variables and
// defaults, with no config file.
//
//	METMAP_<SECTION>_<FIELD>   e.g.  METMAP_MAPPING_WORKERS, METMAP_LOG_LEVEL
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

func readConfig(v *viper.Viper, configPath string) error {
	err := v.ReadInConfig()
	if err == nil {
		return nil
	}
	var notFound viper.ConfigFileNotFoundError
	if stderrors.Is(err, fs.ErrNotExist) || stderrors.As(err, &notFound) {
		return fmt.Errorf("config: %w: %q: %v", ErrConfigFileNotFound, configPath, err)
	}
	return fmt.Errorf("config: %w: %q: %v", ErrConfigParseError, configPath, err)
}

// unmarshalAndFinalize unmarshals viper state into a Config, applies
// defaults, and validates the result.
func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: %w: %v", ErrConfigParseError, err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}
	return cfg, nil
}

// Watch monitors configPath and invokes onChange with the newly parsed Config
// whenever the file changes on disk.  A change that fails to parse or
// validate is reported to onError (if non-nil) and onChange is not called.
//
// Watch is non-blocking; viper runs the watcher goroutine.  The initial read
// error, if any, is returned.
func Watch(configPath string, onChange func(*Config), onError func(error)) error {
	v := newViper()
	v.SetConfigFile(configPath)
	if err := readConfig(v, configPath); err != nil {
		return err
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			if onError != nil {
				onError(fmt.Errorf("config: reload after %s of %q: %w", e.Op, e.Name, err))
			}
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
	return nil
}

// MustLoad is Load that panics on any error.  It is intended for main()
// where a config-load failure is always fatal.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}

//Personal.AI order the ending
