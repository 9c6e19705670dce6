// Package config loads CLI settings from dsdl.yaml and DSDL_* environment
// variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"dsdl-go/internal/instance"
)

// EnvPrefix prefixes environment overrides, e.g. DSDL_MODE=strict.
const EnvPrefix = "DSDL"

// FileName is the config file looked up in the working directory.
const FileName = "dsdl"

// Keys.
const (
	KeyImportPaths = "import_paths"
	KeyMode        = "mode"
	KeyWorkers     = "workers"
	KeyMediaRoot   = "media_root"
	KeyReport      = "report"
	KeyCacheSize   = "cache_size"
	KeyVerbose     = "verbose"
)

// Config holds resolved CLI settings.
type Config struct {
	ImportPaths []string
	Mode        instance.Mode
	Workers     int
	MediaRoot   string
	Report      bool
	CacheSize   int
	Verbose     bool
	// File is the config file that was read, if any.
	File string
}

// New returns a viper instance with defaults and env overrides installed.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyMode, instance.ModeEager.String())
	v.SetDefault(KeyWorkers, 0)
	v.SetDefault(KeyCacheSize, 512)

	return v
}

// Load reads the config file (file, or dsdl.yaml in the working directory
// when empty) into v and resolves it. A missing default file is not an error.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return Resolve(v)
}

// Resolve converts the values held by v into a Config.
func Resolve(v *viper.Viper) (*Config, error) {
	mode, err := instance.ParseMode(v.GetString(KeyMode))
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", KeyMode, err)
	}

	workers := v.GetInt(KeyWorkers)
	if workers < 0 {
		return nil, fmt.Errorf("config %s: must not be negative, got %d", KeyWorkers, workers)
	}

	cacheSize := v.GetInt(KeyCacheSize)
	if cacheSize <= 0 {
		return nil, fmt.Errorf("config %s: must be positive, got %d", KeyCacheSize, cacheSize)
	}

	return &Config{
		ImportPaths: importPaths(v),
		Mode:        mode,
		Workers:     workers,
		MediaRoot:   v.GetString(KeyMediaRoot),
		Report:      v.GetBool(KeyReport),
		CacheSize:   cacheSize,
		Verbose:     v.GetBool(KeyVerbose),
		File:        v.ConfigFileUsed(),
	}, nil
}

// importPaths accepts a YAML list or, from the environment, a
// comma-separated string.
func importPaths(v *viper.Viper) []string {
	var out []string

	for _, p := range v.GetStringSlice(KeyImportPaths) {
		for _, part := range strings.Split(p, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}

	return out
}
