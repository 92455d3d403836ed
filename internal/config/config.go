package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultLocalPath is the per-bundle config file, relative to the
// working directory.
const DefaultLocalPath = ".hera/config.json"

// Configuration represents the heralint CLI tool configuration
type Configuration struct {
	BundleDir       string `koanf:"bundle_dir" validate:"required"`
	VocabPath       string `koanf:"vocab_path" validate:"required"`
	Compat          bool   `koanf:"compat"`
	CompatWrite     bool   `koanf:"compat_write"`
	StrictCompat    bool   `koanf:"strict_compat"`
	BackupExt       string `koanf:"backup_ext" validate:"required,startswith=."`
	ShowProgress    bool   `koanf:"show_progress"`    // Show progress indicators (spinners) during execution
	WatchDebounceMS int    `koanf:"watch_debounce_ms" validate:"min=50,max=10000"`
}

// Load loads configuration from global, local, and environment sources
// Priority: Environment variables > Local config > Global config > Defaults
func Load(localConfigPath string) (*Configuration, error) {
	k := koanf.New(".")

	// Apply defaults first
	defaults := GetDefaults()
	for key, value := range defaults {
		k.Set(key, value)
	}

	// Load global config if it exists
	homeDir, err := os.UserHomeDir()
	if err == nil {
		globalPath := filepath.Join(homeDir, ".hera", "config.json")
		if _, err := os.Stat(globalPath); err == nil {
			if err := k.Load(file.Provider(globalPath), json.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load global config: %w", err)
			}
		}
	}

	// Load local config if it exists
	if localConfigPath != "" {
		if _, err := os.Stat(localConfigPath); err == nil {
			if err := k.Load(file.Provider(localConfigPath), json.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load local config: %w", err)
			}
		}
	}

	// Override with environment variables (highest priority)
	k.Load(env.Provider("HERA_", ".", envTransform), nil)

	// Unmarshal into struct
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// Writing or strict-checking rewrites only makes sense with
	// normalization on, so either flag implies compat mode.
	if cfg.CompatWrite || cfg.StrictCompat {
		cfg.Compat = true
	}

	// Expand home directory in paths
	cfg.BundleDir = expandHomePath(cfg.BundleDir)
	cfg.VocabPath = expandHomePath(cfg.VocabPath)

	return &cfg, nil
}

// envTransform converts environment variable names to config keys
// Example: HERA_COMPAT_WRITE -> compat_write
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, "HERA_"))
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}
