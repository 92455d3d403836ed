package config

import "github.com/heraerp/heralint/internal/vocabulary"

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"bundle_dir":        ".",
		"vocab_path":        vocabulary.DefaultPath,
		"compat":            false,
		"compat_write":      false,
		"strict_compat":     false,
		"backup_ext":        ".bak",
		"show_progress":     true,
		"watch_debounce_ms": 400,
	}
}
