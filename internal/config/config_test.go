package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad_Defaults tests that defaults are applied when no config files exist.
// Requires HOME isolation so a real ~/.hera/config.json does not leak in.
func TestLoad_Defaults(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ".", cfg.BundleDir)
	assert.Equal(t, "playbooks/registry/vocabulary/relationships.vocab.yml", cfg.VocabPath)
	assert.False(t, cfg.Compat)
	assert.False(t, cfg.CompatWrite)
	assert.Equal(t, ".bak", cfg.BackupExt)
	assert.True(t, cfg.ShowProgress)
	assert.Equal(t, 400, cfg.WatchDebounceMS)
}

func TestLoad_LocalOverride(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	configPath := filepath.Join(tmpDir, "config.json")

	configContent := `{
		"bundle_dir": "./playbooks",
		"compat": true,
		"backup_ext": ".orig"
	}`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "./playbooks", cfg.BundleDir)
	assert.True(t, cfg.Compat)
	assert.Equal(t, ".orig", cfg.BackupExt)
}

func TestLoad_EnvOverride(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	t.Setenv("HERA_BUNDLE_DIR", "/srv/bundles/demo")
	t.Setenv("HERA_STRICT_COMPAT", "true")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/srv/bundles/demo", cfg.BundleDir)
	assert.True(t, cfg.StrictCompat)
}

func TestLoad_EnvBeatsLocal(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	t.Setenv("HERA_WATCH_DEBOUNCE_MS", "900")
	configPath := filepath.Join(tmpDir, "config.json")

	err := os.WriteFile(configPath, []byte(`{"watch_debounce_ms": 200}`), 0644)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, 900, cfg.WatchDebounceMS)
}

func TestLoad_ValidationError_BadBackupExt(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	configPath := filepath.Join(tmpDir, "config.json")

	err := os.WriteFile(configPath, []byte(`{"backup_ext": "bak"}`), 0644)
	require.NoError(t, err)

	_, err = Load(configPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoad_ValidationError_DebounceOutOfRange(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	configPath := filepath.Join(tmpDir, "config.json")

	err := os.WriteFile(configPath, []byte(`{"watch_debounce_ms": 10}`), 0644)
	require.NoError(t, err)

	_, err = Load(configPath)
	require.Error(t, err)
}

func TestLoad_WriteImpliesCompat(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	configPath := filepath.Join(tmpDir, "config.json")

	err := os.WriteFile(configPath, []byte(`{"compat_write": true}`), 0644)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	require.NoError(t, err)
	assert.True(t, cfg.Compat, "compat_write only makes sense with normalization on")
	assert.True(t, cfg.CompatWrite)
}

func TestLoad_ExpandsHomePaths(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	configPath := filepath.Join(tmpDir, "config.json")

	err := os.WriteFile(configPath, []byte(`{"bundle_dir": "~/bundles"}`), 0644)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, "bundles"), cfg.BundleDir)
}
