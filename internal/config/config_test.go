package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the user-config layer and env overrides at empty
// locations so tests never read the developer's real config.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("DEX_API_KEY", "")
	t.Setenv("DEX_BASE_URL", "")
	t.Setenv("DEXSYNC_DATA_DIR", "")
	t.Setenv("DEXSYNC_LOG_LEVEL", "")
	t.Setenv("DEXSYNC_PAGE_SIZE", "")
	t.Setenv("DEXSYNC_CONCURRENCY", "")
	t.Setenv("DEXSYNC_FUZZY_THRESHOLD", "")
}

func TestNewConfigDefaults(t *testing.T) {
	// When: creating a fresh config
	cfg := NewConfig()

	// Then: defaults match the documented values
	assert.Equal(t, "https://api.getdex.com/api/rest", cfg.API.BaseURL)
	assert.Equal(t, 100, cfg.Sync.PageSize)
	assert.Equal(t, 5, cfg.Sync.Concurrency)
	assert.False(t, cfg.Sync.SkipReminders)
	assert.False(t, cfg.Sync.SkipNotes)
	assert.InDelta(t, 0.98, cfg.Dedupe.FuzzyThreshold, 1e-9)
	assert.InDelta(t, 0.95, cfg.Dedupe.ReportThreshold, 1e-9)
	assert.Equal(t, "info", cfg.Log.Level)

	// And: the defaults validate cleanly
	require.NoError(t, cfg.Validate())
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty base url", func(c *Config) { c.API.BaseURL = "" }},
		{"unparseable timeout", func(c *Config) { c.API.Timeout = "soon" }},
		{"zero rate limit", func(c *Config) { c.API.RateLimit = 0 }},
		{"negative retries", func(c *Config) { c.API.MaxRetries = -1 }},
		{"zero page size", func(c *Config) { c.Sync.PageSize = 0 }},
		{"zero concurrency", func(c *Config) { c.Sync.Concurrency = 0 }},
		{"threshold above one", func(c *Config) { c.Dedupe.FuzzyThreshold = 1.5 }},
		{"negative report threshold", func(c *Config) { c.Dedupe.ReportThreshold = -0.1 }},
		{"unknown log level", func(c *Config) { c.Log.Level = "verbose" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadProjectConfigOverridesDefaults(t *testing.T) {
	isolate(t)

	// Given: a project directory with a .dexsync.yaml
	dir := t.TempDir()
	content := []byte(`
sync:
  page_size: 50
  skip_notes: true
dedupe:
  fuzzy_threshold: 0.85
log:
  level: debug
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".dexsync.yaml"), content, 0o644))

	// When: loading config from that directory
	cfg, err := Load(dir)
	require.NoError(t, err)

	// Then: file values override defaults, untouched fields survive
	assert.Equal(t, 50, cfg.Sync.PageSize)
	assert.Equal(t, 5, cfg.Sync.Concurrency)
	assert.True(t, cfg.Sync.SkipNotes)
	assert.False(t, cfg.Sync.SkipReminders)
	assert.InDelta(t, 0.85, cfg.Dedupe.FuzzyThreshold, 1e-9)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "https://api.getdex.com/api/rest", cfg.API.BaseURL)
}

func TestLoadUserConfigLayersUnderProject(t *testing.T) {
	isolate(t)

	// Given: a user config setting concurrency and level
	userDir := os.Getenv("XDG_CONFIG_HOME")
	userPath := filepath.Join(userDir, "dexsync", "config.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(userPath), 0o755))
	require.NoError(t, os.WriteFile(userPath, []byte("sync:\n  concurrency: 2\nlog:\n  level: warn\n"), 0o644))

	// And: a project config setting only the level
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".dexsync.yml"), []byte("log:\n  level: error\n"), 0o644))

	// When: loading
	cfg, err := Load(dir)
	require.NoError(t, err)

	// Then: project wins where both set a value, user wins elsewhere
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, 2, cfg.Sync.Concurrency)
}

func TestLoadEnvOverridesEverything(t *testing.T) {
	isolate(t)
	t.Setenv("DEX_API_KEY", "dex-key-from-env")
	t.Setenv("DEX_BASE_URL", "https://staging.getdex.test/api/rest")
	t.Setenv("DEXSYNC_PAGE_SIZE", "25")
	t.Setenv("DEXSYNC_FUZZY_THRESHOLD", "0.8")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".dexsync.yaml"),
		[]byte("sync:\n  page_size: 200\n"), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "dex-key-from-env", cfg.API.Key)
	assert.Equal(t, "https://staging.getdex.test/api/rest", cfg.API.BaseURL)
	assert.Equal(t, 25, cfg.Sync.PageSize)
	assert.InDelta(t, 0.8, cfg.Dedupe.FuzzyThreshold, 1e-9)
}

func TestLoadRejectsInvalidMergedConfig(t *testing.T) {
	isolate(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".dexsync.yaml"),
		[]byte("dedupe:\n  fuzzy_threshold: 2.0\n"), 0o644))

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fuzzy_threshold")
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	isolate(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".dexsync.yaml"),
		[]byte("sync: [not a mapping"), 0o644))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	isolate(t)

	// Given: a customized config written to disk
	cfg := NewConfig()
	cfg.Sync.PageSize = 42
	cfg.Dedupe.FuzzyThreshold = 0.88
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, cfg.WriteYAML(path))

	// When: loading it back through the merge path
	loaded := NewConfig()
	require.NoError(t, loaded.loadYAML(path))

	// Then: the written values survive
	assert.Equal(t, 42, loaded.Sync.PageSize)
	assert.InDelta(t, 0.88, loaded.Dedupe.FuzzyThreshold, 1e-9)
}

func TestDataDirDefaultsToHome(t *testing.T) {
	cfg := NewConfig()
	dir, err := cfg.DataDir()
	require.NoError(t, err)
	assert.Equal(t, ".dexsync", filepath.Base(dir))

	db, err := cfg.DBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "contacts.db"), db)

	report, err := cfg.ReportPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "DUPLICATE_REPORT.md"), report)
}

func TestDataDirHonorsOverride(t *testing.T) {
	cfg := NewConfig()
	cfg.Storage.DataDir = "/tmp/dexsync-test"
	dir, err := cfg.DataDir()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/dexsync-test", dir)
}

func TestRequestTimeout(t *testing.T) {
	cfg := NewConfig()
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout())

	cfg.API.Timeout = "90s"
	assert.Equal(t, 90*time.Second, cfg.RequestTimeout())

	// Zero-value config falls back rather than panicking.
	var zero Config
	assert.Equal(t, 30*time.Second, zero.RequestTimeout())
}

func TestGetUserConfigPathUsesXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/xdg")
	path, err := GetUserConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/custom/xdg", "dexsync", "config.yaml"), path)
}
