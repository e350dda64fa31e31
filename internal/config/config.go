// Package config handles dexsync configuration loading and validation.
//
// Configuration is resolved in four layers, each overriding the last:
//
//  1. Built-in defaults (NewConfig)
//  2. User config file (~/.config/dexsync/config.yaml)
//  3. Project config file (.dexsync.yaml in the working directory)
//  4. Environment variables (DEX_API_KEY, DEX_BASE_URL, DEXSYNC_*)
//
// The merged result is validated before use; Load never returns a
// half-checked config.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Version is the current config schema version.
const Version = 1

// Config is the root configuration for dexsync.
type Config struct {
	Version int           `yaml:"version"`
	API     APIConfig     `yaml:"api"`
	Sync    SyncConfig    `yaml:"sync"`
	Dedupe  DedupeConfig  `yaml:"dedupe"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// APIConfig controls access to the Dex REST API.
type APIConfig struct {
	// Key authenticates requests. Usually supplied via DEX_API_KEY
	// rather than written to disk.
	Key string `yaml:"key,omitempty"`

	// BaseURL is the API root, without a trailing slash.
	BaseURL string `yaml:"base_url"`

	// Timeout bounds a single HTTP request, e.g. "30s".
	Timeout string `yaml:"timeout"`

	// RateLimit caps outgoing requests per second.
	RateLimit float64 `yaml:"rate_limit"`

	// MaxRetries is the retry budget for transient API failures.
	MaxRetries int `yaml:"max_retries"`
}

// SyncConfig controls the pull-down sync engine.
type SyncConfig struct {
	// PageSize is the number of records fetched per API page.
	PageSize int `yaml:"page_size"`

	// Concurrency is the number of pages fetched in parallel.
	Concurrency int `yaml:"concurrency"`

	// SkipReminders and SkipNotes disable syncing of the secondary
	// resources. Both sync by default.
	SkipReminders bool `yaml:"skip_reminders"`
	SkipNotes     bool `yaml:"skip_notes"`
}

// DedupeConfig tunes duplicate detection and reporting.
type DedupeConfig struct {
	// FuzzyThreshold is the minimum Jaro-Winkler similarity for a
	// fuzzy name match when flagging and auto-resolving. High by
	// default: these passes feed destructive merges. Range [0,1].
	FuzzyThreshold float64 `yaml:"fuzzy_threshold"`

	// ReportThreshold is the looser similarity used by the analyze
	// report, which only writes Markdown. Range [0,1].
	ReportThreshold float64 `yaml:"report_threshold"`
}

// StorageConfig locates the local contact database.
type StorageConfig struct {
	// DataDir holds the SQLite database and generated reports.
	// Defaults to ~/.dexsync.
	DataDir string `yaml:"data_dir"`
}

// LogConfig controls logging output.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
}

// NewConfig returns a Config populated with defaults.
func NewConfig() *Config {
	return &Config{
		Version: Version,
		API: APIConfig{
			BaseURL:    "https://api.getdex.com/api/rest",
			Timeout:    "30s",
			RateLimit:  5.0,
			MaxRetries: 3,
		},
		Sync: SyncConfig{
			PageSize:    100,
			Concurrency: 5,
		},
		Dedupe: DedupeConfig{
			FuzzyThreshold:  0.98,
			ReportThreshold: 0.95,
		},
		Storage: StorageConfig{},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load builds the effective configuration for a run. dir is the
// working directory searched for a project config file; pass "" to
// skip the project layer.
func Load(dir string) (*Config, error) {
	cfg := NewConfig()

	if err := cfg.loadUserConfig(); err != nil {
		return nil, fmt.Errorf("loading user config: %w", err)
	}

	if dir != "" {
		if err := cfg.loadProjectConfig(dir); err != nil {
			return nil, fmt.Errorf("loading project config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// GetUserConfigPath returns the path of the per-user config file,
// honoring XDG_CONFIG_HOME.
func GetUserConfigPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "dexsync", "config.yaml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "dexsync", "config.yaml"), nil
}

func (c *Config) loadUserConfig() error {
	path, err := GetUserConfigPath()
	if err != nil {
		return nil // no home dir, defaults only
	}
	if !fileExists(path) {
		return nil
	}
	return c.loadYAML(path)
}

func (c *Config) loadProjectConfig(dir string) error {
	for _, name := range []string{".dexsync.yaml", ".dexsync.yml"} {
		path := filepath.Join(dir, name)
		if fileExists(path) {
			return c.loadYAML(path)
		}
	}
	return nil
}

func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var loaded Config
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	c.mergeWith(&loaded)
	return nil
}

// mergeWith overlays non-zero fields from other onto c. The skip
// toggles are phrased negatively so their zero value means "sync
// everything" and a plain OR merges them.
func (c *Config) mergeWith(other *Config) {
	if other.Version != 0 {
		c.Version = other.Version
	}

	if other.API.Key != "" {
		c.API.Key = other.API.Key
	}
	if other.API.BaseURL != "" {
		c.API.BaseURL = other.API.BaseURL
	}
	if other.API.Timeout != "" {
		c.API.Timeout = other.API.Timeout
	}
	if other.API.RateLimit != 0 {
		c.API.RateLimit = other.API.RateLimit
	}
	if other.API.MaxRetries != 0 {
		c.API.MaxRetries = other.API.MaxRetries
	}

	if other.Sync.PageSize != 0 {
		c.Sync.PageSize = other.Sync.PageSize
	}
	if other.Sync.Concurrency != 0 {
		c.Sync.Concurrency = other.Sync.Concurrency
	}
	c.Sync.SkipReminders = c.Sync.SkipReminders || other.Sync.SkipReminders
	c.Sync.SkipNotes = c.Sync.SkipNotes || other.Sync.SkipNotes

	if other.Dedupe.FuzzyThreshold != 0 {
		c.Dedupe.FuzzyThreshold = other.Dedupe.FuzzyThreshold
	}
	if other.Dedupe.ReportThreshold != 0 {
		c.Dedupe.ReportThreshold = other.Dedupe.ReportThreshold
	}

	if other.Storage.DataDir != "" {
		c.Storage.DataDir = other.Storage.DataDir
	}

	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("DEX_API_KEY"); v != "" {
		c.API.Key = v
	}
	if v := os.Getenv("DEX_BASE_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("DEXSYNC_DATA_DIR"); v != "" {
		c.Storage.DataDir = v
	}
	if v := os.Getenv("DEXSYNC_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("DEXSYNC_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Sync.PageSize = n
		}
	}
	if v := os.Getenv("DEXSYNC_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Sync.Concurrency = n
		}
	}
	if v := os.Getenv("DEXSYNC_FUZZY_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Dedupe.FuzzyThreshold = f
		}
	}
}

// Validate checks the merged configuration for consistency.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url must not be empty")
	}
	if _, err := time.ParseDuration(c.API.Timeout); err != nil {
		return fmt.Errorf("api.timeout %q is not a duration: %w", c.API.Timeout, err)
	}
	if c.API.RateLimit <= 0 {
		return fmt.Errorf("api.rate_limit must be positive, got %v", c.API.RateLimit)
	}
	if c.API.MaxRetries < 0 {
		return fmt.Errorf("api.max_retries must not be negative, got %d", c.API.MaxRetries)
	}

	if c.Sync.PageSize < 1 {
		return fmt.Errorf("sync.page_size must be at least 1, got %d", c.Sync.PageSize)
	}
	if c.Sync.Concurrency < 1 {
		return fmt.Errorf("sync.concurrency must be at least 1, got %d", c.Sync.Concurrency)
	}

	if c.Dedupe.FuzzyThreshold < 0 || c.Dedupe.FuzzyThreshold > 1 {
		return fmt.Errorf("dedupe.fuzzy_threshold must be in [0,1], got %v", c.Dedupe.FuzzyThreshold)
	}
	if c.Dedupe.ReportThreshold < 0 || c.Dedupe.ReportThreshold > 1 {
		return fmt.Errorf("dedupe.report_threshold must be in [0,1], got %v", c.Dedupe.ReportThreshold)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}

	return nil
}

// RequestTimeout returns the parsed API timeout. Validate guarantees
// the field parses; the fallback covers a zero-value Config.
func (c *Config) RequestTimeout() time.Duration {
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// DataDir returns the resolved data directory, defaulting to
// ~/.dexsync when unset.
func (c *Config) DataDir() (string, error) {
	if c.Storage.DataDir != "" {
		return c.Storage.DataDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".dexsync"), nil
}

// DBPath returns the path of the contact database file.
func (c *Config) DBPath() (string, error) {
	dir, err := c.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "contacts.db"), nil
}

// ReportPath returns the path of the generated duplicate report.
func (c *Config) ReportPath() (string, error) {
	dir, err := c.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "DUPLICATE_REPORT.md"), nil
}

// WriteYAML writes the config to path, creating parent directories.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
