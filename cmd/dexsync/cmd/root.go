// Package cmd provides the CLI commands for dexsync.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/dexsync/internal/config"
	"github.com/Aman-CERP/dexsync/internal/dexapi"
	"github.com/Aman-CERP/dexsync/internal/logging"
	"github.com/Aman-CERP/dexsync/internal/store"
	"github.com/Aman-CERP/dexsync/pkg/version"
)

// Debug logging flag
var (
	debugMode      bool
	loggingCleanup func()
)

// dbOverride points every command at an alternate database file.
var dbOverride string

// NewRootCmd creates the root command for the dexsync CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dexsync",
		Short: "Sync Dex CRM contacts to a local database and deduplicate them",
		Long: `Dexsync mirrors contacts, reminders, and notes from the Dex CRM API
into a local SQLite database, then finds and merges duplicate
contacts without losing data from either record.

A typical session:

  dexsync sync       # pull everything from the API
  dexsync flag       # mark suspected duplicate groups
  dexsync review     # confirm or reject each group
  dexsync resolve    # merge the confirmed groups`,
		Version: version.Version,
	}

	// Set version template
	cmd.SetVersionTemplate("dexsync version {{.Version}}\n")

	// Persistent flags shared by every subcommand
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.dexsync/logs/")
	cmd.PersistentFlags().StringVar(&dbOverride, "db", "", "Database file (default ~/.dexsync/contacts.db)")

	cmd.PersistentPreRunE = setupLogging
	cmd.PersistentPostRunE = stopDebugLogging

	// Add subcommands
	cmd.AddCommand(newSyncCmd())
	cmd.AddCommand(newAnalyzeCmd())
	cmd.AddCommand(newFlagCmd())
	cmd.AddCommand(newReviewCmd())
	cmd.AddCommand(newResolveCmd())
	cmd.AddCommand(newStatsCmd())
	cmd.AddCommand(newLogsCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// setupLogging switches the process logger to the rotating debug file
// handler when --debug is set, and to a stderr console handler
// otherwise.
func setupLogging(_ *cobra.Command, _ []string) error {
	if !debugMode {
		slog.SetDefault(logging.SetupConsole(os.Getenv("DEXSYNC_LOG_LEVEL")))
		return nil
	}

	logger, cleanup, err := logging.Setup(logging.DebugConfig())
	if err != nil {
		return fmt.Errorf("failed to setup debug logging: %w", err)
	}
	loggingCleanup = cleanup
	slog.SetDefault(logger)
	slog.Info("Debug logging enabled",
		slog.String("log_file", logging.DefaultLogPath()),
		slog.String("version", version.Version))
	return nil
}

// stopDebugLogging flushes and closes the debug log file.
func stopDebugLogging(_ *cobra.Command, _ []string) error {
	if loggingCleanup != nil {
		slog.Info("Debug logging stopped")
		loggingCleanup()
		loggingCleanup = nil
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// loadConfig builds the effective configuration, layering user
// config, a project config in the working directory, and environment
// overrides on top of the defaults.
func loadConfig() (*config.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}
	return config.Load(cwd)
}

// resolveDBPath picks the database file, honoring --db.
func resolveDBPath(cfg *config.Config) (string, error) {
	if dbOverride != "" {
		return dbOverride, nil
	}
	return cfg.DBPath()
}

// openStore opens the contact database, creating the data directory
// on first run. It returns the resolved path alongside the store.
func openStore(cfg *config.Config) (*store.Store, string, error) {
	path, err := resolveDBPath(cfg)
	if err != nil {
		return nil, "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, "", fmt.Errorf("failed to create data directory: %w", err)
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, "", err
	}
	return st, path, nil
}

// newClient builds the Dex API client from config.
func newClient(cfg *config.Config) (*dexapi.Client, error) {
	return dexapi.New(dexapi.Options{
		APIKey:     cfg.API.Key,
		BaseURL:    cfg.API.BaseURL,
		Timeout:    cfg.RequestTimeout(),
		MaxRetries: cfg.API.MaxRetries,
		RateLimit:  cfg.API.RateLimit,
	})
}

// fileExists checks if a file exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
