package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/dexsync/internal/lockfile"
	"github.com/Aman-CERP/dexsync/internal/logging"
	"github.com/Aman-CERP/dexsync/internal/syncer"
	"github.com/Aman-CERP/dexsync/internal/ui"
)

func newSyncCmd() *cobra.Command {
	var (
		plain        bool
		contactsOnly bool
		pageSize     int
		concurrency  int
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Pull contacts, reminders, and notes from the Dex API",
		Long: `Sync mirrors the Dex CRM into the local database.

Contacts are fetched page by page and written as they arrive.
Reminders and notes follow, checked concurrently against stored
content hashes so unchanged records are skipped without a write.

Interrupting a sync is safe: the next run re-fetches everything and
overwrites whatever the interrupted run left behind. Duplicate review
verdicts survive the re-sync.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Ctrl+C cancels in-flight page fetches via context
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runSync(ctx, cmd, plain, contactsOnly, pageSize, concurrency)
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Disable TUI mode, use plain text output")
	cmd.Flags().BoolVar(&contactsOnly, "contacts-only", false, "Skip reminders and notes")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "Contacts per API page (default from config)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Concurrent hash-check workers (default from config)")

	return cmd
}

func runSync(ctx context.Context, cmd *cobra.Command, plain, contactsOnly bool, pageSize, concurrency int) error {
	// File-only logging keeps slog output away from the renderer.
	// Skipped under --debug, which installed its own handler already.
	if !debugMode {
		logCfg := logging.DefaultConfig()
		logCfg.WriteToStderr = false
		if logger, cleanup, err := logging.Setup(logCfg); err == nil {
			slog.SetDefault(logger)
			defer cleanup()
		}
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if pageSize > 0 {
		cfg.Sync.PageSize = pageSize
	}
	if concurrency > 0 {
		cfg.Sync.Concurrency = concurrency
	}
	if contactsOnly {
		cfg.Sync.SkipReminders = true
		cfg.Sync.SkipNotes = true
	}

	client, err := newClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	st, dbPath, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	lock := lockfile.ForDB(dbPath)
	acquired, err := lock.TryLock()
	if err != nil {
		return err
	}
	if !acquired {
		return fmt.Errorf("another sync is already running against %s", dbPath)
	}
	defer func() { _ = lock.Unlock() }()

	// Create renderer (auto-detects TTY/CI, respects --plain)
	uiCfg := ui.NewConfig(cmd.OutOrStdout(),
		ui.WithForcePlain(plain),
		ui.WithDBPath(dbPath))
	renderer := ui.NewRenderer(uiCfg)
	if err := renderer.Start(ctx); err != nil {
		slog.Warn("failed to start progress renderer", slog.String("error", err.Error()))
	}
	defer func() { _ = renderer.Stop() }()

	s := syncer.New(client, st, syncer.Options{
		PageSize:      cfg.Sync.PageSize,
		Concurrency:   cfg.Sync.Concurrency,
		SkipReminders: cfg.Sync.SkipReminders,
		SkipNotes:     cfg.Sync.SkipNotes,
		Progress: func(resource string, done, total int, stats syncer.Stats) {
			renderer.UpdateProgress(ui.ProgressEvent{
				Stage:   ui.StageFor(resource),
				Current: done,
				Total:   total,
				Message: stats.String(),
			})
		},
	})

	result, err := s.Run(ctx)
	if err != nil {
		return err
	}

	for _, e := range result.Errors {
		renderer.AddError(ui.ErrorEvent{Err: e})
	}

	totals := result.Totals()
	renderer.Complete(ui.CompletionStats{
		Added:     totals.Added,
		Updated:   totals.Updated,
		Unchanged: totals.Unchanged,
		Failed:    totals.Failed,
		Duration:  result.Duration,
	})

	return errors.Join(result.Errors...)
}
