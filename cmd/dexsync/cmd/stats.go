package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/dexsync/internal/store"
	"github.com/Aman-CERP/dexsync/internal/ui"
)

func newStatsCmd() *cobra.Command {
	var (
		jsonOutput bool
		noColor    bool
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show local database statistics",
		Long: `Display counts for contacts, emails, phones, reminders, and notes
in the local database, the time of the last sync, and the state of
any flagged duplicate groups.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStats(cmd, jsonOutput, noColor)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	return cmd
}

func runStats(cmd *cobra.Command, jsonOutput, noColor bool) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return err
	}
	if !fileExists(dbPath) {
		return fmt.Errorf("no database found at %s\nRun 'dexsync sync' to create one", dbPath)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	stats, err := st.Stats(ctx)
	if err != nil {
		return err
	}
	lastSynced, err := st.LastSyncedAt(ctx)
	if err != nil {
		return err
	}

	var size int64
	if info, err := os.Stat(dbPath); err == nil {
		size = info.Size()
	}

	info := ui.StatusInfo{
		DBPath:              dbPath,
		Contacts:            stats.Contacts,
		Emails:              stats.Emails,
		Phones:              stats.Phones,
		Reminders:           stats.Reminders,
		Notes:               stats.Notes,
		LastSynced:          lastSynced,
		FlaggedContacts:     stats.FlaggedContacts,
		FlaggedGroups:       stats.FlaggedGroups,
		UnresolvedGroups:    stats.UnresolvedGroups,
		ConfirmedGroups:     stats.ConfirmedGroups,
		FalsePositiveGroups: stats.FalsePositiveGroups,
		DBSize:              size,
	}

	renderer := ui.NewStatusRenderer(cmd.OutOrStdout(), noColor)
	if jsonOutput {
		return renderer.RenderJSON(info)
	}
	return renderer.Render(info)
}
