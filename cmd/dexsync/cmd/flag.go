package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Aman-CERP/dexsync/internal/dedupe"
	"github.com/Aman-CERP/dexsync/internal/output"
)

func newFlagCmd() *cobra.Command {
	var threshold float64

	cmd := &cobra.Command{
		Use:   "flag",
		Short: "Mark suspected duplicate groups for review",
		Long: `Flag clusters likely duplicates and stamps a shared group id on each
member, ready for 'dexsync review'.

Stale flags from earlier runs are cleared first, but only on
unreviewed contacts: groups you already confirmed or rejected keep
their verdict.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFlag(cmd, threshold)
		},
	}

	cmd.Flags().Float64Var(&threshold, "threshold", 0, "Fuzzy name similarity floor (default from config)")

	return cmd
}

func runFlag(cmd *cobra.Command, threshold float64) error {
	out := output.New(cmd.OutOrStdout())

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if threshold == 0 {
		threshold = cfg.Dedupe.FuzzyThreshold
	}

	st, _, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	result, err := dedupe.Flag(cmd.Context(), st, threshold)
	if err != nil {
		return err
	}

	if result.Cleared > 0 {
		out.Statusf("🧹", "Cleared %d stale unreviewed flags", result.Cleared)
	}
	if result.Flagged == 0 {
		out.Success("No duplicate groups found")
		return nil
	}

	out.Successf("Flagged %d contacts in %d groups", result.Flagged, len(result.GroupIDs))
	out.Status("💡", "Run 'dexsync review' to confirm or reject each group")
	return nil
}
