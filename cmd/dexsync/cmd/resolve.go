package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/dexsync/internal/dedupe"
	"github.com/Aman-CERP/dexsync/internal/output"
)

func newResolveCmd() *cobra.Command {
	var (
		all       bool
		groupID   string
		threshold float64
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Merge duplicate groups into their primary contacts",
		Long: `Resolve merges duplicate contacts. Each merge keeps the most
complete record as the primary and fills its empty fields from the
others; emails, phones, and education entries are combined.

By default only groups confirmed during 'dexsync review' are merged,
honoring the primary you chose. Use --all to merge every detected
cluster without review, or --group to merge one flagged group by id.

A failed merge skips its group and leaves the rest untouched.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if all && groupID != "" {
				return fmt.Errorf("--all and --group are mutually exclusive")
			}
			return runResolve(cmd, all, groupID, threshold)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Merge every detected cluster, not just confirmed groups")
	cmd.Flags().StringVar(&groupID, "group", "", "Merge a single flagged group by id")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "Cluster similarity floor for --all (default from config)")

	return cmd
}

func runResolve(cmd *cobra.Command, all bool, groupID string, threshold float64) error {
	ctx := cmd.Context()
	out := output.New(cmd.OutOrStdout())

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, _, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if groupID != "" {
		survivor, err := dedupe.ResolveGroup(ctx, st, groupID)
		if err != nil {
			return err
		}
		out.Successf("Merged group %s into contact %s", groupID, survivor)
		return nil
	}

	var result *dedupe.ResolveResult
	if all {
		if threshold == 0 {
			threshold = cfg.Dedupe.FuzzyThreshold
		}
		result, err = dedupe.ResolveAll(ctx, st, threshold)
	} else {
		result, err = dedupe.ResolveConfirmed(ctx, st)
	}
	if err != nil {
		return err
	}

	for _, e := range result.Errors {
		out.Warningf("%v", e)
	}

	if result.Merged == 0 {
		out.Success("Nothing to merge")
		if !all {
			out.Status("💡", "Run 'dexsync review' to confirm groups first, or pass --all")
		}
		return nil
	}

	out.Successf("Merged %d duplicates across %d groups", result.Merged, result.Clusters)
	out.Statusf("📇", "Contacts: %d before, %d after", result.Before, result.After)
	return nil
}
