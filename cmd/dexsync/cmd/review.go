package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Aman-CERP/dexsync/internal/output"
	"github.com/Aman-CERP/dexsync/internal/ui"
)

func newReviewCmd() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review flagged duplicate groups interactively",
		Long: `Review walks each unresolved duplicate group and records your
verdict: confirm the group with a chosen primary contact, or mark it
a false positive.

Verdicts are stored in the database and survive later syncs and flag
runs. Confirmed groups are merged by 'dexsync resolve'; false
positives are never flagged again.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReview(cmd, plain)
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Disable TUI mode, use plain prompts")

	return cmd
}

func runReview(cmd *cobra.Command, plain bool) error {
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

	groupIDs, err := st.UnresolvedGroupIDs(ctx)
	if err != nil {
		return err
	}

	groups := make([]ui.ReviewGroup, 0, len(groupIDs))
	for _, id := range groupIDs {
		members, err := st.GroupMembers(ctx, id)
		if err != nil {
			return err
		}
		// A merge can shrink a group below two members; nothing left
		// to decide there.
		if len(members) < 2 {
			continue
		}
		groups = append(groups, ui.ReviewGroup{GroupID: id, Contacts: members})
	}

	if len(groups) == 0 {
		out.Success("Nothing to review")
		out.Status("💡", "Run 'dexsync flag' to detect duplicate groups")
		return nil
	}

	uiCfg := ui.NewConfig(cmd.OutOrStdout(),
		ui.WithForcePlain(plain),
		ui.WithInput(cmd.InOrStdin()))
	summary, err := ui.RunReview(ctx, uiCfg, st, groups)
	if err != nil {
		return err
	}

	if summary.Confirmed > 0 {
		out.Newline()
		out.Status("💡", "Run 'dexsync resolve' to merge the confirmed groups")
	}
	return nil
}
