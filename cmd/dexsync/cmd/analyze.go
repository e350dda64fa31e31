package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/dexsync/internal/dedupe"
	"github.com/Aman-CERP/dexsync/internal/output"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		threshold float64
		outPath   string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Write a duplicate report without changing anything",
		Long: `Analyze scans the local database for likely duplicate contacts and
writes a markdown report grouped by evidence type: shared emails,
shared phones, matching birthdays, normalized name collisions, and
fuzzy name matches.

Nothing is flagged or merged. Use 'dexsync flag' to act on the
findings.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAnalyze(cmd, threshold, outPath)
		},
	}

	cmd.Flags().Float64Var(&threshold, "threshold", 0, "Fuzzy name similarity floor (default from config)")
	cmd.Flags().StringVar(&outPath, "output", "", "Report file (default ~/.dexsync/DUPLICATE_REPORT.md)")

	return cmd
}

func runAnalyze(cmd *cobra.Command, threshold float64, outPath string) error {
	out := output.New(cmd.OutOrStdout())

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if threshold == 0 {
		threshold = cfg.Dedupe.ReportThreshold
	}
	if outPath == "" {
		outPath, err = cfg.ReportPath()
		if err != nil {
			return err
		}
	}

	st, dbPath, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	contacts, err := st.ListContacts(cmd.Context())
	if err != nil {
		return err
	}
	if len(contacts) == 0 {
		out.Warning("Database is empty")
		out.Status("💡", "Run 'dexsync sync' to pull contacts first")
		return nil
	}

	report, flagged := dedupe.BuildReport(contacts, dbPath, threshold)

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := os.WriteFile(outPath, []byte(report), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	out.Successf("Analyzed %d contacts, %d involved in possible duplicates", len(contacts), flagged)
	out.Statusf("📁", "Report: %s", outPath)
	return nil
}
