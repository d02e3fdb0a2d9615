package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"routemigrate/internal/audit"
	"routemigrate/internal/config"
	"routemigrate/internal/docstore"
)

func newVerifyCommand(ctx *commandContext) *cobra.Command {
	var outPath string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Audit canonical routes and write the defect report",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd.Context(), func(store docstore.Store, cfg *config.Config, logger *slog.Logger) error {
				target := cfg.Report.Path
				if trimmed := strings.TrimSpace(outPath); trimmed != "" {
					expanded, err := config.ExpandPath(trimmed)
					if err != nil {
						return fmt.Errorf("resolve report path: %w", err)
					}
					target = expanded
				}

				auditor := audit.New(store, cfg.Collections, nil, logger)
				report, err := auditor.Verify(cmd.Context())
				if err != nil {
					return err
				}
				if err := audit.WriteReport(cmd.Context(), target, report); err != nil {
					return err
				}

				if jsonOutput {
					return writeJSON(cmd, report)
				}
				out := cmd.OutOrStdout()
				printVerifySummary(out, report, target, shouldColorize(out))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Report path (defaults to report.path)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the report as JSON")
	return cmd
}

func printVerifySummary(out io.Writer, report *audit.Report, reportPath string, colorize bool) {
	printSection(out, "Verification", colorize)
	fmt.Fprintln(out, renderStatusLine("Routes checked", statusInfo, itoa(report.Checked), colorize))
	if report.Clean() {
		fmt.Fprintln(out, renderStatusLine("Routes with issues", statusOK, "0", colorize))
	} else {
		fmt.Fprintln(out, renderStatusLine("Routes with issues", statusWarn, itoa(report.Summary.IssuesCount), colorize))
	}
	fmt.Fprintln(out, renderStatusLine("Report", statusInfo, reportPath, colorize))
	if report.Clean() {
		return
	}

	counts := report.ProblemCounts()
	fmt.Fprintln(out)
	fmt.Fprintln(out, renderCountTable(counts, sortedTags(counts)))
	fmt.Fprintln(out)
	fmt.Fprintln(out, renderIssueTable(report.Issues))
}
