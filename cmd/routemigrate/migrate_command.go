package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"routemigrate/internal/config"
	"routemigrate/internal/docstore"
	"routemigrate/internal/migration"
)

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	var apply bool
	var backup bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Upgrade legacy routes to the canonical schema (dry-run unless --apply)",
		Long: `Upgrade every document in the routes collection to the canonical schema.

Without --apply the run only logs the writes it would make. With --apply,
writes are committed in batches; a failure stops the run and earlier batches
stay committed. Stops are created anew on every applied run, so re-running
duplicates them. --backup copies each legacy document into the backup
collection and only takes effect together with --apply.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd.Context(), func(store docstore.Store, cfg *config.Config, logger *slog.Logger) error {
				m := migration.New(store, migration.Options{
					Collections: cfg.Collections,
					BatchLimit:  cfg.Migration.BatchLimit,
					Logger:      logger,
				})
				summary, runErr := m.Run(cmd.Context(), migration.Mode{Apply: apply, Backup: backup})
				if jsonOutput {
					if err := writeJSON(cmd, summary); err != nil {
						return err
					}
				} else {
					out := cmd.OutOrStdout()
					printMigrationSummary(out, summary, runErr, shouldColorize(out))
				}
				return runErr
			})
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "Commit writes to the store")
	cmd.Flags().BoolVar(&backup, "backup", false, "Copy legacy documents into the backup collection (requires --apply)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the run summary as JSON")
	return cmd
}

func printMigrationSummary(out io.Writer, summary migration.Summary, runErr error, colorize bool) {
	mode := "apply"
	if summary.DryRun {
		mode = "dry-run"
	}
	printSection(out, "Migration", colorize)
	fmt.Fprintln(out, renderStatusLine("Mode", statusInfo, mode, colorize))
	fmt.Fprintln(out, renderStatusLine("Routes processed", statusInfo, itoa(summary.Processed), colorize))
	fmt.Fprintln(out, renderStatusLine("Writes staged", statusInfo, itoa(summary.Staged), colorize))
	if !summary.DryRun {
		fmt.Fprintln(out, renderStatusLine("Writes committed", statusInfo,
			fmt.Sprintf("%d in %d commits", summary.Committed, summary.Commits), colorize))
	}
	fmt.Fprintln(out, renderStatusLine("Stops", statusInfo, itoa(summary.Stops), colorize))
	fmt.Fprintln(out, renderStatusLine("Backup", statusInfo, yesNo(summary.Backup), colorize))
	if runErr != nil {
		last := summary.LastCommittedID
		if last == "" {
			last = "none"
		}
		fmt.Fprintln(out, renderStatusLine("Result", statusError, "aborted; last fully committed route: "+last, colorize))
		return
	}
	if summary.DryRun {
		fmt.Fprintln(out, renderStatusLine("Result", statusWarn, "no writes made; re-run with --apply to commit", colorize))
		return
	}
	fmt.Fprintln(out, renderStatusLine("Result", statusOK, "completed in "+summary.Duration.Round(1e6).String(), colorize))
}
