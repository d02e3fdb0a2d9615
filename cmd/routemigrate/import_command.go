package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"routemigrate/internal/batch"
	"routemigrate/internal/config"
	"routemigrate/internal/docstore"
	"routemigrate/internal/seed"
	"routemigrate/internal/services"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var filePath string
	var apply bool

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load a JSON fixture of legacy routes into the routes collection",
		Long: `Load a JSON object of documents keyed by id into the routes collection.

Intended for seeding emulators and local sqlite stores. Documents are merged,
so importing over existing ids keeps fields the fixture does not mention.
Without --apply the import is a dry-run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := strings.TrimSpace(filePath)
			if path == "" {
				return services.Wrap(services.ErrConfiguration, "import", "", "--file is required", errors.New("missing fixture path"))
			}
			return ctx.withStore(cmd.Context(), func(store docstore.Store, cfg *config.Config, logger *slog.Logger) error {
				file, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("open fixture: %w", err)
				}
				defer file.Close()

				writer, err := batch.NewWriter(store, batch.Options{
					Limit:  cfg.Migration.BatchLimit,
					Apply:  apply,
					Logger: logger,
				})
				if err != nil {
					return err
				}
				n, err := seed.Import(cmd.Context(), file, writer, cfg.Collections.Routes)
				if err != nil {
					return err
				}
				if err := writer.Flush(cmd.Context()); err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if writer.DryRun() {
					fmt.Fprintf(out, "Dry-run: would import %d documents into %s\n", n, cfg.Collections.Routes)
					return nil
				}
				fmt.Fprintf(out, "Imported %d documents into %s\n", n, cfg.Collections.Routes)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&filePath, "file", "f", "", "Fixture file (JSON object keyed by document id)")
	cmd.Flags().BoolVar(&apply, "apply", false, "Commit writes to the store")
	return cmd
}
