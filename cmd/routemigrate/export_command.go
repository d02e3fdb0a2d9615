package main

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"routemigrate/internal/config"
	"routemigrate/internal/docstore"
	"routemigrate/internal/export"
	"routemigrate/internal/fileutil"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export canonical routes and stops as GeoJSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd.Context(), func(store docstore.Store, cfg *config.Config, logger *slog.Logger) error {
				fc, err := export.Export(cmd.Context(), store, cfg.Collections)
				if err != nil {
					return err
				}

				target := strings.TrimSpace(outPath)
				if target == "" || target == "-" {
					return export.Write(cmd.OutOrStdout(), fc)
				}
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve output path: %w", err)
				}
				var buf bytes.Buffer
				if err := export.Write(&buf, fc); err != nil {
					return err
				}
				if err := fileutil.WriteFileAtomic(expanded, buf.Bytes(), 0o644); err != nil {
					return fmt.Errorf("write geojson: %w", err)
				}
				logger.Info("geojson exported", "path", expanded, "features", len(fc.Features))
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d features to %s\n", len(fc.Features), expanded)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (defaults to stdout)")
	return cmd
}
