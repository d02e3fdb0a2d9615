package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"routemigrate/internal/config"
	"routemigrate/internal/preflight"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand())

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Set store.project_id and store.credentials_file (or export GOOGLE_CLOUD_PROJECT and GOOGLE_APPLICATION_CREDENTIALS) before migrating.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration and run preflight checks",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			printSection(out, "Configuration", colorize)
			if ctx.configExists {
				fmt.Fprintln(out, renderStatusLine("Config", statusOK, ctx.configPath, colorize))
			} else {
				fmt.Fprintln(out, renderStatusLine("Config", statusWarn, "not found; defaults used ("+ctx.configPath+")", colorize))
			}
			fmt.Fprintln(out, renderStatusLine("Backend", statusInfo, cfg.Store.Backend, colorize))
			if cfg.Store.Backend == config.BackendFirestore {
				project := cfg.Store.ProjectID
				if cfg.EmulatorActive() {
					project += " (emulator " + cfg.Store.EmulatorHost + ")"
				}
				fmt.Fprintln(out, renderStatusLine("Project", statusInfo, project, colorize))
			} else {
				fmt.Fprintln(out, renderStatusLine("Database", statusInfo, cfg.Store.SQLitePath, colorize))
			}
			fmt.Fprintln(out, renderStatusLine("Collections", statusInfo,
				fmt.Sprintf("%s, %s, %s", cfg.Collections.Routes, cfg.Collections.Backup, cfg.Collections.Stops), colorize))
			fmt.Fprintln(out, renderStatusLine("Batch limit", statusInfo, itoa(cfg.Migration.BatchLimit), colorize))

			results := preflight.RunAll(cfg)
			fmt.Fprintln(out)
			printSection(out, "Preflight", colorize)
			for _, result := range results {
				kind := statusOK
				if !result.Passed {
					kind = statusError
				}
				fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}
			if err := preflight.Err(results); err != nil {
				return err
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}
