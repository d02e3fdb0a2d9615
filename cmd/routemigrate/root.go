package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var projectFlag string
	var credentialsFlag string

	ctx := newCommandContext(&configFlag, &projectFlag, &credentialsFlag)

	rootCmd := &cobra.Command{
		Use:           "routemigrate",
		Short:         "Migrate legacy route documents to the canonical schema",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&projectFlag, "project", "", "Firestore project id (overrides store.project_id)")
	rootCmd.PersistentFlags().StringVar(&credentialsFlag, "credentials", "", "Service account key file (overrides store.credentials_file)")

	rootCmd.AddCommand(newMigrateCommand(ctx))
	rootCmd.AddCommand(newVerifyCommand(ctx))
	rootCmd.AddCommand(newExportCommand(ctx))
	rootCmd.AddCommand(newImportCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
