package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aicuratorhub/curatorhub-admin/internal/translationsync"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every language of the translations collection to <dir>/<lang>.json",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := syncer.Export(cmd.Context(), langDir)
		if err != nil {
			return fmt.Errorf("export to %s: %w", langDir, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), translationsync.ExportMessage(report))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
