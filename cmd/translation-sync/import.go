package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aicuratorhub/curatorhub-admin/internal/translationsync"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Upsert the keys of <dir>/<lang>.json into the translations collection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := syncer.Import(cmd.Context(), langDir)
		if errors.Is(err, translationsync.ErrNoDirectory) {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), translationsync.ImportMessage(report))
		if err != nil {
			return fmt.Errorf("import from %s: %w", langDir, err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
