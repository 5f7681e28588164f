package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aicuratorhub/curatorhub-admin/internal/app"
	"github.com/aicuratorhub/curatorhub-admin/internal/config"
	"github.com/aicuratorhub/curatorhub-admin/internal/translationsync"
)

var (
	verbose bool
	langDir string

	application *app.App
	syncer      *translationsync.Syncer
	logger      = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "translation-sync",
	Short: "Move UI translations between the translations collection and <lang>.json files",
	Long: `translation-sync exports the translations collection into one JSON file per
language and imports those files back, creating missing keys and updating the rest.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintln(os.Stderr, "Warning: error loading .env file:", err)
		}
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		if langDir == "" {
			langDir = cfg.LangDir
		}

		logger, err = newLogger(verbose)
		if err != nil {
			return err
		}
		application, err = app.New(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		syncer = translationsync.New(application.Services.Translations, logger)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		_ = logger.Sync()
		return application.Close()
	},
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	return cfg.Build()
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&langDir, "dir", "d", "", "Directory of <lang>.json files (default LANG_DIR)")
}
