package main

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/blobmig/pkg/blob"
	"github.com/walteh/blobmig/pkg/config"
	"github.com/walteh/blobmig/pkg/inventory"
	"github.com/walteh/blobmig/pkg/ledger"
	"github.com/walteh/blobmig/pkg/log"
	"github.com/walteh/blobmig/pkg/pipeline"
	"github.com/walteh/blobmig/pkg/source"
	"gitlab.com/tozd/go/errors"
)

// newMigrateCommand builds the migrate subcommand
func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run the migration pipeline over the configured inventory",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd)
		},
	}

	cmd.Flags().StringVar(&stagingRoot, "staging-root", "", "override staging root directory")
	cmd.Flags().StringVar(&ledgerPath, "ledger", "", "override ledger file path")

	return cmd
}

// runMigrate loads the inventory and drives the pipeline. Per-file and
// per-site failures are warnings; only a missing inventory, a schema failure,
// or unusable config aborts with a non-zero exit.
func runMigrate(cmd *cobra.Command) error {
	ctx := cmd.Context()
	logger := zerolog.Ctx(ctx)

	cfg, err := config.Load(ctx, configFile)
	if err != nil {
		return errors.Errorf("loading config: %w", err)
	}

	// CLI overrides
	if stagingRoot != "" {
		cfg.StagingRoot = stagingRoot
	}
	if ledgerPath != "" {
		cfg.LedgerPath = ledgerPath
	}

	absStaging, err := filepath.Abs(cfg.StagingRoot)
	if err != nil {
		return errors.Errorf("resolving staging root: %w", err)
	}
	cfg.StagingRoot = absStaging
	if err := os.MkdirAll(cfg.StagingRoot, 0o755); err != nil {
		return errors.Errorf("creating staging root: %w", err)
	}

	records, err := inventory.NewLoader(cfg.Inventory).Load(ctx)
	if err != nil {
		return errors.Errorf("loading inventory: %w", err)
	}
	if len(records) == 0 {
		logger.Info().Str("path", cfg.Inventory.Path).Msg("inventory is empty, nothing to do")
		return nil
	}

	uploader, err := blob.NewS3Uploader(cfg.Blob)
	if err != nil {
		return errors.Errorf("creating uploader: %w", err)
	}

	driver := pipeline.NewDriver(
		source.NewHTTPConnector(cfg.Source),
		pipeline.NewTransferrer(cfg.StagingRoot, uploader, ledger.New(cfg.LedgerPath)),
		log.NewConsoleReporter(ctx, cmd.OutOrStdout()),
	)

	driver.Run(ctx, records)
	return nil
}
