package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/blobmig/pkg/config"
	"github.com/walteh/blobmig/pkg/ledger"
	"gitlab.com/tozd/go/errors"
)

// newLedgerCommand builds the ledger inspection subcommand
func newLedgerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ledger",
		Short: "Print the audit ledger of past transfer attempts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLedger(cmd)
		},
	}
}

// runLedger renders the ledger as a table
func runLedger(cmd *cobra.Command) error {
	ctx := cmd.Context()

	cfg, err := config.Load(ctx, configFile)
	if err != nil {
		return errors.Errorf("loading config: %w", err)
	}

	if _, err := os.Stat(cfg.LedgerPath); os.IsNotExist(err) {
		cmd.Println("no ledger yet:", cfg.LedgerPath)
		return nil
	}

	entries, err := ledger.New(cfg.LedgerPath).Read(ctx)
	if err != nil {
		return errors.Errorf("reading ledger: %w", err)
	}

	rows := pterm.TableData{{"FileName", "FilePath", "Size", "UploadTime", "Status"}}
	for _, e := range entries {
		status := color.GreenString(string(e.Status))
		if e.Status != ledger.StatusUploaded {
			status = color.RedString(string(e.Status))
		}
		rows = append(rows, []string{
			e.FileName,
			e.FilePath,
			e.Size,
			e.UploadTime.Format("2006-01-02 15:04:05"),
			status,
		})
	}

	return pterm.DefaultTable.WithHasHeader().WithWriter(cmd.OutOrStdout()).WithData(rows).Render()
}
