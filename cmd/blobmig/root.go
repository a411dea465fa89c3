package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	// Flags
	configFile  string
	debug       bool
	stagingRoot string
	ledgerPath  string
)

// newRootCommand builds the blobmig command tree
func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "blobmig",
		Short: "Migrate inventoried archive files from document-library sites into blob storage",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(cmd)
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&configFile, "config", "c", ".blobmig.yaml", "config file path")
	root.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")

	root.AddCommand(newMigrateCommand())
	root.AddCommand(newLedgerCommand())

	return root
}

// setupLogging configures zerolog based on flags and embeds the logger in
// the command context
func setupLogging(cmd *cobra.Command) {
	logLevel := zerolog.InfoLevel
	if debug {
		logLevel = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = os.Stderr
	})).Level(logLevel).With().Timestamp().Logger()
	cmd.SetContext(logger.WithContext(cmd.Context()))
}
