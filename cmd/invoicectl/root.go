package main

import (
	"fmt"
	"os"

	"invoice_manager/internal/config"
	"invoice_manager/internal/logger"

	"github.com/spf13/cobra"
)

var version = "1.0.0"

// cfg is loaded once in main and read by every subcommand.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "invoicectl",
	Short: "Administration tool for the invoice manager",
	Long: `invoicectl prepares the invoice manager database and helps with
day-to-day chores such as checking payment barcodes.

Connection settings are read from the same environment variables as the
server (DATABASE_URL, JWT_SECRET, ...) and from a .env file if present.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute(c *config.Config) {
	cfg = c
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}
