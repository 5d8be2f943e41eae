package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "oemcatalog",
	Short: "OEM catalog service",
	Long: `oemcatalog serves the master catalog and the OEM catalogs derived from it.

Available commands:
  serve   - Run the HTTP API
  migrate - Apply database migrations
  seed    - Apply migrations and load reference data
  token   - Issue bearer tokens for local use`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd, tokenCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
