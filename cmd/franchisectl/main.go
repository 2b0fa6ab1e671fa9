// cmd/franchisectl/main.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "franchisectl",
	Short:         "Franchise back office admin CLI",
	Long:          "Operational utilities for the franchise back office (migrations, seeding, royalty runs, event queue).",
	SilenceErrors: true,
	SilenceUsage:  true,
}

func main() {
	rootCmd.AddCommand(migrateCommand(), seedCommand(), royaltiesCommand(), outboxCommand())
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
