package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "revisor",
	Short: "Review image batches and tag visual defects",
	Long: strings.TrimSpace(`
Serve an image review session: load a CSV of image URLs, page through the
images, tag defects, inspect with zoom and filters, and export the
annotations back to CSV.
	`),
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
