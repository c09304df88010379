package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sevigo/reviewgate/internal/core"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the reviewgate version",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("reviewgate %s (report schema %s)\n", core.Version, core.ReportSchemaVersion)
	},
}

func init() { //nolint:gochecknoinits // Cobra command registration
	rootCmd.AddCommand(versionCmd)
}
