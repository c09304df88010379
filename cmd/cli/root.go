package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "reviewgate",
	Short: "reviewgate audits git change-sets with an AI reviewer and gates CI on the result.",
	Long: `reviewgate turns a git change-set into a structured quality report.

It collects the diffs for a target (staged changes, a commit, a range, or an
explicit file list), filters and redacts them, sends each file to an AI
reviewer with caching and provider fallback, and exits 0 (pass), 1 (fail),
or 2 (error) so the result can gate CI.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	cobra.OnInitialize(initConfig)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.SetEnvPrefix("RG")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}
