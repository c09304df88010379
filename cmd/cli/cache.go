package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sevigo/reviewgate/internal/cache"
	"github.com/sevigo/reviewgate/internal/config"
	"github.com/sevigo/reviewgate/internal/logger"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the audit result cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache location, entry count, and size",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		store, err := openCacheStore()
		if err != nil {
			return err
		}
		stats, err := store.Stats()
		if err != nil {
			return err
		}
		fmt.Printf("Directory: %s\n", stats.Dir)
		fmt.Printf("Entries:   %d\n", stats.Entries)
		fmt.Printf("Size:      %.1f KiB\n", float64(stats.SizeBytes)/1024)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached audit results",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		store, err := openCacheStore()
		if err != nil {
			return err
		}
		removed, err := store.Clear()
		if err != nil {
			return err
		}
		fmt.Printf("Removed %d cached result(s) from %s\n", removed, store.Dir())
		return nil
	},
}

func init() { //nolint:gochecknoinits // Cobra command registration
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func openCacheStore() (*cache.Store, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	log := logger.NewLogger(cfg.Logging, os.Stderr)
	return cache.NewStore(cfg.CacheDir, log)
}
