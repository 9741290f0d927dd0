package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"chatdig/internal/config"
	"chatdig/internal/store"
)

func indexCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "index [export]",
		Short: "Parse an export and index it into the local database",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			path, err := resolveExportPath(args, cfg)
			if err != nil {
				return err
			}

			logger := newLogger(verbose)
			defer logger.Sync()

			result, err := parseExport(path, logger)
			if err != nil {
				return err
			}

			db, err := store.Open(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer db.Close()

			if err := db.ReplaceAll(result.Conversations); err != nil {
				return fmt.Errorf("index: %w", err)
			}

			stats := result.Stats()
			fmt.Fprintf(os.Stderr, "Indexed %d conversations (%d messages, %d skipped) into %s\n",
				stats.TotalConversations, stats.TotalMessages, stats.SkippedCount, cfg.DBPath)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log graph repairs and fallbacks")
	return cmd
}
