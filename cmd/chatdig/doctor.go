package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"chatdig/internal/config"
	"chatdig/internal/store"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Self-check: verify config, DB, FTS5, and show counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}

			fmt.Println("=== Config ===")
			if cfg.ExportPath != "" {
				checkPath("Export", cfg.ExportPath)
			} else {
				fmt.Println("  Export: (not configured, pass a path to index/stats/export)")
			}
			fmt.Printf("  Output: %s\n", cfg.OutputDir)

			fmt.Println("\n=== Database ===")
			fmt.Printf("  Path: %s\n", cfg.DBPath)
			if _, err := os.Stat(cfg.DBPath); os.IsNotExist(err) {
				fmt.Println("  Status: NOT FOUND (run 'chatdig index' first)")
				return nil
			}

			db, err := store.Open(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer db.Close()

			convCount, err := db.ConversationCount()
			if err != nil {
				return fmt.Errorf("count conversations: %w", err)
			}
			msgCount, err := db.MessageCount()
			if err != nil {
				return fmt.Errorf("count messages: %w", err)
			}
			projCount, err := db.ProjectCount()
			if err != nil {
				return fmt.Errorf("count projects: %w", err)
			}

			fmt.Printf("  Conversations: %d\n", convCount)
			fmt.Printf("  Messages:      %d\n", msgCount)
			fmt.Printf("  Projects:      %d\n", projCount)

			fmt.Println("\n=== FTS5 ===")
			var ftsCount int
			err = db.Raw().QueryRow("SELECT COUNT(*) FROM messages_fts").Scan(&ftsCount)
			if err != nil {
				fmt.Printf("  FTS5 error: %v\n", err)
			} else {
				fmt.Printf("  FTS5 entries: %d\n", ftsCount)
				if ftsCount == msgCount {
					fmt.Println("  Status: OK (synced)")
				} else {
					fmt.Printf("  Status: MISMATCH (messages=%d, fts=%d)\n", msgCount, ftsCount)
				}
			}

			if info, err := os.Stat(cfg.DBPath); err == nil {
				sizeMB := float64(info.Size()) / 1024 / 1024
				fmt.Printf("\n=== DB Size: %.1f MB ===\n", sizeMB)
			}

			return nil
		},
	}
}

func checkPath(name, path string) {
	if _, err := os.Stat(path); err != nil {
		fmt.Printf("  %s: %s (NOT FOUND)\n", name, path)
	} else {
		fmt.Printf("  %s: %s (OK)\n", name, path)
	}
}
