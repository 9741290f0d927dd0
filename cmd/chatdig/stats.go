package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"chatdig/internal/config"
)

func statsCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "stats [export]",
		Short: "Parse an export and print dataset statistics",
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

			stats := result.Stats()
			fmt.Printf("Conversations: %d\n", stats.TotalConversations)
			fmt.Printf("Projects:      %d\n", stats.TotalProjects)
			fmt.Printf("Messages:      %d\n", stats.TotalMessages)
			fmt.Printf("Words:         %d\n", stats.TotalWords)
			fmt.Printf("Skipped:       %d\n", stats.SkippedCount)

			if len(stats.ModelsUsed) > 0 {
				fmt.Println("\nModels used:")
				type modelCount struct {
					model string
					count int
				}
				models := make([]modelCount, 0, len(stats.ModelsUsed))
				for m, n := range stats.ModelsUsed {
					models = append(models, modelCount{m, n})
				}
				sort.Slice(models, func(i, j int) bool {
					if models[i].count != models[j].count {
						return models[i].count > models[j].count
					}
					return models[i].model < models[j].model
				})
				for _, mc := range models {
					fmt.Printf("  %-30s %d\n", mc.model, mc.count)
				}
			}

			if len(result.Skipped) > 0 {
				fmt.Println("\nSkipped conversations:")
				for _, s := range result.Skipped {
					fmt.Printf("  %s: %s\n", s.ConversationID, s.Reason)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log graph repairs and fallbacks")
	return cmd
}
