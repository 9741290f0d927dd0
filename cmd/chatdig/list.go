package main

import (
	"github.com/spf13/cobra"

	"chatdig/internal/config"
	"chatdig/internal/store"
	"chatdig/internal/tui"
)

func listCmd() *cobra.Command {
	var project, since string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Browse all indexed conversations sorted by update time",
		Long:  `Opens a TUI panel showing all indexed conversations sorted by update time (newest first). Type to search the full text.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			db, err := store.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			opts := store.Options{
				Project: project,
				Since:   since,
				Limit:   limit,
			}

			return tui.RunList(db, opts)
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Filter by project name")
	cmd.Flags().StringVar(&since, "since", "", "Filter conversations updated since date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Max results (0 = no limit)")

	return cmd
}
