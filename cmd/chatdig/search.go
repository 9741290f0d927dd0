package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"chatdig/internal/config"
	"chatdig/internal/store"
	"chatdig/internal/tui"
)

const (
	sColorReset   = "\033[0m"
	sColorBoldRed = "\033[1;31m"
	sColorBlue    = "\033[1;34m"
	sColorDim     = "\033[2m"
)

func colorizeSnippet(snippet string) string {
	snippet = strings.ReplaceAll(snippet, ">>>", sColorBoldRed)
	snippet = strings.ReplaceAll(snippet, "<<<", sColorReset)
	return snippet
}

func searchCmd() *cobra.Command {
	var project, role, since string
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Full-text search across indexed conversations",
		Long: `Search indexed conversations using FTS5. Interactive TUI when stdout is a
terminal; TSV output for pipes:
  conversationID, seq, updatedAt, project, title, snippet

Run 'chatdig index <export>' first to build the database.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			if _, err := os.Stat(cfg.DBPath); os.IsNotExist(err) {
				return fmt.Errorf("no index at %s, run 'chatdig index <export>' first", cfg.DBPath)
			}

			db, err := store.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			opts := store.Options{
				Project: project,
				Role:    role,
				Since:   since,
				Limit:   limit,
			}

			// Interactive TUI when stdout is a terminal; TSV output for pipes
			if term.IsTerminal(int(os.Stdout.Fd())) {
				return tui.Run(db, args[0], opts)
			}

			opts.Query = args[0]
			results, err := db.Search(opts)
			if err != nil {
				return err
			}

			if len(results) == 0 {
				fmt.Fprintln(os.Stderr, "No results found.")
				return nil
			}

			for _, r := range results {
				snippet := strings.ReplaceAll(r.Snippet, "\t", " ")
				snippet = strings.ReplaceAll(snippet, "\n", " ")
				snippet = colorizeSnippet(snippet)
				title := strings.ReplaceAll(r.Title, "\t", " ")
				proj := r.ProjectName
				if proj == "" {
					proj = "-"
				}
				// first two fields (conversationID, seq) stay plain for fzf {1} {2}
				fmt.Printf("%s\t%d\t%s%s%s\t%s\t%s\t%s\n",
					r.ConversationID,
					r.Seq,
					sColorDim, r.UpdatedAt, sColorReset,
					sColorBlue+proj+sColorReset,
					title,
					snippet,
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Filter by project name")
	cmd.Flags().StringVar(&role, "role", "", "Filter by role (user/assistant)")
	cmd.Flags().StringVar(&since, "since", "", "Filter conversations updated since date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&limit, "limit", 100, "Max results")

	return cmd
}
