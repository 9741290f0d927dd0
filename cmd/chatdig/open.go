package main

import (
	"github.com/spf13/cobra"

	"chatdig/internal/config"
	"chatdig/internal/open"
	"chatdig/internal/store"
)

func openCmd() *cobra.Command {
	var hitSeq int

	cmd := &cobra.Command{
		Use:   "open <conversationID>",
		Short: "Open a conversation's markdown transcript in $EDITOR",
		Args:  cobra.ExactArgs(1),
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

			return open.OpenConversation(db, args[0], hitSeq)
		},
	}

	cmd.Flags().IntVar(&hitSeq, "hit", -1, "Message index to jump to")

	return cmd
}
