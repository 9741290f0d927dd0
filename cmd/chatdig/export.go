package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"chatdig/internal/config"
	"chatdig/internal/render"
)

func exportCmd() *cobra.Command {
	var outputDir string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "export [export]",
		Short: "Write the markdown bundle: one file per conversation, grouped by project",
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
			if outputDir == "" {
				outputDir = cfg.OutputDir
			}

			logger := newLogger(verbose)
			defer logger.Sync()

			result, err := parseExport(path, logger)
			if err != nil {
				return err
			}

			written, err := render.WriteBundle(outputDir, result.Conversations)
			if err != nil {
				return fmt.Errorf("write bundle: %w", err)
			}

			fmt.Fprintf(os.Stderr, "Wrote %d conversations to %s\n", written, outputDir)
			if n := len(result.Skipped); n > 0 {
				fmt.Fprintf(os.Stderr, "Skipped %d conversations (run 'chatdig stats' for reasons)\n", n)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (default from config)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log graph repairs and fallbacks")
	return cmd
}
