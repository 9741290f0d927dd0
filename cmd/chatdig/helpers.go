package main

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"chatdig/internal/config"
	"chatdig/internal/export"
	"chatdig/internal/parse"
)

// newLogger builds a console logger on stderr. Repairs and skips show up
// only with --verbose; warnings and errors always do.
func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// resolveExportPath picks the export location: the positional argument when
// given, the configured default otherwise.
func resolveExportPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.ExportPath != "" {
		return cfg.ExportPath, nil
	}
	return "", fmt.Errorf("no export path given and export_path not set in config")
}

// parseExport loads and parses the export at path.
func parseExport(path string, logger *zap.Logger) (*parse.Result, error) {
	records, err := export.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load export: %w", err)
	}
	return parse.Parse(records, logger), nil
}
