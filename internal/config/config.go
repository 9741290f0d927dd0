package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type Config struct {
	DBPath     string `toml:"db_path"`
	ExportPath string `toml:"export_path"` // default export location for index/stats
	OutputDir  string `toml:"output_dir"`  // default markdown bundle destination
}

func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DBPath:    filepath.Join(home, ".config", "chatdig", "chatdig.db"),
		OutputDir: "markdown_export",
	}

	cfgPath := filepath.Join(home, ".config", "chatdig", "config.toml")
	if _, err := os.Stat(cfgPath); err == nil {
		if _, err := toml.DecodeFile(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
	}

	// expand ~ in paths
	cfg.DBPath = expandHome(cfg.DBPath, home)
	cfg.ExportPath = expandHome(cfg.ExportPath, home)
	cfg.OutputDir = expandHome(cfg.OutputDir, home)

	return cfg, nil
}

func expandHome(path, home string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
