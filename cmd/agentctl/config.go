package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const defaultServer = "http://localhost:8000"

// fileConfig is read from ~/.config/agentctl/config.toml. Flags win over it.
type fileConfig struct {
	Server   string `toml:"server"`
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "agentctl", "config.toml")
}

// loadConfig reads path. A missing file yields the defaults.
func loadConfig(path string) (*fileConfig, error) {
	cfg := &fileConfig{Server: defaultServer}
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("could not read %s: %w", path, err)
	}
	if cfg.Server == "" {
		cfg.Server = defaultServer
	}
	return cfg, nil
}
