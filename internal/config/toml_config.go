package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// LoadTOML loads configuration from <projectRoot>/.kword.toml, returning
// nil (not an error) when the file does not exist. This is the fallback
// path when no .kword.kdl is present: go-toml/v2 unmarshals directly into
// Config via its `toml` struct tags, unlike the KDL path's manual
// node-walking.
func LoadTOML(projectRoot string) (*Config, error) {
	tomlPath := filepath.Join(projectRoot, ".kword.toml")
	if _, err := os.Stat(tomlPath); os.IsNotExist(err) {
		return nil, nil
	}

	content, err := os.ReadFile(tomlPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read .kword.toml: %w", err)
	}

	cfg := Default()
	if err := toml.Unmarshal(content, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML config: %w", err)
	}

	if cfg.Corpus.Root == "" {
		cfg.Corpus.Root = projectRoot
	}
	if !filepath.IsAbs(cfg.Corpus.Root) {
		cfg.Corpus.Root = filepath.Clean(filepath.Join(projectRoot, cfg.Corpus.Root))
	}
	return &cfg, nil
}
