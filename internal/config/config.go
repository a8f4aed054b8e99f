// Package config loads and validates kword's run configuration: the four
// extraction tunables plus the corpus selection rules that decide which
// files under a root feed the extractor. Configuration layers defaults,
// an optional .kword.kdl file, an optional .kword.toml fallback, and a
// final validation pass that fills remaining defaults.
package config

import (
	"os"
	"path/filepath"
)

// Corpus selects the files the extractor reads its documents from.
type Corpus struct {
	// Root is the directory corpus files are resolved relative to.
	Root string `kdl:"root" toml:"root"`
	// Include is a set of doublestar glob patterns; a file must match at
	// least one to be part of the corpus. Empty means "match everything".
	Include []string `kdl:"include" toml:"include"`
	// Exclude is a set of doublestar glob patterns; a matching file is
	// dropped even if Include also matched it.
	Exclude []string `kdl:"exclude" toml:"exclude"`
}

// Config is kword's full run configuration.
type Config struct {
	// MinCnt is the minimum occurrence count to be considered. Default 10.
	MinCnt uint32 `kdl:"min_cnt" toml:"min_cnt"`
	// MaxWordLen is the maximum n-gram length in tokens. Default 10.
	MaxWordLen int `kdl:"max_word_len" toml:"max_word_len"`
	// MinScore is the composite-score threshold for emission. Default 0.1.
	MinScore float32 `kdl:"min_score" toml:"min_score"`
	// NumThread is the worker count; 0 means hardware parallelism.
	NumThread int `kdl:"num_thread" toml:"num_thread"`

	Corpus Corpus `kdl:"corpus" toml:"corpus"`
}

// Default returns the documented built-in defaults, with Corpus.Root set
// to the current working directory.
func Default() Config {
	root, err := os.Getwd()
	if err != nil {
		root = "."
	}
	return Config{
		MinCnt:     10,
		MaxWordLen: 10,
		MinScore:   0.1,
		NumThread:  0,
		Corpus: Corpus{
			Root:    root,
			Include: []string{"**/*.txt"},
			Exclude: nil,
		},
	}
}

// Load resolves configuration for projectRoot: start from defaults, layer
// .kword.kdl if present, otherwise fall back to .kword.toml, then validate
// and fill remaining zero values (e.g. NumThread) with their effective
// defaults.
func Load(projectRoot string) (*Config, error) {
	cfg := Default()
	absRoot, err := filepath.Abs(projectRoot)
	if err == nil {
		cfg.Corpus.Root = absRoot
	} else {
		cfg.Corpus.Root = projectRoot
	}

	kdlCfg, err := LoadKDL(projectRoot)
	if err != nil {
		return nil, err
	}
	if kdlCfg != nil {
		cfg = *kdlCfg
	} else {
		tomlCfg, err := LoadTOML(projectRoot)
		if err != nil {
			return nil, err
		}
		if tomlCfg != nil {
			cfg = *tomlCfg
		}
	}

	if err := (&Validator{}).ValidateAndSetDefaults(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
