package config

import (
	"errors"
	"runtime"
	"strconv"

	kworderrors "github.com/standardbeagle/kword/internal/errors"
)

// Validator validates a Config and fills in effective defaults for fields
// left at their zero value (e.g. NumThread meaning "hardware parallelism").
type Validator struct{}

// NewValidator creates a new configuration validator.
func NewValidator() *Validator { return &Validator{} }

// ValidateAndSetDefaults validates cfg in place, returning a
// *kworderrors.ConfigError naming the first invalid field it finds.
// MaxWordLen == 1 is valid: it yields an empty extraction result via the
// length gate, not a configuration error.
func (v *Validator) ValidateAndSetDefaults(cfg *Config) error {
	if cfg.MaxWordLen < 1 {
		return kworderrors.NewConfigError("maxWordLen", strconv.Itoa(cfg.MaxWordLen), errors.New("must be >= 1"))
	}
	if cfg.MinCnt < 1 {
		return kworderrors.NewConfigError("minCnt", strconv.FormatUint(uint64(cfg.MinCnt), 10), errors.New("must be >= 1"))
	}
	if cfg.MinScore < 0 {
		return kworderrors.NewConfigError("minScore", strconv.FormatFloat(float64(cfg.MinScore), 'g', -1, 32), errors.New("must be >= 0"))
	}
	if cfg.Corpus.Root == "" {
		return kworderrors.NewConfigError("corpus.root", "", errors.New("must not be empty"))
	}

	if cfg.NumThread <= 0 {
		cfg.NumThread = runtime.NumCPU()
	}
	return nil
}
