// Package corpus discovers the set of files an extraction run reads from,
// applying include/exclude glob patterns (doublestar, for ** support) over
// a root directory, and exposes the concatenation of their lines as a
// single restartable tokenize.Reader.
package corpus

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/standardbeagle/kword/internal/config"
)

// Discover walks cfg.Root and returns the paths (joined onto cfg.Root) of
// every regular file whose root-relative path matches at least one Include
// pattern and no Exclude pattern, in deterministic sorted order (so a
// corpus reader built from the result is reproducible across runs).
func Discover(cfg config.Corpus) ([]string, error) {
	var matched []string
	err := filepath.Walk(cfg.Root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(cfg.Root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if !matchesAny(cfg.Include, rel) {
			return nil
		}
		if len(cfg.Exclude) > 0 && matchesAny(cfg.Exclude, rel) {
			return nil
		}
		matched = append(matched, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(matched)
	return matched, nil
}

func matchesAny(patterns []string, path string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, pat := range patterns {
		if ok, _ := doublestar.Match(pat, path); ok {
			return true
		}
	}
	return false
}

// Reader is a tokenize.Reader over the concatenated lines of every
// discovered corpus file, loaded once at construction so the three
// extraction passes can each restart it from index 0 cheaply.
type Reader struct {
	lines []string
}

// NewReader discovers files under cfg and loads every non-empty line of
// every match into memory, in discovery order. Empty lines are dropped,
// since an empty document ends a pass.
func NewReader(cfg config.Corpus) (*Reader, error) {
	paths, err := Discover(cfg)
	if err != nil {
		return nil, err
	}

	var lines []string
	for _, p := range paths {
		content, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		for _, line := range splitLines(string(content)) {
			if line != "" {
				lines = append(lines, line)
			}
		}
	}
	return &Reader{lines: lines}, nil
}

// Read implements tokenize.Reader.
func (r *Reader) Read(index int) (string, error) {
	if index < 0 || index >= len(r.lines) {
		return "", nil
	}
	return r.lines[index], nil
}

func splitLines(content string) []string {
	var lines []string
	start := 0
	for i, r := range content {
		if r == '\n' {
			end := i
			if end > start && content[end-1] == '\r' {
				end--
			}
			lines = append(lines, content[start:end])
			start = i + 1
		}
	}
	if start < len(content) {
		lines = append(lines, content[start:])
	}
	return lines
}
