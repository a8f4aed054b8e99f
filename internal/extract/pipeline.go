// Package extract orchestrates the three-pass counting pipeline (components
// E) and the scoring/extraction step (component F) that together turn a
// corpus into a ranked list of WordInfo candidates. Grounded on the
// original KWordDetector::extractWords and its countUnigram/countBigram/
// countNgram passes (original_source/KWordDetector.h).
package extract

import (
	"context"
	"runtime"

	"github.com/standardbeagle/kword/internal/counter"
	"github.com/standardbeagle/kword/internal/debug"
	kworderrors "github.com/standardbeagle/kword/internal/errors"
	"github.com/standardbeagle/kword/internal/scan"
	"github.com/standardbeagle/kword/internal/tokenize"
	"github.com/standardbeagle/kword/internal/types"
	"github.com/standardbeagle/kword/internal/vocab"
)

// Config holds the four tunables exposed at construction.
type Config struct {
	// MinCnt is the minimum occurrence count to be considered. Default 10.
	MinCnt uint32
	// MaxWordLen is the maximum n-gram length in tokens. Default 10.
	MaxWordLen int
	// MinScore is the composite-score threshold for emission. Default 0.1.
	MinScore float32
	// NumThread is the worker count; 0 means hardware parallelism.
	NumThread int
	// MergeNearDuplicates enables the optional post-selection pass that
	// folds a candidate into a near-identical, higher scoring sibling
	// (Damerau-Levenshtein distance <= 1, overlapping frequency). Off by
	// default: it is a supplementary cleanup step layered on top of the
	// core extraction procedure.
	MergeNearDuplicates bool
}

// DefaultConfig returns the documented built-in defaults.
func DefaultConfig() Config {
	return Config{MinCnt: 10, MaxWordLen: 10, MinScore: 0.1}
}

// Extractor runs the counting and scoring pipeline against a fixed
// configuration. The zero value is not usable; construct with New.
type Extractor struct {
	cfg Config
}

// New validates cfg and returns an Extractor, or a *kworderrors.ConfigError
// if cfg is nonsensical (MaxWordLen < 1, MinCnt < 1, or MinScore < 0).
// MaxWordLen == 1 is valid configuration, not an error: it simply yields an
// empty result via the length gate.
func New(cfg Config) (*Extractor, error) {
	if cfg.MaxWordLen < 1 {
		return nil, kworderrors.NewConfigError("maxWordLen", itoa(cfg.MaxWordLen), errMaxWordLen)
	}
	if cfg.MinCnt < 1 {
		return nil, kworderrors.NewConfigError("minCnt", utoa(cfg.MinCnt), errMinCnt)
	}
	if cfg.MinScore < 0 {
		return nil, kworderrors.NewConfigError("minScore", ftoa(cfg.MinScore), errMinScore)
	}
	if cfg.NumThread <= 0 {
		cfg.NumThread = runtime.NumCPU()
	}
	return &Extractor{cfg: cfg}, nil
}

// SetParameters changes MinCnt, MaxWordLen and MinScore after construction,
// validating them as New does. On error the Extractor is left unchanged.
func (e *Extractor) SetParameters(minCnt uint32, maxWordLen int, minScore float32) error {
	cfg := e.cfg
	cfg.MinCnt, cfg.MaxWordLen, cfg.MinScore = minCnt, maxWordLen, minScore
	checked, err := New(cfg)
	if err != nil {
		return err
	}
	e.cfg = checked.cfg
	return nil
}

// ExtractWords runs all three counting passes and the scoring/extraction
// step over reader, tokenizing each document with tokenizer. Per-document
// tokenize failures are collected and skipped, never aborting the run; a
// reader error aborts immediately and is returned. An empty corpus (the
// reader's first call returns "") yields an empty, non-error result.
func (e *Extractor) ExtractWords(ctx context.Context, reader tokenize.Reader, tokenizer tokenize.Tokenizer) ([]types.WordInfo, error) {
	words, _, err := e.ExtractWordsWithDictionary(ctx, reader, tokenizer)
	return words, err
}

// ExtractWordsWithDictionary is ExtractWords but additionally returns the
// token dictionary built during the run, for callers (e.g. the MCP server)
// that want to resolve tokens to ids after extraction completes.
func (e *Extractor) ExtractWordsWithDictionary(ctx context.Context, reader tokenize.Reader, tokenizer tokenize.Tokenizer) ([]types.WordInfo, *vocab.Dictionary, error) {
	dict := vocab.New()

	debug.LogPass("pass 1: unigram")
	unigramCounters, skipped1, err := e.runPass(ctx, reader, func() *counter.Counter { return counter.New(0) },
		func(doc string, index int, local *counter.Counter) error {
			tokens, terr := tokenizer.Tokenize(doc)
			if terr != nil {
				return kworderrors.NewTokenizeError(index, terr)
			}
			ids := dict.GetOrAddMany(tokens)
			for _, id := range ids {
				local.AddUnigram(id)
			}
			return nil
		})
	if err != nil {
		return nil, nil, err
	}
	vocabSize := dict.Len()
	pass1 := counter.MergeAll(unigramCounters, vocabSize)
	debug.LogPass("pass 1 done: vocab=%d skipped=%d", vocabSize, len(skipped1))

	debug.LogPass("pass 2: bigram candidates")
	bigramCounters, skipped2, err := e.runPass(ctx, reader, func() *counter.Counter { return counter.New(0) },
		func(doc string, index int, local *counter.Counter) error {
			tokens, terr := tokenizer.Tokenize(doc)
			if terr != nil {
				return kworderrors.NewTokenizeError(index, terr)
			}
			ids := dict.GetOrAddMany(tokens)
			for i := 0; i+1 < len(ids); i++ {
				a, b := ids[i], ids[i+1]
				if unigramAt(pass1, a) >= e.cfg.MinCnt && unigramAt(pass1, b) >= e.cfg.MinCnt {
					local.AddBigramCandidate(a, b)
				}
			}
			return nil
		})
	if err != nil {
		return nil, nil, err
	}
	pass2 := counter.MergeAll(bigramCounters, vocabSize)
	debug.LogPass("pass 2 done: candidates=%d skipped=%d", len(pass2.CandBigram), len(skipped2))

	debug.LogPass("pass 3: n-gram forward/backward")
	ngramCounters, skipped3, err := e.runPass(ctx, reader, func() *counter.Counter { return counter.New(0) },
		func(doc string, index int, local *counter.Counter) error {
			tokens, terr := tokenizer.Tokenize(doc)
			if terr != nil {
				return kworderrors.NewTokenizeError(index, terr)
			}
			ids := dict.GetOrAddMany(tokens)
			e.slideWindows(ids, pass2, local)
			return nil
		})
	if err != nil {
		return nil, nil, err
	}
	pass3 := counter.MergeAll(ngramCounters, vocabSize)
	debug.LogPass("pass 3 done: forward=%d backward=%d skipped=%d", pass3.Forward.Len(), pass3.Backward.Len(), len(skipped3))

	words := e.selectWords(dict, pass3)
	if e.cfg.MergeNearDuplicates {
		words = mergeNearDuplicates(words)
	}
	return words, dict, nil
}

func unigramAt(c *counter.Counter, id types.TokenID) uint32 {
	if int(id) >= len(c.Unigram) {
		return 0
	}
	return c.Unigram[id]
}

// slideWindows inserts every window of length 2..=MaxWordLen starting at
// each position into forwardCnt, gated on the window's first two tokens
// being a candidate bigram, and the mirrored reversed window into
// backwardCnt gated on the window's last two tokens. Length-1 entries are
// inserted unconditionally once per token to anchor the prefix tree used
// by branching-entropy's successor-range walk.
func (e *Extractor) slideWindows(ids []types.TokenID, candidates *counter.Counter, local *counter.Counter) {
	for _, id := range ids {
		local.AddForward(unitKey1(id), 1)
		local.AddBackward(unitKey1(id), 1)
	}

	n := len(ids)
	for length := 2; length <= e.cfg.MaxWordLen; length++ {
		for i := 0; i+length <= n; i++ {
			window := ids[i : i+length]
			if candidates.HasBigramCandidate(window[0], window[1]) {
				local.AddForward(windowKey(window), 1)
			}
			last := len(window) - 1
			if candidates.HasBigramCandidate(window[last-1], window[last]) {
				local.AddBackward(reversedWindowKey(window), 1)
			}
		}
	}
}

func (e *Extractor) runPass(ctx context.Context, reader tokenize.Reader, newLocal func() *counter.Counter, proc scan.Processor[*counter.Counter]) ([]*counter.Counter, []error, error) {
	h := scan.New(e.cfg.NumThread, newLocal)
	return h.Run(ctx, reader, proc)
}

var (
	errMaxWordLen = configErr("maxWordLen must be >= 1")
	errMinCnt     = configErr("minCnt must be >= 1")
	errMinScore   = configErr("minScore must be >= 0")
)

type configErr string

func (e configErr) Error() string { return string(e) }
