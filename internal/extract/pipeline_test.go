package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/kword/internal/corpus"
	"github.com/standardbeagle/kword/internal/tokenize"
	"github.com/standardbeagle/kword/internal/types"
	"github.com/standardbeagle/kword/testhelpers"
)

func hasForm(words []types.WordInfo, form ...string) (types.WordInfo, bool) {
	for _, w := range words {
		if len(w.Form) != len(form) {
			continue
		}
		match := true
		for i := range form {
			if w.Form[i] != form[i] {
				match = false
				break
			}
		}
		if match {
			return w, true
		}
	}
	return types.WordInfo{}, false
}

func TestS1SingleDocumentThreeRepetitions(t *testing.T) {
	e, err := New(Config{MinCnt: 2, MaxWordLen: 3, MinScore: 0, NumThread: 1})
	require.NoError(t, err)

	reader := tokenize.SliceReader{Docs: []string{"ababab"}}
	words, err := e.ExtractWords(context.Background(), reader, tokenize.CodeUnitTokenizer{})
	require.NoError(t, err)

	w, ok := hasForm(words, "a", "b")
	require.True(t, ok, "expected [\"a\",\"b\"] among emitted forms, got %+v", words)
	assert.Equal(t, uint32(3), w.Freq)
}

func TestS2EmptyReader(t *testing.T) {
	e, err := New(Config{MinCnt: 2, MaxWordLen: 3, MinScore: 0, NumThread: 1})
	require.NoError(t, err)

	reader := tokenize.SliceReader{Docs: nil}
	words, err := e.ExtractWords(context.Background(), reader, tokenize.CodeUnitTokenizer{})
	require.NoError(t, err)
	assert.Empty(t, words)
}

func TestS3MaxWordLenOneYieldsEmptyResult(t *testing.T) {
	e, err := New(Config{MinCnt: 1, MaxWordLen: 1, MinScore: 0, NumThread: 1})
	require.NoError(t, err)

	reader := tokenize.SliceReader{Docs: []string{"ababab"}}
	words, err := e.ExtractWords(context.Background(), reader, tokenize.CodeUnitTokenizer{})
	require.NoError(t, err)
	assert.Empty(t, words)
}

func TestS4RareBigramsPruned(t *testing.T) {
	e, err := New(Config{MinCnt: 2, MaxWordLen: 3, MinScore: 0, NumThread: 1})
	require.NoError(t, err)

	// Every adjacent pair distinct and occurring once: "abcdef" has bigrams
	// ab,bc,cd,de,ef, each appearing exactly once; every unigram count is 1.
	reader := tokenize.SliceReader{Docs: []string{"abcdef"}}
	words, err := e.ExtractWords(context.Background(), reader, tokenize.CodeUnitTokenizer{})
	require.NoError(t, err)
	assert.Empty(t, words, "no unigram reaches minCnt=2, so no bigram is a candidate and nothing should emit")
}

func TestS6DeterministicAcrossThreadCounts(t *testing.T) {
	defer testhelpers.AssertNoLeaks(t)

	docs := []string{"ababab", "bababa", "ababab", "abcabc", "ababab"}

	e1, err := New(Config{MinCnt: 2, MaxWordLen: 3, MinScore: 0, NumThread: 1})
	require.NoError(t, err)
	words1, err := e1.ExtractWords(context.Background(), tokenize.SliceReader{Docs: docs}, tokenize.CodeUnitTokenizer{})
	require.NoError(t, err)

	e8, err := New(Config{MinCnt: 2, MaxWordLen: 3, MinScore: 0, NumThread: 8})
	require.NoError(t, err)
	words8, err := e8.ExtractWords(context.Background(), tokenize.SliceReader{Docs: docs}, tokenize.CodeUnitTokenizer{})
	require.NoError(t, err)

	require.Equal(t, len(words1), len(words8))

	byForm := func(ws []types.WordInfo) map[string]types.WordInfo {
		m := make(map[string]types.WordInfo, len(ws))
		key := ""
		for _, w := range ws {
			key = ""
			for _, f := range w.Form {
				key += f + "\x00"
			}
			m[key] = w
		}
		return m
	}

	m1, m8 := byForm(words1), byForm(words8)
	require.Equal(t, len(m1), len(m8))
	for k, w1 := range m1 {
		w8, ok := m8[k]
		require.True(t, ok, "form %q present with 1 thread but missing with 8", k)
		assert.Equal(t, w1.Freq, w8.Freq)
		assert.InDelta(t, w1.Score, w8.Score, 1e-5)
	}
}

func TestConfigRejectsInvalidMaxWordLen(t *testing.T) {
	_, err := New(Config{MinCnt: 1, MaxWordLen: 0, MinScore: 0})
	assert.Error(t, err)
}

func TestConfigRejectsInvalidMinCnt(t *testing.T) {
	_, err := New(Config{MinCnt: 0, MaxWordLen: 5, MinScore: 0})
	assert.Error(t, err)
}

func TestConfigDefaultsNumThreadToHardwareParallelism(t *testing.T) {
	e, err := New(Config{MinCnt: 1, MaxWordLen: 5, MinScore: 0})
	require.NoError(t, err)
	assert.Greater(t, e.cfg.NumThread, 0)
}

func TestLengthGateOnEmittedForms(t *testing.T) {
	e, err := New(Config{MinCnt: 1, MaxWordLen: 3, MinScore: 0, NumThread: 1})
	require.NoError(t, err)

	reader := tokenize.SliceReader{Docs: []string{"ababab"}}
	words, err := e.ExtractWords(context.Background(), reader, tokenize.CodeUnitTokenizer{})
	require.NoError(t, err)
	for _, w := range words {
		assert.GreaterOrEqual(t, len(w.Form), 2)
		assert.LessOrEqual(t, len(w.Form), 3)
	}
}

func TestExtractWordsOverFileBackedCorpus(t *testing.T) {
	defer testhelpers.AssertNoLeaks(t)

	fixture := testhelpers.WriteCorpusFixture(t, map[string]string{
		"doc1.txt": "ababab\n",
		"doc2.txt": "bababa\n",
	}, "**/*.txt")

	reader, err := corpus.NewReader(fixture)
	require.NoError(t, err)

	e, err := New(Config{MinCnt: 2, MaxWordLen: 3, MinScore: 0, NumThread: 1})
	require.NoError(t, err)

	words, err := e.ExtractWords(context.Background(), reader, tokenize.CodeUnitTokenizer{})
	require.NoError(t, err)

	w, ok := hasForm(words, "a", "b")
	require.True(t, ok, "expected [\"a\",\"b\"] among emitted forms, got %+v", words)
	assert.Greater(t, w.Freq, uint32(0))
}

func TestThresholdGateOnEmittedForms(t *testing.T) {
	e, err := New(Config{MinCnt: 3, MaxWordLen: 3, MinScore: 0.01, NumThread: 1})
	require.NoError(t, err)

	reader := tokenize.SliceReader{Docs: []string{"ababab"}}
	words, err := e.ExtractWords(context.Background(), reader, tokenize.CodeUnitTokenizer{})
	require.NoError(t, err)
	for _, w := range words {
		assert.GreaterOrEqual(t, w.Freq, uint32(3))
		assert.GreaterOrEqual(t, w.Score, float32(0.01))
	}
}
