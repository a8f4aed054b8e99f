package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/kword/internal/counter"
	"github.com/standardbeagle/kword/internal/ngramkey"
	"github.com/standardbeagle/kword/internal/tokenize"
	"github.com/standardbeagle/kword/internal/types"
	"github.com/standardbeagle/kword/internal/vocab"
)

func TestS5DominatedPrefixSuppression(t *testing.T) {
	// "abcd" repeated builds a length-4 candidate at the maxWordLen cap.
	// "abc" has the single successor "abcd" and "abcd" has none, so both
	// have zero right branching entropy and the composite product scores
	// both at 0: a tie, which must not suppress the prefix.
	docs := []string{"abcdabcdabcdabcd"}

	e, err := New(Config{MinCnt: 2, MaxWordLen: 4, MinScore: 0, NumThread: 1})
	require.NoError(t, err)

	words, err := e.ExtractWords(context.Background(), tokenize.SliceReader{Docs: docs}, tokenize.CodeUnitTokenizer{})
	require.NoError(t, err)

	abcd, hasABCD := hasForm(words, "a", "b", "c", "d")
	abc, hasABC := hasForm(words, "a", "b", "c")

	require.True(t, hasABCD, "expected [a b c d] among emitted forms, got %+v", words)
	assert.GreaterOrEqual(t, abcd.Freq, uint32(2))

	if hasABC {
		// If abc survived at all, it must not be strictly dominated: its
		// score must be >= the longer candidate's, per the suppression rule.
		assert.GreaterOrEqual(t, abc.Score, abcd.Score)
	}
}

// TestDominatedPrefixOnlySuppressesStrictlyLowerScore builds a forward/
// backward pair by hand so that prefix "ab" and its extension "abc" come
// out to the exact same composite score (all four sub-scores match
// pairwise, by construction), then checks that "ab" survives selection.
// A >= comparison in the suppression rule would drop it here; only a
// strict > leaves a tied prefix standing.
func TestDominatedPrefixOnlySuppressesStrictlyLowerScore(t *testing.T) {
	e, err := New(Config{MinCnt: 2, MaxWordLen: 3, MinScore: 0, NumThread: 1})
	require.NoError(t, err)

	dict := vocab.New()
	idA := dict.GetOrAdd("a")
	idB := dict.GetOrAdd("b")
	idC := dict.GetOrAdd("c")

	units := func(ids ...types.TokenID) []types.CodeUnit {
		u := make([]types.CodeUnit, len(ids))
		for i, id := range ids {
			u[i] = types.CodeUnit(id)
		}
		return u
	}

	pass3 := counter.New(0)

	// Forward side: "ab" has two length-3 successors in a 3:1 ratio
	// ("abc" and "abd"), and "abc" itself has two length-4 successors in
	// the same 3:1 ratio ("abce" and "abcf"), so both branching entropies
	// come out identical. "ab" and "abc" are each set equal to the "a"
	// anchor count, so both cohesions come out to exactly 1.
	// Filler ids are never decoded via dict.StringOf: "abd" (count 1) stays
	// below MinCnt and the length-4 keys exceed MaxWordLen, so none of them
	// is scored as a candidate.
	idD := types.TokenID(100)
	idE := types.TokenID(101)
	idF := types.TokenID(102)

	pass3.Forward.Inc(ngramkey.New(units(idA)), 3)                // anchor "a"
	pass3.Forward.Inc(ngramkey.New(units(idA, idB)), 3)           // "ab"
	pass3.Forward.Inc(ngramkey.New(units(idA, idB, idC)), 3)      // "abc"
	pass3.Forward.Inc(ngramkey.New(units(idA, idB, idD)), 1)      // "ab" + d
	pass3.Forward.Inc(ngramkey.New(units(idA, idB, idC, idE)), 6) // "abc" + e
	pass3.Forward.Inc(ngramkey.New(units(idA, idB, idC, idF)), 2) // "abc" + f

	// Backward side mirrors the same 3:1-ratio, equal-anchor construction
	// for reversed "ba" and "cba", using their own filler successors.
	idG := types.TokenID(103)
	idH := types.TokenID(104)

	pass3.Backward.Inc(ngramkey.New(units(idB)), 5)                // anchor "b"
	pass3.Backward.Inc(ngramkey.New(units(idB, idA)), 5)           // "ba"
	pass3.Backward.Inc(ngramkey.New(units(idB, idA, idG)), 15)     // "ba" + g
	pass3.Backward.Inc(ngramkey.New(units(idB, idA, idH)), 5)      // "ba" + h
	pass3.Backward.Inc(ngramkey.New(units(idC)), 9)                // anchor "c"
	pass3.Backward.Inc(ngramkey.New(units(idC, idB, idA)), 9)      // "cba"
	pass3.Backward.Inc(ngramkey.New(units(idC, idB, idA, idG)), 27) // "cba" + g
	pass3.Backward.Inc(ngramkey.New(units(idC, idB, idA, idH)), 9)  // "cba" + h

	words := e.selectWords(dict, pass3)

	ab, hasAB := hasForm(words, "a", "b")
	abc, hasABC := hasForm(words, "a", "b", "c")
	require.True(t, hasAB, "expected [a b] among emitted forms, got %+v", words)
	require.True(t, hasABC, "expected [a b c] among emitted forms, got %+v", words)

	assert.InDelta(t, abc.Score, ab.Score, 1e-6, "constructed prefix/extension pair should score equal")
	assert.Equal(t, float32(1), ab.RCohesion)
	assert.Equal(t, float32(1), ab.LCohesion)
	assert.Equal(t, float32(1), abc.RCohesion)
	assert.Equal(t, float32(1), abc.LCohesion)
}

func TestFreqRelationBetweenPrefixAndExtension(t *testing.T) {
	// freq(abcd) <= freq(abc) must always hold in the counters regardless
	// of which one survives suppression.
	docs := []string{"abcdabcdabcd"}
	e, err := New(Config{MinCnt: 1, MaxWordLen: 4, MinScore: 0, NumThread: 1})
	require.NoError(t, err)

	words, err := e.ExtractWords(context.Background(), tokenize.SliceReader{Docs: docs}, tokenize.CodeUnitTokenizer{})
	require.NoError(t, err)

	abcd, hasABCD := hasForm(words, "a", "b", "c", "d")
	abc, hasABC := hasForm(words, "a", "b", "c")
	if hasABCD && hasABC {
		assert.LessOrEqual(t, abcd.Freq, abc.Freq)
	}
}
