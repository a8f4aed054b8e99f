package extract

import (
	"math"

	"github.com/standardbeagle/kword/internal/counter"
	"github.com/standardbeagle/kword/internal/ngramkey"
	"github.com/standardbeagle/kword/internal/types"
	"github.com/standardbeagle/kword/internal/vocab"
)

// branchingEntropy computes the Shannon entropy of the successor
// distribution of w within m: the set of keys one code unit longer that
// share w as a prefix. Zero successors yields entropy 0.
func branchingEntropy(m *counter.OrderedMap, w ngramkey.Key) float32 {
	var total uint64
	var counts []uint32
	m.RangeWithPrefix(w, func(key ngramkey.Key, count uint32) bool {
		if key.Len() == w.Len()+1 {
			counts = append(counts, count)
			total += uint64(count)
		}
		return true
	})
	if total == 0 {
		return 0
	}
	var h float64
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / float64(total)
		h -= p * math.Log(p)
	}
	return float32(h)
}

// cohesion computes the L-th root of count(w)/count(anchor), the
// geometric-mean conditional continuation probability anchored at a single
// code unit. Returns 0 for length < 2 or a zero-count anchor.
func cohesion(m *counter.OrderedMap, w, anchor ngramkey.Key) float32 {
	L := w.Len()
	if L < 2 {
		return 0
	}
	countW := m.Get(w)
	countAnchor := m.Get(anchor)
	if countAnchor == 0 || countW == 0 {
		return 0
	}
	ratio := float64(countW) / float64(countAnchor)
	return float32(math.Pow(ratio, 1.0/float64(L)))
}

// scoreCandidate computes all four sub-scores and the composite score for
// forward-key w (length >= 2), plus its decoded token-string form.
func scoreCandidate(dict *vocab.Dictionary, forward, backward *counter.OrderedMap, w ngramkey.Key, freq uint32) types.WordInfo {
	rev := w.Reversed()
	firstAnchor := ngramkey.New([]types.CodeUnit{w.Front()})
	lastAnchor := ngramkey.New([]types.CodeUnit{w.Back()})

	rBranch := branchingEntropy(forward, w)
	lBranch := branchingEntropy(backward, rev)
	rCohesion := cohesion(forward, w, firstAnchor)
	lCohesion := cohesion(backward, rev, lastAnchor)

	score := lBranch * rBranch * lCohesion * rCohesion

	units := w.Units()
	form := make([]string, len(units))
	for i, u := range units {
		form[i] = dict.StringOf(types.TokenID(u))
	}

	return types.WordInfo{
		Form:      form,
		Score:     score,
		LBranch:   lBranch,
		RBranch:   rBranch,
		LCohesion: lCohesion,
		RCohesion: rCohesion,
		Freq:      freq,
	}
}
