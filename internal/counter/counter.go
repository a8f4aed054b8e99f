package counter

import (
	"github.com/standardbeagle/kword/internal/ngramkey"
	"github.com/standardbeagle/kword/internal/types"
)

// BigramKey is a candidate-bigram identity: the low 16 bits of two token
// ids, narrowed per the C++ detector's pair<uint16_t, uint16_t>.
// Vocabularies beyond 65536 distinct tokens alias, a tradeoff carried over
// unchanged.
type BigramKey struct {
	Left, Right uint16
}

// Counter is one pass's accumulator: unigram frequencies indexed by token
// id, the set of token-id pairs promoted to bigram candidates after the
// first pass's pruning, and the forward/backward n-gram count maps scoring
// walks over. One Counter exists per scan worker during a pass; Merge
// combines worker-local counters into the pass total. Grounded on the
// original KWordDetector::Counter (chrDict/cntUnigram/candBigram/
// forwardCnt/backwardCnt).
type Counter struct {
	Unigram    []uint32
	CandBigram map[BigramKey]struct{}
	Forward    *OrderedMap
	Backward   *OrderedMap
}

// New creates an empty Counter sized for vocabSize distinct tokens.
func New(vocabSize int) *Counter {
	return &Counter{
		Unigram:    make([]uint32, vocabSize),
		CandBigram: make(map[BigramKey]struct{}),
		Forward:    NewOrderedMap(),
		Backward:   NewOrderedMap(),
	}
}

// GrowUnigram extends Unigram so index id is addressable, used when the
// dictionary grows mid-pass (a worker discovers a token no earlier worker
// has seen).
func (c *Counter) GrowUnigram(id types.TokenID) {
	if int(id) < len(c.Unigram) {
		return
	}
	grown := make([]uint32, id+1)
	copy(grown, c.Unigram)
	c.Unigram = grown
}

// AddUnigram increments the frequency of token id by one.
func (c *Counter) AddUnigram(id types.TokenID) {
	c.GrowUnigram(id)
	c.Unigram[id]++
}

// AddBigramCandidate records (left, right) as a bigram worth tracking
// during the n-gram pass. Token ids are narrowed to their low 16 bits,
// matching the original's uint16_t pair.
func (c *Counter) AddBigramCandidate(left, right types.TokenID) {
	c.CandBigram[BigramKey{Left: uint16(left), Right: uint16(right)}] = struct{}{}
}

// HasBigramCandidate reports whether (left, right) was promoted after the
// candidate-bigram pass.
func (c *Counter) HasBigramCandidate(left, right types.TokenID) bool {
	_, ok := c.CandBigram[BigramKey{Left: uint16(left), Right: uint16(right)}]
	return ok
}

// AddForward increments the forward n-gram map's count for key.
func (c *Counter) AddForward(key ngramkey.Key, delta uint32) { c.Forward.Inc(key, delta) }

// AddBackward increments the backward n-gram map's count for key.
func (c *Counter) AddBackward(key ngramkey.Key, delta uint32) { c.Backward.Inc(key, delta) }

// Merge folds other into c: unigrams add elementwise, candidate bigrams
// union, and forward/backward maps add by key. The result does not depend
// on merge order: elementwise addition and set union
// are both commutative and associative.
func (c *Counter) Merge(other *Counter) {
	if len(other.Unigram) > len(c.Unigram) {
		c.GrowUnigram(types.TokenID(len(other.Unigram) - 1))
	}
	for id, cnt := range other.Unigram {
		c.Unigram[id] += cnt
	}
	for k := range other.CandBigram {
		c.CandBigram[k] = struct{}{}
	}
	c.Forward.Merge(other.Forward)
	c.Backward.Merge(other.Backward)
}

// MergeAll combines a slice of per-worker counters into one, in index
// order. Used at the end of a scan pass once all workers have finished.
func MergeAll(counters []*Counter, vocabSize int) *Counter {
	merged := New(vocabSize)
	for _, c := range counters {
		if c == nil {
			continue
		}
		merged.Merge(c)
	}
	return merged
}
