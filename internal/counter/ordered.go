// Package counter implements the per-pass accumulators: unigram
// frequencies, candidate-bigram membership, and the forward/backward n-gram
// count maps that branching entropy and cohesion are computed over.
// Grounded on the original C++ KWordDetector::Counter (candBigram,
// forwardCnt, backwardCnt), using a lazy-sort-then-binary-search ordered
// map to maintain prefix locality without re-sorting on every insert.
package counter

import (
	"sort"

	"github.com/standardbeagle/kword/internal/ngramkey"
)

// OrderedMap is a key -> count map over ngramkey.Key that supports, in
// addition to point lookup/update, range queries over all keys sharing a
// prefix: a sorted map satisfies this directly. Inserts go to
// an unsorted tail; the tail is merged into the sorted head lazily, on the
// first query after a batch of inserts, so bulk counting passes pay one
// sort instead of one insertion-sort step per insert.
type OrderedMap struct {
	sorted []pair
	tail   []pair
	index  map[string]int // key bytes -> position in tail, for O(1) increment before a flush
}

type pair struct {
	key   ngramkey.Key
	count uint32
}

// NewOrderedMap creates an empty OrderedMap.
func NewOrderedMap() *OrderedMap {
	return &OrderedMap{index: make(map[string]int)}
}

func keyBytes(k ngramkey.Key) string {
	units := k.Units()
	b := make([]byte, len(units)*2)
	for i, u := range units {
		b[2*i] = byte(u)
		b[2*i+1] = byte(u >> 8)
	}
	return string(b)
}

// Inc increments key's count by delta, adding it with count delta if absent.
func (m *OrderedMap) Inc(key ngramkey.Key, delta uint32) {
	kb := keyBytes(key)
	if pos, ok := m.index[kb]; ok {
		m.tail[pos].count += delta
		return
	}
	// also check the already-sorted head via binary search, so repeated
	// Inc calls against old keys don't pile up duplicate tail entries.
	if i, found := m.findSorted(key); found {
		m.sorted[i].count += delta
		return
	}
	m.index[kb] = len(m.tail)
	m.tail = append(m.tail, pair{key: key, count: delta})
}

// findSorted returns the index of key within the sorted head, if present.
func (m *OrderedMap) findSorted(key ngramkey.Key) (int, bool) {
	i := sort.Search(len(m.sorted), func(i int) bool {
		return !m.sorted[i].key.Less(key)
	})
	if i < len(m.sorted) && ngramkey.Equal(m.sorted[i].key, key) {
		return i, true
	}
	return i, false
}

// flush merges the unsorted tail into the sorted head. Subsequent queries
// (Get, Len, Range, At) call this first so they always observe a fully
// sorted structure; Inc defers it so repeated increments during a hot pass
// stay O(1) amortized instead of O(log n) per call.
func (m *OrderedMap) flush() {
	if len(m.tail) == 0 {
		return
	}
	m.sorted = append(m.sorted, m.tail...)
	sort.Slice(m.sorted, func(i, j int) bool { return m.sorted[i].key.Less(m.sorted[j].key) })
	// Merge adjacent duplicates that can arise when a tail key also existed
	// in the sorted head under a different tail slot added before the
	// binary-search fast path found it.
	out := m.sorted[:0]
	for _, p := range m.sorted {
		if len(out) > 0 && ngramkey.Equal(out[len(out)-1].key, p.key) {
			out[len(out)-1].count += p.count
			continue
		}
		out = append(out, p)
	}
	m.sorted = out
	m.tail = nil
	m.index = make(map[string]int)
}

// Get returns key's count, or 0 if absent.
func (m *OrderedMap) Get(key ngramkey.Key) uint32 {
	m.flush()
	if i, found := m.findSorted(key); found {
		return m.sorted[i].count
	}
	return 0
}

// Len returns the number of distinct keys.
func (m *OrderedMap) Len() int {
	m.flush()
	return len(m.sorted)
}

// At returns the key/count pair at sorted position i.
func (m *OrderedMap) At(i int) (ngramkey.Key, uint32) {
	m.flush()
	p := m.sorted[i]
	return p.key, p.count
}

// IndexOf returns the sorted position at which key is found or would be
// inserted, and whether it is actually present: the building block for
// branching-entropy's successor-range walk.
func (m *OrderedMap) IndexOf(key ngramkey.Key) (int, bool) {
	m.flush()
	return m.findSorted(key)
}

// RangeWithPrefix calls fn for every key sharing the given prefix, in
// sorted order, stopping early if fn returns false. Used to enumerate all
// successors of a candidate word when computing branching entropy.
func (m *OrderedMap) RangeWithPrefix(prefix ngramkey.Key, fn func(key ngramkey.Key, count uint32) bool) {
	m.flush()
	start := sort.Search(len(m.sorted), func(i int) bool {
		return !m.sorted[i].key.Less(prefix)
	})
	for i := start; i < len(m.sorted); i++ {
		if !m.sorted[i].key.HasPrefix(prefix) {
			break
		}
		if !fn(m.sorted[i].key, m.sorted[i].count) {
			return
		}
	}
}

// Merge adds all of other's counts into m. Commutative and associative:
// Merge(a, b) followed by Merge(result, c) yields the same map as any other
// merge order, since it reduces to elementwise addition over the union of
// keys.
func (m *OrderedMap) Merge(other *OrderedMap) {
	other.flush()
	for _, p := range other.sorted {
		m.Inc(p.key, p.count)
	}
}
