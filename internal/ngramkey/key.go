// Package ngramkey implements the compact n-gram key used as the hot-path
// map key for the forward/backward count maps: an immutable sequence of
// code units of length 0..maxWordLen+1 with a small-buffer optimization so
// short n-grams (the overwhelming majority during scoring) never touch the
// heap. Grounded on the original KWordDetector's u16light (inline
// char16_t[7] union over a heap pointer+len), laid out as a fixed-size
// inline array plus a heap slice, discriminated by a length field, built at
// construction and never mutated.
package ngramkey

import "github.com/standardbeagle/kword/internal/types"

// inlineCap is the number of code units stored without allocation, the
// same inline capacity as the original, covering the overwhelming majority
// of candidate n-grams (maxWordLen defaults to 10, but most emitted words
// are 2-4 tokens). The Key struct itself (inline array, heap slice header
// and length) is 48 bytes on 64-bit targets.
const inlineCap = 7

// Key is an immutable, comparable-by-value sequence of code units.
// The zero Key is the empty sequence. Once constructed, a Key is never
// mutated; Append and Reversed return new values.
type Key struct {
	inline [inlineCap]types.CodeUnit
	heap   []types.CodeUnit
	n      int
}

// New builds a Key from a slice of code units. The slice is copied, so the
// caller may reuse or mutate it afterward.
func New(units []types.CodeUnit) Key {
	var k Key
	k.n = len(units)
	if k.n <= inlineCap {
		copy(k.inline[:], units)
	} else {
		k.heap = make([]types.CodeUnit, k.n)
		copy(k.heap, units)
	}
	return k
}

// Len returns the number of code units in the key.
func (k Key) Len() int { return k.n }

// Empty reports whether the key has zero code units.
func (k Key) Empty() bool { return k.n == 0 }

// slice returns a read-only view over the key's code units, inline or
// heap-backed as appropriate. The inline/heap split is invisible to
// callers past this point.
func (k Key) slice() []types.CodeUnit {
	if k.n <= inlineCap {
		return k.inline[:k.n]
	}
	return k.heap
}

// At returns the code unit at index i.
func (k Key) At(i int) types.CodeUnit { return k.slice()[i] }

// Front returns the first code unit. Panics on an empty key.
func (k Key) Front() types.CodeUnit { return k.slice()[0] }

// Back returns the last code unit. Panics on an empty key.
func (k Key) Back() types.CodeUnit { return k.slice()[k.n-1] }

// Units returns a copy of the key's code units, safe for the caller to
// retain or mutate.
func (k Key) Units() []types.CodeUnit {
	out := make([]types.CodeUnit, k.n)
	copy(out, k.slice())
	return out
}

// Append returns a new Key formed by appending one code unit.
func (k Key) Append(u types.CodeUnit) Key {
	out := make([]types.CodeUnit, k.n+1)
	copy(out, k.slice())
	out[k.n] = u
	return New(out)
}

// Reversed returns a new Key with the code-unit order reversed.
func (k Key) Reversed() Key {
	src := k.slice()
	out := make([]types.CodeUnit, k.n)
	for i, u := range src {
		out[k.n-1-i] = u
	}
	return New(out)
}

// Less reports strict lexicographic ordering: the standard "compare
// element by element, shorter-is-smaller-on-common-prefix" rule.
func (k Key) Less(o Key) bool {
	return Compare(k, o) < 0
}

// Compare returns -1, 0, or 1 following strict lexicographic order on the
// code-unit sequence, independent of inline-vs-heap storage.
func Compare(a, b Key) int {
	as, bs := a.slice(), b.slice()
	n := len(as)
	if len(bs) < n {
		n = len(bs)
	}
	for i := 0; i < n; i++ {
		if as[i] != bs[i] {
			if as[i] < bs[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(as) < len(bs):
		return -1
	case len(as) > len(bs):
		return 1
	default:
		return 0
	}
}

// Equal reports whether two keys have identical code-unit sequences.
func Equal(a, b Key) bool {
	return Compare(a, b) == 0
}

// HasPrefix reports whether other is a prefix of k (true when other is
// empty, and trivially true when k equals other).
func (k Key) HasPrefix(other Key) bool {
	if other.n > k.n {
		return false
	}
	os := other.slice()
	ks := k.slice()
	for i, u := range os {
		if ks[i] != u {
			return false
		}
	}
	return true
}
