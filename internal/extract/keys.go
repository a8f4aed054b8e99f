package extract

import (
	"strconv"

	"github.com/standardbeagle/kword/internal/ngramkey"
	"github.com/standardbeagle/kword/internal/types"
)

// codeUnitOf narrows a token id to the low 16 bits used as the n-gram key's
// code unit. Vocabularies beyond 65536 distinct tokens alias here; this is
// the same 16-bit narrowing BigramKey uses, kept deliberately rather than
// silently widened.
func codeUnitOf(id types.TokenID) types.CodeUnit { return types.CodeUnit(id) }

func unitKey1(id types.TokenID) ngramkey.Key {
	return ngramkey.New([]types.CodeUnit{codeUnitOf(id)})
}

func windowKey(ids []types.TokenID) ngramkey.Key {
	units := make([]types.CodeUnit, len(ids))
	for i, id := range ids {
		units[i] = codeUnitOf(id)
	}
	return ngramkey.New(units)
}

func reversedWindowKey(ids []types.TokenID) ngramkey.Key {
	units := make([]types.CodeUnit, len(ids))
	n := len(ids)
	for i, id := range ids {
		units[n-1-i] = codeUnitOf(id)
	}
	return ngramkey.New(units)
}

func itoa(v int) string       { return strconv.Itoa(v) }
func utoa(v uint32) string    { return strconv.FormatUint(uint64(v), 10) }
func ftoa(v float32) string   { return strconv.FormatFloat(float64(v), 'g', -1, 32) }
