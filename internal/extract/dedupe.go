package extract

import (
	"unicode/utf16"

	"github.com/hbollon/go-edlib"

	"github.com/standardbeagle/kword/internal/tokenize"
	"github.com/standardbeagle/kword/internal/types"
)

// decodeForm renders a WordInfo's token-string form back into the human
// text it represents, by decoding each 2-byte code-unit token and
// recombining the UTF-16 sequence. Used only by the optional
// near-duplicate merge pass below; the forward/backward maps and scoring
// never need this, since they operate on token sequences directly.
func decodeForm(form []string) string {
	units := make([]uint16, len(form))
	for i, tok := range form {
		units[i] = tokenize.DecodeCodeUnit(tok)
	}
	return string(utf16.Decode(units))
}

// frequenciesOverlap reports whether freq a and b are close enough that a
// and b plausibly denote the same underlying word rather than two
// unrelated candidates that happen to be edit-distance neighbors: neither
// may outnumber the other by more than 2x.
func frequenciesOverlap(a, b uint32) bool {
	if a == 0 || b == 0 {
		return false
	}
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	return hi <= lo*2
}

// mergeNearDuplicates folds a candidate into a near-identical, higher
// scoring one: pairs whose decoded forms sit at Damerau-Levenshtein
// distance <= 1 and whose frequencies overlap are treated as the same
// word observed with a transcription variant, and only the higher scoring
// member survives. This is purely additive over the surviving set
// selectWords already produced. It never resurrects a candidate that
// selectWords dropped, and it never drops a candidate that has no
// near-identical sibling.
func mergeNearDuplicates(words []types.WordInfo) []types.WordInfo {
	if len(words) < 2 {
		return words
	}

	texts := make([]string, len(words))
	for i, w := range words {
		texts[i] = decodeForm(w.Form)
	}

	dropped := make([]bool, len(words))
	for i := range words {
		if dropped[i] {
			continue
		}
		for j := i + 1; j < len(words); j++ {
			if dropped[j] {
				continue
			}
			if edlib.DamerauLevenshteinDistance(texts[i], texts[j]) > 1 {
				continue
			}
			if !frequenciesOverlap(words[i].Freq, words[j].Freq) {
				continue
			}
			if words[i].Score >= words[j].Score {
				dropped[j] = true
			} else {
				dropped[i] = true
				break
			}
		}
	}

	merged := make([]types.WordInfo, 0, len(words))
	for i, w := range words {
		if !dropped[i] {
			merged = append(merged, w)
		}
	}
	return merged
}
