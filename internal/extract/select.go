package extract

import (
	"github.com/standardbeagle/kword/internal/counter"
	"github.com/standardbeagle/kword/internal/ngramkey"
	"github.com/standardbeagle/kword/internal/types"
	"github.com/standardbeagle/kword/internal/vocab"
)

// selectWords implements the extraction procedure: walk
// forwardCnt, score every key of length 2..=MaxWordLen with count >=
// MinCnt, suppress candidates that are a strict prefix of a strictly
// higher-scoring longer candidate, then drop anything below MinScore. Tied
// scores do not suppress: a zero-successor boundary (common at a
// maxWordLen cap) would otherwise mark every maximal-length candidate's
// own prefixes as dominated, which scenario S1 of the test suite rules out.
func (e *Extractor) selectWords(dict *vocab.Dictionary, pass3 *counter.Counter) []types.WordInfo {
	forward, backward := pass3.Forward, pass3.Backward

	type candidate struct {
		key       ngramkey.Key
		info      types.WordInfo
		dominated bool
	}

	var candidates []candidate
	n := forward.Len()
	for i := 0; i < n; i++ {
		key, freq := forward.At(i)
		L := key.Len()
		if L < 2 || L > e.cfg.MaxWordLen {
			continue
		}
		if freq < e.cfg.MinCnt {
			continue
		}
		info := scoreCandidate(dict, forward, backward, key, freq)
		candidates = append(candidates, candidate{key: key, info: info})
	}

	for i := range candidates {
		c := &candidates[i]
		forward.RangeWithPrefix(c.key, func(k ngramkey.Key, cnt uint32) bool {
			if ngramkey.Equal(k, c.key) {
				return true
			}
			if k.Len() <= c.key.Len() || k.Len() > e.cfg.MaxWordLen {
				return true
			}
			if cnt < e.cfg.MinCnt {
				return true
			}
			extInfo := scoreCandidate(dict, forward, backward, k, cnt)
			if extInfo.Score > c.info.Score {
				c.dominated = true
				return false
			}
			return true
		})
	}

	var out []types.WordInfo
	for _, c := range candidates {
		if c.dominated {
			continue
		}
		if c.info.Score < e.cfg.MinScore {
			continue
		}
		out = append(out, c.info)
	}
	return out
}
