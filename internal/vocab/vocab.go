// Package vocab implements the thread-safe token dictionary shared by every
// worker in a pass: a bidirectional string<->id map assigning dense ids in
// first-insertion order, grounded on the original C++ WordDictionary
// (original_source/utils.h). Ids are stable for the run and never reused.
package vocab

import (
	"bufio"
	"encoding/binary"
	"io"
	"sync"

	"github.com/cespare/xxhash/v2"

	kworderrors "github.com/standardbeagle/kword/internal/errors"
	"github.com/standardbeagle/kword/internal/types"
)

// Dictionary assigns dense TokenIDs to token strings in first-insertion
// order. Safe for concurrent use by multiple scan workers.
type Dictionary struct {
	mu      sync.Mutex
	word2id map[uint64][]entry
	id2word []string
}

type entry struct {
	word string
	id   types.TokenID
}

// New creates an empty dictionary.
func New() *Dictionary {
	return &Dictionary{word2id: make(map[uint64][]entry)}
}

// hashOf returns the xxhash bucket key for word. Buckets hold a small
// slice of entries to resolve collisions, since xxhash is not collision-free.
func hashOf(word string) uint64 {
	return xxhash.Sum64String(word)
}

// lookupLocked finds word's id under an already-held lock. Returns
// types.NoToken if absent.
func (d *Dictionary) lookupLocked(word string) types.TokenID {
	h := hashOf(word)
	for _, e := range d.word2id[h] {
		if e.word == word {
			return e.id
		}
	}
	return types.NoToken
}

// addLocked inserts word under an already-held lock and returns its new id.
// Caller must have already verified word is absent.
func (d *Dictionary) addLocked(word string) types.TokenID {
	id := types.TokenID(len(d.id2word))
	d.id2word = append(d.id2word, word)
	h := hashOf(word)
	d.word2id[h] = append(d.word2id[h], entry{word: word, id: id})
	return id
}

// GetOrAdd returns word's id, assigning a new one if word has not been seen.
func (d *Dictionary) GetOrAdd(word string) types.TokenID {
	d.mu.Lock()
	defer d.mu.Unlock()
	if id := d.lookupLocked(word); id != types.NoToken {
		return id
	}
	return d.addLocked(word)
}

// GetOrAddMany resolves a batch of words under a single lock acquisition,
// matching the original WordDictionary::getOrAdds batching (a whole
// document's tokens resolved per lock, not one lock per token).
func (d *Dictionary) GetOrAddMany(words []string) []types.TokenID {
	d.mu.Lock()
	defer d.mu.Unlock()
	ids := make([]types.TokenID, len(words))
	for i, w := range words {
		if id := d.lookupLocked(w); id != types.NoToken {
			ids[i] = id
			continue
		}
		ids[i] = d.addLocked(w)
	}
	return ids
}

// Get returns word's id without inserting, or types.NoToken if absent.
func (d *Dictionary) Get(word string) types.TokenID {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lookupLocked(word)
}

// StringOf returns the word assigned to id. Panics on out-of-range id, since
// a valid id can only come from this dictionary.
func (d *Dictionary) StringOf(id types.TokenID) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.id2word[id]
}

// Len returns the number of distinct tokens recorded so far.
func (d *Dictionary) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.id2word)
}

// WriteTo serializes the dictionary in the original format: a u32 vocab
// size followed by, per word, a u32 byte length and the raw bytes. Uses
// host byte order, matching the original's raw struct write/read. Portable
// round-tripping across architectures needs WriteToPortable instead.
func (d *Dictionary) WriteTo(w io.Writer) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	bw := bufio.NewWriter(w)
	var written int64

	if err := binary.Write(bw, binary.NativeEndian, uint32(len(d.id2word))); err != nil {
		return written, kworderrors.NewDictionaryError("WriteTo", err)
	}
	written += 4

	for _, word := range d.id2word {
		b := []byte(word)
		if err := binary.Write(bw, binary.NativeEndian, uint32(len(b))); err != nil {
			return written, kworderrors.NewDictionaryError("WriteTo", err)
		}
		written += 4
		n, err := bw.Write(b)
		written += int64(n)
		if err != nil {
			return written, kworderrors.NewDictionaryError("WriteTo", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return written, kworderrors.NewDictionaryError("WriteTo", err)
	}
	return written, nil
}

// ReadFrom replaces the dictionary's contents with a stream written by
// WriteTo. Host byte order; see ReadFromPortable for the portable form.
func (d *Dictionary) ReadFrom(r io.Reader) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	br := bufio.NewReader(r)
	var read int64

	var vocabSize uint32
	if err := binary.Read(br, binary.NativeEndian, &vocabSize); err != nil {
		return read, kworderrors.NewDictionaryError("ReadFrom", err)
	}
	read += 4

	id2word := make([]string, vocabSize)
	word2id := make(map[uint64][]entry, vocabSize)
	for i := range id2word {
		var wordLen uint32
		if err := binary.Read(br, binary.NativeEndian, &wordLen); err != nil {
			return read, kworderrors.NewDictionaryError("ReadFrom", err)
		}
		read += 4
		buf := make([]byte, wordLen)
		n, err := io.ReadFull(br, buf)
		read += int64(n)
		if err != nil {
			return read, kworderrors.NewDictionaryError("ReadFrom", err)
		}
		word := string(buf)
		id2word[i] = word
		h := hashOf(word)
		word2id[h] = append(word2id[h], entry{word: word, id: types.TokenID(i)})
	}

	d.id2word = id2word
	d.word2id = word2id
	return read, nil
}

// WriteToPortable serializes the dictionary using explicit little-endian
// framing, so a dictionary written on one architecture can be read on
// another.
func (d *Dictionary) WriteToPortable(w io.Writer) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	bw := bufio.NewWriter(w)
	var written int64

	if err := binary.Write(bw, binary.LittleEndian, uint32(len(d.id2word))); err != nil {
		return written, kworderrors.NewDictionaryError("WriteToPortable", err)
	}
	written += 4

	for _, word := range d.id2word {
		b := []byte(word)
		if err := binary.Write(bw, binary.LittleEndian, uint32(len(b))); err != nil {
			return written, kworderrors.NewDictionaryError("WriteToPortable", err)
		}
		written += 4
		n, err := bw.Write(b)
		written += int64(n)
		if err != nil {
			return written, kworderrors.NewDictionaryError("WriteToPortable", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return written, kworderrors.NewDictionaryError("WriteToPortable", err)
	}
	return written, nil
}

// ReadFromPortable reads a stream written by WriteToPortable.
func (d *Dictionary) ReadFromPortable(r io.Reader) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	br := bufio.NewReader(r)
	var read int64

	var vocabSize uint32
	if err := binary.Read(br, binary.LittleEndian, &vocabSize); err != nil {
		return read, kworderrors.NewDictionaryError("ReadFromPortable", err)
	}
	read += 4

	id2word := make([]string, vocabSize)
	word2id := make(map[uint64][]entry, vocabSize)
	for i := range id2word {
		var wordLen uint32
		if err := binary.Read(br, binary.LittleEndian, &wordLen); err != nil {
			return read, kworderrors.NewDictionaryError("ReadFromPortable", err)
		}
		read += 4
		buf := make([]byte, wordLen)
		n, err := io.ReadFull(br, buf)
		read += int64(n)
		if err != nil {
			return read, kworderrors.NewDictionaryError("ReadFromPortable", err)
		}
		word := string(buf)
		id2word[i] = word
		h := hashOf(word)
		word2id[h] = append(word2id[h], entry{word: word, id: types.TokenID(i)})
	}

	d.id2word = id2word
	d.word2id = word2id
	return read, nil
}
