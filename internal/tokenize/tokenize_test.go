package tokenize

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSliceReaderTerminatesOnEmpty(t *testing.T) {
	r := SliceReader{Docs: []string{"a", "b"}}

	doc, err := r.Read(0)
	require.NoError(t, err)
	assert.Equal(t, "a", doc)

	doc, err = r.Read(2)
	require.NoError(t, err)
	assert.Equal(t, "", doc)
}

func TestSliceReaderRestartableByIndex(t *testing.T) {
	r := SliceReader{Docs: []string{"a", "b", "c"}}

	first, _ := r.Read(1)
	second, _ := r.Read(1)
	assert.Equal(t, first, second)
}

func TestFileLineReader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corpus.txt")
	require.NoError(t, os.WriteFile(path, []byte("line one\nline two\nline three\n"), 0644))

	r, err := NewFileLineReader(path)
	require.NoError(t, err)

	doc, err := r.Read(0)
	require.NoError(t, err)
	assert.Equal(t, "line one", doc)

	doc, err = r.Read(2)
	require.NoError(t, err)
	assert.Equal(t, "line three", doc)

	doc, err = r.Read(3)
	require.NoError(t, err)
	assert.Equal(t, "", doc)

	// restartable
	doc, err = r.Read(0)
	require.NoError(t, err)
	assert.Equal(t, "line one", doc)
}

func TestCodeUnitTokenizerSplitsEachUnit(t *testing.T) {
	tok := CodeUnitTokenizer{}
	tokens, err := tok.Tokenize("ab")
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, "a", string(rune(DecodeCodeUnit(tokens[0]))))
	assert.Equal(t, "b", string(rune(DecodeCodeUnit(tokens[1]))))
}

func TestCodeUnitTokenizerEmptyDocument(t *testing.T) {
	tok := CodeUnitTokenizer{}
	tokens, err := tok.Tokenize("")
	require.NoError(t, err)
	assert.Empty(t, tokens)
}

func TestCodeUnitTokenizerSurrogatePairNotRecombined(t *testing.T) {
	tok := CodeUnitTokenizer{}
	// U+1F600 requires a surrogate pair in UTF-16: two independent tokens.
	tokens, err := tok.Tokenize("\U0001F600")
	require.NoError(t, err)
	assert.Len(t, tokens, 2)
	assert.NotEqual(t, tokens[0], tokens[1])
}

func TestEncodeDecodeCodeUnitRoundTrips(t *testing.T) {
	for _, u := range []uint16{0, 1, 0x61, 0xD800, 0xFFFF} {
		assert.Equal(t, u, uint16(DecodeCodeUnit(EncodeCodeUnit(u))))
	}
}

func TestTokenizerFuncAdapter(t *testing.T) {
	var tok Tokenizer = TokenizerFunc(func(doc string) ([]string, error) {
		return []string{doc}, nil
	})
	tokens, err := tok.Tokenize("x")
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, tokens)
}
