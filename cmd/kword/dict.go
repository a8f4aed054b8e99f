package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/kword/internal/tokenize"
	"github.com/standardbeagle/kword/internal/types"
	"github.com/standardbeagle/kword/internal/vocab"
)

// loadDictionary reads a dictionary file written by vocab.Dictionary.WriteTo
// (host-native framing) from path.
func loadDictionary(path string) (*vocab.Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	dict := vocab.New()
	if _, err := dict.ReadFrom(f); err != nil {
		return nil, fmt.Errorf("reading dictionary from %s: %w", path, err)
	}
	return dict, nil
}

func dictInspectAction(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return cli.Exit("dict inspect requires a <path> argument", 1)
	}

	dict, err := loadDictionary(path)
	if err != nil {
		return err
	}

	fmt.Printf("vocabulary size: %d\n", dict.Len())
	for id := 0; id < dict.Len(); id++ {
		token := dict.StringOf(types.TokenID(id))
		fmt.Printf("%6d  U+%04X\n", id, tokenize.DecodeCodeUnit(token))
	}
	return nil
}

func dictVerifyAction(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return cli.Exit("dict verify requires a <path> argument", 1)
	}

	dict, err := loadDictionary(path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if _, err := dict.WriteTo(&buf); err != nil {
		return fmt.Errorf("re-serializing dictionary: %w", err)
	}

	roundTripped := vocab.New()
	if _, err := roundTripped.ReadFrom(bytes.NewReader(buf.Bytes())); err != nil {
		return fmt.Errorf("re-reading round-tripped dictionary: %w", err)
	}

	if roundTripped.Len() != dict.Len() {
		return cli.Exit(fmt.Sprintf("round trip mismatch: %d tokens became %d", dict.Len(), roundTripped.Len()), 1)
	}
	for id := 0; id < dict.Len(); id++ {
		want := dict.StringOf(types.TokenID(id))
		got := roundTripped.StringOf(types.TokenID(id))
		if want != got {
			return cli.Exit(fmt.Sprintf("round trip mismatch at id %d", id), 1)
		}
	}

	fmt.Printf("ok: %s round-trips cleanly (%d tokens)\n", path, dict.Len())
	return nil
}
