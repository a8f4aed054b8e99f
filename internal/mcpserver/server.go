// Package mcpserver exposes kword's extraction pipeline as MCP tools over
// stdio, for editor and agent integrations that want lexicon candidates
// without shelling out to the CLI. Built on mcp.NewServer plus per-tool
// AddTool registration, using github.com/modelcontextprotocol/go-sdk's
// typed AddTool, which infers the JSON input schema from the handler's
// argument struct via reflection instead of hand-written schema literals.
package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/kword/internal/config"
	"github.com/standardbeagle/kword/internal/corpus"
	"github.com/standardbeagle/kword/internal/debug"
	"github.com/standardbeagle/kword/internal/extract"
	"github.com/standardbeagle/kword/internal/tokenize"
	"github.com/standardbeagle/kword/internal/types"
	"github.com/standardbeagle/kword/internal/vocab"
	"github.com/standardbeagle/kword/internal/version"
)

// Server wraps an *mcp.Server configured with kword's tools. A Server
// tracks the token dictionary from its most recent extraction so
// dictionary_lookup can answer without re-running the pipeline.
type Server struct {
	mcp  *mcp.Server
	dict *vocab.Dictionary
}

// New builds a Server and registers kword's tools on it.
func New() *Server {
	s := &Server{}
	s.mcp = mcp.NewServer(&mcp.Implementation{
		Name:    "kword",
		Version: version.Version,
	}, nil)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "extract_words",
		Description: "Run the unsupervised word extractor over a corpus directory and return ranked candidate words with their statistical scores.",
	}, s.handleExtractWords)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "dictionary_lookup",
		Description: "Look up a token's id in the dictionary built by the most recent extract_words call.",
	}, s.handleDictionaryLookup)

	return s
}

// Run serves the MCP protocol over stdio until the transport closes or ctx
// is canceled. Debug output is suppressed while serving to keep stdio
// protocol-clean.
func (s *Server) Run(ctx context.Context) error {
	debug.SetMCPMode(true)
	defer debug.SetMCPMode(false)
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// ExtractWordsArgs is the input schema for the extract_words tool,
// inferred by the SDK via reflection over these JSON tags.
type ExtractWordsArgs struct {
	Root       string  `json:"root" jsonschema:"the corpus root directory to scan"`
	Include    string  `json:"include,omitempty" jsonschema:"doublestar include glob, default **/*.txt"`
	MinCnt     uint32  `json:"min_cnt,omitempty" jsonschema:"minimum occurrence count, default 10"`
	MaxWordLen int     `json:"max_word_len,omitempty" jsonschema:"maximum n-gram length, default 10"`
	MinScore   float64 `json:"min_score,omitempty" jsonschema:"composite score threshold, default 0.1"`
}

// WordResult is one emitted WordInfo, flattened for JSON transport.
type WordResult struct {
	Form      []string `json:"form"`
	Freq      uint32   `json:"freq"`
	Score     float64  `json:"score"`
	LBranch   float64  `json:"l_branch"`
	RBranch   float64  `json:"r_branch"`
	LCohesion float64  `json:"l_cohesion"`
	RCohesion float64  `json:"r_cohesion"`
}

// ExtractWordsResult is the extract_words tool's output payload.
type ExtractWordsResult struct {
	Words []WordResult `json:"words"`
}

func (s *Server) handleExtractWords(ctx context.Context, req *mcp.CallToolRequest, args ExtractWordsArgs) (*mcp.CallToolResult, ExtractWordsResult, error) {
	cfg := extract.DefaultConfig()
	if args.MinCnt > 0 {
		cfg.MinCnt = args.MinCnt
	}
	if args.MaxWordLen > 0 {
		cfg.MaxWordLen = args.MaxWordLen
	}
	if args.MinScore > 0 {
		cfg.MinScore = float32(args.MinScore)
	}

	include := []string{"**/*.txt"}
	if args.Include != "" {
		include = []string{args.Include}
	}

	reader, err := corpus.NewReader(config.Corpus{Root: args.Root, Include: include})
	if err != nil {
		return nil, ExtractWordsResult{}, fmt.Errorf("discovering corpus: %w", err)
	}

	ex, err := extract.New(cfg)
	if err != nil {
		return nil, ExtractWordsResult{}, err
	}

	words, dict, err := ex.ExtractWordsWithDictionary(ctx, reader, tokenize.CodeUnitTokenizer{})
	if err != nil {
		return nil, ExtractWordsResult{}, err
	}
	s.dict = dict

	result := ExtractWordsResult{Words: make([]WordResult, len(words))}
	for i, w := range words {
		result.Words[i] = WordResult{
			Form:      w.Form,
			Freq:      w.Freq,
			Score:     float64(w.Score),
			LBranch:   float64(w.LBranch),
			RBranch:   float64(w.RBranch),
			LCohesion: float64(w.LCohesion),
			RCohesion: float64(w.RCohesion),
		}
	}

	debug.LogMCP("extract_words: root=%s emitted=%d", args.Root, len(words))
	return nil, result, nil
}

// DictionaryLookupArgs is the input schema for dictionary_lookup.
type DictionaryLookupArgs struct {
	Token string `json:"token" jsonschema:"the token string to resolve"`
}

// DictionaryLookupResult is dictionary_lookup's output payload.
type DictionaryLookupResult struct {
	Found bool   `json:"found"`
	ID    uint32 `json:"id,omitempty"`
}

func (s *Server) handleDictionaryLookup(ctx context.Context, req *mcp.CallToolRequest, args DictionaryLookupArgs) (*mcp.CallToolResult, DictionaryLookupResult, error) {
	if s.dict == nil {
		return nil, DictionaryLookupResult{Found: false}, nil
	}
	id := s.dict.Get(args.Token)
	if id == types.NoToken {
		return nil, DictionaryLookupResult{Found: false}, nil
	}
	debug.LogMCP("dictionary_lookup: token=%q id=%d", args.Token, id)
	return nil, DictionaryLookupResult{Found: true, ID: uint32(id)}, nil
}
