package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/kword/internal/config"
	"github.com/standardbeagle/kword/internal/corpus"
	"github.com/standardbeagle/kword/internal/debug"
	"github.com/standardbeagle/kword/internal/extract"
	"github.com/standardbeagle/kword/internal/mcpserver"
	"github.com/standardbeagle/kword/internal/tokenize"
	"github.com/standardbeagle/kword/internal/version"
)

// loadConfigWithOverrides loads configuration for root and applies CLI flag
// overrides on top of whatever .kword.kdl/.kword.toml supplied.
func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	root := c.String("root")
	if root == "" {
		root = "."
	}

	cfg, err := config.Load(root)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", root, err)
	}

	if v := c.Uint("min-cnt"); v > 0 {
		cfg.MinCnt = uint32(v)
	}
	if v := c.Int("max-word-len"); v > 0 {
		cfg.MaxWordLen = v
	}
	if v := c.Float64("min-score"); c.IsSet("min-score") {
		cfg.MinScore = float32(v)
	}
	if v := c.Int("threads"); v > 0 {
		cfg.NumThread = v
	}
	if includes := c.StringSlice("include"); len(includes) > 0 {
		cfg.Corpus.Include = includes
	}
	if excludes := c.StringSlice("exclude"); len(excludes) > 0 {
		cfg.Corpus.Exclude = append(cfg.Corpus.Exclude, excludes...)
	}

	return cfg, nil
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "root", Aliases: []string{"r"}, Usage: "corpus root directory", Value: "."},
		&cli.UintFlag{Name: "min-cnt", Usage: "minimum occurrence count"},
		&cli.IntFlag{Name: "max-word-len", Usage: "maximum n-gram length"},
		&cli.Float64Flag{Name: "min-score", Usage: "composite score threshold"},
		&cli.IntFlag{Name: "threads", Aliases: []string{"j"}, Usage: "worker count (0 = hardware parallelism)"},
		&cli.StringSliceFlag{Name: "include", Usage: "doublestar include glob (repeatable)"},
		&cli.StringSliceFlag{Name: "exclude", Usage: "doublestar exclude glob (repeatable)"},
		&cli.BoolFlag{Name: "merge-near-duplicates", Usage: "fold near-identical lower-scoring candidates into their higher-scoring sibling"},
	}
}

func extractCommand() *cli.Command {
	return &cli.Command{
		Name:  "extract",
		Usage: "Run the word extractor over a corpus and print ranked candidates as JSON",
		Flags: commonFlags(),
		Action: func(c *cli.Context) error {
			cfg, err := loadConfigWithOverrides(c)
			if err != nil {
				return err
			}

			reader, err := corpus.NewReader(cfg.Corpus)
			if err != nil {
				return fmt.Errorf("discovering corpus: %w", err)
			}

			extractor, err := extract.New(extract.Config{
				MinCnt:              cfg.MinCnt,
				MaxWordLen:          cfg.MaxWordLen,
				MinScore:            cfg.MinScore,
				NumThread:           cfg.NumThread,
				MergeNearDuplicates: c.Bool("merge-near-duplicates"),
			})
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()

			words, err := extractor.ExtractWords(ctx, reader, tokenize.CodeUnitTokenizer{})
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(words)
		},
	}
}

func dictCommand() *cli.Command {
	return &cli.Command{
		Name:  "dict",
		Usage: "Inspect or verify a serialized token dictionary",
		Subcommands: []*cli.Command{
			{
				Name:      "inspect",
				Usage:     "Print the vocabulary size and token list of a dictionary file",
				ArgsUsage: "<path>",
				Action:    dictInspectAction,
			},
			{
				Name:      "verify",
				Usage:     "Round-trip a dictionary file through ReadFrom/WriteTo and confirm it matches",
				ArgsUsage: "<path>",
				Action:    dictVerifyAction,
			},
		},
	}
}

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Serve kword's tools over the Model Context Protocol (stdio)",
		Action: func(c *cli.Context) error {
			ctx, cancel := signalContext()
			defer cancel()
			return mcpserver.New().Run(ctx)
		},
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func main() {
	app := &cli.App{
		Name:                   "kword",
		Usage:                  "Unsupervised lexicon bootstrapper for agglutinative-script corpora",
		Version:                version.Version,
		UseShortOptionHandling: true,
		Commands: []*cli.Command{
			extractCommand(),
			dictCommand(),
			mcpCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		debug.CatastrophicError("%v", err)
		fmt.Fprintln(os.Stderr, "kword:", err)
		os.Exit(1)
	}
}
