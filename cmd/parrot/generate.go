package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/CTAG07/parrot/pkg/markov"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/natefinch/atomic"
	"github.com/urfave/cli/v3"
)

func generateCmd(configPath *string) *cli.Command {
	var (
		file       string
		corpusName string
		length     int64
		seed       string
		randomSeed bool
		retries    int64
		randSeed   int64
		outPath    string
		asJSON     bool
		stream     bool
	)

	flags := sourceFlags(&file, &corpusName)
	flags = append(flags,
		&cli.Int64Flag{
			Name:        "length",
			Aliases:     []string{"n"},
			Usage:       "number of tokens to generate, including the seed",
			Destination: &length,
		},
		&cli.StringFlag{
			Name:        "seed",
			Aliases:     []string{"s"},
			Usage:       "two-token context to start from",
			Destination: &seed,
		},
		&cli.BoolFlag{Name: "random-seed", Usage: "start from a context picked uniformly from the model", Destination: &randomSeed},
		&cli.Int64Flag{
			Name:        "retries",
			Usage:       "reseed this many times when generation reaches an unknown context",
			Destination: &retries,
		},
		&cli.Int64Flag{
			Name:        "rand-seed",
			Usage:       "seed for the random source, for reproducible output",
			Destination: &randSeed,
		},
		&cli.StringFlag{
			Name:        "out",
			Aliases:     []string{"o"},
			Usage:       "write the generated text to this file instead of stdout",
			Destination: &outPath,
		},
		&cli.BoolFlag{Name: "json", Usage: "print the result as JSON", Destination: &asJSON},
		&cli.BoolFlag{Name: "stream", Usage: "print tokens as they are generated", Destination: &stream},
	)

	return &cli.Command{
		Name:  "generate",
		Usage: "Generate text from a corpus",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			config, err := LoadConfig(*configPath)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			logger := newLogger(os.Stderr, config.Server.LogLevel)
			defaults := config.Generation

			if !cmd.IsSet("length") {
				length = int64(defaults.Length)
			}
			if !cmd.IsSet("retries") {
				retries = int64(defaults.Retries)
			}
			if !cmd.IsSet("random-seed") && seed == "" {
				randomSeed = defaults.RandomSeed
			}
			if stream && (asJSON || outPath != "") {
				return cli.Exit("error: --stream cannot be combined with --json or --out", 1)
			}

			tok := markov.NewDefaultTokenizer()
			policy, err := seedPolicy(tok, seed, defaults.Seed, randomSeed)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			model, err := loadModel(ctx, config, file, corpusName, tok, logger)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: load model: %v", err), 1)
			}

			opts := []markov.GenerateOption{
				markov.WithSeedPolicy(policy),
				markov.WithRetries(int(retries)),
				markov.WithTokenizer(tok),
				markov.WithLogger(logger),
			}
			if cmd.IsSet("rand-seed") {
				opts = append(opts, markov.WithSource(markov.NewSource(uint64(randSeed))))
			}
			gen := markov.NewGenerator(model, opts...)

			if stream {
				return streamTokens(ctx, gen, int(length))
			}

			tokens, err := gen.Generate(ctx, int(length))
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: generate: %v", err), 1)
			}
			text := markov.Join(tok, tokens)

			var output string
			if asJSON {
				data, err := json.MarshalIndent(GenerateResponse{
					ID:     "gen-" + uuid.NewString(),
					Corpus: corpusName,
					Tokens: tokens,
					Text:   text,
				}, "", "  ")
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: encode result: %v", err), 1)
				}
				output = string(data) + "\n"
			} else {
				output = text + "\n"
			}

			if outPath != "" {
				if err := atomic.WriteFile(outPath, strings.NewReader(output)); err != nil {
					return cli.Exit(fmt.Sprintf("error: write output: %v", err), 1)
				}
				logger.Info("Generated text written", "path", outPath, "tokens", len(tokens))
				return nil
			}
			_, err = fmt.Fprint(cmd.Root().Writer, output)
			return err
		},
	}
}

// streamTokens writes tokens to stdout as the generator produces them.
func streamTokens(ctx context.Context, gen *markov.Generator, length int) error {
	tokens, err := gen.GenerateStream(ctx, length)
	if err != nil {
		return cli.Exit(fmt.Sprintf("error: generate: %v", err), 1)
	}

	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()
	for t := range tokens {
		if t.Err != nil {
			_ = w.Flush()
			fmt.Fprintln(os.Stdout)
			return cli.Exit(fmt.Sprintf("error: generate: %v", t.Err), 1)
		}
		w.WriteString(t.Separator)
		w.WriteString(t.Text)
		if t.Terminal {
			w.WriteString("\n")
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return ctx.Err()
}
