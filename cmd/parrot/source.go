package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/CTAG07/parrot/pkg/markov"
	"github.com/urfave/cli/v3"
)

// sourceFlags returns the flags selecting where a command reads its corpus from.
func sourceFlags(file, corpusName *string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "file",
			Aliases:     []string{"f"},
			Usage:       "read the corpus from a text file (\"-\" for stdin)",
			Destination: file,
		},
		&cli.StringFlag{
			Name:        "corpus",
			Usage:       "use a corpus stored in the database",
			Destination: corpusName,
		},
	}
}

// loadModel builds a model from exactly one of a file or a stored corpus.
func loadModel(ctx context.Context, config *Config, file, corpusName string, tok markov.Tokenizer, logger *slog.Logger) (*markov.Model, error) {
	switch {
	case file != "" && corpusName != "":
		return nil, errors.New("--file and --corpus are mutually exclusive")
	case file != "":
		var r io.Reader = os.Stdin
		if file != "-" {
			f, err := os.Open(file)
			if err != nil {
				return nil, fmt.Errorf("failed to open corpus file: %w", err)
			}
			defer f.Close()
			r = f
		}
		return markov.BuildFrom(tok, r)
	case corpusName != "":
		db, store, err := openStore(config.Server.DatabasePath, logger)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		defer store.Close()

		r, err := store.Open(ctx, corpusName)
		if err != nil {
			return nil, fmt.Errorf("failed to open corpus '%s': %w", corpusName, err)
		}
		return markov.BuildFrom(tok, r)
	default:
		return nil, errors.New("one of --file or --corpus is required")
	}
}
