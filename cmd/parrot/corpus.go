package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/CTAG07/parrot/pkg/corpus"
	"github.com/urfave/cli/v3"
)

func corpusCmd(configPath *string) *cli.Command {
	return &cli.Command{
		Name:  "corpus",
		Usage: "Manage corpora stored in the database",
		Commands: []*cli.Command{
			corpusAddCmd(configPath),
			corpusListCmd(configPath),
			corpusShowCmd(configPath),
			corpusRemoveCmd(configPath),
		},
	}
}

// withStore loads the config, opens the corpus store and passes it to fn.
func withStore(ctx context.Context, configPath string, fn func(context.Context, *corpus.Store) error) error {
	config, err := LoadConfig(configPath)
	if err != nil {
		return cli.Exit(fmt.Sprintf("error: %v", err), 1)
	}
	logger := newLogger(os.Stderr, config.Server.LogLevel)
	db, store, err := openStore(config.Server.DatabasePath, logger)
	if err != nil {
		return cli.Exit(fmt.Sprintf("error: %v", err), 1)
	}
	defer db.Close()
	defer store.Close()
	return fn(ctx, store)
}

func corpusAddCmd(configPath *string) *cli.Command {
	var file string

	return &cli.Command{
		Name:      "add",
		Usage:     "Store a text file as a named corpus, replacing any existing one",
		ArgsUsage: "<name>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "file",
				Aliases:     []string{"f"},
				Usage:       "text file to store (\"-\" for stdin)",
				Required:    true,
				Destination: &file,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			name := cmd.Args().First()
			if name == "" {
				return cli.Exit("error: corpus name is required", 1)
			}
			var r io.Reader = os.Stdin
			if file != "-" {
				f, err := os.Open(file)
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: open corpus file: %v", err), 1)
				}
				defer f.Close()
				r = f
			}
			return withStore(ctx, *configPath, func(ctx context.Context, store *corpus.Store) error {
				if err := store.Put(ctx, name, r); err != nil {
					return cli.Exit(fmt.Sprintf("error: store corpus: %v", err), 1)
				}
				return nil
			})
		},
	}
}

func corpusListCmd(configPath *string) *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List stored corpora",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withStore(ctx, *configPath, func(ctx context.Context, store *corpus.Store) error {
				infos, err := store.List(ctx)
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: list corpora: %v", err), 1)
				}
				tw := tabwriter.NewWriter(cmd.Root().Writer, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "NAME\tSIZE\tADDED")
				for _, info := range infos {
					fmt.Fprintf(tw, "%s\t%d\t%s\n", info.Name, info.Size, info.AddedAt.Format(time.RFC3339))
				}
				return tw.Flush()
			})
		},
	}
}

func corpusShowCmd(configPath *string) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Print the text of a stored corpus",
		ArgsUsage: "<name>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			name := cmd.Args().First()
			if name == "" {
				return cli.Exit("error: corpus name is required", 1)
			}
			return withStore(ctx, *configPath, func(ctx context.Context, store *corpus.Store) error {
				r, err := store.Open(ctx, name)
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: %v", err), 1)
				}
				_, err = io.Copy(cmd.Root().Writer, r)
				return err
			})
		},
	}
}

func corpusRemoveCmd(configPath *string) *cli.Command {
	return &cli.Command{
		Name:      "rm",
		Usage:     "Remove a stored corpus",
		ArgsUsage: "<name>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			name := cmd.Args().First()
			if name == "" {
				return cli.Exit("error: corpus name is required", 1)
			}
			return withStore(ctx, *configPath, func(ctx context.Context, store *corpus.Store) error {
				err := store.Remove(ctx, name)
				if errors.Is(err, corpus.ErrNotFound) {
					return cli.Exit(fmt.Sprintf("error: corpus '%s' not found", name), 1)
				}
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: remove corpus: %v", err), 1)
				}
				return nil
			})
		},
	}
}
