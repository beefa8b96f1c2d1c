package main

import (
	"context"
	"fmt"
	"os"

	"github.com/CTAG07/parrot/pkg/markov"
	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"
)

func inspectCmd(configPath *string) *cli.Command {
	var (
		file       string
		corpusName string
		prune      int64
		dump       bool
	)

	flags := sourceFlags(&file, &corpusName)
	flags = append(flags,
		&cli.Int64Flag{
			Name:        "prune",
			Usage:       "drop transitions seen this many times or fewer before reporting",
			Destination: &prune,
		},
		&cli.BoolFlag{Name: "dump", Usage: "print every chain as JSON instead of statistics", Destination: &dump},
	)

	return &cli.Command{
		Name:  "inspect",
		Usage: "Build a model and report its statistics",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			config, err := LoadConfig(*configPath)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			logger := newLogger(os.Stderr, config.Server.LogLevel)

			model, err := loadModel(ctx, config, file, corpusName, markov.NewDefaultTokenizer(), logger)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: load model: %v", err), 1)
			}
			if prune > 0 {
				model = model.Prune(int(prune))
			}

			out := cmd.Root().Writer
			if dump {
				return model.WriteJSON(out)
			}
			data, err := json.MarshalIndent(model.Stats(), "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, string(data))
			return err
		},
	}
}
