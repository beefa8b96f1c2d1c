package main

import (
	"fmt"

	"github.com/CTAG07/parrot/pkg/markov"
)

// parseSeed tokenizes s the way corpora are tokenized and requires exactly
// two tokens, so "Well," is a valid seed of ("Well", ",").
func parseSeed(tok *markov.DefaultTokenizer, s string) (markov.Context, error) {
	tokens := tok.Sanitise(s)
	if len(tokens) != 2 {
		return markov.Context{}, fmt.Errorf("seed %q must contain exactly two tokens, got %d", s, len(tokens))
	}
	return markov.Context{Prior: tokens[0], Current: tokens[1]}, nil
}

// seedPolicy resolves the seed options shared by the CLI and the API. An
// explicit seed wins over random, and random wins over the configured default.
func seedPolicy(tok *markov.DefaultTokenizer, requested, fallback string, random bool) (markov.SeedPolicy, error) {
	if requested != "" {
		ctx, err := parseSeed(tok, requested)
		if err != nil {
			return nil, err
		}
		return markov.FixedSeed(ctx), nil
	}
	if random {
		return markov.RandomSeed(), nil
	}
	if fallback == "" {
		return markov.FixedSeed(markov.DefaultSeed), nil
	}
	ctx, err := parseSeed(tok, fallback)
	if err != nil {
		return nil, fmt.Errorf("configured default seed: %w", err)
	}
	return markov.FixedSeed(ctx), nil
}
