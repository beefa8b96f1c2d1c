package markov

import (
	"context"
	"fmt"
	"log/slog"
)

// Token is a single item of a generation stream. Writing Separator followed
// by Text for every token in order renders the same text Join would. The
// last item of a successful stream has Terminal set and carries the closing
// mark, if any. A stream that fails ends with an item whose Err is set.
type Token struct {
	Text      string
	Separator string
	Terminal  bool
	Err       error
}

// GenerateStream starts a generation run of length tokens and returns a
// channel delivering them as they are drawn. Length and seed problems are
// reported immediately; an unknown context reached mid-stream is delivered as
// the final Token's Err, since the earlier tokens have already been sent.
// Streams are never retried. The channel is closed when generation finishes
// or ctx is cancelled.
func (g *Generator) GenerateStream(ctx context.Context, length int) (<-chan Token, error) {
	if length < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidLength, length)
	}
	seed, err := g.seeds.Seed(g.model, g.src)
	if err != nil {
		return nil, fmt.Errorf("could not choose seed: %w", err)
	}

	tokenChan := make(chan Token)

	go func() {
		defer close(tokenChan)

		send := func(t Token) bool {
			select {
			case <-ctx.Done():
				g.logger.DebugContext(ctx, "Generation stream cancelled by context")
				return false
			case tokenChan <- t:
				return true
			}
		}

		if !send(Token{Text: seed.Prior}) {
			return
		}
		if !send(Token{Text: seed.Current, Separator: g.tokenizer.Separator(seed.Prior, seed.Current)}) {
			return
		}

		window := seed
		for generated := 2; generated < length; generated++ {
			token, err := step(g.model, window, generated, g.src)
			if err != nil {
				g.logger.DebugContext(ctx, "Generation stream stopped",
					slog.String("seed", seed.String()),
					slog.Int("generated_length", generated),
					slog.Any("error", err),
				)
				send(Token{Err: err})
				return
			}
			if !send(Token{Text: token, Separator: g.tokenizer.Separator(window.Current, token)}) {
				return
			}
			window = window.next(token)
		}

		send(Token{Text: g.tokenizer.Terminal(window.Current), Terminal: true})
	}()

	return tokenChan, nil
}
