package markov

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
)

// Generate produces exactly length tokens. The first two are the seed
// context verbatim; every following token is drawn with Select from the
// distribution observed after the two tokens before it. Reaching a context
// the model never saw returns an *UnknownContextError and no tokens. With
// length == 2 the seed is returned without consulting the model.
//
// Generate only reads m, so concurrent calls are safe as long as each uses
// its own src.
func Generate(m *Model, seed Context, length int, src Source) ([]string, error) {
	if length < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidLength, length)
	}

	out := make([]string, 0, length)
	out = append(out, seed.Prior, seed.Current)

	window := seed
	for len(out) < length {
		token, err := step(m, window, len(out), src)
		if err != nil {
			return nil, err
		}
		out = append(out, token)
		window = window.next(token)
	}
	return out, nil
}

// step draws the token that follows window, which would sit at position.
func step(m *Model, window Context, position int, src Source) (string, error) {
	c, ok := m.lookup(window)
	if !ok {
		return "", &UnknownContextError{Context: window, Position: position}
	}
	idx, err := Select(src, c.weights)
	if err != nil {
		return "", fmt.Errorf("failed to sample after %q: %w", window.String(), err)
	}
	return c.choices[idx].Token, nil
}

// Generator couples a model with a random source, a seed policy and an
// optional retry budget. It owns its source and is therefore not safe for
// concurrent use; create one Generator per goroutine over a shared Model.
type Generator struct {
	model     *Model
	src       Source
	seeds     SeedPolicy
	retries   int
	tokenizer Tokenizer
	logger    *slog.Logger
}

// GenerateOption configures a Generator.
type GenerateOption func(*Generator)

// WithSource sets the random source. By default each Generator gets its own
// randomly seeded PCG source.
func WithSource(src Source) GenerateOption {
	return func(g *Generator) { g.src = src }
}

// WithSeedPolicy sets how the starting context is chosen.
// Default: RandomSeed().
func WithSeedPolicy(p SeedPolicy) GenerateOption {
	return func(g *Generator) { g.seeds = p }
}

// WithRetries allows up to n further attempts, each with a freshly chosen
// seed, when generation runs into an unknown context. The default of 0
// returns the error from the first attempt.
func WithRetries(n int) GenerateOption {
	return func(g *Generator) { g.retries = max(n, 0) }
}

// WithTokenizer sets the tokenizer whose joining rules GenerateStream uses.
// Default: NewDefaultTokenizer()
func WithTokenizer(tok Tokenizer) GenerateOption {
	return func(g *Generator) {
		if tok != nil {
			g.tokenizer = tok
		}
	}
}

// WithLogger sets the logger. By default all logs are discarded.
func WithLogger(logger *slog.Logger) GenerateOption {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGenerator returns a Generator over m configured by opts.
func NewGenerator(m *Model, opts ...GenerateOption) *Generator {
	g := &Generator{
		model:     m,
		src:       rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		seeds:     RandomSeed(),
		tokenizer: NewDefaultTokenizer(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Model returns the model the Generator samples from.
func (g *Generator) Model() *Model {
	return g.model
}

// Generate picks a seed from the configured policy and generates length
// tokens from it, retrying with a new seed on unknown contexts if the
// Generator was configured to.
func (g *Generator) Generate(ctx context.Context, length int) ([]string, error) {
	for attempt := 0; ; attempt++ {
		seed, err := g.seeds.Seed(g.model, g.src)
		if err != nil {
			return nil, fmt.Errorf("could not choose seed: %w", err)
		}

		tokens, err := Generate(g.model, seed, length, g.src)
		if err == nil {
			g.logger.DebugContext(ctx, "Generation completed",
				slog.String("seed", seed.String()),
				slog.Int("length", length),
				slog.Int("attempts", attempt+1),
			)
			return tokens, nil
		}

		var unknown *UnknownContextError
		if !errors.As(err, &unknown) || attempt >= g.retries {
			return nil, err
		}
		g.logger.DebugContext(ctx, "Generation reached unknown context, reseeding",
			slog.String("seed", seed.String()),
			slog.String("context", unknown.Context.String()),
			slog.Int("position", unknown.Position),
			slog.Int("attempt", attempt+1),
		)
		if err = ctx.Err(); err != nil {
			return nil, err
		}
	}
}
