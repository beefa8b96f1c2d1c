package markov

// DefaultSeed is the context generation starts from when nothing else is given.
var DefaultSeed = Context{Prior: "It", Current: "was"}

// SeedPolicy chooses the context a generation run starts from.
type SeedPolicy interface {
	Seed(m *Model, src Source) (Context, error)
}

// SeedFunc adapts a function to SeedPolicy.
type SeedFunc func(m *Model, src Source) (Context, error)

// Seed calls f.
func (f SeedFunc) Seed(m *Model, src Source) (Context, error) {
	return f(m, src)
}

// FixedSeed always starts from ctx, whether or not the model contains it.
func FixedSeed(ctx Context) SeedPolicy {
	return SeedFunc(func(*Model, Source) (Context, error) {
		return ctx, nil
	})
}

// RandomSeed picks uniformly among the model's contexts. Every context is
// equally likely regardless of how often it occurred in the corpus.
func RandomSeed() SeedPolicy {
	return SeedFunc(func(m *Model, src Source) (Context, error) {
		if m.Empty() {
			return Context{}, ErrEmptyModel
		}
		if src == nil {
			src = globalSource{}
		}
		return m.contexts[src.IntN(len(m.contexts))], nil
	})
}
