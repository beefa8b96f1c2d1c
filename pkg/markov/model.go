package markov

import (
	"errors"
	"fmt"
	"io"
	"sort"

	json "github.com/goccy/go-json"
)

// Context is the pair of consecutive tokens used to look up what may follow.
// It is comparable and used directly as a map key.
type Context struct {
	Prior   string
	Current string
}

// String joins the two tokens with a single space.
func (c Context) String() string {
	return c.Prior + " " + c.Current
}

// next slides the window by one token.
func (c Context) next(token string) Context {
	return Context{Prior: c.Current, Current: token}
}

func (c Context) less(o Context) bool {
	if c.Prior != o.Prior {
		return c.Prior < o.Prior
	}
	return c.Current < o.Current
}

// Distribution maps a following token to the number of times it was observed
// after a context. Every count is at least 1.
type Distribution map[string]int

// Total returns the sum of all counts.
func (d Distribution) Total() int {
	total := 0
	for _, n := range d {
		total += n
	}
	return total
}

// Choice is a single candidate next token with its observed count.
type Choice struct {
	Token string
	Count int
}

// chain is the frozen form of a Distribution. choices are sorted by token so
// that sampling is reproducible for a given random source; weights mirror
// the counts of choices.
type chain struct {
	choices []Choice
	weights []int
}

// Model is a second-order transition model: for every observed context it
// holds the frequency of each token that followed it. A Model is immutable
// once built, so it may be shared by any number of goroutines generating
// concurrently. Contexts that were never observed are absent; there are no
// empty distributions.
type Model struct {
	chains   map[Context]chain
	contexts []Context
}

// builder accumulates counts before they are frozen into a Model.
type builder struct {
	counts map[Context]Distribution
}

func newBuilder() *builder {
	return &builder{counts: make(map[Context]Distribution)}
}

// distribution returns the distribution stored under ctx, inserting an empty
// one first if the context is new.
func (b *builder) distribution(ctx Context) Distribution {
	d, ok := b.counts[ctx]
	if !ok {
		d = make(Distribution)
		b.counts[ctx] = d
	}
	return d
}

func (b *builder) add(ctx Context, next string, n int) {
	b.distribution(ctx)[next] += n
}

// model freezes the accumulated counts. The builder must not be used afterwards.
func (b *builder) model() *Model {
	m := &Model{
		chains:   make(map[Context]chain, len(b.counts)),
		contexts: make([]Context, 0, len(b.counts)),
	}
	for ctx, d := range b.counts {
		c := chain{
			choices: make([]Choice, 0, len(d)),
			weights: make([]int, 0, len(d)),
		}
		for token, n := range d {
			c.choices = append(c.choices, Choice{Token: token, Count: n})
		}
		sort.Slice(c.choices, func(i, j int) bool {
			return c.choices[i].Token < c.choices[j].Token
		})
		for _, choice := range c.choices {
			c.weights = append(c.weights, choice.Count)
		}
		m.chains[ctx] = c
		m.contexts = append(m.contexts, ctx)
	}
	sort.Slice(m.contexts, func(i, j int) bool {
		return m.contexts[i].less(m.contexts[j])
	})
	return m
}

// Build scans tokens and records, for every position i up to len(tokens)-3,
// that tokens[i+2] followed the context (tokens[i], tokens[i+1]). Fewer than
// three tokens yield an empty model. The input slice is not modified.
func Build(tokens []string) *Model {
	b := newBuilder()
	for i := 0; i+2 < len(tokens); i++ {
		b.add(Context{Prior: tokens[i], Current: tokens[i+1]}, tokens[i+2], 1)
	}
	return b.model()
}

// BuildFrom tokenizes r with tok and builds a model from the resulting token
// stream without holding the whole corpus in memory.
func BuildFrom(tok Tokenizer, r io.Reader) (*Model, error) {
	b := newBuilder()
	stream := tok.NewStream(r)

	var window []string
	for {
		token, err := stream.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("tokenizer error: %w", err)
		}
		if len(window) < 2 {
			window = append(window, token)
			continue
		}
		b.add(Context{Prior: window[0], Current: window[1]}, token, 1)
		window[0], window[1] = window[1], token
	}
	return b.model(), nil
}

// Len returns the number of distinct contexts.
func (m *Model) Len() int {
	if m == nil {
		return 0
	}
	return len(m.chains)
}

// Empty reports whether the model holds no contexts, which is the case for
// any corpus shorter than three tokens.
func (m *Model) Empty() bool {
	return m.Len() == 0
}

// Contains reports whether ctx was observed with at least one follower.
func (m *Model) Contains(ctx Context) bool {
	_, ok := m.lookup(ctx)
	return ok
}

func (m *Model) lookup(ctx Context) (chain, bool) {
	if m == nil {
		return chain{}, false
	}
	c, ok := m.chains[ctx]
	return c, ok
}

// Distribution returns a copy of the distribution observed after ctx.
func (m *Model) Distribution(ctx Context) (Distribution, bool) {
	c, ok := m.lookup(ctx)
	if !ok {
		return nil, false
	}
	d := make(Distribution, len(c.choices))
	for _, choice := range c.choices {
		d[choice.Token] = choice.Count
	}
	return d, true
}

// Choices returns the candidates for ctx in the order the generator samples
// them: ascending by token.
func (m *Model) Choices(ctx Context) ([]Choice, bool) {
	c, ok := m.lookup(ctx)
	if !ok {
		return nil, false
	}
	out := make([]Choice, len(c.choices))
	copy(out, c.choices)
	return out, true
}

// Contexts returns every observed context, sorted by prior then current token.
func (m *Model) Contexts() []Context {
	if m == nil {
		return nil
	}
	out := make([]Context, len(m.contexts))
	copy(out, m.contexts)
	return out
}

// exportedModel is the JSON shape written by WriteJSON.
type exportedModel struct {
	Contexts int             `json:"contexts"`
	Chains   []exportedChain `json:"chains"`
}

type exportedChain struct {
	Context string         `json:"context"`
	Next    map[string]int `json:"next"`
}

// WriteJSON writes an indented JSON dump of the model to w, one entry per
// context in sorted order. It is meant for inspection and is not read back.
func (m *Model) WriteJSON(w io.Writer) error {
	exported := exportedModel{
		Contexts: m.Len(),
		Chains:   make([]exportedChain, 0, m.Len()),
	}
	for _, ctx := range m.Contexts() {
		d, _ := m.Distribution(ctx)
		exported.Chains = append(exported.Chains, exportedChain{
			Context: ctx.String(),
			Next:    d,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(exported)
}
