package markov

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

func TestBuildMinimalCorpus(t *testing.T) {
	m := Build([]string{"a", "b", "c", "b", "c", "d"})

	require.Equal(t, 3, m.Len())

	d, ok := m.Distribution(Context{"a", "b"})
	require.True(t, ok)
	require.Equal(t, Distribution{"c": 1}, d)

	d, ok = m.Distribution(Context{"b", "c"})
	require.True(t, ok)
	require.Equal(t, Distribution{"b": 1, "d": 1}, d)

	d, ok = m.Distribution(Context{"c", "b"})
	require.True(t, ok)
	require.Equal(t, Distribution{"c": 1}, d)

	// The final bigram never starts a complete triple.
	require.False(t, m.Contains(Context{"c", "d"}))
}

func TestBuildShortCorpus(t *testing.T) {
	testCases := []struct {
		name   string
		tokens []string
	}{
		{name: "nil", tokens: nil},
		{name: "empty", tokens: []string{}},
		{name: "one token", tokens: []string{"a"}},
		{name: "two tokens", tokens: []string{"a", "b"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := Build(tc.tokens)
			require.True(t, m.Empty())
			require.Zero(t, m.Len())
			require.Empty(t, m.Contexts())
		})
	}

	require.Equal(t, 1, Build([]string{"a", "b", "c"}).Len())
}

func TestBuildCoverageAndConservation(t *testing.T) {
	for _, seed := range []uint64{1, 2, 3} {
		tokens := randomTokens(seed, 2000, 6)
		m := Build(tokens)

		// Coverage: every triple in the corpus is recorded.
		for i := 0; i+2 < len(tokens); i++ {
			d, ok := m.Distribution(Context{tokens[i], tokens[i+1]})
			require.True(t, ok, "context at position %d missing", i)
			require.GreaterOrEqual(t, d[tokens[i+2]], 1)
		}

		// Conservation: counts match an independent tally exactly.
		want := countTriples(tokens)
		require.Equal(t, len(want), m.Len())
		for ctx, next := range want {
			d, ok := m.Distribution(ctx)
			require.True(t, ok)
			require.Equal(t, Distribution(next), d)

			occurrences := 0
			for i := 0; i+2 < len(tokens); i++ {
				if tokens[i] == ctx.Prior && tokens[i+1] == ctx.Current {
					occurrences++
				}
			}
			require.Equal(t, occurrences, d.Total())
		}
	}
}

func TestBuildDoesNotMutateInput(t *testing.T) {
	tokens := []string{"x", "y", "z", "x", "y"}
	cp := append([]string(nil), tokens...)
	_ = Build(tokens)
	require.Equal(t, cp, tokens)
}

func TestBuildFrom(t *testing.T) {
	tok := NewDefaultTokenizer()
	text := "It was the best of times, it was the worst of times.\nIt was the age of wisdom."

	streamed, err := BuildFrom(tok, strings.NewReader(text))
	require.NoError(t, err)

	tokens, err := Tokenize(tok, strings.NewReader(text))
	require.NoError(t, err)
	built := Build(tokens)

	require.Equal(t, built.Contexts(), streamed.Contexts())
	for _, ctx := range built.Contexts() {
		a, _ := built.Distribution(ctx)
		b, _ := streamed.Distribution(ctx)
		require.Equal(t, a, b, "distribution for %q", ctx.String())
	}

	d, ok := streamed.Distribution(Context{"It", "was"})
	require.True(t, ok)
	require.Equal(t, Distribution{"the": 2}, d)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestBuildFromReaderError(t *testing.T) {
	_, err := BuildFrom(NewDefaultTokenizer(), io.MultiReader(strings.NewReader("a b c\n"), failingReader{}))
	require.ErrorContains(t, err, "disk on fire")
}

func TestModelAccessorsReturnCopies(t *testing.T) {
	m := setupModel(t)
	ctx := Context{"the", "cat"}

	d, ok := m.Distribution(ctx)
	require.True(t, ok)
	d["dog"] = 10

	choices, ok := m.Choices(ctx)
	require.True(t, ok)
	choices[0].Count = 99

	contexts := m.Contexts()
	contexts[0] = Context{"mutated", "context"}

	again, _ := m.Distribution(ctx)
	require.Equal(t, Distribution{"sat": 1, "ran": 1}, again)
	againChoices, _ := m.Choices(ctx)
	require.Equal(t, []Choice{{Token: "ran", Count: 1}, {Token: "sat", Count: 1}}, againChoices)
	require.NotEqual(t, Context{"mutated", "context"}, m.Contexts()[0])
}

func TestModelContextsSorted(t *testing.T) {
	m := setupModel(t)
	contexts := m.Contexts()
	require.Len(t, contexts, m.Len())
	for i := 1; i < len(contexts); i++ {
		require.True(t, contexts[i-1].less(contexts[i]), "%v before %v", contexts[i-1], contexts[i])
	}
}

func TestNilModel(t *testing.T) {
	var m *Model
	require.True(t, m.Empty())
	require.False(t, m.Contains(Context{"a", "b"}))
	require.Nil(t, m.Contexts())
	require.Equal(t, Stats{}, m.Stats())
	require.True(t, m.Prune(0).Empty())
}

func TestWriteJSON(t *testing.T) {
	m := Build([]string{"a", "b", "c", "b", "c", "d"})

	var buf bytes.Buffer
	require.NoError(t, m.WriteJSON(&buf))

	var dump exportedModel
	require.NoError(t, json.Unmarshal(buf.Bytes(), &dump))
	require.Equal(t, 3, dump.Contexts)
	require.Equal(t, []exportedChain{
		{Context: "a b", Next: map[string]int{"c": 1}},
		{Context: "b c", Next: map[string]int{"b": 1, "d": 1}},
		{Context: "c b", Next: map[string]int{"c": 1}},
	}, dump.Chains)
}

func BenchmarkBuild(b *testing.B) {
	tok := NewDefaultTokenizer()
	corpus := createBenchmarkCorpus()
	b.SetBytes(int64(len(corpus)))
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := BuildFrom(tok, strings.NewReader(corpus)); err != nil {
			b.Fatalf("BuildFrom() failed: %v", err)
		}
	}
}
