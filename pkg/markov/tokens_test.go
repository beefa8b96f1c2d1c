package markov

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultTokenizer(t *testing.T) {
	tok := NewDefaultTokenizer()

	testCases := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "Key punctuation becomes tokens",
			input: "It was the best of times, it was the worst of times.",
			want:  strings.Fields("It was the best of times , it was the worst of times ."),
		},
		{
			name:  "Quotes and parentheses are removed",
			input: `"Hello," she said (quietly) 'to nobody' -- then left!`,
			want:  []string{"Hello", ",", "she", "said", "quietly", "to", "nobody", "--", "then", "left", "!"},
		},
		{
			name:  "Apostrophes inside words survive",
			input: "don't stop; it's fine?",
			want:  []string{"don't", "stop", ";", "it's", "fine", "?"},
		},
		{
			name:  "Line breaks separate tokens",
			input: "first line\nsecond\n\n  third   line  ",
			want:  []string{"first", "line", "second", "third", "line"},
		},
		{
			name:  "Quote at line edge",
			input: "'tis the season'\n'and more'",
			want:  []string{"tis", "the", "season", "and", "more"},
		},
		{
			name:  "Quotes sharing a space",
			input: "x' 'y",
			want:  []string{"x", "y"},
		},
		{
			name:  "Empty input",
			input: "",
			want:  nil,
		},
		{
			name:  "Case is preserved",
			input: "The the THE",
			want:  []string{"The", "the", "THE"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Tokenize(tok, strings.NewReader(tc.input))
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestDefaultTokenizerOptions(t *testing.T) {
	tok := NewDefaultTokenizer(
		WithKeyPunctuation(":"),
		WithFilteredContent("#"),
		WithSeparator("_"),
		WithTerminal("!"),
	)

	got, err := Tokenize(tok, strings.NewReader("a:b #c, d"))
	require.NoError(t, err)
	require.Equal(t, []string{"a", ":", "b", "c,", "d"}, got)

	require.Equal(t, "a:_b_c,_d!", Join(tok, got))
}

func TestJoin(t *testing.T) {
	tok := NewDefaultTokenizer()

	testCases := []struct {
		name   string
		tokens []string
		want   string
	}{
		{name: "Empty", tokens: nil, want: ""},
		{name: "Adds full stop", tokens: []string{"It", "was", "night"}, want: "It was night."},
		{name: "Keeps existing full stop", tokens: []string{"It", "was", "night", "."}, want: "It was night."},
		{name: "Keeps question mark", tokens: []string{"Was", "it", "?"}, want: "Was it?"},
		{name: "Punctuation attaches left", tokens: []string{"yes", ",", "no", ";", "maybe", "--", "so"}, want: "yes, no; maybe-- so."},
		{name: "Trailing comma still closed", tokens: []string{"and", "then", ","}, want: "and then,."},
		{name: "Leading punctuation", tokens: []string{",", "oddly"}, want: ", oddly."},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Join(tok, tc.tokens))
		})
	}
}

func TestTokenizeJoinRoundTrip(t *testing.T) {
	tok := NewDefaultTokenizer()
	text := "It was the best of times, it was the worst of times; it was the age of wisdom."
	tokens, err := Tokenize(tok, strings.NewReader(text))
	require.NoError(t, err)
	require.Equal(t, text, Join(tok, tokens))
}
