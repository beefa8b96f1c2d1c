package markov

import (
	"errors"
	"io"
	"strings"
)

// Tokenizer splits raw text into tokens and knows how to join generated
// tokens back into readable text. Keeping both directions together lets the
// punctuation rules used for splitting match the ones used for joining.
type Tokenizer interface {
	// NewStream returns a StreamTokenizer reading from r.
	NewStream(r io.Reader) StreamTokenizer
	// Separator returns the string placed between prev and next when joining.
	Separator(prev, next string) string
	// Terminal returns the string appended after last to close the text.
	Terminal(last string) string
}

// StreamTokenizer returns tokens one at a time from an underlying stream.
type StreamTokenizer interface {
	// Next returns the next token. It returns io.EOF once the stream is
	// fully consumed.
	Next() (string, error)
}

// Tokenize reads all of r and returns its tokens in order.
func Tokenize(tok Tokenizer, r io.Reader) ([]string, error) {
	stream := tok.NewStream(r)
	var tokens []string
	for {
		token, err := stream.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return tokens, nil
			}
			return nil, err
		}
		tokens = append(tokens, token)
	}
}

// Join renders tokens as text using tok's separator and terminal rules.
// An empty token slice renders as an empty string.
func Join(tok Tokenizer, tokens []string) string {
	if len(tokens) == 0 {
		return ""
	}

	var builder strings.Builder
	builder.WriteString(tokens[0])
	for i := 1; i < len(tokens); i++ {
		builder.WriteString(tok.Separator(tokens[i-1], tokens[i]))
		builder.WriteString(tokens[i])
	}
	builder.WriteString(tok.Terminal(tokens[len(tokens)-1]))
	return builder.String()
}
