package markov

import (
	"bufio"
	"io"
	"regexp"
	"strings"
)

var (
	// DefaultKeyPunctuation lists the marks split out as standalone tokens.
	DefaultKeyPunctuation = []string{",", ".", "!", "?", ";", "--"}
	// DefaultFilteredContent lists fragments replaced by a space before
	// splitting: line breaks, double quotes, quotes hugging whitespace and
	// parentheses.
	DefaultFilteredContent = []string{"\n", "\"", "' ", " '", "(", ")"}
)

// maxLineSize bounds a single line read by the stream tokenizer.
const maxLineSize = 1 << 20

// DefaultTokenizer is the default implementation of the Tokenizer interface.
// It removes filtered content, isolates key punctuation as standalone tokens
// and splits on whitespace. When joining, key punctuation is attached to the
// preceding word and the text is closed with a terminal mark.
// Its behavior can be customized with functional options.
type DefaultTokenizer struct {
	separator   string
	terminal    string
	punctuation []string
	filtered    []string
	attachRegex *regexp.Regexp
	closedRegex *regexp.Regexp
}

// Option is a function that configures a DefaultTokenizer.
type Option func(*DefaultTokenizer)

// WithSeparator sets the string used between tokens when joining.
// Default: " "
func WithSeparator(sep string) Option {
	return func(t *DefaultTokenizer) {
		t.separator = sep
	}
}

// WithTerminal sets the mark appended to joined text that does not already
// end with sentence-ending punctuation.
// Default: "."
func WithTerminal(terminal string) Option {
	return func(t *DefaultTokenizer) {
		t.terminal = terminal
	}
}

// WithKeyPunctuation replaces the set of marks treated as standalone tokens.
func WithKeyPunctuation(marks ...string) Option {
	return func(t *DefaultTokenizer) {
		t.punctuation = marks
	}
}

// WithFilteredContent replaces the set of fragments removed before splitting.
func WithFilteredContent(fragments ...string) Option {
	return func(t *DefaultTokenizer) {
		t.filtered = fragments
	}
}

// NewDefaultTokenizer creates a new tokenizer with default settings, which can be
// overridden by providing one or more Option functions.
func NewDefaultTokenizer(opts ...Option) *DefaultTokenizer {
	t := &DefaultTokenizer{
		separator:   " ",
		terminal:    ".",
		punctuation: DefaultKeyPunctuation,
		filtered:    DefaultFilteredContent,
	}

	for _, opt := range opts {
		opt(t)
	}

	quoted := make([]string, 0, len(t.punctuation))
	for _, mark := range t.punctuation {
		quoted = append(quoted, regexp.QuoteMeta(mark))
	}

	// Key punctuation does not get a separator before it.
	if len(quoted) > 0 {
		t.attachRegex = regexp.MustCompile(`^(?:` + strings.Join(quoted, "|") + `)$`)
	}
	// Text ending in one of these does not get a terminal mark.
	t.closedRegex = regexp.MustCompile(`[.!?]$`)

	return t
}

// Sanitise applies the filtering and punctuation padding to s and returns the
// resulting tokens. Each filtered fragment is removed in its own pass, in
// order, so a space freed by one fragment can complete the next one.
func (t *DefaultTokenizer) Sanitise(s string) []string {
	// Pad the edges so fragments such as "' " match at line boundaries, as
	// they would if the line break were still present.
	s = " " + s + " "
	for _, fragment := range t.filtered {
		s = strings.ReplaceAll(s, fragment, " ")
	}
	for _, mark := range t.punctuation {
		s = strings.ReplaceAll(s, mark, " "+mark+" ")
	}
	return strings.Fields(s)
}

// Separator returns "" before key punctuation and the configured separator
// otherwise.
func (t *DefaultTokenizer) Separator(_, next string) string {
	if t.attachRegex != nil && t.attachRegex.MatchString(next) {
		return ""
	}
	return t.separator
}

// Terminal returns the configured terminal mark unless last already ends a
// sentence.
func (t *DefaultTokenizer) Terminal(last string) string {
	if t.closedRegex.MatchString(last) || strings.HasSuffix(last, t.terminal) {
		return ""
	}
	return t.terminal
}

// NewStream returns the stream processor.
func (t *DefaultTokenizer) NewStream(r io.Reader) StreamTokenizer {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &DefaultStreamTokenizer{
		scanner:   scanner,
		buffer:    []string{},
		tokenizer: t,
	}
}

// DefaultStreamTokenizer is the default implementation of the StreamTokenizer
// interface. It reads line by line; a line break always ends a token.
type DefaultStreamTokenizer struct {
	scanner   *bufio.Scanner
	buffer    []string
	tokenizer *DefaultTokenizer
}

// Next returns the next token from the stream. When the stream is exhausted,
// it returns an empty string and io.EOF. Any other error indicates a problem
// reading from the underlying stream.
func (s *DefaultStreamTokenizer) Next() (string, error) {
	for len(s.buffer) == 0 { // Loop until we have tokens
		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}
		s.buffer = s.tokenizer.Sanitise(s.scanner.Text())
	}

	token := s.buffer[0]
	s.buffer = s.buffer[1:]
	return token, nil
}
