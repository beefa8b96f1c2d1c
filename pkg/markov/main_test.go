package markov

import (
	"fmt"
	"go/build"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// scriptedSource returns preset values from IntN, failing the test when it
// runs dry or a value falls outside [0, n).
type scriptedSource struct {
	t      testing.TB
	values []int
	index  int
}

func (s *scriptedSource) IntN(n int) int {
	s.t.Helper()
	if s.index >= len(s.values) {
		s.t.Fatalf("scriptedSource exhausted, needed value for n=%d", n)
	}
	v := s.values[s.index]
	s.index++
	if v < 0 || v >= n {
		s.t.Fatalf("scriptedSource value %d out of range for n=%d", v, n)
	}
	return v
}

func script(t testing.TB, values ...int) *scriptedSource {
	return &scriptedSource{t: t, values: values}
}

// cyclicCorpus ends with the bigram it starts with, so every context reached
// during generation has at least one follower and generation never fails.
var cyclicCorpus = strings.Fields("the cat sat on the mat , the cat ran . the cat")

// setupModel builds a model from cyclicCorpus.
func setupModel(t testing.TB) *Model {
	t.Helper()
	m := Build(cyclicCorpus)
	if m.Empty() {
		t.Fatal("setup: expected a non-empty model")
	}
	return m
}

// countTriples counts how often each (context, next) triple occurs in tokens.
func countTriples(tokens []string) map[Context]map[string]int {
	counts := make(map[Context]map[string]int)
	for i := 0; i+2 < len(tokens); i++ {
		ctx := Context{Prior: tokens[i], Current: tokens[i+1]}
		if counts[ctx] == nil {
			counts[ctx] = make(map[string]int)
		}
		counts[ctx][tokens[i+2]]++
	}
	return counts
}

// randomTokens returns n tokens drawn from a small vocabulary so contexts repeat.
func randomTokens(seed uint64, n, vocab int) []string {
	src := NewSource(seed)
	tokens := make([]string, n)
	for i := range tokens {
		tokens[i] = fmt.Sprintf("w%d", src.IntN(vocab))
	}
	return tokens
}

var (
	benchmarkCorpus string
	corpusOnce      sync.Once
)

// createBenchmarkCorpus reads Go source files to create a corpus for benchmarking.
func createBenchmarkCorpus() string {
	corpusOnce.Do(func() {
		var sb strings.Builder
		goRoot := build.Default.GOROOT
		filesToRead := []string{
			filepath.Join(goRoot, "src/net/http/server.go"),
			filepath.Join(goRoot, "src/go/parser/parser.go"),
			filepath.Join(goRoot, "src/encoding/json/encode.go"),
		}

		for _, file := range filesToRead {
			content, err := os.ReadFile(file)
			if err != nil {
				benchmarkCorpus = "this is a fallback corpus for benchmarking. it is not very long but will prevent a crash. "
				return
			}
			sb.Write(content)
			sb.WriteString("\n")
		}
		benchmarkCorpus = sb.String()
	})
	return benchmarkCorpus
}
