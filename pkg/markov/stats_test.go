package markov

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStats(t *testing.T) {
	m := Build([]string{"a", "b", "c", "b", "c", "d"})
	require.Equal(t, Stats{
		Contexts:       3,
		Transitions:    4,
		TotalFrequency: 4,
		Vocabulary:     4,
	}, m.Stats())

	s := setupModel(t).Stats()
	require.Equal(t, len(cyclicCorpus)-2, s.TotalFrequency)
	require.Equal(t, 10, s.Contexts)
	require.Equal(t, 11, s.Transitions)
	require.Equal(t, 8, s.Vocabulary)
}
