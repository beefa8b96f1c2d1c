package markov

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSelectBoundaries(t *testing.T) {
	// Draws are r = IntN(total)+1 over cumulative totals [1, 4].
	testCases := []struct {
		draw int
		want int
	}{
		{draw: 0, want: 0},
		{draw: 1, want: 1},
		{draw: 2, want: 1},
		{draw: 3, want: 1},
	}

	for _, tc := range testCases {
		idx, err := Select(script(t, tc.draw), []int{1, 3})
		require.NoError(t, err)
		require.Equal(t, tc.want, idx, "draw %d", tc.draw)
	}
}

func TestSelectExactSlices(t *testing.T) {
	weights := []int{2, 1, 4, 3}
	total := 10

	hits := make([]int, len(weights))
	for draw := 0; draw < total; draw++ {
		idx, err := Select(script(t, draw), weights)
		require.NoError(t, err)
		hits[idx]++
	}
	// Enumerating every draw once gives each index exactly its weight.
	require.Equal(t, weights, hits)
}

func TestSelectProportionality(t *testing.T) {
	const draws = 200_000
	src := NewSource(1)

	hits := [2]int{}
	for i := 0; i < draws; i++ {
		idx, err := Select(src, []int{1, 3})
		require.NoError(t, err)
		hits[idx]++
	}

	ratio := float64(hits[1]) / float64(hits[0])
	require.InDelta(t, 3.0, ratio, 0.15, "hits = %v", hits)
}

func TestSelectBounds(t *testing.T) {
	src := NewSource(99)
	for n := 1; n <= 20; n++ {
		weights := make([]int, n)
		for i := range weights {
			weights[i] = 1 + src.IntN(50)
		}
		for i := 0; i < 500; i++ {
			idx, err := Select(src, weights)
			require.NoError(t, err)
			require.GreaterOrEqual(t, idx, 0)
			require.Less(t, idx, n)
		}
	}
}

func TestSelectInvalidWeights(t *testing.T) {
	testCases := []struct {
		name    string
		weights []int
	}{
		{name: "nil", weights: nil},
		{name: "empty", weights: []int{}},
		{name: "zero weight", weights: []int{1, 0, 2}},
		{name: "negative weight", weights: []int{-1}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Select(NewSource(1), tc.weights)
			require.ErrorIs(t, err, ErrInvalidWeights)
		})
	}
}

func TestSelectNilSource(t *testing.T) {
	for i := 0; i < 100; i++ {
		idx, err := Select(nil, []int{5, 5})
		require.NoError(t, err)
		require.Contains(t, []int{0, 1}, idx)
	}
}

func TestSelectSingleWeight(t *testing.T) {
	idx, err := Select(script(t, 6), []int{7})
	require.NoError(t, err)
	require.Zero(t, idx)
}
