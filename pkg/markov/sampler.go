package markov

import (
	"fmt"
	"math/rand/v2"
	"sort"
)

// Source is the random number source used for sampling. *rand.Rand from
// math/rand/v2 satisfies it. IntN must return a value in [0, n).
type Source interface {
	IntN(n int) int
}

// globalSource draws from the math/rand/v2 top-level generator.
type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// NewSource returns a deterministic source seeded with seed. Two sources
// built from the same seed produce the same sequence.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Select picks an index into weights with probability proportional to its
// weight (roulette-wheel selection). It draws r uniformly from [1, total]
// and returns the smallest index whose running total reaches r, so index k
// wins with probability exactly weights[k]/total. A nil src uses the
// math/rand/v2 global generator.
func Select(src Source, weights []int) (int, error) {
	if len(weights) == 0 {
		return 0, fmt.Errorf("%w: empty weight sequence", ErrInvalidWeights)
	}

	cumulative := make([]int, len(weights))
	total := 0
	for i, w := range weights {
		if w <= 0 {
			return 0, fmt.Errorf("%w: weight %d at index %d", ErrInvalidWeights, w, i)
		}
		total += w
		cumulative[i] = total
	}

	if src == nil {
		src = globalSource{}
	}
	r := src.IntN(total) + 1
	return sort.SearchInts(cumulative, r), nil
}
