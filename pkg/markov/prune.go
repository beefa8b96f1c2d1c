package markov

// Prune returns a new model without the transitions observed minFreq times
// or fewer. Contexts left with no followers are dropped entirely, so the
// result still never holds an empty distribution. The receiver is unchanged.
func (m *Model) Prune(minFreq int) *Model {
	b := newBuilder()
	if m == nil {
		return b.model()
	}
	for ctx, c := range m.chains {
		for _, choice := range c.choices {
			if choice.Count > minFreq {
				b.add(ctx, choice.Token, choice.Count)
			}
		}
	}
	return b.model()
}
