package markov

// Stats holds aggregated statistics for a single model.
type Stats struct {
	Contexts       int `json:"contexts"`        // The number of distinct contexts.
	Transitions    int `json:"transitions"`     // The number of unique context->token links.
	TotalFrequency int `json:"total_frequency"` // The sum of all counts; the number of trained transitions.
	Vocabulary     int `json:"vocabulary"`      // The number of distinct tokens seen in contexts or as followers.
}

// Stats returns a snapshot of statistics for the model.
func (m *Model) Stats() Stats {
	var s Stats
	if m == nil {
		return s
	}
	vocab := make(map[string]struct{})
	for ctx, c := range m.chains {
		s.Contexts++
		vocab[ctx.Prior] = struct{}{}
		vocab[ctx.Current] = struct{}{}
		for _, choice := range c.choices {
			s.Transitions++
			s.TotalFrequency += choice.Count
			vocab[choice.Token] = struct{}{}
		}
	}
	s.Vocabulary = len(vocab)
	return s
}
