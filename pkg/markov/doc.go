/*
Package markov builds second-order Markov chain models from tokenized text and
generates new text that mimics the source's local word order.

Build (or BuildFrom, which tokenizes a stream) records, for every pair of
consecutive tokens, how often each token followed it. Generate starts from a
two-token seed and repeatedly draws the next token with Select, a
roulette-wheel sampler, from the distribution observed after the previous two
tokens. A Model is immutable after construction and may be shared freely
between goroutines; each generation run should use its own Source.

	tok := markov.NewDefaultTokenizer()
	m, err := markov.BuildFrom(tok, f)
	if err != nil {
		return err
	}
	tokens, err := markov.Generate(m, markov.DefaultSeed, 100, markov.NewSource(42))
	if err != nil {
		return err
	}
	fmt.Println(markov.Join(tok, tokens))
*/
package markov
