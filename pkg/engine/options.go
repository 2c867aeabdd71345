package engine

import "github.com/corpora-ai/go-corpora/pkg/synth"

// queryOptions are the per-call overrides resolved before a query runs.
type queryOptions struct {
	topK      int
	model     synth.Model
	filter    bool
	threshold float64
}

// QueryOption overrides a query's defaults.
type QueryOption func(*queryOptions)

// WithTopK overrides how many chunks the query retrieves. Must be positive;
// validation happens when the query runs.
func WithTopK(topK int) QueryOption {
	return func(o *queryOptions) { o.topK = topK }
}

// WithModel selects the synthesis model for this query. Unknown selectors
// are rejected with a config error before any retrieval work happens.
func WithModel(model synth.Model) QueryOption {
	return func(o *queryOptions) { o.model = model }
}

// WithSimilarityFilter drops near-duplicate chunks from the retrieved
// context before synthesis. Two chunks whose lexical similarity meets or
// exceeds threshold (0..1) are considered duplicates and only the
// better-ranked one is kept.
//
// Off by default: filtering changes what the synthesizer sees, so it is an
// explicit opt-in.
func WithSimilarityFilter(threshold float64) QueryOption {
	return func(o *queryOptions) {
		o.filter = true
		o.threshold = threshold
	}
}
