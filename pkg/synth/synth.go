// Package synth defines the answer synthesizer boundary: given a query and
// its ranked context chunks, produce a natural-language answer plus the
// chunks actually used.
//
// The core consumes this interface as a pure function boundary. The model
// selector is a closed enumeration mapped to provider-specific parameters;
// unknown selectors are rejected with a config error instead of being passed
// through uninterpreted.
package synth

import (
	"context"

	"github.com/corpora-ai/go-corpora/pkg/corpora"
)

// Model selects which language model synthesizes the answer.
type Model string

// Supported models.
const (
	Llama33_70B Model = "llama-3.3-70b-versatile"
	Llama31_70B Model = "llama-3.1-70b-versatile"
	Llama31_8B  Model = "llama-3.1-8b-instant"
)

// DefaultModel is used when the caller does not select one.
const DefaultModel = Llama33_70B

// ModelInfo carries the provider-facing parameters for a model.
type ModelInfo struct {
	ID            string  // Provider model identifier
	Name          string  // Human-readable name
	Description   string  // When to pick this model
	ContextLength int     // Token window
	Temperature   float64 // Default sampling temperature
}

var catalog = map[Model]ModelInfo{
	Llama33_70B: {
		ID:            "llama-3.3-70b-versatile",
		Name:          "Llama 3.3 70B",
		Description:   "Most capable model, best for complex queries",
		ContextLength: 8192,
		Temperature:   0.7,
	},
	Llama31_70B: {
		ID:            "llama-3.1-70b-versatile",
		Name:          "Llama 3.1 70B",
		Description:   "Balanced performance and quality",
		ContextLength: 8192,
		Temperature:   0.7,
	},
	Llama31_8B: {
		ID:            "llama-3.1-8b-instant",
		Name:          "Llama 3.1 8B",
		Description:   "Fast responses for simple queries",
		ContextLength: 8192,
		Temperature:   0.7,
	},
}

// Valid reports whether m is a supported model.
func (m Model) Valid() bool {
	_, ok := catalog[m]
	return ok
}

// Info returns the model's provider parameters. Unknown models return a
// config-kind error.
func (m Model) Info() (ModelInfo, error) {
	info, ok := catalog[m]
	if !ok {
		return ModelInfo{}, corpora.Errorf(corpora.KindConfig, "unknown model %q", string(m))
	}
	return info, nil
}

// Models lists the supported models.
func Models() []Model {
	return []Model{Llama33_70B, Llama31_70B, Llama31_8B}
}

// Answer is a synthesized response with attribution.
type Answer struct {
	// Text is the natural-language answer.
	Text string

	// ChunksUsed are the context chunks the synthesizer actually drew on.
	// Always a subset of the chunks it was given.
	ChunksUsed []corpora.Chunk
}

// Synthesizer produces an answer from a query and its ranked context.
type Synthesizer interface {
	// Synthesize answers query from chunks using the selected model. An
	// empty chunk set means no context was available; implementations
	// must acknowledge that rather than inventing content.
	Synthesize(ctx context.Context, query string, chunks []corpora.ScoredChunk, model Model) (*Answer, error)
}
