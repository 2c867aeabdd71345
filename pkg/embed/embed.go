// Package embed defines the embedding provider boundary: turning text into
// fixed-dimension vectors for indexing and search.
//
// The core consumes this interface and never implements a model itself.
// Backend failures surface as provider-kind errors with the failing
// operation attached; the core never retries silently.
//
// Implementations live in subpackages (openai, ollama, gemini). Mock is a
// deterministic in-process provider for tests and examples.
package embed

import (
	"context"
	"hash/fnv"
	"math"

	"github.com/corpora-ai/go-corpora/pkg/corpora"
)

// Provider produces a fixed-dimension vector for a text string.
type Provider interface {
	// Embed returns the vector for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch returns one vector per input text, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Mock is a deterministic provider: vectors are derived from a hash of the
// text, so identical text always embeds identically and different texts
// almost always differ. Useful for tests and offline examples.
type Mock struct {
	// Dim is the vector dimension. Defaults to 8 when zero.
	Dim int

	// Err, when set, is returned by every call. Lets tests exercise
	// provider failure paths.
	Err error
}

var _ Provider = (*Mock)(nil)

// NewMock creates a mock provider with the given dimension.
func NewMock(dim int) *Mock {
	return &Mock{Dim: dim}
}

// Embed implements Provider.
func (m *Mock) Embed(_ context.Context, text string) ([]float32, error) {
	if m.Err != nil {
		return nil, corpora.WrapErr(corpora.KindProvider, m.Err, "mock embedding failed")
	}
	return m.vector(text), nil
}

// EmbedBatch implements Provider.
func (m *Mock) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if m.Err != nil {
		return nil, corpora.WrapErr(corpora.KindProvider, m.Err, "mock embedding failed")
	}
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = m.vector(text)
	}
	return vectors, nil
}

func (m *Mock) vector(text string) []float32 {
	dim := m.Dim
	if dim <= 0 {
		dim = 8
	}
	h := fnv.New64a()
	h.Write([]byte(text))
	seed := h.Sum64()

	vec := make([]float32, dim)
	for i := range vec {
		seed = seed*6364136223846793005 + 1442695040888963407
		vec[i] = float32(math.Sin(float64(seed%10000)) / float64(i+1))
	}
	return vec
}
