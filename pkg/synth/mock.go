package synth

import (
	"context"
	"fmt"
	"sync"

	"github.com/corpora-ai/go-corpora/pkg/corpora"
)

// Mock is a canned Synthesizer for tests and offline examples.
//
// It echoes the query and the sources it saw, and reports every given chunk
// as used unless UseFirst limits it. Safe for concurrent use; configure the
// exported fields before sharing it across goroutines.
type Mock struct {
	// Answer overrides the generated text when non-empty.
	Answer string

	// UseFirst, when positive, marks only the first N chunks as used.
	UseFirst int

	// Err, when set, is returned by every call.
	Err error

	mu        sync.Mutex
	lastModel Model
}

var _ Synthesizer = (*Mock)(nil)

// LastModel returns the selector from the most recent call.
func (m *Mock) LastModel() Model {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastModel
}

// Synthesize implements Synthesizer.
func (m *Mock) Synthesize(_ context.Context, query string, chunks []corpora.ScoredChunk, model Model) (*Answer, error) {
	m.mu.Lock()
	m.lastModel = model
	m.mu.Unlock()

	if m.Err != nil {
		return nil, corpora.WrapErr(corpora.KindProvider, m.Err, "mock synthesis failed")
	}

	used := make([]corpora.Chunk, 0, len(chunks))
	for _, sc := range chunks {
		used = append(used, sc.Chunk)
	}
	if m.UseFirst > 0 && m.UseFirst < len(used) {
		used = used[:m.UseFirst]
	}

	text := m.Answer
	if text == "" {
		if len(chunks) == 0 {
			text = fmt.Sprintf("No context available to answer %q.", query)
		} else {
			text = fmt.Sprintf("Answer to %q based on %d chunks from %v.", query, len(used), Sources(used))
		}
	}
	return &Answer{Text: text, ChunksUsed: used}, nil
}
