// Package index provides vector index implementations for nearest-neighbor
// retrieval over embedded chunks.
//
// The default Flat index is an exact, brute-force squared-L2 scan. Exactness
// and reproducibility (stable ordering, identical scores across restarts)
// matter more than asymptotic search cost at the target scale of thousands
// of chunks, so an approximate structure is deliberately not used.
//
// Remote implementations live in subpackages (pgvector) and satisfy the same
// Index contract.
package index

import (
	"context"

	"github.com/corpora-ai/go-corpora/pkg/corpora"
)

// Index stores (vector, chunk, document) triples and answers
// nearest-neighbor queries.
type Index interface {
	// Insert stores all chunks and vectors together. The chunk and vector
	// counts must match and every vector must have the index's fixed
	// dimension; the first insertion fixes the dimension if unset. On any
	// validation failure the index is left unchanged.
	Insert(ctx context.Context, document string, chunks []corpora.Chunk, vectors [][]float32) error

	// Search returns the topK entries with smallest squared-L2 distance to
	// vector, ordered by ascending distance, ties broken by insertion
	// order. topK <= 0 is a config error; topK larger than the index
	// returns everything; an empty index returns an empty result.
	Search(ctx context.Context, vector []float32, topK int) ([]corpora.ScoredChunk, error)

	// Purge removes every entry belonging to document. Purging an unknown
	// document is a no-op.
	Purge(ctx context.Context, document string) error

	// Stats reports entry count, document count, and dimension.
	Stats(ctx context.Context) (corpora.IndexStats, error)

	// Close releases any resources held by the index.
	Close() error
}

// Persister is implemented by indexes that snapshot to durable storage.
//
// The Flat index persists through its configured Store; database-backed
// indexes are durable by construction and do not implement this.
type Persister interface {
	// Persist serializes the full entry set plus fixed dimension.
	Persist() error

	// Restore replaces the in-memory contents from durable storage. An
	// empty or absent snapshot yields an empty index, not an error; a
	// failed restore leaves the index unchanged.
	Restore() error
}
