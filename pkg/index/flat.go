package index

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/corpora-ai/go-corpora/pkg/corpora"
)

// DefaultStoreKey is the key the Flat index snapshots under when none is
// configured.
const DefaultStoreKey = "corpora/index"

// entry binds a chunk to its embedding vector and the slot id assigned at
// insertion. Slots are never reused, so insertion order survives purges and
// restarts.
type entry struct {
	Slot   uint64        `json:"slot"`
	Chunk  corpora.Chunk `json:"chunk"`
	Vector []float32     `json:"vector"`
}

// snapshot is the persisted form of the index.
type snapshot struct {
	Dimension int     `json:"dimension"`
	NextSlot  uint64  `json:"next_slot"`
	Entries   []entry `json:"entries"`
}

// Flat is an exact nearest-neighbor index: a brute-force squared-L2 scan
// over every stored vector.
//
// Reader-writer discipline: searches run concurrently against a stable
// snapshot; Insert, Purge, Persist, and Restore take the exclusive lock.
//
// Example:
//
//	idx := index.NewFlat(index.WithStore(store))
//	if err := idx.Restore(); err != nil {
//	    return err
//	}
//	results, err := idx.Search(ctx, queryVec, 5)
type Flat struct {
	mu       sync.RWMutex
	dim      int
	entries  []entry
	nextSlot uint64

	store    Store
	storeKey string
}

var (
	_ Index     = (*Flat)(nil)
	_ Persister = (*Flat)(nil)
)

// FlatOption configures a Flat index.
type FlatOption func(*Flat)

// WithStore sets the durable store Persist and Restore operate against.
// Without one the index is purely in-memory and Persist fails.
func WithStore(store Store) FlatOption {
	return func(f *Flat) { f.store = store }
}

// WithStoreKey overrides the snapshot key. Useful when several indexes
// share one store.
func WithStoreKey(key string) FlatOption {
	return func(f *Flat) { f.storeKey = key }
}

// NewFlat creates an empty Flat index. The vector dimension is fixed by the
// first insertion.
func NewFlat(opts ...FlatOption) *Flat {
	f := &Flat{storeKey: DefaultStoreKey}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Insert implements Index. All validation happens before any mutation, so a
// rejected insert leaves the index exactly as it was.
func (f *Flat) Insert(ctx context.Context, document string, chunks []corpora.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return corpora.Errorf(corpora.KindConfig,
			"chunk count %d does not match vector count %d for document %q", len(chunks), len(vectors), document)
	}
	if len(chunks) == 0 {
		return nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	dim := f.dim
	if dim == 0 {
		dim = len(vectors[0])
		if dim == 0 {
			return corpora.Errorf(corpora.KindDimensionMismatch, "empty vector for document %q", document)
		}
	}
	for i, vec := range vectors {
		if len(vec) != dim {
			return corpora.Errorf(corpora.KindDimensionMismatch,
				"vector %d for document %q has dimension %d, index dimension is %d", i, document, len(vec), dim)
		}
	}

	f.dim = dim
	for i := range chunks {
		f.entries = append(f.entries, entry{Slot: f.nextSlot, Chunk: chunks[i], Vector: vectors[i]})
		f.nextSlot++
	}

	corpora.LogDebug(ctx, "indexed chunks", "document", document, "chunks", len(chunks), "total", len(f.entries))
	return nil
}

// Search implements Index.
func (f *Flat) Search(ctx context.Context, vector []float32, topK int) ([]corpora.ScoredChunk, error) {
	if topK <= 0 {
		return nil, corpora.Errorf(corpora.KindConfig, "top-k must be positive, got %d", topK)
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	if len(f.entries) == 0 {
		return []corpora.ScoredChunk{}, nil
	}
	if len(vector) != f.dim {
		return nil, corpora.Errorf(corpora.KindDimensionMismatch,
			"query vector has dimension %d, index dimension is %d", len(vector), f.dim)
	}

	type scored struct {
		idx  int
		dist float64
	}
	scores := make([]scored, len(f.entries))
	for i := range f.entries {
		scores[i] = scored{idx: i, dist: l2Squared(f.entries[i].Vector, vector)}
	}
	// Stable sort keeps insertion order on equal distances.
	sort.SliceStable(scores, func(a, b int) bool { return scores[a].dist < scores[b].dist })

	if topK > len(scores) {
		topK = len(scores)
	}
	results := make([]corpora.ScoredChunk, 0, topK)
	for _, s := range scores[:topK] {
		results = append(results, corpora.ScoredChunk{Chunk: f.entries[s.idx].Chunk, Score: s.dist})
	}

	corpora.LogDebug(ctx, "search complete", "candidates", len(f.entries), "returned", len(results))
	return results, nil
}

// Purge implements Index. Surviving entries keep their slot ids, so their
// relative insertion order is unchanged.
func (f *Flat) Purge(ctx context.Context, document string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	kept := f.entries[:0]
	removed := 0
	for _, e := range f.entries {
		if e.Chunk.Document == document {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	f.entries = kept

	if removed > 0 {
		corpora.LogInfo(ctx, "purged document", "document", document, "removed", removed)
	}
	return nil
}

// Stats implements Index.
func (f *Flat) Stats(_ context.Context) (corpora.IndexStats, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, e := range f.entries {
		seen[e.Chunk.Document] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)

	return corpora.IndexStats{
		Entries:   len(f.entries),
		Documents: len(seen),
		Dimension: f.dim,
		Names:     names,
	}, nil
}

// Persist implements Persister. It snapshots the full entry set plus the
// fixed dimension; it must not run concurrently with writes, so it holds the
// exclusive lock.
func (f *Flat) Persist() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.store == nil {
		return corpora.NewErr(corpora.KindPersistence, "no store configured")
	}

	data, err := json.Marshal(snapshot{Dimension: f.dim, NextSlot: f.nextSlot, Entries: f.entries})
	if err != nil {
		return corpora.WrapErr(corpora.KindPersistence, err, "encoding index snapshot")
	}
	if err := f.store.Set(f.storeKey, data); err != nil {
		return corpora.WrapErr(corpora.KindPersistence, err, "writing index snapshot")
	}
	return nil
}

// Restore implements Persister. The snapshot is decoded into scratch space
// and swapped in only on success, so a failed restore leaves the index in
// its prior state.
func (f *Flat) Restore() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.store == nil {
		return corpora.NewErr(corpora.KindPersistence, "no store configured")
	}

	data, err := f.store.Get(f.storeKey)
	if err != nil {
		return corpora.WrapErr(corpora.KindPersistence, err, "reading index snapshot")
	}
	if data == nil {
		// First start: nothing persisted yet.
		f.dim = 0
		f.entries = nil
		f.nextSlot = 0
		return nil
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return corpora.WrapErr(corpora.KindPersistence, err, "decoding index snapshot")
	}

	f.dim = snap.Dimension
	f.entries = snap.Entries
	f.nextSlot = snap.NextSlot
	return nil
}

// Close implements Index. The Flat index holds no external resources.
func (f *Flat) Close() error { return nil }

// l2Squared computes squared Euclidean distance with float64 accumulation,
// which is deterministic for identical inputs across runs.
func l2Squared(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}
