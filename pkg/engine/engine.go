// Package engine coordinates the retrieval pipeline: chunking, embedding,
// indexing, search, and answer synthesis.
//
// The engine owns no backend itself. Collaborators are injected through
// Config, stages exchange work through the message channel, and per-document
// pipeline state is tracked in an insertion-ordered registry.
//
// Example:
//
//	eng, err := engine.New(&engine.Config{
//	    Embedder:    embed.NewMock(8),
//	    Index:       index.NewFlat(),
//	    Synthesizer: &synth.Mock{},
//	})
//	if err != nil {
//	    return err
//	}
//	defer eng.Close()
//
//	if err := eng.Ingest(ctx, "report.pdf", text); err != nil {
//	    return err
//	}
//	resp, err := eng.Query(ctx, "What were Q3 revenues?", engine.WithTopK(5))
package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/corpora-ai/go-corpora/pkg/chunker"
	"github.com/corpora-ai/go-corpora/pkg/corpora"
	"github.com/corpora-ai/go-corpora/pkg/index"
	"github.com/corpora-ai/go-corpora/pkg/synth"
)

// Engine is the retrieval coordinator. Safe for concurrent use.
type Engine struct {
	cfg      Config
	chunker  *chunker.Chunker
	registry *registry

	// dispatchMu serializes each send/receive pair on the stage queues so a
	// concurrent operation never dequeues another operation's message.
	dispatchMu sync.Mutex
}

// Response is the outcome of a query.
type Response struct {
	// Answer is the synthesized text. Empty when no synthesizer is
	// configured.
	Answer string `json:"answer"`

	// Context is the ranked retrieval result handed to the synthesizer.
	Context []corpora.ScoredChunk `json:"context"`

	// Used are the context chunks the synthesizer reported drawing on,
	// always a subset of Context.
	Used []corpora.Chunk `json:"used"`

	// Model is the selector the answer was synthesized with.
	Model synth.Model `json:"model"`
}

// Sources returns the distinct documents behind the used chunks, in
// first-appearance order.
func (r *Response) Sources() []string {
	return synth.Sources(r.Used)
}

// New validates the configuration and assembles an Engine.
func New(config *Config) (*Engine, error) {
	if config == nil {
		return nil, corpora.NewErr(corpora.KindConfig, "config is required")
	}
	cfg := config.withDefaults()

	if cfg.Embedder == nil {
		return nil, corpora.NewErr(corpora.KindConfig, "embedding provider is required")
	}
	if cfg.Index == nil {
		return nil, corpora.NewErr(corpora.KindConfig, "vector index is required")
	}

	c, err := chunker.New(chunker.Config{Size: cfg.Settings.ChunkSize, Overlap: cfg.Settings.ChunkOverlap})
	if err != nil {
		return nil, err
	}
	if _, err := synth.Model(cfg.Settings.Model).Info(); err != nil {
		return nil, err
	}

	return &Engine{cfg: cfg, chunker: c, registry: newRegistry()}, nil
}

// Ingest runs one document through the pipeline: chunk, embed, replace the
// document's index entries.
//
// Re-ingesting a known document replaces its entries wholesale, so repeating
// an ingest leaves the index contents unchanged. Prior entries are purged
// only after embedding succeeds: a failed ingest marks the document failed
// and leaves whatever the index held for it untouched.
func (e *Engine) Ingest(ctx context.Context, document, text string) error {
	if document == "" {
		return corpora.NewErr(corpora.KindConfig, "document name is required")
	}

	e.registry.set(document, StateReceived, 0, "")
	corpora.LogInfo(ctx, "document received", slog.String("document", document))

	chunks := e.chunker.Chunk(document, text)
	e.registry.set(document, StateChunked, len(chunks), "")

	if len(chunks) == 0 {
		// Nothing to embed. Purge keeps re-ingestion of an emptied
		// document consistent with its new contents.
		if err := e.cfg.Index.Purge(ctx, document); err != nil {
			return e.fail(ctx, document, err)
		}
		e.registry.set(document, StateIndexed, 0, "")
		corpora.LogInfo(ctx, "document had no extractable text", slog.String("document", document))
		return nil
	}

	batch := &corpora.ChunkBatch{Document: document, Chunks: chunks}
	delivered, err := e.dispatch(&corpora.Message{
		Sender:   corpora.StageIngestion,
		Receiver: corpora.StageRetrieval,
		Payload:  batch,
	})
	if err != nil {
		return e.fail(ctx, document, err)
	}

	received, ok := delivered.Payload.(*corpora.ChunkBatch)
	if !ok {
		return e.fail(ctx, document, corpora.Errorf(corpora.KindConfig, "unexpected payload %T on retrieval queue", delivered.Payload))
	}

	if err := e.indexBatch(ctx, received); err != nil {
		return e.fail(ctx, received.Document, err)
	}
	return nil
}

// dispatch sends msg to its stage queue and dequeues it again, holding the
// dispatch lock across the pair. The dequeued message must be the one just
// sent; the engine owns the stage queues, so a mismatch means some other
// producer is writing to them.
func (e *Engine) dispatch(msg *corpora.Message) (*corpora.Message, error) {
	e.dispatchMu.Lock()
	defer e.dispatchMu.Unlock()

	if err := e.cfg.Bus.Send(msg); err != nil {
		return nil, err
	}
	e.cfg.Metrics.recordChannelDepth(e.cfg.Bus.Stats())

	delivered, ok := e.cfg.Bus.Receive(msg.Receiver)
	if !ok {
		return nil, corpora.Errorf(corpora.KindConfig, "message was not delivered to %q", msg.Receiver)
	}
	if delivered.ID != msg.ID {
		return nil, corpora.Errorf(corpora.KindConfig,
			"foreign message %s on the %q queue; stage queues belong to the engine", delivered.ID, msg.Receiver)
	}
	e.cfg.Metrics.recordChannelDepth(e.cfg.Bus.Stats())
	return delivered, nil
}

// indexBatch embeds a chunk batch and replaces the document's index entries.
func (e *Engine) indexBatch(ctx context.Context, batch *corpora.ChunkBatch) error {
	texts := make([]string, len(batch.Chunks))
	for i, chunk := range batch.Chunks {
		texts[i] = chunk.Text
	}

	vectors, err := e.cfg.Embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return err
	}
	if len(vectors) != len(texts) {
		return corpora.Errorf(corpora.KindProvider, "embedding provider returned %d vectors for %d texts", len(vectors), len(texts))
	}
	e.registry.set(batch.Document, StateEmbedded, len(batch.Chunks), "")

	if err := e.cfg.Index.Purge(ctx, batch.Document); err != nil {
		return err
	}
	if err := e.cfg.Index.Insert(ctx, batch.Document, batch.Chunks, vectors); err != nil {
		return err
	}

	e.registry.set(batch.Document, StateIndexed, len(batch.Chunks), "")
	e.cfg.Metrics.recordIngest(len(batch.Chunks))
	corpora.LogInfo(ctx, "document indexed",
		slog.String("document", batch.Document),
		slog.Int("chunks", len(batch.Chunks)))
	return nil
}

// fail records a document's failure and returns the error unchanged. The
// chunk count recorded before the failure stays visible.
func (e *Engine) fail(ctx context.Context, document string, err error) error {
	e.registry.fail(document, err.Error())
	e.cfg.Metrics.recordIngestFailure()
	corpora.LogError(ctx, "ingest failed", err, slog.String("document", document))
	return err
}

// Query retrieves the chunks nearest the query and synthesizes an answer
// from them.
//
// A search that finds nothing still reaches the synthesizer, with an empty
// context; the engine never substitutes unrelated content for a zero-result
// retrieval. Without a configured synthesizer the response carries the
// retrieved context and an empty answer.
func (e *Engine) Query(ctx context.Context, query string, opts ...QueryOption) (*Response, error) {
	start := time.Now()

	resolved := queryOptions{
		topK:  e.cfg.Settings.TopK,
		model: synth.Model(e.cfg.Settings.Model),
	}
	for _, opt := range opts {
		opt(&resolved)
	}
	if resolved.topK <= 0 {
		return nil, corpora.Errorf(corpora.KindConfig, "top-k must be positive, got %d", resolved.topK)
	}
	if _, err := resolved.model.Info(); err != nil {
		return nil, err
	}

	vector, err := e.cfg.Embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	results, err := e.cfg.Index.Search(ctx, vector, resolved.topK)
	if err != nil {
		return nil, err
	}
	if resolved.filter {
		results = dedupeResults(results, resolved.threshold)
	}

	delivered, err := e.dispatch(&corpora.Message{
		Sender:   corpora.StageRetrieval,
		Receiver: corpora.StageSynthesis,
		Payload:  &corpora.RetrievalPayload{Query: query, Results: results},
	})
	if err != nil {
		return nil, err
	}

	payload, ok := delivered.Payload.(*corpora.RetrievalPayload)
	if !ok {
		return nil, corpora.Errorf(corpora.KindConfig, "unexpected payload %T on synthesis queue", delivered.Payload)
	}

	resp := &Response{Context: payload.Results, Model: resolved.model}
	if e.cfg.Synthesizer != nil {
		answer, err := e.cfg.Synthesizer.Synthesize(ctx, payload.Query, payload.Results, resolved.model)
		if err != nil {
			return nil, err
		}
		resp.Answer = answer.Text
		resp.Used = restrictToContext(answer.ChunksUsed, payload.Results)
	}

	e.cfg.Metrics.recordQuery(start)
	corpora.LogDebug(ctx, "query answered",
		slog.Int("results", len(resp.Context)),
		slog.String("model", string(resolved.model)))
	return resp, nil
}

// restrictToContext keeps only used chunks that appear in the handed-over
// context, preserving the synthesizer's reported order.
func restrictToContext(used []corpora.Chunk, given []corpora.ScoredChunk) []corpora.Chunk {
	ids := make(map[string]struct{}, len(given))
	for _, sc := range given {
		ids[sc.Chunk.ID] = struct{}{}
	}
	kept := make([]corpora.Chunk, 0, len(used))
	for _, chunk := range used {
		if _, ok := ids[chunk.ID]; ok {
			kept = append(kept, chunk)
		}
	}
	return kept
}

// Purge removes a document's entries from the index. The document stays in
// the status listing, reset to the received state, so its history remains
// visible.
func (e *Engine) Purge(ctx context.Context, document string) error {
	if err := e.cfg.Index.Purge(ctx, document); err != nil {
		return err
	}
	e.registry.set(document, StateReceived, 0, "")
	return nil
}

// Status returns one document's pipeline status.
func (e *Engine) Status(document string) (DocumentStatus, bool) {
	return e.registry.get(document)
}

// Documents lists every known document's status in ingestion order.
func (e *Engine) Documents() []DocumentStatus {
	return e.registry.list()
}

// Stats reports the index contents.
func (e *Engine) Stats(ctx context.Context) (corpora.IndexStats, error) {
	return e.cfg.Index.Stats(ctx)
}

// Persist snapshots the index when the configured index supports it.
func (e *Engine) Persist() error {
	p, ok := e.cfg.Index.(index.Persister)
	if !ok {
		return corpora.NewErr(corpora.KindPersistence, "configured index does not support snapshots")
	}
	return p.Persist()
}

// Restore reloads the index from its snapshot when the configured index
// supports it.
func (e *Engine) Restore() error {
	p, ok := e.cfg.Index.(index.Persister)
	if !ok {
		return corpora.NewErr(corpora.KindPersistence, "configured index does not support snapshots")
	}
	return p.Restore()
}

// Close releases the index's resources.
func (e *Engine) Close() error {
	return e.cfg.Index.Close()
}
