// Package corpora defines the core data model shared by every stage of the
// retrieval pipeline: chunks, scored search results, and the message envelope
// passed between pipeline stages.
//
// It also provides the kinded error type and context-aware logging helpers
// used across the module.
package corpora

import "time"

// Chunk is a contiguous span of text extracted from one source document.
//
// Chunks are created by the chunker and immutable afterwards. Consecutive
// chunks of the same document overlap by the configured number of runes so
// local context survives the cut.
type Chunk struct {
	ID       string `json:"id"`       // Unique within the document, e.g. "report.pdf#3"
	Document string `json:"document"` // Owning document name
	Text     string `json:"text"`     // Chunk content
	Seq      int    `json:"seq"`      // Position among the document's chunks
}

// ScoredChunk pairs a chunk with its distance to a query vector.
//
// Score is squared Euclidean (L2) distance: lower means more similar.
type ScoredChunk struct {
	Chunk Chunk   `json:"chunk"`
	Score float64 `json:"score"`
}

// IndexStats describes the current contents of a vector index.
type IndexStats struct {
	Entries   int      `json:"entries"`   // Total indexed chunks
	Documents int      `json:"documents"` // Distinct document count
	Dimension int      `json:"dimension"` // Fixed vector dimension, 0 if unset
	Names     []string `json:"names"`     // Sorted document names
}

// Pipeline stage names used as message senders and receivers.
const (
	StageIngestion = "ingestion"
	StageRetrieval = "retrieval"
	StageSynthesis = "synthesis"
)

// Message is an envelope carrying a payload between two named pipeline
// stages.
//
// The channel owns a message from send until delivery; stages must not
// mutate it after enqueue. ID and CreatedAt are assigned by the channel on
// send.
type Message struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Receiver  string    `json:"receiver"`
	Payload   any       `json:"payload"`
	CreatedAt time.Time `json:"created_at"`
}

// ChunkBatch is the payload sent from the ingestion stage to the retrieval
// stage: one document's full chunk sequence.
type ChunkBatch struct {
	Document string  `json:"document"`
	Chunks   []Chunk `json:"chunks"`
}

// RetrievalPayload is the payload sent from the retrieval stage to the
// synthesis stage: a query and its ranked context chunks.
type RetrievalPayload struct {
	Query   string        `json:"query"`
	Results []ScoredChunk `json:"results"`
}
