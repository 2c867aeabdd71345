package engine

import (
	"sync"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// State is a document's position in the ingestion pipeline.
type State string

// Document lifecycle states. A document moves strictly forward through
// Received, Chunked, Embedded, Indexed; any failure moves it to Failed with
// the reason recorded. Re-ingesting restarts the document at Received.
const (
	StateReceived State = "received"
	StateChunked  State = "chunked"
	StateEmbedded State = "embedded"
	StateIndexed  State = "indexed"
	StateFailed   State = "failed"
)

// DocumentStatus is a snapshot of one document's pipeline progress.
type DocumentStatus struct {
	Document  string    `json:"document"`
	State     State     `json:"state"`
	Chunks    int       `json:"chunks"`           // Chunk count once chunked
	Reason    string    `json:"reason,omitempty"` // Failure reason when failed
	UpdatedAt time.Time `json:"updated_at"`
}

// registry tracks per-document pipeline state in ingestion order, so status
// listings read back in the order documents arrived.
type registry struct {
	mu   sync.Mutex
	docs *orderedmap.OrderedMap[string, *DocumentStatus]
}

func newRegistry() *registry {
	return &registry{docs: orderedmap.New[string, *DocumentStatus]()}
}

// set records a state transition. Re-ingesting a known document keeps its
// original position in the listing.
func (r *registry) set(document string, state State, chunks int, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	status, ok := r.docs.Get(document)
	if !ok {
		status = &DocumentStatus{Document: document}
		r.docs.Set(document, status)
	}
	status.State = state
	status.Chunks = chunks
	status.Reason = reason
	status.UpdatedAt = time.Now()
}

// fail marks a document failed with the given reason, keeping whatever
// chunk count was recorded before the failure.
func (r *registry) fail(document, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	status, ok := r.docs.Get(document)
	if !ok {
		status = &DocumentStatus{Document: document}
		r.docs.Set(document, status)
	}
	status.State = StateFailed
	status.Reason = reason
	status.UpdatedAt = time.Now()
}

// get returns a copy of one document's status.
func (r *registry) get(document string) (DocumentStatus, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	status, ok := r.docs.Get(document)
	if !ok {
		return DocumentStatus{}, false
	}
	return *status, true
}

// list returns copies of every document's status in ingestion order.
func (r *registry) list() []DocumentStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	statuses := make([]DocumentStatus, 0, r.docs.Len())
	for pair := r.docs.Oldest(); pair != nil; pair = pair.Next() {
		statuses = append(statuses, *pair.Value)
	}
	return statuses
}
