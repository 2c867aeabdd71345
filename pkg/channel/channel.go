// Package channel provides the typed, addressable message channel connecting
// pipeline stages.
//
// Queues are per-receiver, unbounded, and process-local. Delivery is
// at-most-once: a message is considered delivered the instant it is
// dequeued. The channel carries no business logic and makes no guarantee the
// receiver finishes processing — that responsibility sits with the engine.
//
// The Bus interface exists so the in-process queue can be swapped for a
// networked broker later; callers depend only on the send/receive/peek
// contract.
package channel

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/corpora-ai/go-corpora/pkg/corpora"
)

// Bus is the delivery contract between pipeline stages.
type Bus interface {
	// Send appends the message to the named receiver's queue. It never
	// blocks and fails only on malformed input (missing sender, receiver,
	// or payload).
	Send(msg *corpora.Message) error

	// Receive removes and returns the oldest undelivered message addressed
	// to receiver. The second return value is false when the queue is
	// empty, which is a normal outcome, not an error.
	Receive(receiver string) (*corpora.Message, bool)

	// Peek returns the oldest undelivered message without removing it.
	Peek(receiver string) (*corpora.Message, bool)

	// Stats maps each receiver name to its current queue length.
	Stats() map[string]int

	// Clear drops all queued messages for receiver and returns how many
	// were dropped.
	Clear(receiver string) int
}

// InProc is the in-process Bus implementation: per-receiver FIFO queues
// guarded by a single mutex.
//
// Safe for concurrent Send from multiple producers and concurrent
// Receive/Peek. All operations return immediately.
type InProc struct {
	mu     sync.Mutex
	queues map[string][]*corpora.Message
}

var _ Bus = (*InProc)(nil)

// NewInProc creates an empty in-process bus.
func NewInProc() *InProc {
	return &InProc{queues: make(map[string][]*corpora.Message)}
}

// Send implements Bus. The message ID and creation timestamp are assigned
// here; the channel owns the message from this point until delivery.
func (b *InProc) Send(msg *corpora.Message) error {
	if msg == nil {
		return corpora.NewErr(corpora.KindConfig, "message is nil")
	}
	if msg.Sender == "" {
		return corpora.NewErr(corpora.KindConfig, "message missing sender")
	}
	if msg.Receiver == "" {
		return corpora.NewErr(corpora.KindConfig, "message missing receiver")
	}
	if msg.Payload == nil {
		return corpora.NewErr(corpora.KindConfig, "message missing payload")
	}

	msg.ID = uuid.NewString()
	msg.CreatedAt = time.Now()

	b.mu.Lock()
	b.queues[msg.Receiver] = append(b.queues[msg.Receiver], msg)
	b.mu.Unlock()
	return nil
}

// Receive implements Bus.
func (b *InProc) Receive(receiver string) (*corpora.Message, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	queue := b.queues[receiver]
	if len(queue) == 0 {
		return nil, false
	}
	msg := queue[0]
	b.queues[receiver] = queue[1:]
	return msg, true
}

// Peek implements Bus.
func (b *InProc) Peek(receiver string) (*corpora.Message, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	queue := b.queues[receiver]
	if len(queue) == 0 {
		return nil, false
	}
	return queue[0], true
}

// Stats implements Bus.
func (b *InProc) Stats() map[string]int {
	b.mu.Lock()
	defer b.mu.Unlock()

	stats := make(map[string]int, len(b.queues))
	for receiver, queue := range b.queues {
		stats[receiver] = len(queue)
	}
	return stats
}

// Clear implements Bus.
func (b *InProc) Clear(receiver string) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	dropped := len(b.queues[receiver])
	delete(b.queues, receiver)
	return dropped
}
