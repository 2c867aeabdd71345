package channel

import (
	"fmt"
	"sync"
	"testing"

	"github.com/corpora-ai/go-corpora/pkg/corpora"
)

func newMsg(sender, receiver string, payload any) *corpora.Message {
	return &corpora.Message{Sender: sender, Receiver: receiver, Payload: payload}
}

func TestSendValidation(t *testing.T) {
	bus := NewInProc()

	tests := []struct {
		name string
		msg  *corpora.Message
	}{
		{"nil message", nil},
		{"missing sender", newMsg("", corpora.StageRetrieval, "payload")},
		{"missing receiver", newMsg(corpora.StageIngestion, "", "payload")},
		{"missing payload", newMsg(corpora.StageIngestion, corpora.StageRetrieval, nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := bus.Send(tt.msg)
			if err == nil {
				t.Fatal("expected error")
			}
			if !corpora.IsKind(err, corpora.KindConfig) {
				t.Errorf("error kind = %v, want config", err)
			}
		})
	}

	if stats := bus.Stats(); len(stats) != 0 {
		t.Errorf("rejected sends must not enqueue, stats = %v", stats)
	}
}

func TestSendAssignsEnvelope(t *testing.T) {
	bus := NewInProc()

	msg := newMsg(corpora.StageIngestion, corpora.StageRetrieval, "payload")
	if err := bus.Send(msg); err != nil {
		t.Fatal(err)
	}

	got, ok := bus.Receive(corpora.StageRetrieval)
	if !ok {
		t.Fatal("expected a message")
	}
	if got.ID == "" {
		t.Error("message ID not assigned")
	}
	if got.CreatedAt.IsZero() {
		t.Error("message timestamp not assigned")
	}
	if got.Payload != "payload" {
		t.Errorf("payload = %v", got.Payload)
	}
}

func TestFIFOPerReceiver(t *testing.T) {
	bus := NewInProc()

	for i := 0; i < 5; i++ {
		if err := bus.Send(newMsg(corpora.StageIngestion, corpora.StageRetrieval, i)); err != nil {
			t.Fatal(err)
		}
	}

	for want := 0; want < 5; want++ {
		msg, ok := bus.Receive(corpora.StageRetrieval)
		if !ok {
			t.Fatalf("queue empty at position %d", want)
		}
		if msg.Payload != want {
			t.Errorf("received %v, want %d", msg.Payload, want)
		}
	}
}

func TestAtMostOnceDelivery(t *testing.T) {
	bus := NewInProc()

	if err := bus.Send(newMsg(corpora.StageIngestion, corpora.StageRetrieval, "only")); err != nil {
		t.Fatal(err)
	}

	if _, ok := bus.Receive(corpora.StageRetrieval); !ok {
		t.Fatal("first receive should deliver")
	}
	if _, ok := bus.Receive(corpora.StageRetrieval); ok {
		t.Error("second receive must not redeliver")
	}
}

func TestReceiveEmptyQueue(t *testing.T) {
	bus := NewInProc()

	if msg, ok := bus.Receive("nobody"); ok || msg != nil {
		t.Errorf("Receive on empty queue = (%v, %v), want (nil, false)", msg, ok)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	bus := NewInProc()

	if err := bus.Send(newMsg(corpora.StageRetrieval, corpora.StageSynthesis, "head")); err != nil {
		t.Fatal(err)
	}

	peeked, ok := bus.Peek(corpora.StageSynthesis)
	if !ok || peeked.Payload != "head" {
		t.Fatalf("Peek = (%v, %v)", peeked, ok)
	}

	received, ok := bus.Receive(corpora.StageSynthesis)
	if !ok || received.Payload != "head" {
		t.Fatalf("Receive after peek = (%v, %v)", received, ok)
	}
}

func TestStatsAndClear(t *testing.T) {
	bus := NewInProc()

	for i := 0; i < 3; i++ {
		if err := bus.Send(newMsg(corpora.StageIngestion, corpora.StageRetrieval, i)); err != nil {
			t.Fatal(err)
		}
	}
	if err := bus.Send(newMsg(corpora.StageRetrieval, corpora.StageSynthesis, "one")); err != nil {
		t.Fatal(err)
	}

	stats := bus.Stats()
	if stats[corpora.StageRetrieval] != 3 || stats[corpora.StageSynthesis] != 1 {
		t.Errorf("stats = %v", stats)
	}

	if dropped := bus.Clear(corpora.StageRetrieval); dropped != 3 {
		t.Errorf("Clear dropped %d, want 3", dropped)
	}
	if _, ok := bus.Receive(corpora.StageRetrieval); ok {
		t.Error("cleared queue should be empty")
	}
	if stats := bus.Stats(); stats[corpora.StageSynthesis] != 1 {
		t.Errorf("other queues must survive a clear, stats = %v", stats)
	}
}

func TestConcurrentSendReceive(t *testing.T) {
	bus := NewInProc()

	const producers = 8
	const perProducer = 50

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				msg := newMsg(fmt.Sprintf("producer-%d", p), corpora.StageRetrieval, i)
				if err := bus.Send(msg); err != nil {
					t.Error(err)
				}
			}
		}(p)
	}
	wg.Wait()

	seen := make(map[string]bool)
	count := 0
	for {
		msg, ok := bus.Receive(corpora.StageRetrieval)
		if !ok {
			break
		}
		if seen[msg.ID] {
			t.Fatalf("message %s delivered twice", msg.ID)
		}
		seen[msg.ID] = true
		count++
	}
	if count != producers*perProducer {
		t.Errorf("received %d messages, want %d", count, producers*perProducer)
	}
}
