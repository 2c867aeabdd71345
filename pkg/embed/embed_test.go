package embed

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/corpora-ai/go-corpora/pkg/corpora"
)

func TestMockDeterminism(t *testing.T) {
	ctx := context.Background()
	mock := NewMock(16)

	first, err := mock.Embed(ctx, "the same text")
	if err != nil {
		t.Fatal(err)
	}
	second, err := mock.Embed(ctx, "the same text")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("identical text produced different vectors")
	}

	other, err := mock.Embed(ctx, "different text")
	if err != nil {
		t.Fatal(err)
	}
	if reflect.DeepEqual(first, other) {
		t.Error("different texts produced identical vectors")
	}
}

func TestMockDimension(t *testing.T) {
	ctx := context.Background()

	vec, err := NewMock(32).Embed(ctx, "text")
	if err != nil {
		t.Fatal(err)
	}
	if len(vec) != 32 {
		t.Errorf("dimension = %d, want 32", len(vec))
	}

	// Zero falls back to the default dimension.
	vec, err = (&Mock{}).Embed(ctx, "text")
	if err != nil {
		t.Fatal(err)
	}
	if len(vec) != 8 {
		t.Errorf("default dimension = %d, want 8", len(vec))
	}
}

func TestMockBatchOrder(t *testing.T) {
	ctx := context.Background()
	mock := NewMock(8)

	texts := []string{"alpha", "beta", "gamma"}
	batch, err := mock.EmbedBatch(ctx, texts)
	if err != nil {
		t.Fatal(err)
	}
	if len(batch) != len(texts) {
		t.Fatalf("got %d vectors for %d texts", len(batch), len(texts))
	}
	for i, text := range texts {
		single, err := mock.Embed(ctx, text)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(batch[i], single) {
			t.Errorf("batch vector %d does not match single embedding of %q", i, text)
		}
	}
}

func TestMockError(t *testing.T) {
	mock := &Mock{Err: errors.New("backend down")}

	if _, err := mock.Embed(context.Background(), "x"); !corpora.IsKind(err, corpora.KindProvider) {
		t.Errorf("Embed error = %v, want provider kind", err)
	}
	if _, err := mock.EmbedBatch(context.Background(), []string{"x"}); !corpora.IsKind(err, corpora.KindProvider) {
		t.Errorf("EmbedBatch error = %v, want provider kind", err)
	}
}
