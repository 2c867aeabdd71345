package badgerstore

import (
	"bytes"
	"context"
	"testing"

	"github.com/corpora-ai/go-corpora/pkg/corpora"
	"github.com/corpora-ai/go-corpora/pkg/index"
)

func TestStoreOperations(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	if got, err := store.Get("missing"); err != nil || got != nil {
		t.Errorf("Get on absent key = (%v, %v), want (nil, nil)", got, err)
	}
	if store.Exists("missing") {
		t.Error("Exists reported an absent key")
	}

	if err := store.Set("key", []byte("value")); err != nil {
		t.Fatal(err)
	}
	got, err := store.Get("key")
	if err != nil || !bytes.Equal(got, []byte("value")) {
		t.Errorf("Get = (%q, %v)", got, err)
	}
	if !store.Exists("key") {
		t.Error("Exists missed a present key")
	}

	if err := store.Delete("key"); err != nil {
		t.Fatal(err)
	}
	if store.Exists("key") {
		t.Error("key survived delete")
	}
}

func TestFlatIndexRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}

	idx := index.NewFlat(index.WithStore(store))
	chunks := []corpora.Chunk{
		{ID: "doc#0", Document: "doc", Text: "alpha", Seq: 0},
		{ID: "doc#1", Document: "doc", Text: "beta", Seq: 1},
	}
	if err := idx.Insert(ctx, "doc", chunks, [][]float32{{0.1, 0.9}, {0.8, 0.2}}); err != nil {
		t.Fatal(err)
	}

	query := []float32{0.5, 0.5}
	before, err := idx.Search(ctx, query, 2)
	if err != nil {
		t.Fatal(err)
	}
	if err := idx.Persist(); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	// Reopen the database, as after a process restart.
	reopened, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	restored := index.NewFlat(index.WithStore(reopened))
	if err := restored.Restore(); err != nil {
		t.Fatal(err)
	}

	after, err := restored.Search(ctx, query, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(after) != len(before) {
		t.Fatalf("result count changed: %d vs %d", len(before), len(after))
	}
	for i := range before {
		if before[i].Chunk.ID != after[i].Chunk.ID || before[i].Score != after[i].Score {
			t.Errorf("result %d changed across restart: %+v vs %+v", i, before[i], after[i])
		}
	}
}
