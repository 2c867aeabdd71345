//go:build integration

package pgvector

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/corpora-ai/go-corpora/pkg/corpora"
)

// pgContainer holds the PostgreSQL testcontainer and its connection string.
type pgContainer struct {
	container testcontainers.Container
	connStr   string
}

func setupPostgres(ctx context.Context) (*pgContainer, error) {
	req := testcontainers.ContainerRequest{
		Image:        "pgvector/pgvector:pg16",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		).WithDeadline(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("starting PostgreSQL container: %w", err)
	}

	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return nil, fmt.Errorf("getting mapped port: %w", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting container host: %w", err)
	}

	connStr := fmt.Sprintf("postgres://testuser:testpass@%s:%s/testdb?sslmode=disable", host, port.Port())

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("connecting: %w", err)
	}
	defer pool.Close()
	if _, err := pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return nil, fmt.Errorf("enabling pgvector extension: %w", err)
	}

	return &pgContainer{container: container, connStr: connStr}, nil
}

func testChunks(document string, texts ...string) []corpora.Chunk {
	chunks := make([]corpora.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = corpora.Chunk{
			ID:       fmt.Sprintf("%s#%d", document, i),
			Document: document,
			Text:     text,
			Seq:      i,
		}
	}
	return chunks
}

func TestPGVectorIndex(t *testing.T) {
	ctx := context.Background()

	pg, err := setupPostgres(ctx)
	if err != nil {
		t.Fatalf("container setup: %v", err)
	}
	defer pg.container.Terminate(ctx)

	client, err := New(&Config{ConnectionString: pg.connStr, Dimension: 2})
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()

	t.Run("search on absent table returns empty", func(t *testing.T) {
		results, err := client.Search(ctx, []float32{0, 0}, 5)
		if err != nil {
			t.Fatal(err)
		}
		if len(results) != 0 {
			t.Errorf("results = %+v, want empty", results)
		}
	})

	t.Run("insert and ranked search", func(t *testing.T) {
		// Distances to the query (0,0): near=1, mid=4, far=25.
		err := client.Insert(ctx, "doc", testChunks("doc", "near", "mid", "far"),
			[][]float32{{1, 0}, {0, 2}, {3, 4}})
		if err != nil {
			t.Fatal(err)
		}

		results, err := client.Search(ctx, []float32{0, 0}, 3)
		if err != nil {
			t.Fatal(err)
		}
		if len(results) != 3 {
			t.Fatalf("got %d results", len(results))
		}

		wantOrder := []string{"near", "mid", "far"}
		wantScores := []float64{1, 4, 25}
		for i := range results {
			if results[i].Chunk.Text != wantOrder[i] {
				t.Errorf("result %d = %q, want %q", i, results[i].Chunk.Text, wantOrder[i])
			}
			if diff := results[i].Score - wantScores[i]; diff > 1e-6 || diff < -1e-6 {
				t.Errorf("result %d score = %v, want %v", i, results[i].Score, wantScores[i])
			}
		}
	})

	t.Run("equal distances rank by insertion order", func(t *testing.T) {
		err := client.Insert(ctx, "ties", testChunks("ties", "first", "second"),
			[][]float32{{0, 9}, {9, 0}})
		if err != nil {
			t.Fatal(err)
		}

		results, err := client.Search(ctx, []float32{0, 0}, 10)
		if err != nil {
			t.Fatal(err)
		}

		var tied []string
		for _, sc := range results {
			if sc.Chunk.Document == "ties" {
				tied = append(tied, sc.Chunk.Text)
			}
		}
		if len(tied) != 2 || tied[0] != "first" || tied[1] != "second" {
			t.Errorf("tie order = %v, want [first second]", tied)
		}
	})

	t.Run("dimension mismatch rejected", func(t *testing.T) {
		err := client.Insert(ctx, "bad", testChunks("bad", "x"), [][]float32{{1, 2, 3}})
		if !corpora.IsKind(err, corpora.KindDimensionMismatch) {
			t.Errorf("error = %v, want dimension mismatch kind", err)
		}
	})

	t.Run("purge document", func(t *testing.T) {
		if err := client.Purge(ctx, "ties"); err != nil {
			t.Fatal(err)
		}

		stats, err := client.Stats(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if stats.Documents != 1 || stats.Entries != 3 {
			t.Errorf("stats after purge = %+v", stats)
		}

		// Unknown document purge is a no-op.
		if err := client.Purge(ctx, "never-seen"); err != nil {
			t.Errorf("purge of unknown document: %v", err)
		}
	})
}
