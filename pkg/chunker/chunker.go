// Package chunker splits extracted document text into overlapping,
// boundary-aware segments for retrieval indexing.
//
// Splitting prefers sentence or whitespace boundaries near each cut point so
// words and sentences are not severed when a reasonable boundary exists
// nearby. Each chunk after the first begins a fixed number of runes before
// the previous chunk's end, preserving local context across the cut.
//
// Example:
//
//	c, err := chunker.New(chunker.Config{Size: 500, Overlap: 50})
//	if err != nil {
//	    return err
//	}
//	chunks := c.Chunk("report.pdf", text)
package chunker

import (
	"fmt"
	"strings"

	"github.com/corpora-ai/go-corpora/pkg/corpora"
)

// Default chunking parameters, sized for sentence-transformer style
// embedding models.
const (
	DefaultSize    = 500
	DefaultOverlap = 50
)

// boundaryFraction is how far into a chunk a boundary must sit to be
// preferred over a hard cut, expressed in tenths.
const boundaryFraction = 7

// Config holds chunking parameters. Both values are rune counts.
type Config struct {
	// Size is the maximum chunk length. Must be positive.
	Size int

	// Overlap is how many trailing runes of a chunk reappear at the head
	// of the next one. Must be positive and smaller than Size.
	Overlap int
}

// Chunker splits text deterministically: identical input and parameters
// always produce an identical chunk sequence, which keeps re-ingestion
// idempotent.
type Chunker struct {
	cfg Config
}

// New validates the configuration and returns a Chunker.
//
// Returns a config-kind error when Size or Overlap is non-positive or
// Overlap is not smaller than Size.
func New(cfg Config) (*Chunker, error) {
	if cfg.Size <= 0 {
		return nil, corpora.Errorf(corpora.KindConfig, "chunk size must be positive, got %d", cfg.Size)
	}
	if cfg.Overlap <= 0 {
		return nil, corpora.Errorf(corpora.KindConfig, "chunk overlap must be positive, got %d", cfg.Overlap)
	}
	if cfg.Overlap >= cfg.Size {
		return nil, corpora.Errorf(corpora.KindConfig, "chunk overlap %d must be smaller than chunk size %d", cfg.Overlap, cfg.Size)
	}
	return &Chunker{cfg: cfg}, nil
}

// Chunk splits text into the ordered chunk sequence for document.
//
// Empty or whitespace-only input yields nil, not an error. Consecutive
// chunks satisfy the overlap invariant exactly: the trailing Overlap runes
// of chunk i equal the leading Overlap runes of chunk i+1.
func (c *Chunker) Chunk(document, text string) []corpora.Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	runes := []rune(text)
	size, overlap := c.cfg.Size, c.cfg.Overlap

	var chunks []corpora.Chunk
	start := 0
	for seq := 0; start < len(runes); seq++ {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		} else if end < len(runes) {
			if cut, ok := boundaryCut(runes[start:end], size, overlap); ok {
				end = start + cut
			}
		}

		chunks = append(chunks, corpora.Chunk{
			ID:       fmt.Sprintf("%s#%d", document, seq),
			Document: document,
			Text:     string(runes[start:end]),
			Seq:      seq,
		})

		if end == len(runes) {
			break
		}
		start = end - overlap
	}
	return chunks
}

// boundaryCut searches backward through the window for the sentence or
// whitespace boundary nearest the cut point. A boundary is used only when it
// sits past 70% of the window and past the overlap, so chunks keep making
// forward progress.
func boundaryCut(window []rune, size, overlap int) (int, bool) {
	minCut := size * boundaryFraction / 10
	if overlap > minCut {
		minCut = overlap
	}
	for i := len(window) - 1; i > minCut-1; i-- {
		if isBoundary(window[i]) {
			return i + 1, true
		}
	}
	return 0, false
}

func isBoundary(r rune) bool {
	switch r {
	case '.', '!', '?', '\n', ' ':
		return true
	}
	return false
}
