package engine

import (
	"github.com/hbollon/go-edlib"

	"github.com/corpora-ai/go-corpora/pkg/corpora"
)

// dedupeResults removes near-duplicate chunks from ranked search results.
//
// Results are walked in rank order; a result is dropped when its text is at
// least threshold-similar to any already-kept result, so the better-ranked
// copy always survives. Overlapping chunks from the same document are the
// common duplicate source.
func dedupeResults(results []corpora.ScoredChunk, threshold float64) []corpora.ScoredChunk {
	if len(results) < 2 {
		return results
	}

	kept := make([]corpora.ScoredChunk, 0, len(results))
	for _, candidate := range results {
		duplicate := false
		for _, existing := range kept {
			if contentSimilarity(candidate.Chunk.Text, existing.Chunk.Text) >= threshold {
				duplicate = true
				break
			}
		}
		if !duplicate {
			kept = append(kept, candidate)
		}
	}
	return kept
}

// contentSimilarity blends n-gram cosine with word-level Jaccard similarity.
// Cosine is weighted higher: overlapping chunks share most of their 2-grams
// even when word order shifts at the cut point.
func contentSimilarity(a, b string) float64 {
	jaccard := edlib.JaccardSimilarity(a, b, 0)
	cosine := edlib.CosineSimilarity(a, b, 2)
	return float64(0.7*cosine + 0.3*jaccard)
}
