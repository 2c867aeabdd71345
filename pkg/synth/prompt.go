package synth

import (
	"fmt"
	"strings"

	"github.com/corpora-ai/go-corpora/pkg/corpora"
)

// NoContextNotice is what the synthesizer sees when retrieval produced no
// chunks. A zero-result search is surfaced explicitly, never papered over
// with unrelated content.
const NoContextNotice = "No context available."

// systemInstruction keeps answers grounded in the retrieved context.
const systemInstruction = `You are an assistant answering questions about a private document corpus. Answer using only the information in the provided context.

Guidelines:
- Use only information from the context below
- Do not add outside knowledge or make assumptions
- If the context is insufficient, say so clearly
- Cite the source documents you used
- Be clear and concise`

// BuildPrompt assembles the completion prompt from a query and its ranked
// context chunks. Each chunk is prefixed with its source document so the
// model can cite it.
func BuildPrompt(query string, chunks []corpora.ScoredChunk) string {
	var b strings.Builder
	b.WriteString(systemInstruction)
	b.WriteString("\n\nContext:\n")
	b.WriteString(FormatContext(chunks))
	fmt.Fprintf(&b, "\n\nQuestion: %s\n\nAnswer:", query)
	return b.String()
}

// FormatContext renders chunks as source-attributed blocks separated by
// blank lines, or the no-context notice when empty.
func FormatContext(chunks []corpora.ScoredChunk) string {
	if len(chunks) == 0 {
		return NoContextNotice
	}
	blocks := make([]string, len(chunks))
	for i, sc := range chunks {
		blocks[i] = fmt.Sprintf("[Source: %s]\n%s", sc.Chunk.Document, sc.Chunk.Text)
	}
	return strings.Join(blocks, "\n\n")
}

// Sources returns the distinct document names behind a set of chunks, in
// first-appearance order.
func Sources(chunks []corpora.Chunk) []string {
	seen := make(map[string]struct{}, len(chunks))
	var names []string
	for _, chunk := range chunks {
		if _, ok := seen[chunk.Document]; ok {
			continue
		}
		seen[chunk.Document] = struct{}{}
		names = append(names, chunk.Document)
	}
	return names
}
