// Package ollama provides an embed.Provider backed by a local Ollama
// server, for fully offline corpora.
package ollama

import (
	"context"
	"net/http"
	"net/url"

	"github.com/ollama/ollama/api"

	"github.com/corpora-ai/go-corpora/pkg/corpora"
	"github.com/corpora-ai/go-corpora/pkg/embed"
)

// DefaultModel is used when no model is configured. 768 dimensions.
const DefaultModel = "nomic-embed-text"

// Config holds Ollama embedding configuration.
type Config struct {
	// Ollama server host. Empty uses the OLLAMA_HOST environment variable
	// or localhost:11434.
	Host string

	// Embedding model name. Use 'ollama list' to see what's available.
	Model string
}

// Provider implements embed.Provider against an Ollama server.
//
// Example:
//
//	provider, err := ollama.New(&ollama.Config{Model: "nomic-embed-text"})
//	vec, err := provider.Embed(ctx, "what is retrieval?")
type Provider struct {
	client *api.Client
	model  string
}

var _ embed.Provider = (*Provider)(nil)

// New creates a provider. A nil config uses defaults.
func New(config *Config) (*Provider, error) {
	if config == nil {
		config = &Config{}
	}
	model := config.Model
	if model == "" {
		model = DefaultModel
	}

	var client *api.Client
	if config.Host == "" {
		var err error
		client, err = api.ClientFromEnvironment()
		if err != nil {
			return nil, corpora.WrapErr(corpora.KindConfig, err, "creating ollama client from environment")
		}
	} else {
		u, err := url.Parse(config.Host)
		if err != nil {
			return nil, corpora.WrapErr(corpora.KindConfig, err, "invalid ollama host URL")
		}
		client = api.NewClient(u, http.DefaultClient)
	}

	return &Provider{client: client, model: model}, nil
}

// Embed implements embed.Provider.
func (p *Provider) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := p.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch implements embed.Provider. Ollama's embed endpoint accepts a
// batch natively and preserves input order.
func (p *Provider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := p.client.Embed(ctx, &api.EmbedRequest{Model: p.model, Input: texts})
	if err != nil {
		return nil, corpora.WrapErr(corpora.KindProvider, err, "ollama embed request failed")
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, corpora.Errorf(corpora.KindProvider,
			"ollama returned %d embeddings for %d inputs", len(resp.Embeddings), len(texts))
	}

	vectors := make([][]float32, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		vectors[i] = emb
	}
	return vectors, nil
}
