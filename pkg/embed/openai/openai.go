// Package openai provides an embed.Provider backed by OpenAI's embeddings
// API, or any OpenAI-compatible endpoint via BaseURL.
package openai

import (
	"context"
	"os"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/corpora-ai/go-corpora/pkg/corpora"
	"github.com/corpora-ai/go-corpora/pkg/embed"
)

// DefaultModel is used when no model is configured. 1536 dimensions.
const DefaultModel = openai.EmbeddingModelTextEmbedding3Small

// Config holds OpenAI embedding configuration.
//
// All fields are optional; the API key falls back to the OPENAI_API_KEY
// environment variable.
type Config struct {
	// API key for authentication.
	APIKey string

	// Base URL for OpenAI-compatible endpoints (Azure, local gateways).
	BaseURL string

	// Embedding model identifier.
	Model string

	// Output dimension override. Only honored by models that support
	// shortened embeddings (text-embedding-3-*).
	Dimensions int
}

// Provider implements embed.Provider using the official OpenAI SDK.
//
// Example:
//
//	provider, err := openai.New(nil) // OPENAI_API_KEY from env
//	vectors, err := provider.EmbedBatch(ctx, texts)
type Provider struct {
	client *openai.Client
	model  openai.EmbeddingModel
	dims   int
}

var _ embed.Provider = (*Provider)(nil)

// New creates a provider. A nil config uses defaults.
func New(config *Config) (*Provider, error) {
	if config == nil {
		config = &Config{}
	}
	apiKey := config.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, corpora.NewErr(corpora.KindConfig, "OPENAI_API_KEY environment variable not set or provided in config")
	}

	clientOptions := []option.RequestOption{option.WithAPIKey(apiKey)}
	if config.BaseURL != "" {
		clientOptions = append(clientOptions, option.WithBaseURL(config.BaseURL))
	}
	client := openai.NewClient(clientOptions...)

	model := openai.EmbeddingModel(config.Model)
	if config.Model == "" {
		model = DefaultModel
	}

	return &Provider{client: &client, model: model, dims: config.Dimensions}, nil
}

// Embed implements embed.Provider.
func (p *Provider) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := p.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch implements embed.Provider. Results come back in input order.
func (p *Provider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	params := openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model: p.model,
	}
	if p.dims > 0 {
		params.Dimensions = openai.Int(int64(p.dims))
	}

	resp, err := p.client.Embeddings.New(ctx, params)
	if err != nil {
		return nil, corpora.WrapErr(corpora.KindProvider, err, "openai embeddings request failed")
	}
	if len(resp.Data) != len(texts) {
		return nil, corpora.Errorf(corpora.KindProvider,
			"openai returned %d embeddings for %d inputs", len(resp.Data), len(texts))
	}

	// The API reports each embedding's input index; order by it rather
	// than trusting response order.
	vectors := make([][]float32, len(texts))
	for _, data := range resp.Data {
		vec := make([]float32, len(data.Embedding))
		for i, v := range data.Embedding {
			vec[i] = float32(v)
		}
		vectors[data.Index] = vec
	}
	return vectors, nil
}
