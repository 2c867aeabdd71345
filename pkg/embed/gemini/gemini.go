// Package gemini provides an embed.Provider backed by Google's Gemini
// embedding models.
package gemini

import (
	"context"
	"os"

	"google.golang.org/genai"

	"github.com/corpora-ai/go-corpora/pkg/corpora"
	"github.com/corpora-ai/go-corpora/pkg/embed"
)

// DefaultModel is used when no model is configured. 768 dimensions.
const DefaultModel = "text-embedding-004"

// Config holds Gemini embedding configuration.
type Config struct {
	// API key. Falls back to the GOOGLE_API_KEY environment variable.
	APIKey string

	// Embedding model identifier.
	Model string

	// Output dimension override, for models supporting truncated output.
	Dimensions int
}

// Provider implements embed.Provider using the Google GenAI SDK.
type Provider struct {
	client *genai.Client
	model  string
	dims   int
}

var _ embed.Provider = (*Provider)(nil)

// New creates a provider. A nil config uses defaults.
func New(ctx context.Context, config *Config) (*Provider, error) {
	if config == nil {
		config = &Config{}
	}
	apiKey := config.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GOOGLE_API_KEY")
	}
	if apiKey == "" {
		return nil, corpora.NewErr(corpora.KindConfig, "GOOGLE_API_KEY environment variable not set or provided in config")
	}
	model := config.Model
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, corpora.WrapErr(corpora.KindProvider, err, "creating genai client")
	}

	return &Provider{client: client, model: model, dims: config.Dimensions}, nil
}

// Embed implements embed.Provider.
func (p *Provider) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := p.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch implements embed.Provider.
func (p *Provider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = genai.NewContentFromText(text, genai.RoleUser)
	}

	var cfg *genai.EmbedContentConfig
	if p.dims > 0 {
		dims := int32(p.dims)
		cfg = &genai.EmbedContentConfig{OutputDimensionality: &dims}
	}

	resp, err := p.client.Models.EmbedContent(ctx, p.model, contents, cfg)
	if err != nil {
		return nil, corpora.WrapErr(corpora.KindProvider, err, "gemini embed request failed")
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, corpora.Errorf(corpora.KindProvider,
			"gemini returned %d embeddings for %d inputs", len(resp.Embeddings), len(texts))
	}

	vectors := make([][]float32, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		vectors[i] = emb.Values
	}
	return vectors, nil
}
