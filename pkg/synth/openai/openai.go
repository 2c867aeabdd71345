// Package openai provides a synth.Synthesizer backed by an OpenAI-compatible
// chat completions endpoint.
//
// The supported Llama models are served through Groq's OpenAI-compatible
// API; point BaseURL there (or at any other compatible host) and the model
// catalog's provider identifiers are used as-is.
package openai

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"

	"github.com/corpora-ai/go-corpora/pkg/corpora"
	"github.com/corpora-ai/go-corpora/pkg/synth"
)

// Config holds chat completion configuration.
type Config struct {
	// API key. Falls back to the OPENAI_API_KEY environment variable.
	APIKey string

	// Base URL for OpenAI-compatible endpoints, e.g.
	// "https://api.groq.com/openai/v1" for the Llama catalog.
	BaseURL string

	// Temperature overrides the model's default when non-nil.
	Temperature *float64
}

// Synthesizer implements synth.Synthesizer over chat completions.
//
// Example:
//
//	s, err := openai.New(&openai.Config{BaseURL: "https://api.groq.com/openai/v1"})
//	answer, err := s.Synthesize(ctx, query, chunks, synth.DefaultModel)
type Synthesizer struct {
	client *openai.Client
	config *Config
}

var _ synth.Synthesizer = (*Synthesizer)(nil)

// New creates a synthesizer. A nil config uses defaults.
func New(config *Config) (*Synthesizer, error) {
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

	return &Synthesizer{client: &client, config: config}, nil
}

// Synthesize implements synth.Synthesizer.
//
// The chunks given become the answer's attribution set: the model is
// instructed to use only the provided context, so every given chunk counts
// as used.
func (s *Synthesizer) Synthesize(ctx context.Context, query string, chunks []corpora.ScoredChunk, model synth.Model) (*synth.Answer, error) {
	info, err := model.Info()
	if err != nil {
		return nil, err
	}

	temperature := info.Temperature
	if s.config.Temperature != nil {
		temperature = *s.config.Temperature
	}

	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(info.ID),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(synth.BuildPrompt(query, chunks)),
		},
		Temperature: openai.Float(temperature),
	}

	resp, err := s.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, corpora.WrapErr(corpora.KindProvider, err, "chat completion request failed").
			Tag(slog.String("model", info.ID))
	}
	if len(resp.Choices) == 0 {
		return nil, corpora.NewErr(corpora.KindProvider, "chat completion returned no choices")
	}

	used := make([]corpora.Chunk, 0, len(chunks))
	for _, sc := range chunks {
		used = append(used, sc.Chunk)
	}

	return &synth.Answer{
		Text:       strings.TrimSpace(resp.Choices[0].Message.Content),
		ChunksUsed: used,
	}, nil
}
