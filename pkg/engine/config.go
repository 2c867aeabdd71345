package engine

import (
	"os"

	"github.com/goccy/go-yaml"

	"github.com/corpora-ai/go-corpora/pkg/channel"
	"github.com/corpora-ai/go-corpora/pkg/chunker"
	"github.com/corpora-ai/go-corpora/pkg/corpora"
	"github.com/corpora-ai/go-corpora/pkg/embed"
	"github.com/corpora-ai/go-corpora/pkg/index"
	"github.com/corpora-ai/go-corpora/pkg/synth"
)

// DefaultTopK is how many chunks a query retrieves when the caller does not
// override it.
const DefaultTopK = 3

// Settings are the serializable tuning knobs, loadable from YAML.
type Settings struct {
	// ChunkSize is the maximum chunk length in runes.
	ChunkSize int `yaml:"chunk_size"`

	// ChunkOverlap is how many runes consecutive chunks share.
	ChunkOverlap int `yaml:"chunk_overlap"`

	// TopK is the default number of chunks retrieved per query.
	TopK int `yaml:"top_k"`

	// Model is the default synthesis model selector.
	Model string `yaml:"model"`
}

// DefaultSettings returns the engine's built-in defaults.
func DefaultSettings() Settings {
	return Settings{
		ChunkSize:    chunker.DefaultSize,
		ChunkOverlap: chunker.DefaultOverlap,
		TopK:         DefaultTopK,
		Model:        string(synth.DefaultModel),
	}
}

// LoadSettings reads settings from a YAML file, filling absent fields with
// defaults. Validation happens in New, not here.
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		return settings, corpora.WrapErr(corpora.KindConfig, err, "failed to read settings file")
	}
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return settings, corpora.WrapErr(corpora.KindConfig, err, "failed to parse settings file")
	}
	return settings, nil
}

// Config assembles an Engine: its collaborators plus tuning settings.
//
// Embedder and Index are required. Synthesizer is optional; without one,
// Query returns retrieved context with an empty answer. Bus defaults to an
// in-process channel and Settings to DefaultSettings.
type Config struct {
	// Embedder turns text into vectors. Required.
	Embedder embed.Provider

	// Index stores and searches vectors. Required.
	Index index.Index

	// Synthesizer produces answers from retrieved context. Optional.
	Synthesizer synth.Synthesizer

	// Bus carries messages between pipeline stages. Defaults to an
	// in-process channel.
	Bus channel.Bus

	// Metrics receives engine instrumentation. Optional.
	Metrics *Metrics

	// Settings are the tuning knobs. Zero fields fall back to defaults.
	Settings Settings
}

// withDefaults fills optional fields, returning a copy.
func (c Config) withDefaults() Config {
	defaults := DefaultSettings()
	if c.Settings.ChunkSize == 0 {
		c.Settings.ChunkSize = defaults.ChunkSize
	}
	if c.Settings.ChunkOverlap == 0 {
		c.Settings.ChunkOverlap = defaults.ChunkOverlap
	}
	if c.Settings.TopK == 0 {
		c.Settings.TopK = defaults.TopK
	}
	if c.Settings.Model == "" {
		c.Settings.Model = defaults.Model
	}
	if c.Bus == nil {
		c.Bus = channel.NewInProc()
	}
	return c
}
