package pgvector

import (
	"testing"

	"github.com/corpora-ai/go-corpora/pkg/corpora"
)

func TestNewConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{"missing connection string", &Config{Dimension: 8}},
		{"zero dimension", &Config{ConnectionString: "postgres://localhost/db"}},
		{"negative dimension", &Config{ConnectionString: "postgres://localhost/db", Dimension: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			if !corpora.IsKind(err, corpora.KindConfig) {
				t.Errorf("New error = %v, want config kind", err)
			}
		})
	}
}
