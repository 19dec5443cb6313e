package memory

import (
	"context"
	"fmt"

	"github.com/aretw0/arbor/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ModelLoader over content already in memory.
type Loader struct {
	model  *domain.Model
	source []byte
}

// NewLoader serves an already-built model.
func NewLoader(model *domain.Model) *Loader {
	return &Loader{model: model}
}

// NewLoaderFromSource parses YAML or JSON content on Load.
// This keeps tests readable: content can be written inline.
func NewLoaderFromSource(source string) *Loader {
	return &Loader{source: []byte(source)}
}

// Load returns the model.
func (l *Loader) Load(ctx context.Context) (*domain.Model, error) {
	if l.model != nil {
		return l.model, nil
	}
	var model domain.Model
	if err := yaml.Unmarshal(l.source, &model); err != nil {
		return nil, fmt.Errorf("failed to parse content: %w", err)
	}
	return &model, nil
}
