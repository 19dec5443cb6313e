package file

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/aretw0/arbor/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ModelLoader for a single content file.
// Both YAML and JSON files are accepted.
type Loader struct {
	Path string
}

// NewLoader creates a loader for the content file at path.
func NewLoader(path string) *Loader {
	return &Loader{Path: path}
}

// Load reads and decodes the content file.
func (l *Loader) Load(ctx context.Context) (*domain.Model, error) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrContentNotFound, l.Path)
		}
		return nil, fmt.Errorf("failed to read content: %w", err)
	}

	var model domain.Model
	if err := yaml.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("failed to parse content %s: %w", l.Path, err)
	}
	return &model, nil
}
