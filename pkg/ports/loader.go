package ports

import (
	"context"

	"github.com/aretw0/arbor/pkg/domain"
)

// ModelLoader defines how the engine retrieves its content.
// Content is loaded once per engine and never mutated afterwards.
type ModelLoader interface {
	Load(ctx context.Context) (*domain.Model, error)
}
