package runtime

import (
	"context"

	"github.com/aretw0/arbor/pkg/domain"
)

// Resolve walks a conditional chain and returns the first value whose
// condition holds. ok is false when the chain runs out, which callers treat
// as "no value".
func Resolve[V any](ctx context.Context, e *Engine, r Reader, c *domain.Conditional[V]) (v V, ok bool, err error) {
	for c != nil {
		if c.Condition == nil {
			return c.Value, true, nil
		}
		holds, err := e.Logical(ctx, r, *c.Condition)
		if err != nil {
			return v, false, err
		}
		if holds {
			return c.Value, true, nil
		}
		c = c.Next
	}
	return v, false, nil
}
