package state

import (
	"context"

	"github.com/aretw0/arbor/pkg/domain"
)

// Cells is the raw storage a transaction mutates.
// Put with value 0 is expected to forget the id.
type Cells interface {
	Get(ctx context.Context, id string) (int, error)
	Put(ctx context.Context, id string, value int) error
}

// Set raises id to value when value is greater than the current value.
func Set(ctx context.Context, c Cells, id string, value int) (*domain.Effect, error) {
	old, err := c.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if value <= old {
		return nil, nil
	}
	return apply(ctx, c, id, old, value)
}

// Unset lowers id to value when value is positive and less than the current value.
func Unset(ctx context.Context, c Cells, id string, value int) (*domain.Effect, error) {
	if value <= 0 {
		return nil, nil
	}
	old, err := c.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if value >= old {
		return nil, nil
	}
	return apply(ctx, c, id, old, value)
}

// Increment adds step to id when the result is greater than the current value.
func Increment(ctx context.Context, c Cells, id string, step int) (*domain.Effect, error) {
	old, err := c.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	next := old + step
	if next <= old {
		return nil, nil
	}
	return apply(ctx, c, id, old, next)
}

// Decrement subtracts step from id, floored at 0, when the result is less than the current value.
func Decrement(ctx context.Context, c Cells, id string, step int) (*domain.Effect, error) {
	old, err := c.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	next := max(old-step, 0)
	if next >= old {
		return nil, nil
	}
	return apply(ctx, c, id, old, next)
}

func apply(ctx context.Context, c Cells, id string, before, after int) (*domain.Effect, error) {
	if err := c.Put(ctx, id, after); err != nil {
		return nil, err
	}
	return &domain.Effect{Before: before, After: after}, nil
}
