package memory

import (
	"context"
	"sync/atomic"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/state"
)

// Transaction is a working copy of a Store's baseline.
// It is only valid inside the run function it was handed to.
type Transaction struct {
	working domain.Snapshot
	ended   atomic.Bool
}

func (t *Transaction) end() {
	t.ended.Store(true)
}

func (t *Transaction) check() error {
	if t.ended.Load() {
		return domain.ErrNoTransaction
	}
	return nil
}

// Get implements state.Cells.
func (t *Transaction) Get(ctx context.Context, id string) (int, error) {
	if err := t.check(); err != nil {
		return 0, err
	}
	return t.working.Qualities[id], nil
}

// Put implements state.Cells. A zero value forgets the id.
func (t *Transaction) Put(ctx context.Context, id string, value int) error {
	if err := t.check(); err != nil {
		return err
	}
	if value == 0 {
		delete(t.working.Qualities, id)
		return nil
	}
	t.working.Qualities[id] = value
	return nil
}

func (t *Transaction) Set(ctx context.Context, id string, value int) (*domain.Effect, error) {
	return state.Set(ctx, t, id, value)
}

func (t *Transaction) Unset(ctx context.Context, id string, value int) (*domain.Effect, error) {
	return state.Unset(ctx, t, id, value)
}

func (t *Transaction) Increment(ctx context.Context, id string, step int) (*domain.Effect, error) {
	return state.Increment(ctx, t, id, step)
}

func (t *Transaction) Decrement(ctx context.Context, id string, step int) (*domain.Effect, error) {
	return state.Decrement(ctx, t, id, step)
}

func (t *Transaction) GetLocation(ctx context.Context) (string, bool, error) {
	if err := t.check(); err != nil {
		return "", false, err
	}
	return t.working.Location, t.working.Location != "", nil
}

// SetLocation records the location and bumps its visit counter by one.
func (t *Transaction) SetLocation(ctx context.Context, id string) error {
	if err := t.check(); err != nil {
		return err
	}
	t.working.Location = id
	return t.Put(ctx, id, t.working.Qualities[id]+1)
}

func (t *Transaction) UnsetLocation(ctx context.Context) error {
	if err := t.check(); err != nil {
		return err
	}
	t.working.Location = ""
	return nil
}

func (t *Transaction) GetStorylet(ctx context.Context) (string, bool, error) {
	if err := t.check(); err != nil {
		return "", false, err
	}
	return t.working.Storylet, t.working.Storylet != "", nil
}

func (t *Transaction) SetStorylet(ctx context.Context, id string) error {
	if err := t.CommitStorylet(ctx); err != nil {
		return err
	}
	t.working.Storylet = id
	return nil
}

func (t *Transaction) CommitStorylet(ctx context.Context) error {
	if err := t.check(); err != nil {
		return err
	}
	if t.working.Storylet == "" {
		return nil
	}
	if _, err := t.Increment(ctx, t.working.Storylet, 1); err != nil {
		return err
	}
	t.working.Storylet = ""
	return nil
}

func (t *Transaction) Clear(ctx context.Context) error {
	if err := t.check(); err != nil {
		return err
	}
	t.working = domain.NewSnapshot()
	return nil
}
