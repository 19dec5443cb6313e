package ports

import (
	"context"

	"github.com/aretw0/arbor/pkg/domain"
)

// Store owns a player's state and serializes access to it.
//
// WithTransaction runs one transaction at a time, in request order. If run
// returns an error (or panics) the working state is discarded and the error is
// returned to this caller only; otherwise the working state becomes the new
// baseline. Results are returned by capturing them in the closure.
type Store interface {
	WithTransaction(ctx context.Context, run func(context.Context, Transaction) error) error
}

// Transaction is the read/write view of a Store inside WithTransaction.
// Every call is a potential suspension point: implementations may be remote.
type Transaction interface {
	// Get returns the stored value of id, or 0 when absent.
	Get(ctx context.Context, id string) (int, error)

	// Set raises id to value. It reports an effect only if value exceeds the current value.
	Set(ctx context.Context, id string, value int) (*domain.Effect, error)

	// Unset lowers id to value. It reports an effect only if value is positive
	// and below the current value.
	Unset(ctx context.Context, id string, value int) (*domain.Effect, error)

	// Increment adds step to id when that raises the value.
	Increment(ctx context.Context, id string, step int) (*domain.Effect, error)

	// Decrement subtracts step from id, floored at 0, when that lowers the value.
	Decrement(ctx context.Context, id string, step int) (*domain.Effect, error)

	// GetLocation returns the current location, if any.
	GetLocation(ctx context.Context) (string, bool, error)

	// SetLocation records the location and counts the visit under its id.
	SetLocation(ctx context.Context, id string) error

	// UnsetLocation forgets the current location.
	UnsetLocation(ctx context.Context) error

	// GetStorylet returns the pending storylet, if any.
	GetStorylet(ctx context.Context) (string, bool, error)

	// SetStorylet commits any pending storylet, then records id as pending.
	SetStorylet(ctx context.Context, id string) error

	// CommitStorylet counts a visit to the pending storylet and clears it.
	CommitStorylet(ctx context.Context) error

	// Clear resets the working state to empty.
	Clear(ctx context.Context) error
}

// KeyValue is the minimal persistence collaborator: opaque values in named slots.
type KeyValue interface {
	// Get returns the value stored under key.
	// Returns domain.ErrSlotNotFound if the key was never written or was deleted.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
