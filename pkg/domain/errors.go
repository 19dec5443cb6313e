package domain

import (
	"errors"
	"fmt"
)

// ErrSlotNotFound is returned by a KeyValue when the requested key has never been written.
var ErrSlotNotFound = errors.New("slot not found")

// ErrCorruptSlot is returned when a persisted slot exists but cannot be decoded.
var ErrCorruptSlot = errors.New("corrupt slot")

// ErrStoreClosed is returned for transactions requested after a store was closed.
var ErrStoreClosed = errors.New("store closed")

// ErrNoTransaction is returned when a transaction handle is used outside its run function.
var ErrNoTransaction = errors.New("transaction is not active")

// ErrContentNotFound is returned when no content file exists at the given path.
var ErrContentNotFound = errors.New("content not found")

// ErrStoryletLoop is returned when ambient storylets keep re-qualifying each other
// and a single step never settles.
var ErrStoryletLoop = errors.New("ambient storylets did not settle")

// ContentError describes malformed authored content met during evaluation.
// It is reported to diagnostics sinks and never returned from evaluation itself.
type ContentError struct {
	Reason   string
	Operator Operator
}

func (e *ContentError) Error() string {
	if e.Operator == "" {
		return fmt.Sprintf("content error: %s", e.Reason)
	}
	return fmt.Sprintf("content error: %s (operator %q)", e.Reason, e.Operator)
}
