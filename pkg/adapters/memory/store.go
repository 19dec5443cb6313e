package memory

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/aretw0/arbor/pkg/state"
)

// CommitHook observes a snapshot that is about to become the baseline.
// Returning an error aborts the commit and rolls the transaction back.
type CommitHook func(ctx context.Context, snapshot domain.Snapshot) error

// Store implements ports.Store in memory.
// Safe for concurrent use; transactions are serialized in request order.
type Store struct {
	mu       sync.RWMutex
	baseline domain.Snapshot

	onCommit   CommitHook
	logger     *slog.Logger
	hooks      domain.LifecycleHooks
	serializer *state.Serializer[*Transaction]
}

// Option configures a Store.
type Option func(*Store)

// WithInitial seeds the baseline.
func WithInitial(snapshot domain.Snapshot) Option {
	return func(s *Store) {
		s.baseline = snapshot.Clone()
	}
}

// WithCommitHook runs hook before every commit replaces the baseline.
func WithCommitHook(hook CommitHook) Option {
	return func(s *Store) {
		s.onCommit = hook
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithHooks registers lifecycle hooks (transaction outcomes).
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Store) {
		s.hooks = hooks
	}
}

// NewStore creates a new in-memory store with an empty baseline.
func NewStore(opts ...Option) *Store {
	s := &Store{baseline: domain.NewSnapshot()}
	for _, opt := range opts {
		opt(s)
	}

	serializerOpts := []state.SerializerOption{state.WithHooks(s.hooks)}
	if s.logger != nil {
		serializerOpts = append(serializerOpts, state.WithLogger(s.logger))
	}
	s.serializer = state.NewSerializer[*Transaction](s, serializerOpts...)
	return s
}

// WithTransaction runs run against a private copy of the baseline.
func (s *Store) WithTransaction(ctx context.Context, run func(context.Context, ports.Transaction) error) error {
	return s.serializer.Do(ctx, func(ctx context.Context, tx *Transaction) error {
		defer tx.end()
		return run(ctx, tx)
	})
}

// Snapshot returns a deep copy of the committed baseline.
func (s *Store) Snapshot() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.baseline.Clone()
}

// Close rejects further transactions once the in-flight one finishes.
func (s *Store) Close() error {
	s.serializer.Close()
	return nil
}

// Begin implements state.Driver.
func (s *Store) Begin(ctx context.Context) (*Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &Transaction{working: s.baseline.Clone()}, nil
}

// Commit implements state.Driver.
func (s *Store) Commit(ctx context.Context, tx *Transaction) error {
	next := tx.working.Clone()
	if s.onCommit != nil {
		if err := s.onCommit(ctx, next.Clone()); err != nil {
			return err
		}
	}
	s.mu.Lock()
	s.baseline = next
	s.mu.Unlock()
	return nil
}

// Rollback implements state.Driver. The working copy is simply dropped.
func (s *Store) Rollback(ctx context.Context, tx *Transaction) error {
	return nil
}
