package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/adapters/memory"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
)

// Store is a memory store whose baseline is mirrored to one KeyValue slot.
//
// On Open the slot is read back; missing or unreadable data yields an empty
// baseline. After every successful transaction the new baseline is written
// to the slot before it replaces the old one, so a failed write rolls the
// transaction back.
type Store struct {
	mem    *memory.Store
	kv     ports.KeyValue
	key    string
	isNew  bool
	logger *slog.Logger
}

// Option configures a persisting Store.
type Option func(*config)

type config struct {
	logger *slog.Logger
	hooks  domain.LifecycleHooks
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithHooks registers lifecycle hooks (transaction outcomes).
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(c *config) {
		c.hooks = hooks
	}
}

// Open rehydrates the slot key from kv.
// Only a failure to reach kv is returned; corrupt data is not an error.
func Open(ctx context.Context, kv ports.KeyValue, key string, opts ...Option) (*Store, error) {
	cfg := config{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Store{kv: kv, key: key, logger: cfg.logger}

	initial := domain.NewSnapshot()
	data, err := kv.Get(ctx, key)
	switch {
	case errors.Is(err, domain.ErrSlotNotFound):
		s.isNew = true
	case errors.Is(err, domain.ErrCorruptSlot):
		s.logger.DebugContext(ctx, "discarding unreadable slot", "slot", key, "error", err)
	case err != nil:
		return nil, fmt.Errorf("failed to read slot %q: %w", key, err)
	default:
		initial = Decode(data)
	}

	s.mem = memory.NewStore(
		memory.WithInitial(initial),
		memory.WithCommitHook(s.persist),
		memory.WithLogger(cfg.logger),
		memory.WithHooks(cfg.hooks),
	)
	return s, nil
}

// IsNew reports whether the slot was empty when the store was opened.
func (s *Store) IsNew() bool {
	return s.isNew
}

// Key returns the slot this store mirrors.
func (s *Store) Key() string {
	return s.key
}

// WithTransaction implements ports.Store.
func (s *Store) WithTransaction(ctx context.Context, run func(context.Context, ports.Transaction) error) error {
	return s.mem.WithTransaction(ctx, run)
}

// Snapshot returns a deep copy of the committed baseline.
func (s *Store) Snapshot() domain.Snapshot {
	return s.mem.Snapshot()
}

// Close stops accepting transactions. The KeyValue is left open; it belongs to the caller.
func (s *Store) Close() error {
	return s.mem.Close()
}

func (s *Store) persist(ctx context.Context, snapshot domain.Snapshot) error {
	data, err := Encode(snapshot)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("failed to write slot %q: %w", s.key, err)
	}
	s.logger.DebugContext(ctx, "slot saved", "slot", s.key, "qualities", len(snapshot.Qualities))
	return nil
}

// Encode serializes a snapshot as {location?, storylet?, qualities},
// dropping qualities that are not positive.
func Encode(snapshot domain.Snapshot) ([]byte, error) {
	data, err := json.Marshal(snapshot.Compact())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return data, nil
}
