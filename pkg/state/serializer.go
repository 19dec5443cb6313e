package state

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/domain"
)

// Driver is the store-specific half of a transaction: how to open a working
// copy, make it the baseline, or throw it away.
type Driver[T any] interface {
	Begin(ctx context.Context) (T, error)
	Commit(ctx context.Context, tx T) error
	Rollback(ctx context.Context, tx T) error
}

// Serializer runs transactions against a Driver one at a time, in the order
// they were requested. A single worker goroutine drains the queue and exits
// when it is empty.
//
// A request whose context is done before its turn comes is skipped and
// reports the context error. Once begun, a transaction runs to completion:
// run, then commit or rollback, with cancellation detached.
type Serializer[T any] struct {
	driver Driver[T]
	logger *slog.Logger
	hooks  domain.LifecycleHooks

	mu      sync.Mutex
	queue   []*request[T]
	running bool
	idle    chan struct{}
	closed  bool
}

type request[T any] struct {
	ctx    context.Context
	run    func(context.Context, T) error
	result chan error
}

// SerializerOption configures a Serializer.
type SerializerOption func(*serializerConfig)

type serializerConfig struct {
	logger *slog.Logger
	hooks  domain.LifecycleHooks
}

// WithLogger sets the logger used for rollback failures.
func WithLogger(logger *slog.Logger) SerializerOption {
	return func(c *serializerConfig) {
		c.logger = logger
	}
}

// WithHooks registers lifecycle hooks; only OnTransaction is used.
func WithHooks(hooks domain.LifecycleHooks) SerializerOption {
	return func(c *serializerConfig) {
		c.hooks = hooks
	}
}

// NewSerializer creates a serializer over driver.
func NewSerializer[T any](driver Driver[T], opts ...SerializerOption) *Serializer[T] {
	cfg := serializerConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = logging.NewNop()
	}
	return &Serializer[T]{
		driver: driver,
		logger: cfg.logger,
		hooks:  cfg.hooks,
	}
}

// Do queues run and blocks until its transaction has finished.
func (s *Serializer[T]) Do(ctx context.Context, run func(context.Context, T) error) error {
	req := &request[T]{ctx: ctx, run: run, result: make(chan error, 1)}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.ErrStoreClosed
	}
	s.queue = append(s.queue, req)
	if !s.running {
		s.running = true
		s.idle = make(chan struct{})
		go s.drain(s.idle)
	}
	s.mu.Unlock()

	return <-req.result
}

// Close rejects new requests, fails queued ones with domain.ErrStoreClosed and
// waits for the in-flight transaction, if any.
func (s *Serializer[T]) Close() {
	s.mu.Lock()
	s.closed = true
	idle := s.idle
	running := s.running
	s.mu.Unlock()

	if running {
		<-idle
	}
}

func (s *Serializer[T]) drain(idle chan struct{}) {
	defer close(idle)
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.running = false
			s.mu.Unlock()
			return
		}
		req := s.queue[0]
		s.queue[0] = nil
		s.queue = s.queue[1:]
		closed := s.closed
		s.mu.Unlock()

		if closed {
			req.result <- domain.ErrStoreClosed
			continue
		}
		req.result <- s.execute(req)
	}
}

func (s *Serializer[T]) execute(req *request[T]) error {
	if err := req.ctx.Err(); err != nil {
		return err
	}

	ctx := context.WithoutCancel(req.ctx)
	start := time.Now()

	tx, err := s.driver.Begin(ctx)
	if err != nil {
		s.report(ctx, domain.OutcomeFailed, start)
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := s.call(ctx, req.run, tx); err != nil {
		s.rollback(ctx, tx)
		s.report(ctx, domain.OutcomeRolledBack, start)
		return err
	}

	if err := s.driver.Commit(ctx, tx); err != nil {
		s.rollback(ctx, tx)
		s.report(ctx, domain.OutcomeFailed, start)
		return fmt.Errorf("commit transaction: %w", err)
	}

	s.report(ctx, domain.OutcomeCommitted, start)
	return nil
}

func (s *Serializer[T]) call(ctx context.Context, run func(context.Context, T) error, tx T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("transaction panicked: %v", r)
		}
	}()
	return run(ctx, tx)
}

func (s *Serializer[T]) rollback(ctx context.Context, tx T) {
	if err := s.driver.Rollback(ctx, tx); err != nil {
		s.logger.ErrorContext(ctx, "rollback failed", "error", err)
	}
}

func (s *Serializer[T]) report(ctx context.Context, outcome domain.TransactionOutcome, start time.Time) {
	if s.hooks.OnTransaction == nil {
		return
	}
	s.hooks.OnTransaction(ctx, &domain.TransactionEvent{
		EventBase: domain.NewEventBase(domain.EventTransaction),
		Outcome:   outcome,
		Duration:  time.Since(start),
	})
}
